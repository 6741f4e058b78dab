//go:build unix

package lock

import (
	"os"

	"golang.org/x/sys/unix"
)

func acquire(f *os.File, mode Mode) error {
	how := unix.LOCK_SH
	if mode == Exclusive {
		how = unix.LOCK_EX
	}
	return unix.Flock(int(f.Fd()), how)
}

func release(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

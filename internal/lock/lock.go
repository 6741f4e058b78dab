// Package lock provides advisory file locking for the shared-read /
// exclusive-write discipline UCI's load and commit paths require.
package lock

import "os"

// Mode selects the advisory lock flavor.
type Mode int

const (
	Shared Mode = iota
	Exclusive
)

// Lock holds an advisory lock on an open file for the duration of a
// read-modify-write cycle.
type Lock struct {
	f *os.File
}

// Acquire takes an advisory lock of the given mode on f, blocking until
// it is available. The lock is released by calling Release, or
// implicitly when f is closed.
func Acquire(f *os.File, mode Mode) (*Lock, error) {
	if err := acquire(f, mode); err != nil {
		return nil, err
	}
	return &Lock{f: f}, nil
}

// Release unlocks the file. Safe to call multiple times.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := release(l.f)
	l.f = nil
	return err
}

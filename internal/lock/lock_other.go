//go:build !unix

package lock

import "os"

// acquire is a no-op on platforms without flock. UCI's advisory-locking
// guarantees only hold between cooperating processes on Unix; this
// keeps non-Unix builds functional for a single-process caller.
func acquire(f *os.File, mode Mode) error { return nil }

func release(f *os.File) error { return nil }

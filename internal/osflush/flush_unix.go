//go:build unix && !darwin

package osflush

import (
	"errors"

	"golang.org/x/sys/unix"
)

// flushRange msyncs the pages covering data[off:off+n].
//
// On Linux and the BSDs msync() accepts any page-aligned range inside the
// mapping, so only the covering pages are written.
func flushRange(data []byte, off, n int) error {
	return msync(pageSpan(data, off, n, unix.Getpagesize()))
}

// msync flushes a memory region to disk, restarting when interrupted by a signal.
func msync(b []byte) error {
	for {
		err := unix.Msync(b, unix.MS_SYNC)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

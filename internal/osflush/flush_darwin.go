//go:build darwin

package osflush

import (
	"errors"

	"golang.org/x/sys/unix"
)

// flushRange flushes the mapping holding data[off:off+n].
//
// On macOS all of data is synced, starting from the page holding data[0].
// The kernel only writes pages that are actually dirty.
func flushRange(data []byte, _, _ int) error {
	span := pageSpan(data, 0, len(data), unix.Getpagesize())
	for {
		err := unix.Msync(span, unix.MS_SYNC)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

//go:build unix

package mmfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Unmap releases the mapping. Calling it more than once is a no-op.
func (v *View) Unmap() error {
	if v == nil || v.Data == nil {
		return nil
	}
	err := unix.Munmap(v.Data)
	v.Data = nil
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

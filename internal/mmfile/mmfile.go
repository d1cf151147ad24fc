// Package mmfile provides platform-specific helpers for read-write shared
// mappings of persistent-memory files and devices.
package mmfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnsupported is returned where shared file mappings are not available.
var ErrUnsupported = errors.New("mmfile: shared mappings not supported on this platform")

// View is a read-write MAP_SHARED mapping of a file.
type View struct {
	Data []byte
	// Sync reports that the kernel accepted MAP_SYNC, so page faults on the
	// mapping keep file metadata durable and CPU cache flushes suffice.
	Sync bool
}

// Map maps the first length bytes of f read-write and shared.
//
// When trySync is set the mapping is first attempted with MAP_SYNC; if the
// file system refuses it, a plain shared mapping is returned with Sync false.
func Map(f *os.File, length int, trySync bool) (*View, error) {
	if length <= 0 {
		return nil, fmt.Errorf("mmfile: invalid mapping length %d", length)
	}
	return mapShared(f, length, trySync)
}

// Package osflush wraps the operating system primitive that writes dirty pages
// of a shared file mapping back to the backing file.
//
// Callers pass a slice of a mapping plus an offset and length inside it. The
// range is widened to the pages covering it, measured from the absolute
// address, before it is handed to the kernel (msync on Unix, FlushViewOfFile
// on Windows). The slice itself need not start on a page boundary.
package osflush

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/joshuapare/pmemkit/internal/buf"
)

// ErrUnsupported is returned on platforms without a mapping flush primitive.
var ErrUnsupported = errors.New("osflush: unsupported platform")

// FlushFileBuffers flushes data[off:off+n] of a shared mapping to its backing file.
//
// data must lie inside a single shared mapping; the page holding data[off] and
// the pages up to data[off+n-1] are flushed. A zero-length range is a no-op.
func FlushFileBuffers(data []byte, off, n int) error {
	if _, err := buf.CheckRange(len(data), off, n); err != nil {
		return fmt.Errorf("osflush: %w", err)
	}
	if n == 0 {
		return nil
	}
	return flushRange(data, off, n)
}

// pageSpan returns the bytes from the start of the page holding data[off]
// through data[off+n-1]. n must be positive. The span may begin before
// data[0], but never before the page-aligned start of the mapping.
func pageSpan(data []byte, off, n, pageSize int) []byte {
	p := unsafe.Pointer(&data[off])
	delta := int(uintptr(p) & uintptr(pageSize-1))
	return unsafe.Slice((*byte)(unsafe.Add(p, -delta)), delta+n)
}

//go:build windows

package osflush

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// flushRange flushes the pages covering data[off:off+n] using FlushViewOfFile.
func flushRange(data []byte, off, n int) error {
	span := pageSpan(data, off, n, os.Getpagesize())
	return windows.FlushViewOfFile(uintptr(unsafe.Pointer(unsafe.SliceData(span))), uintptr(len(span)))
}

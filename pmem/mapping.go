package pmem

import "unsafe"

// Mapping is the read-only view of a persistent-memory mapping that a deep
// sync needs. Granularity and FileType must not change over its lifetime.
type Mapping interface {
	// Bytes returns the mapped range. It must lie inside a single shared
	// mapping but need not start on a page boundary.
	Bytes() []byte
	Granularity() Granularity
	FileType() FileType
	// DeviceID is the st_rdev of the backing character device. Only
	// meaningful for FileTypeDeviceDax.
	DeviceID() uint64
}

// bounds returns the start address and length of m.
func bounds(m Mapping) (start, length uintptr) {
	b := m.Bytes()
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b))
}

// validateRange checks that [addr, addr+size) lies inside m.
//
// An address at or past the end of the mapping is rejected even when size is
// zero, so an empty or nil mapping accepts nothing.
func validateRange(m Mapping, addr, size uintptr) error {
	if m == nil {
		return ErrSyncRange
	}
	start, length := bounds(m)
	end := start + length
	if addr < start || addr >= end {
		return ErrSyncRange
	}
	if size > end-addr {
		return ErrSyncRange
	}
	return nil
}

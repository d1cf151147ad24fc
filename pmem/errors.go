package pmem

import (
	"errors"
	"fmt"
)

var (
	// ErrSyncRange indicates the requested range is not fully inside the mapping.
	ErrSyncRange = errors.New("pmem: sync range not contained in mapping")
	// ErrUnsupportedFileType indicates the backing store is neither a regular file nor device DAX.
	ErrUnsupportedFileType = errors.New("pmem: unsupported file type")
	// ErrIO indicates an OS flush, region lookup, open or write failed.
	ErrIO = errors.New("pmem: i/o error")
	// ErrUnsupportedGranularity indicates an unknown granularity value.
	ErrUnsupportedGranularity = errors.New("pmem: unsupported granularity")
	// ErrGranularityNotSupported indicates the mapping cannot provide the required granularity.
	ErrGranularityNotSupported = errors.New("pmem: required granularity not supported by mapping")
)

// SyncError describes an operational failure during a deep sync.
//
// It matches both ErrIO and the underlying cause under errors.Is.
type SyncError struct {
	Op   string // "msync", "region", "open", "write" or "close"
	Path string // control file path, if any
	Err  error
}

func (e *SyncError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("pmem: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("pmem: %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// Code is the result classification of a deep sync.
type Code int

const (
	Success Code = iota
	ESyncRange
	EUnsupportedFileType
	EIO
)

func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case ESyncRange:
		return "E_SYNC_RANGE"
	case EUnsupportedFileType:
		return "E_UNSUPPORTED_FILE_TYPE"
	case EIO:
		return "E_IO"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// CodeOf classifies err. Errors that are not one of the deep-sync sentinels
// are reported as EIO.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrSyncRange):
		return ESyncRange
	case errors.Is(err, ErrUnsupportedFileType):
		return EUnsupportedFileType
	default:
		return EIO
	}
}

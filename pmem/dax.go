package pmem

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/joshuapare/pmemkit/pmem/region"
)

// deepFlushCommand is written to a region's deep_flush file.
var deepFlushCommand = []byte{'1'}

// daxDeepSync flushes the backing store of m over [addr, addr+size).
// The range has already been validated.
func (s *Syncer) daxDeepSync(m Mapping, addr, size uintptr) error {
	switch t := m.FileType(); t {
	case FileTypeRegular:
		start, _ := bounds(m)
		if err := s.files.FlushFileBuffers(m.Bytes(), int(addr-start), int(size)); err != nil {
			return &SyncError{Op: "msync", Err: err}
		}
		return nil
	case FileTypeDeviceDax:
		return s.deepFlushRegion(m.DeviceID())
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFileType, t)
	}
}

// deepFlushRegion triggers a hardware flush of the region owning devID.
func (s *Syncer) deepFlushRegion(devID uint64) (err error) {
	id, err := s.resolver.Find(devID)
	if err != nil {
		return &SyncError{Op: "region", Err: err}
	}

	path := filepath.Join(s.sysfsRoot, region.DeepFlushPath(id))
	f, err := s.openControl(path)
	if err != nil {
		return &SyncError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &SyncError{Op: "close", Path: path, Err: cerr}
		}
	}()

	n, err := f.Write(deepFlushCommand)
	if err != nil {
		return &SyncError{Op: "write", Path: path, Err: err}
	}
	if n != len(deepFlushCommand) {
		return &SyncError{Op: "write", Path: path, Err: io.ErrShortWrite}
	}
	return nil
}

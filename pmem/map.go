package pmem

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/joshuapare/pmemkit/internal/logger"
	"github.com/joshuapare/pmemkit/internal/mmfile"
	"github.com/joshuapare/pmemkit/pmem/region"
)

// Map is a read-write shared mapping of a regular file or device DAX.
// It implements Mapping.
type Map struct {
	f     *os.File
	view  *mmfile.View
	path  string
	ftype FileType
	gran  Granularity
	devID uint64
}

type mapConfig struct {
	length   int
	required Granularity
	sysfs    *region.Sysfs
}

// MapOption configures Open.
type MapOption func(*mapConfig)

// WithLength maps only the first n bytes. By default regular files are
// mapped whole and device DAX is mapped to its sysfs-reported size.
func WithLength(n int) MapOption {
	return func(c *mapConfig) { c.length = n }
}

// WithRequiredGranularity makes Open fail with ErrGranularityNotSupported if
// the mapping's effective granularity is weaker than g.
func WithRequiredGranularity(g Granularity) MapOption {
	return func(c *mapConfig) { c.required = g }
}

// WithSysfs sets the sysfs tree used to classify devices and detect eADR.
func WithSysfs(s *region.Sysfs) MapOption {
	return func(c *mapConfig) { c.sysfs = s }
}

// Open maps path read-write and determines its file type and effective
// granularity.
//
// Regular files are mapped with MAP_SYNC where the file system supports it
// (cache-line granularity, or byte granularity when every region is eADR)
// and fall back to page granularity otherwise.
// Device DAX is cache-line granular, or byte granular when its region's
// persistence domain includes the CPU caches.
func Open(path string, opts ...MapOption) (*Map, error) {
	cfg := mapConfig{required: GranularityPage}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sysfs == nil {
		cfg.sysfs = region.NewSysfs("/")
	}

	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFileType, path)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	ftype, devID, err := DetectFileType(f, cfg.sysfs)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if ftype == FileTypeUnsupported {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}

	length := cfg.length
	if length == 0 {
		length, err = defaultLength(f, ftype, devID, cfg.sysfs)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	view, err := mmfile.Map(f, length, ftype == FileTypeRegular)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	gran := effectiveGranularity(ftype, view.Sync, devID, cfg.sysfs)
	if gran > cfg.required {
		_ = view.Unmap()
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is %v, need %v", ErrGranularityNotSupported, path, gran, cfg.required)
	}

	logger.Debug("mapped", "path", path, "file_type", ftype, "granularity", gran, "length", length)

	return &Map{
		f:     f,
		view:  view,
		path:  path,
		ftype: ftype,
		gran:  gran,
		devID: devID,
	}, nil
}

func defaultLength(f *os.File, ftype FileType, devID uint64, sysfs *region.Sysfs) (int, error) {
	var size int64
	switch ftype {
	case FileTypeDeviceDax:
		n, err := sysfs.DeviceSize(devID)
		if err != nil {
			return 0, fmt.Errorf("device dax size: %w", err)
		}
		size = n
	default:
		st, err := f.Stat()
		if err != nil {
			return 0, err
		}
		size = st.Size()
	}
	if size <= 0 {
		return 0, fmt.Errorf("pmem: empty mapping source: %s", f.Name())
	}
	if size > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("pmem: %s too large to map (%d bytes)", f.Name(), size)
	}
	return int(size), nil
}

func effectiveGranularity(ftype FileType, mapSync bool, devID uint64, sysfs *region.Sysfs) Granularity {
	switch ftype {
	case FileTypeDeviceDax:
		id, err := sysfs.Find(devID)
		if err != nil {
			return GranularityCacheLine
		}
		if domain, err := sysfs.PersistenceDomain(id); err == nil && domain == "cpu_cache" {
			return GranularityByte
		}
		return GranularityCacheLine
	case FileTypeRegular:
		if !mapSync {
			return GranularityPage
		}
		if sysfs.AutoFlush() {
			return GranularityByte
		}
		return GranularityCacheLine
	}
	return GranularityPage
}

// Bytes returns the mapped range. It is nil after Close.
func (m *Map) Bytes() []byte {
	if m.view == nil {
		return nil
	}
	return m.view.Data
}

func (m *Map) Granularity() Granularity { return m.gran }

func (m *Map) FileType() FileType { return m.ftype }

func (m *Map) DeviceID() uint64 { return m.devID }

// Path returns the path the mapping was opened from.
func (m *Map) Path() string { return m.path }

// Len returns the mapping length in bytes.
func (m *Map) Len() int { return len(m.Bytes()) }

// DeepSync deep-syncs n bytes at offset off of the mapping using DefaultSyncer.
func (m *Map) DeepSync(off, n int) error {
	return m.DeepSyncWith(DefaultSyncer(), off, n)
}

// DeepSyncWith is DeepSync with an explicit Syncer.
func (m *Map) DeepSyncWith(s *Syncer, off, n int) error {
	if off < 0 || n < 0 {
		return ErrSyncRange
	}
	start := uintptr(unsafe.Pointer(unsafe.SliceData(m.Bytes())))
	return s.DeepSync(m, start+uintptr(off), uintptr(n))
}

// Close unmaps and closes the backing file. Calling Close more than once is safe.
func (m *Map) Close() error {
	var errs []error
	if m.view != nil {
		errs = append(errs, m.view.Unmap())
		m.view = nil
	}
	if m.f != nil {
		errs = append(errs, m.f.Close())
		m.f = nil
	}
	return errors.Join(errs...)
}

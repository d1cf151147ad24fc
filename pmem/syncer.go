package pmem

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
	"unsafe"

	"github.com/joshuapare/pmemkit/internal/logger"
	"github.com/joshuapare/pmemkit/internal/osflush"
	"github.com/joshuapare/pmemkit/pmem/persist"
	"github.com/joshuapare/pmemkit/pmem/region"
)

// FileFlusher writes dirty pages of a regular-file mapping back to the file.
// data is Mapping.Bytes(), which need not be page aligned; [off, off+n) is
// the range to flush.
type FileFlusher interface {
	FlushFileBuffers(data []byte, off, n int) error
}

// FileFlusherFunc adapts an ordinary function to FileFlusher.
type FileFlusherFunc func(data []byte, off, n int) error

// FlushFileBuffers calls f(data, off, n).
func (f FileFlusherFunc) FlushFileBuffers(data []byte, off, n int) error { return f(data, off, n) }

// Syncer performs deep syncs. Build it with NewSyncer; it is immutable and
// safe for concurrent use.
type Syncer struct {
	persist     *persist.Unit
	resolver    region.Resolver
	files       FileFlusher
	sysfsRoot   string
	openControl func(path string) (io.WriteCloser, error)
	metrics     SyncMetrics
	log         *slog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithPersist sets the CPU cache persist unit used at byte granularity.
func WithPersist(u *persist.Unit) Option {
	return func(s *Syncer) { s.persist = u }
}

// WithResolver sets the device-DAX region resolver.
func WithResolver(r region.Resolver) Option {
	return func(s *Syncer) { s.resolver = r }
}

// WithFileFlusher replaces the OS file-buffer flush used for regular files.
func WithFileFlusher(f FileFlusher) Option {
	return func(s *Syncer) { s.files = f }
}

// WithSysfsRoot sets the directory the deep_flush control path is resolved
// against. The default resolver is rooted there as well unless WithResolver
// is also given.
func WithSysfsRoot(root string) Option {
	return func(s *Syncer) { s.sysfsRoot = root }
}

// WithMetrics sets the metrics sink. nil disables metrics.
func WithMetrics(m SyncMetrics) Option {
	return func(s *Syncer) { s.metrics = m }
}

// WithLogger sets the logger. By default the package logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.log = l }
}

// NewSyncer builds a Syncer. Unset collaborators get platform defaults.
func NewSyncer(opts ...Option) *Syncer {
	s := &Syncer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.sysfsRoot == "" {
		s.sysfsRoot = "/"
	}
	if s.persist == nil {
		s.persist = persist.Default()
	}
	if s.resolver == nil {
		s.resolver = region.NewSysfs(s.sysfsRoot)
	}
	if s.files == nil {
		s.files = FileFlusherFunc(osflush.FlushFileBuffers)
	}
	if s.openControl == nil {
		s.openControl = openControlFile
	}
	return s
}

// openControlFile opens an existing control file write-only.
func openControlFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY, 0)
}

var (
	defaultSyncerOnce sync.Once
	defaultSyncer     *Syncer
)

// DefaultSyncer returns the process-wide Syncer with platform defaults.
func DefaultSyncer() *Syncer {
	defaultSyncerOnce.Do(func() {
		defaultSyncer = NewSyncer()
	})
	return defaultSyncer
}

// DeepSync runs DefaultSyncer().DeepSync.
func DeepSync(m Mapping, addr, size uintptr) error {
	return DefaultSyncer().DeepSync(m, addr, size)
}

// PersistName reports the CPU flush strategy in use, e.g. "clwb".
func (s *Syncer) PersistName() string { return s.persist.Name() }

func (s *Syncer) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.L()
}

// DeepSync makes [addr, addr+size) of m durable across power loss.
//
// The range must lie entirely inside m; otherwise ErrSyncRange is returned and
// nothing is flushed. A nil m is rejected the same way. What happens next depends on m's granularity:
//
//   - GranularityPage: nothing.
//   - GranularityCacheLine: the backing store is flushed.
//   - GranularityByte: the range is flushed from CPU caches, the flushes are
//     drained, then the backing store is flushed.
//
// Failures are not retried. Flushes completed before a failure stay in effect.
func (s *Syncer) DeepSync(m Mapping, addr, size uintptr) error {
	if m == nil {
		s.logger().Debug("deep sync", "size", size, "code", ESyncRange)
		return fmt.Errorf("%w: nil mapping", ErrSyncRange)
	}
	began := time.Now()
	err := s.deepSync(m, addr, size)
	code := CodeOf(err)

	s.logger().Debug("deep sync",
		"granularity", m.Granularity(),
		"file_type", m.FileType(),
		"size", size,
		"code", code,
	)
	if s.metrics != nil {
		s.metrics.ObserveDeepSync(m.Granularity(), m.FileType(), code, size, time.Since(began))
	}
	return err
}

// DeepSyncSlice deep-syncs b, which must be a sub-slice of m.Bytes().
func (s *Syncer) DeepSyncSlice(m Mapping, b []byte) error {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return s.DeepSync(m, addr, uintptr(len(b)))
}

func (s *Syncer) deepSync(m Mapping, addr, size uintptr) error {
	if err := validateRange(m, addr, size); err != nil {
		return err
	}

	switch g := m.Granularity(); g {
	case GranularityPage:
		return nil
	case GranularityCacheLine:
		return s.daxDeepSync(m, addr, size)
	case GranularityByte:
		s.persist.Flush(addr, size)
		s.persist.Drain()
		return s.daxDeepSync(m, addr, size)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedGranularity, g)
	}
}

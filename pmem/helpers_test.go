package pmem

import (
	"errors"
	"io"
	"sync"

	"github.com/joshuapare/pmemkit/pmem/persist"
	"github.com/joshuapare/pmemkit/pmem/region"
)

const (
	mockDevID       = 777
	mockRegionID    = 888
	mockControlPath = "/sys/bus/nd/devices/region888/deep_flush"
)

func withControlOpener(fn func(path string) (io.WriteCloser, error)) Option {
	return func(s *Syncer) { s.openControl = fn }
}

// fakeMapping is a heap-backed Mapping. Its bytes are never dereferenced by
// the fakes below, so any granularity and file type can be simulated.
type fakeMapping struct {
	data  []byte
	gran  Granularity
	ftype FileType
	devID uint64
}

func (m *fakeMapping) Bytes() []byte            { return m.data }
func (m *fakeMapping) Granularity() Granularity { return m.gran }
func (m *fakeMapping) FileType() FileType       { return m.ftype }
func (m *fakeMapping) DeviceID() uint64         { return m.devID }

// recorder logs every side effect of a deep sync in order.
type recorder struct {
	mu     sync.Mutex
	events []string

	fileOffs   [][2]int
	written    []byte
	paths      []string
	fileErr    error
	openErr    error
	writeErr   error
	closeErr   error
	shortWrite bool
}

func (r *recorder) record(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) count(ev string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == ev {
			n++
		}
	}
	return n
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.fileOffs = nil
	r.written = nil
	r.paths = nil
	r.mu.Unlock()
}

type countingArch struct{ r *recorder }

func (a countingArch) Name() string       { return "counting" }
func (a countingArch) Flush(_, _ uintptr) { a.r.record("cpu-flush") }
func (a countingArch) Drain()             { a.r.record("drain") }

func (r *recorder) flushFile(_ []byte, off, n int) error {
	r.record("file-flush")
	r.mu.Lock()
	r.fileOffs = append(r.fileOffs, [2]int{off, n})
	r.mu.Unlock()
	return r.fileErr
}

func (r *recorder) find(devID uint64) (region.ID, error) {
	r.record("resolve")
	if devID != mockDevID {
		return 0, region.ErrNotFound
	}
	return mockRegionID, nil
}

func (r *recorder) open(path string) (io.WriteCloser, error) {
	r.record("open")
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	if r.openErr != nil {
		return nil, r.openErr
	}
	return &fakeControl{r: r}, nil
}

type fakeControl struct{ r *recorder }

func (c *fakeControl) Write(p []byte) (int, error) {
	c.r.record("control-write")
	if c.r.writeErr != nil {
		return 0, c.r.writeErr
	}
	if c.r.shortWrite {
		return 0, nil
	}
	c.r.mu.Lock()
	c.r.written = append(c.r.written, p...)
	c.r.mu.Unlock()
	return len(p), nil
}

func (c *fakeControl) Close() error {
	c.r.record("control-close")
	return c.r.closeErr
}

var errInjected = errors.New("injected failure")

func newTestSyncer(r *recorder, opts ...Option) *Syncer {
	base := []Option{
		WithPersist(persist.New(countingArch{r: r})),
		WithResolver(region.Func(r.find)),
		WithFileFlusher(FileFlusherFunc(r.flushFile)),
		withControlOpener(r.open),
	}
	return NewSyncer(append(base, opts...)...)
}

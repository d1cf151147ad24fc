// Package metrics exports deep-sync observations to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/pmemkit/pmem"
)

// Label constants for metrics.
const (
	LabelGranularity = "granularity"
	LabelFileType    = "file_type"
	LabelCode        = "code"
	LabelStrategy    = "strategy"
)

// Metrics implements pmem.SyncMetrics on top of Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	deepSyncTotal    *prometheus.CounterVec
	deepSyncBytes    *prometheus.CounterVec
	deepSyncDuration *prometheus.HistogramVec

	persistInfo *prometheus.GaugeVec

	registered bool
}

var _ pmem.SyncMetrics = (*Metrics)(nil)

// NewMetrics creates and registers deep-sync metrics.
// If registry is nil, metrics are created but not registered.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		deepSyncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pmemkit",
				Subsystem: "deep_sync",
				Name:      "total",
				Help:      "Total number of deep sync calls by result",
			},
			[]string{LabelGranularity, LabelFileType, LabelCode},
		),

		deepSyncBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pmemkit",
				Subsystem: "deep_sync",
				Name:      "bytes_total",
				Help:      "Bytes covered by successful deep syncs",
			},
			[]string{LabelGranularity, LabelFileType},
		),

		deepSyncDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pmemkit",
				Subsystem: "deep_sync",
				Name:      "duration_seconds",
				Help:      "Time spent in a deep sync call",
				Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{LabelGranularity, LabelFileType},
		),

		persistInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pmemkit",
				Subsystem: "persist",
				Name:      "info",
				Help:      "CPU cache flush strategy in use (always 1)",
			},
			[]string{LabelStrategy},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.deepSyncTotal,
			m.deepSyncBytes,
			m.deepSyncDuration,
			m.persistInfo,
		)
		m.registered = true
	}

	return m
}

// ObserveDeepSync records one deep sync call.
func (m *Metrics) ObserveDeepSync(g pmem.Granularity, t pmem.FileType, code pmem.Code, size uintptr, d time.Duration) {
	if m == nil {
		return
	}
	gl, tl := g.String(), t.String()

	m.deepSyncTotal.WithLabelValues(gl, tl, code.String()).Inc()
	m.deepSyncDuration.WithLabelValues(gl, tl).Observe(d.Seconds())
	if code == pmem.Success {
		m.deepSyncBytes.WithLabelValues(gl, tl).Add(float64(size))
	}
}

// SetPersistStrategy publishes the name of the CPU flush strategy.
func (m *Metrics) SetPersistStrategy(name string) {
	if m == nil {
		return
	}
	m.persistInfo.Reset()
	m.persistInfo.WithLabelValues(name).Set(1)
}

// IsRegistered reports whether the collectors were registered with a registry.
func (m *Metrics) IsRegistered() bool {
	return m != nil && m.registered
}

// Package metric provides Prometheus metrics for regiond.
//
// It exposes metrics in Prometheus format for monitoring snapshot
// transport activity, the committed-log store, and admin HTTP traffic.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics, backed directly by
// prometheus/client_golang collectors.
type Registry struct {
	// Snapshot transport metrics.
	SnapshotContextsOpen prometheus.Gauge
	SnapshotReadersOpen  prometheus.Gauge
	BytesServed          *prometheus.CounterVec
	FramesServed         *prometheus.CounterVec

	// Sorted-file-writer metrics.
	WriterKeysWritten prometheus.Counter
	WriterBytesWritten prometheus.Counter
	WriterCommits     prometheus.Counter
	WriterAborts      prometheus.Counter

	// Raft metrics.
	RaftApplyDuration  prometheus.Histogram
	RaftCommitIndex    *prometheus.GaugeVec
	RaftLeaderChanges  prometheus.Counter

	// Admin HTTP metrics.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	promReg *prometheus.Registry
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry, creating it (with the Go
// runtime and process collectors attached) on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		globalRegistry = newRegistryOn(reg)
	})
	return globalRegistry
}

// Handler returns an http.Handler exposing this registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	if r.promReg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.promReg, promhttp.HandlerOpts{})
}

// NewRegistry creates a new metrics registry and registers its
// collectors with reg. Passing prometheus.DefaultRegisterer mirrors the
// package-level convenience functions most exporters use; a scoped
// *prometheus.Registry is preferred in tests so repeated calls don't
// collide with "already registered" panics.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := newRegistryOn(nil)
	if reg != nil {
		reg.MustRegister(
			r.SnapshotContextsOpen,
			r.SnapshotReadersOpen,
			r.BytesServed,
			r.FramesServed,
			r.WriterKeysWritten,
			r.WriterBytesWritten,
			r.WriterCommits,
			r.WriterAborts,
			r.RaftApplyDuration,
			r.RaftCommitIndex,
			r.RaftLeaderChanges,
			r.RequestsTotal,
			r.RequestDuration,
		)
		if promReg, ok := reg.(*prometheus.Registry); ok {
			r.promReg = promReg
		}
	}
	return r
}

// newRegistryOn builds the metric set and, when promReg is non-nil,
// registers it there and remembers promReg for Handler().
func newRegistryOn(promReg *prometheus.Registry) *Registry {
	r := &Registry{
		SnapshotContextsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "regiond",
			Subsystem: "snapshot",
			Name:      "contexts_open",
			Help:      "Number of snapshot contexts currently held open per region/path pair.",
		}),
		SnapshotReadersOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "regiond",
			Subsystem: "snapshot",
			Name:      "readers_open",
			Help:      "Number of virtual snapshot file readers currently open.",
		}),
		BytesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "snapshot",
			Name:      "bytes_served_total",
			Help:      "Bytes served through the snapshot transport, by file kind.",
		}, []string{"kind"}),
		FramesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "snapshot",
			Name:      "frames_served_total",
			Help:      "Length-prefixed key/value frames served through the snapshot transport, by file kind.",
		}, []string{"kind"}),
		WriterKeysWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "writer",
			Name:      "keys_written_total",
			Help:      "Keys written by sorted-file-writer ingest streams.",
		}),
		WriterBytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "writer",
			Name:      "bytes_written_total",
			Help:      "Bytes written by sorted-file-writer ingest streams.",
		}),
		WriterCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "writer",
			Name:      "commits_total",
			Help:      "Sorted-file-writer sessions that committed successfully.",
		}),
		WriterAborts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "writer",
			Name:      "aborts_total",
			Help:      "Sorted-file-writer sessions closed without a commit.",
		}),
		RaftApplyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "regiond",
			Subsystem: "raft",
			Name:      "apply_duration_seconds",
			Help:      "Latency of committing a log entry through the region FSM.",
			Buckets:   prometheus.DefBuckets,
		}),
		RaftCommitIndex: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "regiond",
			Subsystem: "raft",
			Name:      "commit_index",
			Help:      "Last committed Raft log index, by region.",
		}, []string{"region_id"}),
		RaftLeaderChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "raft",
			Name:      "leader_changes_total",
			Help:      "Observed leadership changes across all region consensus groups.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regiond",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Admin HTTP requests by method, route, and status class.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "regiond",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	if promReg != nil {
		promReg.MustRegister(
			r.SnapshotContextsOpen,
			r.SnapshotReadersOpen,
			r.BytesServed,
			r.FramesServed,
			r.WriterKeysWritten,
			r.WriterBytesWritten,
			r.WriterCommits,
			r.WriterAborts,
			r.RaftApplyDuration,
			r.RaftCommitIndex,
			r.RaftLeaderChanges,
			r.RequestsTotal,
			r.RequestDuration,
		)
		r.promReg = promReg
	}

	return r
}

// Package metric provides Prometheus metrics for regiond.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Registry of prometheus/client_golang collectors
//   - collector.go: Collector sampling process and engine gauges on scrape
//
// Metrics cover:
//
//   - Snapshot transport activity (open contexts/readers, bytes and
//     frames served)
//   - Sorted-file-writer ingest throughput
//   - Raft apply latency, commit index, and leadership changes
//   - Admin HTTP request rate and latency
//
// Metrics are exposed at /metrics in Prometheus format via
// promhttp.Handler, wired in internal/server/httpserver.
package metric

// Package httpserver provides the admin HTTP server for regiond.
//
// This is an operational surface, not the data plane: the data plane is
// the Raft snapshot transport served directly through
// internal/regionstore/snapshotfs.Adaptor. This package exposes:
//
//   - GET /healthz: process liveness
//   - GET /metrics: Prometheus exposition
//   - GET /debug/regions/{id}/snapshots: open snapshot paths per region
//
// Features:
//
//   - TLS support with certificate hot-reload via internal/infra/tlsroots
//   - Middleware chain on the debug route: RequestID, Recover, Metrics,
//     AdminAuth, then NetworkACL, Audit and RateLimit when configured
//   - Graceful shutdown with configurable timeout
package httpserver

// Package tracer provides distributed tracing for regiond.
//
// This package defines a tracing API whose spans are no-ops:
//
//   - otel.go: Provider, StartSpan and the no-op Span (no OpenTelemetry
//     SDK is linked)
//
// Features (planned):
//
//   - Span creation and propagation
//   - Context injection/extraction
//   - Multiple exporter support (Jaeger, OTLP)
//   - Sampling configuration
//
// Note: This package is currently a placeholder for future implementation.
//
// @req RQ-0403
// @design DS-0402
package tracer

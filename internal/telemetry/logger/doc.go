// Package logger provides structured logging for regiond.
//
// This package wraps the standard library log/slog for structured logging:
//
//   - logger.go: slog-based Logger, configuration and level control
//   - zap.go: holds no code; no zap logger is built
//   - context.go: Context-aware logging with request/trace IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering
//   - Automatic sensitive data masking
//   - Context propagation for request tracing
//
// @req RQ-0403
// @design DS-0402
package logger

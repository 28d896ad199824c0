// Package observability provides the observability infrastructure for the
// news aggregation service: structured logging, Prometheus metrics, and
// OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing integration
package observability

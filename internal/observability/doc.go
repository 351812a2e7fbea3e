// Package observability groups the structured logging, Prometheus metrics
// and OpenTelemetry tracing used by the SupaBox binaries.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry spans for HTTP requests and upstream calls
//
// Example usage:
//
//	logger := logging.NewLogger()
//	logger.Info("application started")
//
//	ctx, span := tracing.StartUpstreamSpan(ctx, "boxing", url)
//	defer span.End()
package observability

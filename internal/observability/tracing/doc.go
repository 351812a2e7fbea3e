// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through the global otel TracerProvider. Without an
// installed provider they are no-ops, so tracing costs nothing until an
// exporter is configured by the binary.
//
// Features:
//   - HTTP server spans with W3C trace context extraction (Middleware)
//   - Client spans around every RapidAPI request (StartUpstreamSpan)
//   - X-Trace-Id response header for client-side correlation
package tracing

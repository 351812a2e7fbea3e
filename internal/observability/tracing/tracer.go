package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "supabox"

// GetTracer returns the tracer for creating spans.
// It is resolved on every call so that a provider installed after package
// initialisation (e.g. in tests) is honoured.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartUpstreamSpan starts a client span for one RapidAPI request.
func StartUpstreamSpan(ctx context.Context, sport, url string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "rapidapi "+sport,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("supabox.sport", sport),
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", url),
		),
	)
}

// EndUpstreamSpan annotates span with the response status and error, then ends it.
func EndUpstreamSpan(span trace.Span, statusCode, records int, err error) {
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("supabox.records", records))
	}
	span.End()
}

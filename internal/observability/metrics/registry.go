// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, route, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds.
	// Event routes wait on RapidAPI, so the upper buckets reach 10s.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks the current number of HTTP requests being processed
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)
)

// Upstream metrics track calls to the RapidAPI event endpoints
var (
	// UpstreamRequestsTotal counts upstream attempts by sport and outcome
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of RapidAPI requests by sport and outcome",
		},
		[]string{"sport", "outcome"},
	)

	// UpstreamRequestDuration measures a single upstream attempt
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "RapidAPI request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 9),
		},
		[]string{"sport"},
	)

	// UpstreamRateLimitWait measures time spent waiting on the outbound token bucket
	UpstreamRateLimitWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the outbound RapidAPI rate limiter",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"sport"},
	)

	// CircuitBreakerState exposes each upstream breaker (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upstream_circuit_breaker_state",
			Help: "Upstream circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"circuit"},
	)
)

// Business metrics track what users are shown
var (
	// EventListingsTotal counts listings served by sport and result
	EventListingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_listings_total",
			Help: "Total number of event listings produced by sport and result",
		},
		[]string{"sport", "result"},
	)

	// EventsInLastListing is the number of events in the most recent listing per sport
	EventsInLastListing = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "events_in_last_listing",
			Help: "Number of events in the most recent listing",
		},
		[]string{"sport"},
	)
)

// RecordHTTPRequest records all HTTP request metrics in one call.
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

package metrics

import (
	"time"

	"github.com/sony/gobreaker"
)

// Upstream outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeHTTPError   = "http_error"
	OutcomeNetwork     = "network_error"
	OutcomeDecodeError = "decode_error"
	OutcomeCircuitOpen = "circuit_open"
)

// RecordUpstreamRequest records one upstream attempt.
func RecordUpstreamRequest(sport, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(sport, outcome).Inc()
	if outcome != OutcomeCircuitOpen {
		UpstreamRequestDuration.WithLabelValues(sport).Observe(duration.Seconds())
	}
}

// RecordRateLimitWait records time spent in the outbound token bucket.
func RecordRateLimitWait(sport string, wait time.Duration) {
	UpstreamRateLimitWait.WithLabelValues(sport).Observe(wait.Seconds())
}

// SetCircuitBreakerState mirrors a breaker transition into the gauge.
func SetCircuitBreakerState(circuit string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	CircuitBreakerState.WithLabelValues(circuit).Set(v)
}

// RecordListing records a produced listing; a failed fetch passes ok=false.
func RecordListing(sport string, count int, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	} else if count == 0 {
		result = "empty"
	}
	EventListingsTotal.WithLabelValues(sport, result).Inc()
	if ok {
		EventsInLastListing.WithLabelValues(sport).Set(float64(count))
	}
}

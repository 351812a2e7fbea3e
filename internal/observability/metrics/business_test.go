package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestRecordUpstreamRequest(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("boxing", OutcomeSuccess))

	RecordUpstreamRequest("boxing", OutcomeSuccess, 120*time.Millisecond)

	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("boxing", OutcomeSuccess))
	assert.Equal(t, before+1, after)
}

func TestSetCircuitBreakerState(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		want  float64
	}{
		{gobreaker.StateClosed, 0},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateOpen, 2},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			SetCircuitBreakerState("rapidapi-test", tt.state)
			assert.Equal(t, tt.want, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("rapidapi-test")))
		})
	}
}

func TestRecordListing(t *testing.T) {
	emptyBefore := testutil.ToFloat64(EventListingsTotal.WithLabelValues("mma", "empty"))
	failBefore := testutil.ToFloat64(EventListingsTotal.WithLabelValues("mma", "failure"))

	RecordListing("mma", 4, true)
	assert.Equal(t, 4.0, testutil.ToFloat64(EventsInLastListing.WithLabelValues("mma")))

	RecordListing("mma", 0, true)
	assert.Equal(t, emptyBefore+1, testutil.ToFloat64(EventListingsTotal.WithLabelValues("mma", "empty")))

	RecordListing("mma", 0, false)
	assert.Equal(t, failBefore+1, testutil.ToFloat64(EventListingsTotal.WithLabelValues("mma", "failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(EventsInLastListing.WithLabelValues("mma")), "failed fetch keeps the last gauge value")
}

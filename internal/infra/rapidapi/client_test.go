package rapidapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supabox/internal/config"
	"supabox/internal/resilience/retry"
)

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:    3,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2,
		JitterFraction: 0,
	}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(NewHTTPClient(2*time.Second), "test-key", 1000, 100).WithRetryConfig(fastRetry())
}

func boxingFetcherFor(t *testing.T, srv *httptest.Server) *BoxingFetcher {
	t.Helper()
	cfg := config.DefaultUpstreamConfig().Boxing
	cfg.BaseURL = srv.URL
	return NewBoxingFetcher(newTestClient(t), cfg)
}

func TestExtractRecords(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		listKey string
		want    int
	}{
		{name: "list under key", body: `{"data":[{"a":1},{"a":2}]}`, listKey: "data", want: 2},
		{name: "root array", body: `[{"a":1},{"a":2},{"a":3}]`, listKey: "data", want: 3},
		{name: "key is not an array", body: `{"data":{"a":1}}`, listKey: "data", want: 0},
		{name: "key missing", body: `{"results":[{"a":1}]}`, listKey: "data", want: 0},
		{name: "scalar root", body: `"hello"`, listKey: "data", want: 0},
		{name: "empty array", body: `{"events":[]}`, listKey: "events", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractRecords([]byte(tt.body), tt.listKey)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestUpstreamMessage(t *testing.T) {
	assert.Equal(t, "You are not subscribed to this API.",
		upstreamMessage([]byte(`{"message":"You are not subscribed to this API."}`), http.StatusForbidden))
	assert.Equal(t, "quota", upstreamMessage([]byte(`{"error":"quota"}`), http.StatusTooManyRequests))
	assert.Equal(t, "Bad Gateway", upstreamMessage([]byte(`<html>oops</html>`), http.StatusBadGateway))
	assert.Equal(t, "Not Found", upstreamMessage([]byte(`{"message":""}`), http.StatusNotFound))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestClient_SendsRapidAPIHeaders(t *testing.T) {
	var gotHost, gotKey, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHost = r.Header.Get("x-rapidapi-host")
		gotKey = r.Header.Get("x-rapidapi-key")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	f := boxingFetcherFor(t, srv)
	_, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, config.DefaultBoxingHost, gotHost)
	assert.Equal(t, "test-key", gotKey)
}

func TestClient_Non2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"You are not subscribed to this API."}`))
	}))
	defer srv.Close()

	_, err := boxingFetcherFor(t, srv).Fetch(context.Background())
	require.Error(t, err)

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "You are not subscribed to this API.", httpErr.Message)
}

func TestClient_MissingAPIKeySkipsUpstream(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	cfg := config.DefaultUpstreamConfig().Boxing
	cfg.BaseURL = srv.URL
	client := NewClient(NewHTTPClient(time.Second), "", 1000, 100).WithRetryConfig(fastRetry())
	f := NewBoxingFetcher(client, cfg)

	for i := 0; i < 4; i++ {
		_, err := f.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	}
	assert.Zero(t, calls.Load())
	assert.False(t, f.Breaker().IsOpen())
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	_, err := boxingFetcherFor(t, srv).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"event_id":"1"}]}`))
	}))
	defer srv.Close()

	records, err := boxingFetcherFor(t, srv).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := boxingFetcherFor(t, srv).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := boxingFetcherFor(t, srv)

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background())
		require.Error(t, err)
	}
	assert.True(t, f.Breaker().IsOpen())
	assert.Equal(t, int32(9), calls.Load(), "each fetch spends its retries before the breaker counts it")

	before := calls.Load()
	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, before, calls.Load(), "open circuit must not reach upstream")
}

func TestClient_SingleFailedFetchKeepsCircuitClosed(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := boxingFetcherFor(t, srv)

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.False(t, f.Breaker().IsOpen())

	_, err = f.Fetch(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(6), calls.Load(), "second fetch must still reach upstream")
}

func TestClient_ClientErrorsDoNotTripCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"You are not subscribed to this API."}`))
	}))
	defer srv.Close()

	f := boxingFetcherFor(t, srv)
	for i := 0; i < 5; i++ {
		_, err := f.Fetch(context.Background())
		var httpErr *retry.HTTPError
		require.ErrorAs(t, err, &httpErr)
	}
	assert.False(t, f.Breaker().IsOpen())
}

func TestClient_ErrorStatusWithJSONBody(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantRecords int
		wantStatus  int
	}{
		{name: "404 error object is an empty listing", status: http.StatusNotFound, body: `{"error":{"code":404,"message":"Not Found"}}`},
		{name: "404 with list still yields records", status: http.StatusNotFound, body: `{"data":[{"event_id":"1"}]}`, wantRecords: 1},
		{name: "404 without JSON stays an error", status: http.StatusNotFound, body: `<html>Not Found</html>`, wantStatus: http.StatusNotFound},
		{name: "401 stays an error", status: http.StatusUnauthorized, body: `{"message":"Invalid API key."}`, wantStatus: http.StatusUnauthorized},
		{name: "429 stays an error", status: http.StatusTooManyRequests, body: `{"message":"quota"}`, wantStatus: http.StatusTooManyRequests},
		{name: "500 stays an error", status: http.StatusInternalServerError, body: `{"message":"boom"}`, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			records, err := boxingFetcherFor(t, srv).Fetch(context.Background())
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Len(t, records, tt.wantRecords)
				return
			}
			var httpErr *retry.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
		})
	}
}

func TestUpstreamHealthy(t *testing.T) {
	assert.True(t, upstreamHealthy(nil))
	assert.True(t, upstreamHealthy(context.Canceled))
	assert.True(t, upstreamHealthy(&retry.HTTPError{StatusCode: http.StatusForbidden}))
	assert.False(t, upstreamHealthy(&retry.HTTPError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, upstreamHealthy(&retry.HTTPError{StatusCode: http.StatusRequestTimeout}))
	assert.False(t, upstreamHealthy(&retry.HTTPError{StatusCode: http.StatusBadGateway}))
	assert.False(t, upstreamHealthy(context.DeadlineExceeded))
	assert.False(t, upstreamHealthy(errors.New("connection refused")))
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := boxingFetcherFor(t, srv).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

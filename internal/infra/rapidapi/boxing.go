package rapidapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"

	"supabox/internal/config"
	"supabox/internal/domain/entity"
	"supabox/internal/observability/metrics"
	"supabox/internal/resilience/circuitbreaker"
)

// BoxingFetcher lists the boxing schedule from boxing-data-api.
type BoxingFetcher struct {
	client  *Client
	cfg     config.BoxingAPIConfig
	breaker *circuitbreaker.CircuitBreaker
}

// NewBoxingFetcher creates a BoxingFetcher with its own circuit breaker.
func NewBoxingFetcher(client *Client, cfg config.BoxingAPIConfig) *BoxingFetcher {
	return &BoxingFetcher{
		client:  client,
		cfg:     cfg,
		breaker: newBreaker("rapidapi-boxing"),
	}
}

// Sport implements events.Fetcher.
func (f *BoxingFetcher) Sport() entity.Sport {
	return entity.SportBoxing
}

// Breaker exposes the circuit breaker for health reporting.
func (f *BoxingFetcher) Breaker() *circuitbreaker.CircuitBreaker {
	return f.breaker
}

// Fetch returns the raw schedule records, sorted ascending by date upstream.
// The list is read from "data", or from the root when the body is an array.
func (f *BoxingFetcher) Fetch(ctx context.Context) ([]gjson.Result, error) {
	return f.client.fetchList(ctx, request{
		sport:   string(entity.SportBoxing),
		host:    f.cfg.Host,
		url:     f.URL(),
		listKey: "data",
		breaker: f.breaker,
	})
}

// URL returns the schedule endpoint with its query string.
func (f *BoxingFetcher) URL() string {
	q := url.Values{}
	q.Set("days", strconv.Itoa(f.cfg.Days))
	q.Set("past_hours", strconv.Itoa(f.cfg.PastHours))
	q.Set("date_sort", "ASC")
	q.Set("page_num", "1")
	q.Set("page_size", strconv.Itoa(f.cfg.PageSize))
	return fmt.Sprintf("%s/v1/events/schedule?%s", strings.TrimRight(f.cfg.BaseURL, "/"), q.Encode())
}

func newBreaker(name string) *circuitbreaker.CircuitBreaker {
	cfg := circuitbreaker.UpstreamAPIConfig(name)
	cfg.OnStateChange = func(name string, _, to gobreaker.State) {
		metrics.SetCircuitBreakerState(name, to)
	}
	cfg.IsSuccessful = upstreamHealthy
	return circuitbreaker.New(cfg)
}

package rapidapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"supabox/internal/config"
	"supabox/internal/domain/entity"
	"supabox/internal/resilience/circuitbreaker"
)

// MMAFetcher lists one day of a tournament schedule from mmaapi.
type MMAFetcher struct {
	client  *Client
	cfg     config.MMAAPIConfig
	day     func() time.Time
	breaker *circuitbreaker.CircuitBreaker
}

// NewMMAFetcher creates an MMAFetcher. day returns the schedule date to
// request on each call (see config.UpstreamConfig.MMAScheduleDay).
func NewMMAFetcher(client *Client, cfg config.MMAAPIConfig, day func() time.Time) *MMAFetcher {
	if day == nil {
		day = time.Now
	}
	return &MMAFetcher{
		client:  client,
		cfg:     cfg,
		day:     day,
		breaker: newBreaker("rapidapi-mma"),
	}
}

// Sport implements events.Fetcher.
func (f *MMAFetcher) Sport() entity.Sport {
	return entity.SportMMA
}

// Breaker exposes the circuit breaker for health reporting.
func (f *MMAFetcher) Breaker() *circuitbreaker.CircuitBreaker {
	return f.breaker
}

// Fetch returns the raw tournament schedule records.
// The list is read from "events", or from the root when the body is an array.
func (f *MMAFetcher) Fetch(ctx context.Context) ([]gjson.Result, error) {
	return f.client.fetchList(ctx, request{
		sport:   string(entity.SportMMA),
		host:    f.cfg.Host,
		url:     f.URL(f.day()),
		listKey: "events",
		breaker: f.breaker,
	})
}

// URL returns the schedule endpoint for day. The path takes day, month
// and year without zero padding.
func (f *MMAFetcher) URL(day time.Time) string {
	return fmt.Sprintf("%s/api/mma/unique-tournament/%d/schedules/%d/%d/%d",
		strings.TrimRight(f.cfg.BaseURL, "/"),
		f.cfg.TournamentID,
		day.Day(), int(day.Month()), day.Year())
}

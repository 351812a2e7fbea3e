package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"supabox/internal/domain/entity"
	"supabox/internal/observability/logging"
	"supabox/internal/observability/metrics"
)

// Fetcher retrieves the raw schedule records for one sport.
type Fetcher interface {
	Sport() entity.Sport
	Fetch(ctx context.Context) ([]gjson.Result, error)
}

// Service lists upcoming events for a sport.
type Service struct {
	fetchers   map[entity.Sport]Fetcher
	normalizer *Normalizer
	timeout    time.Duration
	now        func() time.Time
}

// NewService registers fetchers by their sport. timeout bounds each
// upstream fetch; zero disables the bound.
func NewService(normalizer *Normalizer, timeout time.Duration, fetchers ...Fetcher) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer(time.UTC)
	}
	m := make(map[entity.Sport]Fetcher, len(fetchers))
	for _, f := range fetchers {
		m[f.Sport()] = f
	}
	return &Service{
		fetchers:   m,
		normalizer: normalizer,
		timeout:    timeout,
		now:        time.Now,
	}
}

// List performs one upstream call for sport and returns the normalized
// listing. An unsupported sport yields entity.ErrInvalidSport; any other
// failure is returned as *FetchError.
func (s *Service) List(ctx context.Context, sport entity.Sport) (*entity.Listing, error) {
	logger := logging.FromContext(ctx)

	if !sport.Valid() {
		return nil, entity.ErrInvalidSport
	}

	f, ok := s.fetchers[sport]
	if !ok {
		return nil, &FetchError{Sport: sport, Err: ErrNoFetcher}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.now()
	records, err := f.Fetch(ctx)
	if err != nil {
		metrics.RecordListing(string(sport), 0, false)
		logger.Error("failed to fetch events",
			slog.String("sport", string(sport)),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return nil, &FetchError{Sport: sport, Err: err}
	}

	listing := entity.NewListing(sport, s.normalizer.Normalize(sport, records), s.now())
	metrics.RecordListing(string(sport), len(listing.Events), true)

	logger.Info("events listed",
		slog.String("sport", string(sport)),
		slog.Int("count", len(listing.Events)),
		slog.Duration("duration", time.Since(start)))
	return listing, nil
}

// ListAll fetches every sport concurrently, in toggle order.
// The first failure cancels the rest and is returned.
func (s *Service) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	listings := make([]*entity.Listing, len(entity.Sports))

	eg, ctx := errgroup.WithContext(ctx)
	for i, sport := range entity.Sports {
		i, sport := i, sport
		eg.Go(func() error {
			l, err := s.List(ctx, sport)
			if err != nil {
				return err
			}
			listings[i] = l
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

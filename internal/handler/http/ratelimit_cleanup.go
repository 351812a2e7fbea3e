package http

import (
	"context"
	"log/slog"
	"time"

	"supabox/pkg/config"
)

// DefaultCleanupInterval is the default cleanup interval if not specified.
const DefaultCleanupInterval = 5 * time.Minute

// StartRateLimitCleanup periodically drops idle clients from limiter until
// ctx is cancelled. Run it in its own goroutine.
func StartRateLimitCleanup(ctx context.Context, limiter *RateLimiter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return

		case <-ticker.C:
			removed := limiter.CleanupExpired()
			slog.Debug("rate limit cleanup completed",
				slog.Int("clients_removed", removed),
				slog.Int("active_clients", limiter.ActiveClients()))
		}
	}
}

// LoadCleanupIntervalFromEnv reads RATELIMIT_CLEANUP_INTERVAL, falling back
// to DefaultCleanupInterval on absent or invalid values.
func LoadCleanupIntervalFromEnv() time.Duration {
	interval := config.GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", DefaultCleanupInterval)
	if err := config.ValidatePositiveDuration(interval); err != nil {
		return DefaultCleanupInterval
	}
	return interval
}

package config

import (
	"log/slog"
	"time"
)

// EventsRateLimitConfig bounds how often one client may hit the event
// endpoints. Every such request spends RapidAPI quota.
type EventsRateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration

	// TrustProxy keys clients by X-Forwarded-For instead of RemoteAddr.
	TrustProxy bool
}

// LoadEventsRateLimitConfig loads inbound rate limiting configuration.
//
// Environment variables:
//   - EVENTS_RATE_LIMIT_ENABLED: Enable/disable rate limiting (default: true)
//   - EVENTS_RATE_LIMIT: Requests per window per client IP (default: 30)
//   - EVENTS_RATE_WINDOW: Window length (default: 1m)
//   - TRUST_PROXY_HEADERS: Key clients by X-Forwarded-For (default: false)
func LoadEventsRateLimitConfig() EventsRateLimitConfig {
	cfg := EventsRateLimitConfig{
		Enabled:    GetEnvBool("EVENTS_RATE_LIMIT_ENABLED", true),
		Limit:      GetEnvInt("EVENTS_RATE_LIMIT", 30),
		Window:     GetEnvDuration("EVENTS_RATE_WINDOW", time.Minute),
		TrustProxy: GetEnvBool("TRUST_PROXY_HEADERS", false),
	}

	if cfg.Limit <= 0 {
		slog.Warn("invalid EVENTS_RATE_LIMIT, using default",
			slog.Int("value", cfg.Limit),
			slog.Int("default", 30))
		cfg.Limit = 30
	}

	if err := ValidatePositiveDuration(cfg.Window); err != nil {
		slog.Warn("invalid EVENTS_RATE_WINDOW, using default",
			slog.String("value", cfg.Window.String()),
			slog.String("default", "1m"),
			slog.String("error", err.Error()))
		cfg.Window = time.Minute
	}

	return cfg
}

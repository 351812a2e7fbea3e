package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"supabox/internal/config"
	hhttp "supabox/internal/handler/http"
	hevents "supabox/internal/handler/http/events"
	"supabox/internal/handler/http/requestid"
	"supabox/internal/infra/rapidapi"
	"supabox/internal/observability/logging"
	"supabox/internal/observability/tracing"
	eventsUC "supabox/internal/usecase/events"
	pkgconfig "supabox/pkg/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env は任意（本番では環境変数を直接設定する）
	_ = godotenv.Load()

	logger := initLogger()
	appVersion := getVersion()

	// キー未設定でも起動し、/health と /ready で unhealthy を返す
	upstreamCfg, err := config.LoadUpstreamSettings()
	if err != nil {
		logger.Error("failed to load upstream configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if !upstreamCfg.HasAPIKey() {
		logger.Warn("RAPIDAPI_KEY is not set - event endpoints will answer with an error until it is configured")
	}

	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		ServiceName:    "supabox-api",
		ServiceVersion: appVersion,
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
		SampleRatio:    pkgconfig.GetEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
	})
	if err != nil {
		logger.Error("failed to initialise tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, upstreamCfg, appVersion)
	runServer(logger, components, appVersion)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or the build.
func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return version
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	RateLimiter *hhttp.RateLimiter
}

// setupServer wires fetchers, the events service, routes and middleware.
func setupServer(logger *slog.Logger, cfg *config.UpstreamConfig, version string) *ServerComponents {
	client := rapidapi.NewClient(
		rapidapi.NewHTTPClient(cfg.Timeout),
		cfg.APIKey,
		cfg.RatePerSecond,
		cfg.Burst,
	)
	boxing := rapidapi.NewBoxingFetcher(client, cfg.Boxing)
	mma := rapidapi.NewMMAFetcher(client, cfg.MMA, func() time.Time {
		return cfg.MMAScheduleDay(time.Now())
	})

	svc := eventsUC.NewService(eventsUC.NewNormalizer(cfg.Location()), cfg.Timeout, boxing, mma)
	circuits := []hhttp.Circuit{boxing.Breaker(), mma.Breaker()}

	logger.Info("upstream configured",
		slog.String("boxing_url", boxing.URL()),
		slog.String("mma_host", cfg.MMA.Host),
		slog.Int("mma_tournament", cfg.MMA.TournamentID),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("timeout", cfg.Timeout))

	// イベント系ルートのレート制限（RapidAPI のクォータ保護）
	rlCfg := pkgconfig.LoadEventsRateLimitConfig()
	var limiter *hhttp.RateLimiter
	if rlCfg.Enabled {
		limiter = hhttp.NewRateLimiter(rlCfg.Limit, rlCfg.Window)
		limiter.TrustProxy = rlCfg.TrustProxy
		logger.Info("rate limiting initialized",
			slog.Int("limit", rlCfg.Limit),
			slog.Duration("window", rlCfg.Window),
			slog.Bool("trust_proxy", rlCfg.TrustProxy))
	} else {
		logger.Warn("rate limiting is DISABLED - every request spends RapidAPI quota")
	}

	// Route deadline leaves room for retries inside the service timeout.
	routeTimeout := cfg.Timeout + 2*time.Second
	guard := func(h http.Handler) http.Handler {
		h = hhttp.Timeout(routeTimeout, timeoutBody())(h)
		if limiter != nil {
			h = limiter.Limit(h)
		}
		return h
	}

	mux := http.NewServeMux()
	hevents.Register(mux, svc, guard)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		Version:       version,
		KeyConfigured: cfg.HasAPIKey(),
		Circuits:      circuits,
		RateLimiter:   limiter,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{KeyConfigured: cfg.HasAPIKey(), Circuits: circuits})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return &ServerComponents{
		Handler:     applyMiddleware(logger, mux),
		RateLimiter: limiter,
	}
}

// timeoutBody picks the HTML error screen for screen routes and the JSON
// error for /events.
func timeoutBody() http.Handler {
	screen := hevents.TimeoutScreen()
	jsonBody := hhttp.TimeoutJSON()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/events" {
			jsonBody.ServeHTTP(w, r)
			return
		}
		screen.ServeHTTP(w, r)
	})
}

// applyMiddleware wraps the handler with middleware chain.
// Middleware order: Request ID → Recovery → Logging → Tracing → Metrics → Security headers → Input validation
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.InputValidation(1 << 10)(chain)
	chain = hhttp.SecurityHeaders(pkgconfig.LoadSecurityHeadersConfig())(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.RateLimiter != nil {
		interval := hhttp.LoadCleanupIntervalFromEnv()
		go hhttp.StartRateLimitCleanup(ctx, components.RateLimiter, interval)
	}

	addr := pkgconfig.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

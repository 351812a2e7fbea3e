package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"supabox/internal/handler/http/requestid"
	"supabox/internal/handler/http/respond"
	"supabox/internal/handler/http/responsewriter"
	"supabox/internal/observability/logging"
)

// Logging returns middleware that logs one structured line per request.
// The request-scoped logger (carrying request_id) is stored in the context
// so handlers and services log with the same fields.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := responsewriter.Wrap(w)

			reqLogger := logging.WithRequestID(r.Context(), logger)
			r = r.WithContext(logging.WithLogger(r.Context(), reqLogger))

			next.ServeHTTP(wrapped, r)

			traceID := trace.SpanFromContext(r.Context()).SpanContext().TraceID()
			duration := time.Since(start)

			level := slog.LevelInfo
			if wrapped.StatusCode() >= 500 {
				level = slog.LevelWarn
			}
			reqLogger.LogAttrs(r.Context(), level, "request completed",
				slog.String("trace_id", traceID.String()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", wrapped.StatusCode()),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", duration),
				slog.String("duration_ms", fmt.Sprintf("%.2f", duration.Seconds()*1000)),
			)
		})
	}
}

// Recover returns middleware that turns a panic into a 500 response.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
// Recover wraps the writer itself and inner middleware reuses that wrapper,
// so a panic after the response has started aborts the connection instead
// of appending an error body to it.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := responsewriter.Wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Bool("response_started", rw.HeaderWritten()),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if rw.HeaderWritten() {
					panic(http.ErrAbortHandler)
				}
				respond.SafeError(rw, http.StatusInternalServerError, fmt.Errorf("internal error"))
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// requestRecord stores request timestamps for sliding window rate limiting.
type requestRecord struct {
	timestamps []time.Time
	mu         sync.Mutex
}

// RateLimiter limits requests per client IP with a sliding window.
// Every event request spends RapidAPI quota, so the event routes sit
// behind one of these.
type RateLimiter struct {
	records sync.Map // map[string]*requestRecord
	limit   int      // 許可する最大リクエスト数
	window  time.Duration
	now     func() time.Time

	// TrustProxy makes X-Forwarded-For / X-Real-IP authoritative.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool
}

// NewRateLimiter creates a limiter allowing limit requests per window per IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Limit applies rate limiting to next.
// Rejected requests get 429 with a Retry-After hint.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)

		remaining, retryAfter, ok := rl.allow(ip)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			secs := int(retryAfter.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			logging.FromContext(r.Context()).Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path))
			respond.SafeError(w, http.StatusTooManyRequests, fmt.Errorf("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow records a request for ip when permitted. It returns the requests
// left in the window and, when rejected, how long until the oldest expires.
func (rl *RateLimiter) allow(ip string) (remaining int, retryAfter time.Duration, ok bool) {
	now := rl.now()

	val, _ := rl.records.LoadOrStore(ip, &requestRecord{
		timestamps: make([]time.Time, 0, rl.limit),
	})
	record := val.(*requestRecord)

	record.mu.Lock()
	defer record.mu.Unlock()

	// 時間窓外の古いタイムスタンプを削除
	record.timestamps = pruneBefore(record.timestamps, now.Add(-rl.window))

	if len(record.timestamps) >= rl.limit {
		return 0, record.timestamps[0].Add(rl.window).Sub(now), false
	}

	record.timestamps = append(record.timestamps, now)
	return rl.limit - len(record.timestamps), 0, true
}

// CleanupExpired drops clients whose every request has left the window.
func (rl *RateLimiter) CleanupExpired() int {
	cutoff := rl.now().Add(-rl.window)
	removed := 0
	rl.records.Range(func(key, value any) bool {
		record := value.(*requestRecord)
		record.mu.Lock()
		record.timestamps = pruneBefore(record.timestamps, cutoff)
		empty := len(record.timestamps) == 0
		record.mu.Unlock()
		if empty {
			rl.records.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// ActiveClients returns the number of tracked client IPs.
func (rl *RateLimiter) ActiveClients() int {
	n := 0
	rl.records.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// clientIP returns the proxy-reported client address when TrustProxy is
// set, otherwise the host part of RemoteAddr.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if rl.TrustProxy {
		// 先頭のIPがクライアント
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

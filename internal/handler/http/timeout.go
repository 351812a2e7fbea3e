package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"supabox/internal/handler/http/respond"
	"supabox/internal/observability/logging"
)

// Timeout returns middleware that answers 504 when next has not written a
// response within duration. The request context is cancelled so upstream
// calls stop early; onTimeout may render a route-specific body and
// defaults to a JSON error.
func Timeout(duration time.Duration, onTimeout http.Handler) func(http.Handler) http.Handler {
	if onTimeout == nil {
		onTimeout = TimeoutJSON()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			done := make(chan struct{})
			panicked := make(chan any, 1)
			tw := &timeoutResponseWriter{ResponseWriter: w, header: make(http.Header)}

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
			case <-ctx.Done():
			}

			tw.mu.Lock()
			defer tw.mu.Unlock()

			// 期限後に完了したハンドラーもタイムアウト扱い
			if ctx.Err() == nil {
				tw.flush()
				return
			}
			tw.timedOut = true
			logging.FromContext(r.Context()).Warn("request timed out",
				slog.String("path", r.URL.Path),
				slog.Duration("timeout", duration))
			onTimeout.ServeHTTP(w, r)
		})
	}
}

// TimeoutJSON is the default 504 body.
func TimeoutJSON() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusGatewayTimeout, respond.ErrorBody{Error: "request timeout"})
	})
}

// timeoutResponseWriter buffers the handler's response so that either the
// complete response or the timeout response is sent, never a mix.
type timeoutResponseWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	header   http.Header
	body     []byte
	code     int
	timedOut bool
}

func (w *timeoutResponseWriter) Header() http.Header {
	return w.header
}

func (w *timeoutResponseWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || w.code != 0 {
		return
	}
	w.code = statusCode
}

func (w *timeoutResponseWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if w.code == 0 {
		w.code = http.StatusOK
	}
	w.body = append(w.body, data...)
	return len(data), nil
}

// flush copies the buffered response to the real writer. Callers hold mu.
func (w *timeoutResponseWriter) flush() {
	dst := w.ResponseWriter.Header()
	for k, v := range w.header {
		dst[k] = v
	}
	if w.code == 0 {
		w.code = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(w.code)
	_, _ = w.ResponseWriter.Write(w.body)
}

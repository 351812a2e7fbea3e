// Package http provides the middleware, health probes and metrics endpoint
// shared by every route of the SupaBox API server.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Circuit is the read-only view of an upstream circuit breaker.
type Circuit interface {
	Name() string
	State() gobreaker.State
	IsOpen() bool
}

// HealthHandler reports configuration and upstream circuit state.
// An open circuit degrades health but does not fail it: the server still
// renders the error screen for that sport.
type HealthHandler struct {
	Version       string
	KeyConfigured bool
	Circuits      []Circuit
	RateLimiter   *RateLimiter
}

// ServeHTTP writes the health report. 503 is returned only when the
// RapidAPI key is missing.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	status := "healthy"
	statusCode := http.StatusOK

	// APIキー設定チェック
	if h.KeyConfigured {
		checks["rapidapi_key"] = CheckStatus{Status: "healthy"}
	} else {
		checks["rapidapi_key"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	// サーキットブレーカーの状態
	for _, c := range h.Circuits {
		check := CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"state": c.State().String()},
		}
		if c.IsOpen() {
			check.Status = "degraded"
			check.Message = "circuit open, upstream calls are short-circuited"
			if status == "healthy" {
				status = "degraded"
			}
		}
		checks["upstream:"+c.Name()] = check
	}

	if h.RateLimiter != nil {
		checks["rate_limiter"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"active_clients": h.RateLimiter.ActiveClients()},
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("health: failed to encode response", slog.Any("error", err))
	}
}

// ReadyHandler handles readiness probes. The server is ready when the key
// is configured and at least one upstream circuit accepts calls.
type ReadyHandler struct {
	KeyConfigured bool
	Circuits      []Circuit
}

// ServeHTTP returns 200 "ready" or 503 with the reason.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.KeyConfigured {
		http.Error(w, "rapidapi key not configured", http.StatusServiceUnavailable)
		return
	}

	if len(h.Circuits) > 0 {
		allOpen := true
		for _, c := range h.Circuits {
			if !c.IsOpen() {
				allOpen = false
				break
			}
		}
		if allOpen {
			http.Error(w, "all upstream circuits open", http.StatusServiceUnavailable)
			return
		}
	}

	writePlain(w, "ready")
}

// LiveHandler handles liveness probes.
type LiveHandler struct{}

// ServeHTTP always returns 200 "alive" while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("probe: failed to write response", slog.Any("error", err))
	}
}

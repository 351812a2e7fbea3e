package http

import (
	"net/http"
	"strings"

	pkgconfig "supabox/pkg/config"
	"supabox/pkg/security/csp"
)

// SecurityHeaders sets nosniff, frame and referrer headers on every
// response and a Content-Security-Policy chosen by route: the HTML screen
// gets csp.ScreenPolicy, everything else csp.APIPolicy.
func SecurityHeaders(cfg pkgconfig.SecurityHeadersConfig) func(http.Handler) http.Handler {
	screen := csp.ScreenPolicy().ReportOnly(cfg.CSPReportOnly)
	api := csp.APIPolicy().ReportOnly(cfg.CSPReportOnly)
	screenValue, apiValue := screen.Build(), api.Build()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")

			if cfg.CSPEnabled {
				if isScreenPath(r.URL.Path) {
					h.Set(screen.HeaderName(), screenValue)
				} else {
					h.Set(api.HeaderName(), apiValue)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isScreenPath(path string) bool {
	return path == "/" || strings.TrimSuffix(path, "/") == "/screen"
}

package http

import (
	"net/http"

	"supabox/internal/handler/http/respond"
)

const (
	maxPathLength  = 2048
	maxQueryLength = 1024
)

// InputValidation rejects oversized request URIs and caps request bodies.
// Every route is a GET; the body cap only guards against abuse.
func InputValidation(maxBodyBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength || len(r.URL.RawQuery) > maxQueryLength {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "URI too long"})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}

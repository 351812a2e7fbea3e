package events

import (
	"context"
	"net/http"

	"supabox/internal/domain/entity"
)

// Lister produces the listing for one sport.
type Lister interface {
	List(ctx context.Context, sport entity.Sport) (*entity.Listing, error)
}

// Register mounts the event routes on mux. guard wraps every route that
// reaches upstream (rate limiting, timeout); nil leaves them unwrapped.
func Register(mux *http.ServeMux, svc Lister, guard func(http.Handler) http.Handler) {
	if guard == nil {
		guard = func(h http.Handler) http.Handler { return h }
	}

	screen := guard(ScreenHandler{Svc: svc})
	mux.Handle("GET /{$}", screen)
	mux.Handle("GET /screen", screen)
	mux.Handle("GET /events", guard(ListHandler{Svc: svc}))
}

package events

import (
	"errors"
	"log/slog"
	"net/http"

	"supabox/internal/domain/entity"
	"supabox/internal/handler/http/respond"
	"supabox/internal/observability/logging"
	eventsUC "supabox/internal/usecase/events"
)

// ListHandler serves GET /events?sport=boxing|mma as JSON.
type ListHandler struct {
	Svc Lister
}

// ServeHTTP 400 for an unknown sport; 502 with error and hint when the
// upstream fetch fails.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	sport, err := entity.ParseSport(r.URL.Query().Get("sport"))
	if err != nil {
		logger.Warn("invalid sport parameter",
			slog.String("sport", r.URL.Query().Get("sport")))
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	listing, err := h.Svc.List(ctx, sport)
	if err != nil {
		respond.AppErrorResponse(w, http.StatusBadGateway, fetchAppError(err))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, http.StatusOK, toListingDTO(listing))
}

// fetchAppError maps a service failure to the 502 error body.
func fetchAppError(err error) *respond.AppError {
	var fe *eventsUC.FetchError
	if errors.As(err, &fe) {
		return respond.NewAppError(http.StatusBadGateway, fe.UserMessage(), eventsUC.UnavailableHint, err)
	}
	return respond.NewAppError(http.StatusBadGateway, "Failed to fetch events", eventsUC.UnavailableHint, err)
}

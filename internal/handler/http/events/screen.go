package events

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"supabox/internal/domain/entity"
	"supabox/internal/observability/logging"
	eventsUC "supabox/internal/usecase/events"
)

//go:embed templates/*.html
var templateFS embed.FS

var screenTemplate = template.Must(template.ParseFS(templateFS, "templates/screen.html"))

const (
	appTitle    = "SupaBox"
	appSubtitle = "Your Combat Sports Hub"
)

// toggleOption is one button of the sport toggle.
type toggleOption struct {
	Sport  string
	Label  string
	Active bool
}

// screenData feeds templates/screen.html.
type screenData struct {
	Title    string
	Subtitle string
	Toggle   []toggleOption
	Heading  string
	Events   []entity.Event
	Empty    string
	Error    string
	Hint     string
}

func newScreenData(sport entity.Sport) screenData {
	toggle := make([]toggleOption, 0, len(entity.Sports))
	for _, s := range entity.Sports {
		toggle = append(toggle, toggleOption{
			Sport:  s.String(),
			Label:  s.Icon() + " " + s.DisplayName(),
			Active: s == sport,
		})
	}
	return screenData{
		Title:    appTitle,
		Subtitle: appSubtitle,
		Toggle:   toggle,
		Heading:  sport.Heading(),
	}
}

// ScreenHandler renders the events screen as HTML for GET / and /screen.
type ScreenHandler struct {
	Svc Lister
}

// ServeHTTP renders the list, the empty state, or the error state (502).
func (h ScreenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sport, err := entity.ParseSport(r.URL.Query().Get("sport"))
	if err != nil {
		data := newScreenData(entity.SportBoxing)
		data.Error = err.Error()
		render(w, r, http.StatusBadRequest, data)
		return
	}

	data := newScreenData(sport)
	listing, err := h.Svc.List(ctx, sport)
	if err != nil {
		var fe *eventsUC.FetchError
		if errors.As(err, &fe) {
			data.Error = fe.UserMessage()
		} else {
			data.Error = "Failed to fetch events"
		}
		data.Hint = eventsUC.UnavailableHint
		render(w, r, http.StatusBadGateway, data)
		return
	}

	data.Events = listing.Events
	data.Empty = listing.EmptyMessage
	render(w, r, http.StatusOK, data)
}

// TimeoutScreen renders the error state for a request cut off by the
// timeout middleware.
func TimeoutScreen() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sport, err := entity.ParseSport(r.URL.Query().Get("sport"))
		if err != nil {
			sport = entity.SportBoxing
		}
		data := newScreenData(sport)
		data.Error = "Timed out fetching " + sport.Noun() + " events"
		data.Hint = eventsUC.UnavailableHint
		render(w, r, http.StatusGatewayTimeout, data)
	})
}

func render(w http.ResponseWriter, r *http.Request, code int, data screenData) {
	var buf bytes.Buffer
	if err := screenTemplate.Execute(&buf, data); err != nil {
		logging.FromContext(r.Context()).Error("failed to render screen", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

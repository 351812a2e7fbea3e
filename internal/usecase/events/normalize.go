package events

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"supabox/internal/domain/entity"
)

const (
	mmaDateLayout = "1/2/2006"
	mmaTimeLayout = "3:04:05 PM"
)

// Normalizer maps raw records to events. Timestamps are rendered in Location.
type Normalizer struct {
	Location *time.Location
}

// NewNormalizer creates a Normalizer for loc; nil means UTC.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{Location: loc}
}

// Normalize converts records for sport, preserving upstream order.
func (n *Normalizer) Normalize(sport entity.Sport, records []gjson.Result) []entity.Event {
	out := make([]entity.Event, 0, len(records))
	for i, r := range records {
		switch sport {
		case entity.SportMMA:
			out = append(out, n.mmaEvent(r, i))
		default:
			out = append(out, boxingEvent(r, i))
		}
	}
	return out
}

func boxingEvent(r gjson.Result, index int) entity.Event {
	ev := entity.Event{
		Key:        firstString(r, "event_id").or(strconv.Itoa(index)),
		Sport:      entity.SportBoxing,
		Title:      firstString(r, "event_title", "title").or(entity.PlaceholderBoxingName),
		Date:       firstString(r, "event_date", "date").or(entity.PlaceholderTBA),
		PlaceLabel: entity.PlaceLabelLocation,
		Place:      firstString(r, "venue", "location").or(entity.PlaceholderTBA),
	}
	if t, ok := parseDate(ev.Date); ok {
		ev.StartsAt = &t
	}
	return ev
}

func (n *Normalizer) mmaEvent(r gjson.Result, index int) entity.Event {
	ev := entity.Event{
		Key:        firstString(r, "id").or(strconv.Itoa(index)),
		Sport:      entity.SportMMA,
		Title:      mmaTitle(r),
		Date:       entity.PlaceholderTBA,
		PlaceLabel: entity.PlaceLabelTournament,
		Place:      firstString(r, "tournament.name").or(entity.PlaceholderMMAPlace),
		Status:     string(firstString(r, "status.type")),
	}
	if secs, ok := unixSeconds(r.Get("startTimestamp")); ok {
		t := time.Unix(secs, 0).In(n.Location)
		ev.Date = t.Format(mmaDateLayout)
		ev.Time = t.Format(mmaTimeLayout)
		ev.StartsAt = &t
	}
	return ev
}

func mmaTitle(r gjson.Result) string {
	home, away := r.Get("homeTeam"), r.Get("awayTeam")
	if present(home) && present(away) {
		return firstString(home, "name").or(entity.PlaceholderTBA) +
			" vs " +
			firstString(away, "name").or(entity.PlaceholderTBA)
	}
	return firstString(r, "name").or(entity.PlaceholderMMAName)
}

// text is a possibly empty field value.
type text string

func (t text) or(fallback string) string {
	if t == "" {
		return fallback
	}
	return string(t)
}

// firstString returns the first path holding a non-empty string or a number.
func firstString(r gjson.Result, paths ...string) text {
	for _, p := range paths {
		v := r.Get(p)
		switch v.Type {
		case gjson.String:
			if s := strings.TrimSpace(v.String()); s != "" {
				return text(s)
			}
		case gjson.Number:
			return text(v.Raw)
		}
	}
	return ""
}

// present mirrors a truthy check: null, false, 0 and "" count as absent.
func present(v gjson.Result) bool {
	if !v.Exists() {
		return false
	}
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Float() != 0
	case gjson.String:
		return v.String() != ""
	}
	return true
}

func unixSeconds(v gjson.Result) (int64, bool) {
	switch v.Type {
	case gjson.Number:
		secs := v.Int()
		return secs, secs != 0
	case gjson.String:
		secs, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		return secs, err == nil && secs != 0
	}
	return 0, false
}

var boxingDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate recognizes the ISO forms the boxing API uses. The display
// string is never rewritten; the parsed time only feeds StartsAt.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range boxingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

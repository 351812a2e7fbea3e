package entity

import "time"

// Placeholder texts used when an upstream record lacks a field.
const (
	PlaceholderTBA        = "TBA"
	PlaceholderBoxingName = "Boxing Event"
	PlaceholderMMAName    = "MMA Fight"
	PlaceholderMMAPlace   = "MMA Event"
)

// Labels shown in front of Event.Place.
const (
	PlaceLabelLocation   = "Location"
	PlaceLabelTournament = "Tournament"
)

// Event is a normalized, display-ready upcoming fight event.
// Every string field except Time and Status is guaranteed non-empty.
type Event struct {
	Key        string     `json:"key"`
	Sport      Sport      `json:"sport"`
	Title      string     `json:"title"`
	Date       string     `json:"date"`
	Time       string     `json:"time,omitempty"`
	PlaceLabel string     `json:"place_label"`
	Place      string     `json:"place"`
	Status     string     `json:"status,omitempty"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
}

// When joins Date and Time the way the event card shows them.
func (e Event) When() string {
	if e.Time == "" {
		return e.Date
	}
	return e.Date + " " + e.Time
}

// Listing is the result of one fetch for one sport.
type Listing struct {
	Sport        Sport     `json:"sport"`
	Heading      string    `json:"heading"`
	Events       []Event   `json:"events"`
	EmptyMessage string    `json:"empty_message,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// NewListing builds a Listing for sport, filling the heading and, when
// events is empty, the empty-state message.
func NewListing(sport Sport, events []Event, fetchedAt time.Time) *Listing {
	if events == nil {
		events = []Event{}
	}
	l := &Listing{
		Sport:     sport,
		Heading:   sport.Heading(),
		Events:    events,
		FetchedAt: fetchedAt,
	}
	if len(events) == 0 {
		l.EmptyMessage = sport.EmptyMessage()
	}
	return l
}

// IsEmpty reports whether the listing has no events.
func (l *Listing) IsEmpty() bool {
	return l == nil || len(l.Events) == 0
}

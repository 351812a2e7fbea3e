package entity

import (
	"strings"
)

// Sport is the two-state toggle that selects which upstream API is queried.
type Sport string

const (
	// SportBoxing selects the boxing schedule API. It is the initial toggle state.
	SportBoxing Sport = "boxing"
	// SportMMA selects the MMA tournament schedule API.
	SportMMA Sport = "mma"
)

// Sports lists every supported sport in toggle order.
var Sports = []Sport{SportBoxing, SportMMA}

// ParseSport converts user input into a Sport.
// Matching is case-insensitive and an empty value selects boxing.
func ParseSport(s string) (Sport, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SportBoxing):
		return SportBoxing, nil
	case string(SportMMA):
		return SportMMA, nil
	default:
		return "", ErrInvalidSport
	}
}

// DisplayName returns the label used in headings ("Boxing", "MMA").
func (s Sport) DisplayName() string {
	if s == SportMMA {
		return "MMA"
	}
	return "Boxing"
}

// Noun returns the label used inside sentences ("boxing", "MMA").
func (s Sport) Noun() string {
	if s == SportMMA {
		return "MMA"
	}
	return "boxing"
}

// Heading returns the list title, e.g. "Upcoming Boxing Events".
func (s Sport) Heading() string {
	return "Upcoming " + s.DisplayName() + " Events"
}

// EmptyMessage is shown when the upstream API returned no events.
func (s Sport) EmptyMessage() string {
	return "No upcoming " + s.Noun() + " events found."
}

// LoadingMessage is shown by clients while a fetch is in flight.
func (s Sport) LoadingMessage() string {
	return "Loading " + s.Noun() + " events..."
}

// Icon returns the toggle glyph for the sport.
func (s Sport) Icon() string {
	if s == SportMMA {
		return "🥋"
	}
	return "🥊"
}

// Valid reports whether s is a supported sport.
func (s Sport) Valid() bool {
	return s == SportBoxing || s == SportMMA
}

// String implements fmt.Stringer.
func (s Sport) String() string {
	return string(s)
}

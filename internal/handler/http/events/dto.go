// Package events provides the HTTP handlers that serve upcoming fight
// events as JSON and as the HTML screen.
package events

import (
	"time"

	"supabox/internal/domain/entity"
)

// EventDTO is one event card.
type EventDTO struct {
	Key        string     `json:"key" example:"ev-1"`
	Title      string     `json:"title" example:"Jon Jones vs Stipe Miocic"`
	Date       string     `json:"date" example:"9/15/2024"`
	Time       string     `json:"time,omitempty" example:"8:00:00 PM"`
	PlaceLabel string     `json:"place_label" example:"Tournament"`
	Place      string     `json:"place" example:"UFC 309"`
	Status     string     `json:"status,omitempty" example:"notstarted"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
}

// ListingDTO is the JSON body of GET /events.
type ListingDTO struct {
	Sport        string     `json:"sport" example:"mma"`
	Heading      string     `json:"heading" example:"Upcoming MMA Events"`
	Count        int        `json:"count"`
	Events       []EventDTO `json:"events"`
	EmptyMessage string     `json:"empty_message,omitempty"`
	FetchedAt    time.Time  `json:"fetched_at"`
}

func toListingDTO(l *entity.Listing) ListingDTO {
	events := make([]EventDTO, 0, len(l.Events))
	for _, e := range l.Events {
		events = append(events, EventDTO{
			Key:        e.Key,
			Title:      e.Title,
			Date:       e.Date,
			Time:       e.Time,
			PlaceLabel: e.PlaceLabel,
			Place:      e.Place,
			Status:     e.Status,
			StartsAt:   e.StartsAt,
		})
	}
	return ListingDTO{
		Sport:        l.Sport.String(),
		Heading:      l.Heading,
		Count:        len(events),
		Events:       events,
		EmptyMessage: l.EmptyMessage,
		FetchedAt:    l.FetchedAt,
	}
}

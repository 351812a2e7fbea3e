package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"supabox/internal/domain/entity"
	eventsUC "supabox/internal/usecase/events"
)

// renderTable prints one listing: heading, then a table or the empty message.
func renderTable(w io.Writer, l *entity.Listing) {
	fmt.Fprintln(w, l.Heading)

	if l.IsEmpty() {
		fmt.Fprintln(w, l.EmptyMessage)
		fmt.Fprintln(w)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Event", "When", "Where", "Status"})
	for _, e := range l.Events {
		t.AppendRow(table.Row{e.Title, e.When(), e.PlaceLabel + ": " + e.Place, e.Status})
	}
	t.Render()
	fmt.Fprintln(w)
}

func renderJSON(w io.Writer, listings []*entity.Listing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(listings) == 1 {
		return enc.Encode(listings[0])
	}
	return enc.Encode(listings)
}

// renderError prints the same error block as the HTML screen. sport is
// used for the heading when known.
func renderError(w io.Writer, sport entity.Sport, err error) {
	msg := "Failed to fetch events"
	var fe *eventsUC.FetchError
	if errors.As(err, &fe) {
		msg = fe.UserMessage()
		if sport == "" {
			sport = fe.Sport
		}
	}
	if sport != "" {
		fmt.Fprintln(w, sport.Heading())
	}
	fmt.Fprintln(w, "Error: "+msg)
	fmt.Fprintln(w, eventsUC.UnavailableHint)
}

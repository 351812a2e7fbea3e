// Package events turns raw upstream schedule records into display-ready
// listings for the selected sport.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"

	"supabox/internal/domain/entity"
	"supabox/internal/resilience/retry"
)

// UnavailableHint is shown under every fetch failure.
const UnavailableHint = "Please check your internet connection and try again."

// ErrNoFetcher indicates that no upstream fetcher is registered for a sport.
var ErrNoFetcher = errors.New("no fetcher registered for sport")

// FetchError reports a failed listing. No partial results accompany it.
type FetchError struct {
	Sport entity.Sport
	Err   error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s events: %v", e.Sport, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// UserMessage is the text rendered as "Error: <message>". It names the
// failure class without leaking upstream bodies or credentials.
func (e *FetchError) UserMessage() string {
	var httpErr *retry.HTTPError
	switch {
	case errors.As(e.Err, &httpErr):
		return fmt.Sprintf("Failed to fetch %s events (HTTP %d)", e.Sport.Noun(), httpErr.StatusCode)
	case errors.Is(e.Err, gobreaker.ErrOpenState), errors.Is(e.Err, gobreaker.ErrTooManyRequests):
		return "The " + e.Sport.Noun() + " events service is temporarily unavailable"
	case errors.Is(e.Err, context.DeadlineExceeded):
		return "Timed out fetching " + e.Sport.Noun() + " events"
	default:
		return "Failed to fetch " + e.Sport.Noun() + " events"
	}
}

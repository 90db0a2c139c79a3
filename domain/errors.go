package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// Feed level errors. These end a refresh job.
	ErrFeedBlocked     = errors.New("feed is blocked")
	ErrFeedFetchFailed = errors.New("failed to fetch feed")
	ErrFeedParseFailed = errors.New("failed to parse feed")

	// Item level errors. These are recorded and the item is skipped.
	ErrInvalidFeedItem = errors.New("invalid feed item")
	ErrInvalidItemLink = errors.New("invalid feed item link")

	// Job errors
	ErrInvalidJob = errors.New("invalid job payload")
	ErrUnknownJob = errors.New("unknown job name")

	ErrInvalidURL = errors.New("invalid url")
)

// ExternalHTTPError represents an unexpected HTTP status from an external site.
type ExternalHTTPError struct {
	StatusCode int
	URL        string
}

func (e *ExternalHTTPError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %q", e.StatusCode, e.URL)
}

// IsTerminalJobError reports whether a job that ended with err should be
// acknowledged instead of left pending for redelivery.
func IsTerminalJobError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrFeedBlocked) ||
		errors.Is(err, ErrFeedFetchFailed) ||
		errors.Is(err, ErrFeedParseFailed) ||
		errors.Is(err, ErrInvalidJob) ||
		errors.Is(err, ErrUnknownJob)
}

package scraper

import (
	"errors"
	"fmt"
)

// Scrape failure categories.
//
// Design decision: We use package-level sentinel errors wrapped with %w
// rather than a single error enum type. This allows callers to use
// errors.Is() to distinguish failure kinds (the spider aborts the run on
// ErrInvalidSelector but merely logs everything else) while the wrapped
// message keeps the human-readable context.
var (
	// ErrInvalidURL is returned when a seed or discovered URL cannot be
	// parsed into a usable absolute URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrTimeout is returned when a request exceeds the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork is returned for connection-level and other transport
	// failures that are not timeouts.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned for HTTP 429 responses. It is distinct
	// from the generic status failure so operators can tell throttling
	// apart from other server errors.
	ErrRateLimited = errors.New("rate limited")

	// ErrAntiBotDetected is returned when the page markup matches a known
	// bot-challenge signature.
	ErrAntiBotDetected = errors.New("anti-bot protection detected")

	// ErrInvalidSelector is returned when a user-supplied CSS selector does
	// not parse. This is a configuration error and aborts the whole run.
	ErrInvalidSelector = errors.New("invalid CSS selector")

	// ErrDepthExceeded marks a frontier entry deeper than the crawl's
	// configured maximum. The spider skips such entries rather than
	// failing, so this only appears in debug logs.
	ErrDepthExceeded = errors.New("crawl depth exceeded maximum")
)

// StatusError describes a non-2xx HTTP response.
// Known codes carry a descriptive message; unknown codes a generic one.
type StatusError struct {
	// Code is the numeric HTTP status code.
	Code int

	// Message is the human-readable classification for the code.
	Message string
}

// Error returns the formatted status failure.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

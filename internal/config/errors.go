package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoURL is returned when no URL is specified.
	// This error occurs when neither positional arguments nor --url-file
	// provide a URL to scrape.
	ErrNoURL = errors.New("no URL specified: provide a URL or use --url-file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the request delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxDepth is returned when the crawl depth is negative.
	// Depth 0 scrapes only the starting page.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	// A cap of zero would mean no scraping at all.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidFormat is returned when the report format is not one of
	// json, csv, text or markdown.
	ErrInvalidFormat = errors.New("invalid format: must be json, csv, text or markdown")

	// ErrOutputRequired is returned when --output-per-page is used
	// without --output, since the per-page files need a name prefix.
	ErrOutputRequired = errors.New("per-page output requires --output to provide a file name prefix")
)

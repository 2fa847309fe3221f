package scraper

import "fmt"

// statusMessages maps known HTTP status codes to descriptive message
// templates. The %s placeholder is the requested URL. These messages are
// shown to the operator in place of raw transport errors, so they should
// say what the code means, not just repeat it.
var statusMessages = map[int]string{
	400: "Bad Request - the server couldn't understand the request to %s",
	401: "Unauthorized - authentication required to access %s",
	403: "Forbidden - access denied to %s. This may indicate bot protection.",
	404: "Not Found - the page %s does not exist",
	500: "Internal Server Error - the server at %s encountered an error",
	502: "Bad Gateway - the server at %s received an invalid response",
	503: "Service Unavailable - the server at %s is temporarily unavailable",
	504: "Gateway Timeout - the server at %s took too long to respond",
}

// ClassifyStatus maps a numeric response status to a semantic outcome.
// 2xx responses return nil. HTTP 429 wraps ErrRateLimited so callers can
// distinguish throttling; every other non-2xx code returns a *StatusError,
// descriptive for known codes and generic otherwise.
func ClassifyStatus(statusCode int, pageURL string) error {
	if statusCode >= 200 && statusCode <= 299 {
		return nil
	}

	if statusCode == 429 {
		return fmt.Errorf("%w: too many requests to %s, please slow down and try again later",
			ErrRateLimited, pageURL)
	}

	if tmpl, ok := statusMessages[statusCode]; ok {
		return &StatusError{Code: statusCode, Message: fmt.Sprintf(tmpl, pageURL)}
	}

	return &StatusError{
		Code:    statusCode,
		Message: fmt.Sprintf("HTTP error %d while accessing %s", statusCode, pageURL),
	}
}

package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spetersoncode/relay"
)

// maxErrorBody caps how much of an error response body is kept for messages.
const maxErrorBody = 512

// wrapHTTPError maps a non-2xx backend response onto the relay error taxonomy.
// Rate limits and 5xx are transient; auth failures are permanent; other 4xx
// are caller errors. Retry-After is honored when present.
func wrapHTTPError(method, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := fmt.Sprintf("api: %s %s returned %d", method, path, resp.StatusCode)
	if len(body) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}

	code := resp.StatusCode
	if code == http.StatusTooManyRequests {
		if retryAfter := parseRetryAfter(resp); retryAfter > 0 {
			return relay.NewTransientErrorWithRetry(msg, code, retryAfter, nil)
		}
		return relay.NewTransientError(msg, code, nil)
	}

	switch categorizeStatusCode(code) {
	case relay.ErrorTransient:
		return relay.NewTransientError(msg, code, nil)
	case relay.ErrorUserInput:
		return relay.NewUserInputError(msg, code, nil)
	default:
		return relay.NewPermanentError(msg, code, nil)
	}
}

// categorizeStatusCode determines the error category from an HTTP status code.
func categorizeStatusCode(code int) relay.ErrorCategory {
	switch {
	case code == http.StatusTooManyRequests:
		return relay.ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return relay.ErrorTransient // Server error
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return relay.ErrorPermanent // Authentication/authorization
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		return relay.ErrorUserInput // Bad request or not found
	default:
		return relay.ErrorPermanent // Default to permanent for unknown codes
	}
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	// Try parsing as seconds (most common)
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP-date (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}

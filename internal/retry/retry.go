// Package retry provides retry helpers shared by the API clients.
package retry

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// ShouldRetry returns true if the HTTP status code indicates a retryable error.
// Retryable errors include:
//   - 429 (Too Many Requests) - rate limit exceeded
//   - 5xx (Server Errors) - temporary server-side issues
func ShouldRetry(statusCode int) bool {
	return statusCode >= 500 || statusCode == 429
}

// ParseRetryAfter parses the Retry-After HTTP header and returns the duration to wait.
// The Retry-After header can contain either:
//   - Number of seconds (e.g., "120")
//   - HTTP-date (not currently supported, returns 0)
//
// Returns 0 if the header is empty or cannot be parsed.
func ParseRetryAfter(retryAfterHeader string) time.Duration {
	if retryAfterHeader == "" {
		return 0
	}

	seconds, err := strconv.Atoi(retryAfterHeader)
	if err == nil {
		return time.Duration(seconds) * time.Second
	}

	return 0
}

// Do calls fn up to attempts times, waiting a fixed delay between attempts.
// The delay is fixed, not exponential: the device-simulator service rejects
// requests intermittently regardless of load, so backing off buys nothing.
// Do returns nil on the first success, the context error if the wait is
// interrupted, or the last failure once all attempts are exhausted.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		return errors.Newf("invalid attempt count %d", attempts)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled during retry wait")
		}
	}

	return errors.Wrapf(lastErr, "request failed after %d attempts", attempts)
}

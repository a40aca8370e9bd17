// Package ratelimit constructs the token-bucket limiters used by the HTTP middleware.
package ratelimit

import "golang.org/x/time/rate"

// NewRateLimiter creates a rate limiter for the given requests-per-minute
// budget. Tokens are replenished continuously at requestsPerMinute/60 per
// second with a burst capacity of one minute's budget, so short bursts
// against the platform are absorbed without delaying every call.
func NewRateLimiter(requestsPerMinute int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute)
}

// Package oaipmh implements the wire layer for harvesting from the
// arXiv OAI-PMH endpoint: request construction, courtesy rate limiting,
// and parsing of ListRecords response pages.
package oaipmh

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter wraps a token bucket limiter used to enforce the
// endpoint's courtesy delay between consecutive requests. It is safe
// for concurrent use because the underlying rate.Limiter is
// goroutine-safe for all operations.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter.
// ratePerSecond is the sustained rate of requests per second and burst
// is the maximum number of tokens that can be consumed at once. The
// courtesy pause between page fetches corresponds to a rate of
// 1/pause with burst 1.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// newUnlimited returns a limiter that never blocks, used when the
// courtesy pause is disabled.
func newUnlimited() *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
}

// Wait blocks until a request is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow reports whether a request is allowed without waiting,
// consuming one token when it is.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Tokens returns the current number of available tokens, useful for
// monitoring and debugging.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}

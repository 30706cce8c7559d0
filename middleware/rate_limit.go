package middleware

import (
	"errors"

	"golang.org/x/time/rate"

	"liveosc/message"
)

// ErrRateLimited is returned when a query exceeds the configured rate.
var ErrRateLimited = errors.New("query rate limit exceeded")

// RateLimit rejects queries beyond r per second (token bucket of the given
// burst). Useful when driving the remote from a tight loop: Live's remote
// script processes messages on its UI thread and floods make it unresponsive.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next QueryFunc) QueryFunc {
		return func(addr string, args ...any) (message.Arguments, error) {
			if !limiter.Allow() {
				return nil, ErrRateLimited
			}
			return next(addr, args...)
		}
	}
}

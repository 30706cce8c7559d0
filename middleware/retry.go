package middleware

import (
	"errors"
	"time"

	"liveosc/message"
)

// isTimeout reports whether err is a timeout, using the net-style
// Timeout() marker the client's timeout error carries.
func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// Retry re-issues a query up to maxRetries extra times when it times out,
// sleeping baseDelay, 2*baseDelay, 4*baseDelay, ... between attempts.
//
// Only timeouts are retried — the remote being absent or slow is a normal,
// recoverable condition on a fire-and-forget channel. Encoding and transport
// errors are local and deterministic, so retrying them is pointless.
func Retry(maxRetries int, baseDelay time.Duration) Middleware {
	return func(next QueryFunc) QueryFunc {
		return func(addr string, args ...any) (message.Arguments, error) {
			result, err := next(addr, args...)
			for attempt := 0; attempt < maxRetries && isTimeout(err); attempt++ {
				time.Sleep(baseDelay * time.Duration(1<<attempt))
				result, err = next(addr, args...)
			}
			return result, err
		}
	}
}

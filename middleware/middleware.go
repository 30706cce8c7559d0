// Package middleware provides composable wrappers around the client's query
// path: retry-on-timeout, rate limiting, and logging. Middlewares are opt-in
// per client via client.WithMiddleware; the bare client never retries or
// throttles on its own.
package middleware

import (
	"liveosc/message"
)

// QueryFunc is the shape of a query call: send a request to addr and block
// for the correlated response arguments.
type QueryFunc func(addr string, args ...any) (message.Arguments, error)

// Middleware wraps a QueryFunc with additional behavior.
type Middleware func(next QueryFunc) QueryFunc

// Chain combines middlewares into one, applied in the order given:
// Chain(A, B, C) produces A(B(C(next))).
func Chain(middlewares ...Middleware) Middleware {
	return func(next QueryFunc) QueryFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

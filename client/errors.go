package client

import (
	"errors"

	"liveosc/registry"
)

// ErrClosed is returned by every operation attempted during or after Close,
// and delivered to queries that were in flight when Close ran.
var ErrClosed = errors.New("client is closed")

// ErrPendingQuery is returned when a query is issued for an address that
// already has a query in flight. Retry after the first call completes.
var ErrPendingQuery = registry.ErrAddressPending

// ErrTimeout is returned when no response arrives within the deadline.
var ErrTimeout error = &timeoutError{}

// timeoutError satisfies the net-style Timeout() marker so callers and the
// retry middleware can classify it without importing this package.
type timeoutError struct{}

func (*timeoutError) Error() string { return "query timed out waiting for a response" }

func (*timeoutError) Timeout() bool { return true }

// Package registry holds the two dispatch tables of the client: the pending
// table routing responses to blocked Query callers, and the subscription
// table routing change notifications to long-lived handlers.
//
// Both tables are keyed by exact address string — OSC has no request IDs, so
// the response address is the only correlation handle the protocol offers.
// Both are mutated from two sides (foreground callers registering, the
// listener goroutine dispatching and removing) and are safe for concurrent
// use.
package registry

import (
	"errors"
	"sync"

	"liveosc/message"
)

// ErrAddressPending is returned by Add when a query for the same address is
// already in flight. Allowing a second waiter would require overwriting the
// first, which silently loses its caller, so duplicates are rejected instead.
var ErrAddressPending = errors.New("a query for this address is already pending")

// Outcome is what a blocked Query caller eventually receives: either the
// response arguments or the reason no response will come.
type Outcome struct {
	Args message.Arguments
	Err  error
}

// PendingQuery is the per-call slot linking a blocked caller to the response
// it awaits. The caller owns it; the listener loop only ever writes one
// Outcome into Result.
type PendingQuery struct {
	Address string
	Result  chan Outcome // capacity 1, written at most once
}

// PendingTable maps a response address to its single in-flight PendingQuery.
type PendingTable struct {
	mu      sync.Mutex
	entries map[string]*PendingQuery
}

// NewPendingTable creates an empty table.
func NewPendingTable() *PendingTable {
	return &PendingTable{entries: make(map[string]*PendingQuery)}
}

// Add registers a waiter for addr. It fails with ErrAddressPending if a
// waiter for addr already exists.
//
// Callers must Add before transmitting the request, so a fast response
// cannot slip past an unregistered waiter.
func (t *PendingTable) Add(addr string) (*PendingQuery, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[addr]; exists {
		return nil, ErrAddressPending
	}
	pq := &PendingQuery{
		Address: addr,
		// Buffered so the listener loop never blocks completing a query,
		// even if the caller has already timed out and walked away.
		Result: make(chan Outcome, 1),
	}
	t.entries[addr] = pq
	return pq, nil
}

// Complete resolves the waiter for addr with the response arguments and
// removes it. It reports whether a waiter existed. Non-blocking.
func (t *PendingTable) Complete(addr string, args message.Arguments) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	pq, ok := t.entries[addr]
	if !ok {
		return false
	}
	delete(t.entries, addr)
	pq.Result <- Outcome{Args: args}
	return true
}

// Remove discards the waiter for addr without resolving it. Called on the
// timeout path so a late response cannot satisfy a caller that already gave
// up.
func (t *PendingTable) Remove(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, addr)
}

// Contains reports whether a waiter for addr is registered.
func (t *PendingTable) Contains(addr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[addr]
	return ok
}

// FailAll resolves every waiter with err and empties the table. Called on
// client shutdown so no caller is left parked forever.
func (t *PendingTable) FailAll(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for addr, pq := range t.entries {
		delete(t.entries, addr)
		pq.Result <- Outcome{Err: err}
	}
}

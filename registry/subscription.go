package registry

import (
	"sync"

	"liveosc/message"
)

// MessageHandler receives every message arriving at a subscribed address,
// one call per message, in arrival order.
type MessageHandler interface {
	HandleMessage(msg *message.Message)
}

// HandlerFunc adapts an ordinary function to MessageHandler.
type HandlerFunc func(msg *message.Message)

// HandleMessage calls f(msg).
func (f HandlerFunc) HandleMessage(msg *message.Message) {
	f(msg)
}

// SubscriptionTable maps an address to its single long-lived handler.
//
// At most one handler per address, matching the remote's start_listen /
// stop_listen toggle semantics: re-subscribing an address replaces the
// previous handler.
type SubscriptionTable struct {
	mu       sync.RWMutex
	handlers map[string]MessageHandler
}

// NewSubscriptionTable creates an empty table.
func NewSubscriptionTable() *SubscriptionTable {
	return &SubscriptionTable{handlers: make(map[string]MessageHandler)}
}

// Add registers handler for addr, replacing any previous handler.
func (t *SubscriptionTable) Add(addr string, handler MessageHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[addr] = handler
}

// Remove deletes the handler for addr. Removing an absent address is a no-op.
func (t *SubscriptionTable) Remove(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handlers, addr)
}

// Lookup returns the handler for addr, if one is registered.
func (t *SubscriptionTable) Lookup(addr string) (MessageHandler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.handlers[addr]
	return h, ok
}

// Clear drops every subscription. Called on client shutdown.
func (t *SubscriptionTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.handlers)
}

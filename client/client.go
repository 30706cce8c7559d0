// Package client implements the AbletonOSC control client.
//
// The client turns the one-way, unordered UDP channel into synchronous
// queries and durable subscriptions. Correlation is by address: OSC carries
// no request IDs, so a request to "/live/song/get/tempo" is answered by a
// message on that same address, and the single background listener goroutine
// routes each inbound message to whoever is waiting for its address.
//
//	goroutine-1 ──Query("/live/song/get/tempo")──┐
//	goroutine-2 ──Query("/live/song/get/volume")─┼──→ UDP :11000 ──→ Live
//	goroutine-3 ──Send("/live/song/start_playing")┘
//
//	recvLoop: ←── UDP :11001 ←── response("/live/song/get/tempo")
//	            → pending table → goroutine-1 wakes up
//	          ←── notification("/live/song/get/is_playing")
//	            → subscription table → handler runs on the dispatch goroutine
//
// A message whose address matches both a pending query and a subscription is
// delivered to both; the two tables are independent. A message matching
// neither is dropped.
package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"liveosc/codec"
	"liveosc/message"
	"liveosc/middleware"
	"liveosc/registry"
	"liveosc/transport"
)

// AbletonOSC defaults: the remote script listens on 11000 and sends every
// response and notification to 11001 on the peer's host.
const (
	DefaultHost        = "127.0.0.1"
	DefaultSendPort    = 11000
	DefaultReceivePort = 11001
)

// Client is the process-wide handle to one Live connection. Create with
// Dial or Connect; all methods are safe for concurrent use.
type Client struct {
	transport *transport.UDPTransport
	pending   *registry.PendingTable
	subs      *registry.SubscriptionTable

	logger  *zap.Logger
	timeout time.Duration
	limiter *rate.Limiter        // nil when unlimited
	queryFn middleware.QueryFunc // doQuery wrapped by configured middleware

	closed    chan struct{} // closed exactly once by Close
	closeOnce sync.Once
	closeErr  error

	// notifications feeds subscription handlers through a dedicated
	// dispatch goroutine, so a slow handler delays other notifications
	// but never the listener loop or query completion.
	notifications chan *message.Message
	recvDone      chan struct{}
	dispatchDone  chan struct{}
}

// Connect opens a client with the AbletonOSC defaults (loopback, 11000/11001).
func Connect(opts ...Option) (*Client, error) {
	return Dial(DefaultHost, DefaultSendPort, DefaultReceivePort, opts...)
}

// Dial opens the transport toward host:sendPort, binds recvPort locally, and
// starts the listener loop. It does not verify that Live is running: on a
// dead peer Dial succeeds and queries time out.
func Dial(host string, sendPort, recvPort int, opts ...Option) (*Client, error) {
	o := applyOptions(opts...)

	tp, err := transport.Open(host, sendPort, recvPort)
	if err != nil {
		return nil, err
	}

	c := &Client{
		transport:     tp,
		pending:       registry.NewPendingTable(),
		subs:          registry.NewSubscriptionTable(),
		logger:        o.logger,
		timeout:       o.timeout,
		limiter:       o.limiter,
		closed:        make(chan struct{}),
		notifications: make(chan *message.Message, o.backlog),
		recvDone:      make(chan struct{}),
		dispatchDone:  make(chan struct{}),
	}
	c.queryFn = middleware.Chain(o.middlewares...)(c.doQuery)

	go c.recvLoop()
	go c.dispatchLoop()

	c.logger.Debug("client open",
		zap.String("remote", tp.RemoteAddr().String()),
		zap.Int("receive_port", tp.ReceivePort()))
	return c, nil
}

// ReceivePort returns the local port responses arrive on. Mostly useful when
// dialing with recvPort 0 in tests.
func (c *Client) ReceivePort() int {
	return c.transport.ReceivePort()
}

// Send encodes and transmits a fire-and-forget message. It never waits for a
// response; it fails only on bad arguments, local I/O errors, or a closed
// client.
func (c *Client) Send(addr string, args ...any) error {
	if c.isClosed() {
		return ErrClosed
	}
	msg, err := message.New(addr, args...)
	if err != nil {
		return err
	}
	return c.transmit(msg)
}

// Query sends a request and blocks until the response for the same address
// arrives or the client's default timeout elapses. Configured middleware
// wraps this path.
//
// A timeout is a normal outcome, not a programming error: Live may be
// absent, paused, or slow. The returned timeout error satisfies the
// net-style interface { Timeout() bool }.
func (c *Client) Query(addr string, args ...any) (message.Arguments, error) {
	return c.queryFn(addr, args...)
}

// QueryTimeout is Query with an explicit deadline for this one call. It goes
// straight to the transport, bypassing configured middleware.
func (c *Client) QueryTimeout(addr string, timeout time.Duration, args ...any) (message.Arguments, error) {
	return c.query(addr, timeout, args...)
}

func (c *Client) doQuery(addr string, args ...any) (message.Arguments, error) {
	return c.query(addr, c.timeout, args...)
}

func (c *Client) query(addr string, timeout time.Duration, args ...any) (message.Arguments, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	msg, err := message.New(addr, args...)
	if err != nil {
		return nil, err
	}

	// Register the waiter before transmitting, so a response cannot arrive
	// ahead of it. A second concurrent query on the same address is
	// rejected: with address-only correlation there is no way to tell the
	// two responses apart.
	pq, err := c.pending.Add(addr)
	if err != nil {
		return nil, err
	}
	if c.isClosed() {
		// Close may have drained the table between the check above and
		// Add; don't leave a waiter it cannot see.
		c.pending.Remove(addr)
		return nil, ErrClosed
	}
	if err := c.transmit(msg); err != nil {
		c.pending.Remove(addr)
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case out := <-pq.Result:
		return out.Args, out.Err
	case <-timer.C:
		// Remove the entry so a late response cannot satisfy a caller
		// that already gave up.
		c.pending.Remove(addr)
		return nil, ErrTimeout
	}
}

// transmit encodes and sends one message, honoring the optional send pacer.
func (c *Client) transmit(msg *message.Message) error {
	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return err
		}
	}
	return c.transport.Send(data)
}

// Subscribe registers handler for every future message on addr, replacing
// any previous handler for that address. Handlers run one message at a time,
// in arrival order, on the dispatch goroutine.
//
// Subscribe is local only; use Listen when the remote must also be told to
// start emitting the property's change notifications.
func (c *Client) Subscribe(addr string, handler registry.MessageHandler) error {
	if c.isClosed() {
		return ErrClosed
	}
	c.subs.Add(addr, handler)
	return nil
}

// SubscribeFunc is Subscribe for a plain function.
func (c *Client) SubscribeFunc(addr string, fn func(*message.Message)) error {
	return c.Subscribe(addr, registry.HandlerFunc(fn))
}

// Unsubscribe removes the handler for addr; later messages on addr are
// dropped silently. Unsubscribing an address that has no handler is a no-op.
func (c *Client) Unsubscribe(addr string) error {
	if c.isClosed() {
		return ErrClosed
	}
	c.subs.Remove(addr)
	return nil
}

// Listen subscribes handler to the property address and sends the remote's
// fire-and-forget start_listen request, e.g.:
//
//	c.Listen("/live/song/get/tempo", "/live/song/start_listen/tempo", h)
func (c *Client) Listen(propertyAddr, startAddr string, handler registry.MessageHandler) error {
	if err := c.Subscribe(propertyAddr, handler); err != nil {
		return err
	}
	return c.Send(startAddr)
}

// Unlisten undoes Listen: it sends the remote's stop_listen request and
// removes the local handler.
func (c *Client) Unlisten(propertyAddr, stopAddr string) error {
	if err := c.Unsubscribe(propertyAddr); err != nil {
		return err
	}
	return c.Send(stopAddr)
}

// Close stops the listener loop, fails every in-flight query with ErrClosed,
// clears all subscriptions, and releases the transport. Idempotent; calls
// after the first return nil.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)

		// Closing the transport wakes the listener loop out of Receive.
		c.closeErr = c.transport.Close()

		// Unblock parked queries immediately rather than after loop teardown.
		c.pending.FailAll(ErrClosed)

		<-c.recvDone
		close(c.notifications)
		<-c.dispatchDone

		c.subs.Clear()
		c.logger.Debug("client closed")
	})
	return c.closeErr
}

func (c *Client) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// recvLoop is the single reader of the transport. It runs until Close and
// contains every per-datagram failure: a malformed or unmatched datagram is
// logged and dropped, never propagated.
func (c *Client) recvLoop() {
	defer close(c.recvDone)
	for {
		data, err := c.transport.Receive()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || c.isClosed() {
				return
			}
			c.logger.Warn("receive failed", zap.Error(err))
			continue
		}

		msg, err := codec.Decode(data)
		if err != nil {
			c.logger.Warn("dropping malformed datagram",
				zap.Int("bytes", len(data)), zap.Error(err))
			continue
		}

		matched := c.pending.Complete(msg.Address, msg.Arguments)

		// Subscriptions are checked independently of query correlation:
		// the same address can be a response target for one caller and a
		// subscribed notification for another feature.
		if _, ok := c.subs.Lookup(msg.Address); ok {
			select {
			case c.notifications <- msg:
			default:
				c.logger.Warn("notification backlog full, dropping message",
					zap.String("address", msg.Address))
			}
		} else if !matched {
			c.logger.Debug("dropping unmatched message",
				zap.String("address", msg.Address))
		}
	}
}

// dispatchLoop runs subscription handlers off the listener loop, one message
// at a time so per-address arrival order is preserved.
func (c *Client) dispatchLoop() {
	defer close(c.dispatchDone)
	for msg := range c.notifications {
		// Re-check: the handler may have been unsubscribed or replaced
		// while the message sat in the backlog.
		handler, ok := c.subs.Lookup(msg.Address)
		if !ok {
			continue
		}
		c.invoke(handler, msg)
	}
}

// invoke shields the dispatch goroutine from a panicking handler.
func (c *Client) invoke(handler registry.MessageHandler, msg *message.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("subscription handler panicked",
				zap.String("address", msg.Address), zap.Any("panic", r))
		}
	}()
	handler.HandleMessage(msg)
}

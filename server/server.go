// Package server implements a small OSC responder: a UDP receive loop that
// dispatches each inbound message to a handler registered for its exact
// address and sends whatever reply messages the handler returns.
//
// It exists to stand in for Ableton Live on loopback — in tests, and as a
// local echo endpoint when debugging the client — and mirrors the remote's
// port scheme: requests arrive on one port, replies and emitted
// notifications go out toward a separately configured reply address.
//
// Request processing pipeline:
//
//	ReadFromUDP (single goroutine) → codec.Decode → handler lookup
//	  → handler(msg) → codec.Encode each reply → WriteToUDP(reply address)
//
// Handlers run inline on the receive goroutine, so replies for one caller
// preserve arrival order.
package server

import (
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"liveosc/codec"
	"liveosc/message"
)

const maxDatagramSize = 65535

// HandlerFunc processes one inbound message and returns zero or more reply
// messages. Returning nil means no reply (a command rather than a query).
type HandlerFunc func(msg *message.Message) []*message.Message

// Server is the OSC responder.
type Server struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	replyTo  *net.UDPAddr // nil: reply to each datagram's source address

	conn     *net.UDPConn
	done     chan struct{}
	shutdown sync.Once
	logger   *zap.Logger
}

// New creates a server with no handlers. Pass nil to log nothing.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers: make(map[string]HandlerFunc),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Handle registers h for the exact address addr, replacing any previous
// handler. Safe to call while the server is running.
func (s *Server) Handle(addr string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[addr] = h
}

// SetReplyTo directs replies and Emit toward host:port instead of each
// datagram's source address. This matches the AbletonOSC scheme where the
// client listens on a port distinct from the one it sends from.
func (s *Server) SetReplyTo(host string, port int) error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("resolve reply address %s:%d: %w", host, port, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyTo = addr
	return nil
}

// Start binds the listen port (0 for ephemeral; see Port) and launches the
// receive loop.
func (s *Server) Start(port int) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return fmt.Errorf("bind listen port %d: %w", port, err)
	}
	s.conn = conn
	go s.serve()
	return nil
}

// Port returns the bound listen port. Valid after Start.
func (s *Server) Port() int {
	return s.conn.LocalAddr().(*net.UDPAddr).Port
}

// Stop closes the socket and waits for the receive loop to exit. Idempotent.
func (s *Server) Stop() {
	s.shutdown.Do(func() {
		s.conn.Close()
		<-s.done
	})
}

// Emit sends an unsolicited message — a change notification — toward the
// configured reply address. It fails if SetReplyTo has not been called.
func (s *Server) Emit(addr string, args ...any) error {
	s.mu.Lock()
	dest := s.replyTo
	s.mu.Unlock()
	if dest == nil {
		return fmt.Errorf("emit %s: no reply address configured", addr)
	}
	msg, err := message.New(addr, args...)
	if err != nil {
		return err
	}
	return s.write(msg, dest)
}

func (s *Server) serve() {
	defer close(s.done)
	buf := make([]byte, maxDatagramSize)
	for {
		n, src, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			// Stop closes the socket; anything else on a bound UDP
			// socket is fatal to the loop too.
			return
		}

		msg, err := codec.Decode(buf[:n])
		if err != nil {
			s.logger.Warn("dropping malformed datagram", zap.Error(err))
			continue
		}

		s.mu.Lock()
		handler, ok := s.handlers[msg.Address]
		dest := s.replyTo
		s.mu.Unlock()
		if !ok {
			s.logger.Debug("no handler", zap.String("address", msg.Address))
			continue
		}
		if dest == nil {
			dest = src
		}

		for _, reply := range handler(msg) {
			if err := s.write(reply, dest); err != nil {
				s.logger.Warn("reply failed",
					zap.String("address", reply.Address), zap.Error(err))
			}
		}
	}
}

func (s *Server) write(msg *message.Message, dest *net.UDPAddr) error {
	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}
	if _, err := s.conn.WriteToUDP(data, dest); err != nil {
		return fmt.Errorf("write to %s: %w", dest, err)
	}
	return nil
}

// Reply is a handler helper: it builds the single reply message most
// handlers need, panicking on argument types message.New rejects (handler
// arguments are produced by the test or tool author, not the network).
func Reply(addr string, args ...any) []*message.Message {
	msg, err := message.New(addr, args...)
	if err != nil {
		panic(err)
	}
	return []*message.Message{msg}
}

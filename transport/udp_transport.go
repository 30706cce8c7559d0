// Package transport implements the UDP datagram channel to Ableton Live.
//
// AbletonOSC uses two fixed ports rather than one bidirectional socket:
// commands and queries go to the remote's listen port (11000 by default),
// and every response or notification comes back on a separate local port
// (11001 by default). UDPTransport therefore owns two sockets:
//
//	caller ──Send──→ send socket ──→ host:sendPort (Live)
//	Live   ──────────────────────→ :recvPort ──→ Receive ──→ listener loop
//
// The channel is connectionless and unreliable: Open does not verify that a
// remote peer exists, Send carries no delivery confirmation, and datagrams
// may be dropped or reordered in flight.
package transport

import (
	"errors"
	"fmt"
	"net"
)

// maxDatagramSize bounds a single receive. 64 KiB covers the largest
// payload UDP can carry; AbletonOSC messages are far smaller.
const maxDatagramSize = 65535

// UDPTransport is the bidirectional datagram channel.
//
// Send and Receive are safe for concurrent use with each other; Receive is
// intended for a single reader (the listener loop).
type UDPTransport struct {
	send *net.UDPConn // connected to the remote's command port
	recv *net.UDPConn // bound locally for responses and notifications
}

// Open binds the local receive port and prepares a sender toward
// host:sendPort. A recvPort of 0 binds an ephemeral port (useful in tests);
// the bound port is available via ReceivePort.
//
// Open fails if host does not resolve or the receive port is unavailable.
// It does not probe the remote side: a missing peer only ever shows up as
// query timeouts.
func Open(host string, sendPort, recvPort int) (*UDPTransport, error) {
	remote, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, sendPort))
	if err != nil {
		return nil, fmt.Errorf("resolve %s:%d: %w", host, sendPort, err)
	}

	recv, err := net.ListenUDP("udp", &net.UDPAddr{Port: recvPort})
	if err != nil {
		return nil, fmt.Errorf("bind receive port %d: %w", recvPort, err)
	}

	send, err := net.DialUDP("udp", nil, remote)
	if err != nil {
		recv.Close()
		return nil, fmt.Errorf("open sender to %s: %w", remote, err)
	}

	return &UDPTransport{send: send, recv: recv}, nil
}

// Send transmits one datagram, best-effort. It fails only on local I/O
// errors; a datagram sent toward a dead peer is silently lost.
func (t *UDPTransport) Send(data []byte) error {
	if _, err := t.send.Write(data); err != nil {
		return fmt.Errorf("send datagram: %w", err)
	}
	return nil
}

// Receive blocks until one datagram arrives on the local port and returns
// its payload. After Close, Receive returns an error satisfying
// errors.Is(err, net.ErrClosed).
func (t *UDPTransport) Receive() ([]byte, error) {
	buf := make([]byte, maxDatagramSize)
	n, _, err := t.recv.ReadFromUDP(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// ReceivePort returns the local port Receive is bound to.
func (t *UDPTransport) ReceivePort() int {
	return t.recv.LocalAddr().(*net.UDPAddr).Port
}

// RemoteAddr returns the address Send transmits to.
func (t *UDPTransport) RemoteAddr() net.Addr {
	return t.send.RemoteAddr()
}

// Close releases both port bindings. A goroutine blocked in Receive wakes
// with net.ErrClosed. Close is safe to call more than once.
func (t *UDPTransport) Close() error {
	sendErr := t.send.Close()
	recvErr := t.recv.Close()
	if sendErr != nil && !errors.Is(sendErr, net.ErrClosed) {
		return sendErr
	}
	if recvErr != nil && !errors.Is(recvErr, net.ErrClosed) {
		return recvErr
	}
	return nil
}

package server

import (
	"net"
	"testing"
	"time"

	"liveosc/codec"
	"liveosc/message"
)

// dialServer returns a raw UDP conn pointed at the server's listen port.
func dialServer(t *testing.T, srv *Server) *net.UDPConn {
	t.Helper()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: srv.Port()}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMessage(t *testing.T, conn *net.UDPConn, addr string, args ...any) {
	t.Helper()
	msg, err := message.New(addr, args...)
	if err != nil {
		t.Fatal(err)
	}
	data, err := codec.Encode(msg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Write(data); err != nil {
		t.Fatal(err)
	}
}

func readMessage(t *testing.T, conn *net.UDPConn) *message.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	msg, err := codec.Decode(buf[:n])
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return msg
}

func TestRepliesToSourceByDefault(t *testing.T) {
	srv := New(nil)
	srv.Handle("/live/song/get/tempo", func(msg *message.Message) []*message.Message {
		return Reply("/live/song/get/tempo", 120.0)
	})
	if err := srv.Start(0); err != nil {
		t.Fatal(err)
	}
	defer srv.Stop()

	conn := dialServer(t, srv)
	sendMessage(t, conn, "/live/song/get/tempo")

	reply := readMessage(t, conn)
	if reply.Address != "/live/song/get/tempo" {
		t.Errorf("reply address %q", reply.Address)
	}
	if v, err := reply.Arguments.Float(0); err != nil || v != 120.0 {
		t.Errorf("reply payload %v, %v", v, err)
	}
}

func TestRepliesToConfiguredAddress(t *testing.T) {
	// Separate listening socket standing in for the client's receive port.
	sink, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	srv := New(nil)
	srv.Handle("/ping", func(msg *message.Message) []*message.Message {
		return Reply("/pong")
	})
	if err := srv.Start(0); err != nil {
		t.Fatal(err)
	}
	defer srv.Stop()
	if err := srv.SetReplyTo("127.0.0.1", sink.LocalAddr().(*net.UDPAddr).Port); err != nil {
		t.Fatal(err)
	}

	conn := dialServer(t, srv)
	sendMessage(t, conn, "/ping")

	reply := readMessage(t, sink)
	if reply.Address != "/pong" {
		t.Errorf("reply address %q, want /pong", reply.Address)
	}
}

func TestEmitSendsNotification(t *testing.T) {
	sink, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	srv := New(nil)
	if err := srv.Start(0); err != nil {
		t.Fatal(err)
	}
	defer srv.Stop()

	if err := srv.Emit("/live/song/get/tempo", 80.0); err == nil {
		t.Error("Emit without a reply address should fail")
	}

	if err := srv.SetReplyTo("127.0.0.1", sink.LocalAddr().(*net.UDPAddr).Port); err != nil {
		t.Fatal(err)
	}
	if err := srv.Emit("/live/song/get/tempo", 80.0); err != nil {
		t.Fatal(err)
	}

	note := readMessage(t, sink)
	if v, err := note.Arguments.Float(0); err != nil || v != 80.0 {
		t.Errorf("notification payload %v, %v", v, err)
	}
}

func TestMalformedAndUnhandledDatagramsIgnored(t *testing.T) {
	srv := New(nil)
	srv.Handle("/ok", func(msg *message.Message) []*message.Message {
		return Reply("/ok", true)
	})
	if err := srv.Start(0); err != nil {
		t.Fatal(err)
	}
	defer srv.Stop()

	conn := dialServer(t, srv)
	if _, err := conn.Write([]byte{0xba, 0xad}); err != nil {
		t.Fatal(err)
	}
	sendMessage(t, conn, "/no/handler/here")
	sendMessage(t, conn, "/ok")

	reply := readMessage(t, conn)
	if reply.Address != "/ok" {
		t.Errorf("server died on junk input; got %q", reply.Address)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	srv := New(nil)
	if err := srv.Start(0); err != nil {
		t.Fatal(err)
	}
	srv.Stop()
	srv.Stop()
}

package transport

import (
	"bytes"
	"errors"
	"testing"
)

func TestFramedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{1, 2, 3, 4, 5}
	if err := writeFramed(&buf, payload); err != nil {
		t.Fatalf("writeFramed: %v", err)
	}
	got, err := readFramed(&buf)
	if err != nil {
		t.Fatalf("readFramed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("readFramed = %v, want %v", got, payload)
	}
}

func TestFramedRejectsOversizeLength(t *testing.T) {
	var buf bytes.Buffer
	oversize := make([]byte, maxFrameBytes+1)
	if err := writeFramed(&buf, oversize); err != nil {
		t.Fatalf("writeFramed: %v", err)
	}
	if _, err := readFramed(&buf); err == nil {
		t.Fatal("readFramed accepted an oversize frame")
	}
}

func TestNetTransportTCPLoopback(t *testing.T) {
	server := NewNetTransport()
	if err := server.ListenTCP("127.0.0.1:0"); err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	addr := server.listener.Addr().String()

	client := NewNetTransport()
	acceptErr := make(chan error, 1)
	go func() { acceptErr <- server.Accept() }()

	if err := client.DialTCP(addr); err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	if err := <-acceptErr; err != nil {
		t.Fatalf("Accept: %v", err)
	}

	want := []byte("hello")
	replyErr := make(chan error, 1)
	recvd := make(chan []byte, 1)
	go func() {
		req, err := server.RecvTCP()
		if err != nil {
			replyErr <- err
			return
		}
		recvd <- req
		replyErr <- server.ReplyTCP([]byte("world"))
	}()

	resp, err := client.SendTCP(want)
	if err != nil {
		t.Fatalf("SendTCP: %v", err)
	}
	if string(resp) != "world" {
		t.Fatalf("resp = %q, want %q", resp, "world")
	}
	if err := <-replyErr; err != nil {
		t.Fatalf("server side error: %v", err)
	}
	if got := <-recvd; string(got) != "hello" {
		t.Fatalf("server received %q, want %q", got, "hello")
	}

	client.Close()
	server.Close()
}

// TestNetTransportRecvTCPDistinguishesTimeoutFromDisconnect exercises the
// distinction RecvTCP must report: a poll deadline expiring with no request
// pending returns ErrTimeout, while the peer actually closing its
// connection returns a different error, so a caller (node.Context.Run) can
// tell "keep polling this peer" from "go accept a new one".
func TestNetTransportRecvTCPDistinguishesTimeoutFromDisconnect(t *testing.T) {
	server := NewNetTransport()
	if err := server.ListenTCP("127.0.0.1:0"); err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	defer server.Close()
	addr := server.listener.Addr().String()

	client := NewNetTransport()
	acceptErr := make(chan error, 1)
	go func() { acceptErr <- server.Accept() }()
	if err := client.DialTCP(addr); err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	if err := <-acceptErr; err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if _, err := server.RecvTCP(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("RecvTCP with idle peer = %v, want ErrTimeout", err)
	}

	client.Close()

	if _, err := server.RecvTCP(); err == nil || errors.Is(err, ErrTimeout) {
		t.Fatalf("RecvTCP after peer close = %v, want a non-timeout error", err)
	}
}

// TestNetTransportAcceptsSecondPeerAfterFirstDisconnects models the
// reference node's accept loop: after RecvTCP reports the first peer gone,
// a fresh Accept() for a second peer must still succeed.
func TestNetTransportAcceptsSecondPeerAfterFirstDisconnects(t *testing.T) {
	server := NewNetTransport()
	if err := server.ListenTCP("127.0.0.1:0"); err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	defer server.Close()
	addr := server.listener.Addr().String()

	first := NewNetTransport()
	acceptErr := make(chan error, 1)
	go func() { acceptErr <- server.Accept() }()
	if err := first.DialTCP(addr); err != nil {
		t.Fatalf("first DialTCP: %v", err)
	}
	if err := <-acceptErr; err != nil {
		t.Fatalf("first Accept: %v", err)
	}
	first.Close()

	if _, err := server.RecvTCP(); err == nil || errors.Is(err, ErrTimeout) {
		t.Fatalf("RecvTCP after first peer close = %v, want a non-timeout error", err)
	}

	second := NewNetTransport()
	go func() { acceptErr <- server.Accept() }()
	if err := second.DialTCP(addr); err != nil {
		t.Fatalf("second DialTCP: %v", err)
	}
	if err := <-acceptErr; err != nil {
		t.Fatalf("second Accept: %v", err)
	}
	defer second.Close()

	want := []byte("hello again")
	recvd := make(chan []byte, 1)
	recvErr := make(chan error, 1)
	go func() {
		req, err := server.RecvTCP()
		if err != nil {
			recvErr <- err
			return
		}
		recvd <- req
		recvErr <- server.ReplyTCP([]byte("ack"))
	}()

	resp, err := second.SendTCP(want)
	if err != nil {
		t.Fatalf("second SendTCP: %v", err)
	}
	if string(resp) != "ack" {
		t.Fatalf("resp = %q, want %q", resp, "ack")
	}
	if err := <-recvErr; err != nil {
		t.Fatalf("server side error: %v", err)
	}
	if got := <-recvd; string(got) != string(want) {
		t.Fatalf("server received %q, want %q", got, want)
	}
}

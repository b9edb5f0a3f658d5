package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"paramlink/logging"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultRecvTimeout = 30 * time.Second
	// maxFrameBytes bounds a single length-prefixed TCP frame read; well
	// above the MTU-bound worst case so a legitimate frame never trips it.
	maxFrameBytes = 4096
)

// NetTransport is a Collab implementation over a TCP stream (request/reply)
// and a UDP broadcast socket (fire-and-forget). TCP frames are length-
// prefixed with a 4-byte little-endian count, since the GetSetFrame
// envelope's own payload_size field only covers the sub-packet and stream
// reads need an outer framing boundary.
type NetTransport struct {
	mu   sync.Mutex
	conn net.Conn

	listener net.Listener
	accepted net.Conn

	udpConn    *net.UDPConn
	broadcast  *net.UDPAddr
	dialTO     time.Duration
	recvTO     time.Duration
	connected  bool
}

var _ Collab = (*NetTransport)(nil)

// NewNetTransport creates an unconnected transport with default timeouts.
func NewNetTransport() *NetTransport {
	return &NetTransport{
		dialTO: defaultDialTimeout,
		recvTO: defaultRecvTimeout,
	}
}

// DialTCP connects as a client to a host peer's TCP listener.
func (t *NetTransport) DialTCP(address string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	logging.DebugConnect("transport/tcp", address)
	conn, err := net.DialTimeout("tcp", address, t.dialTO)
	if err != nil {
		logging.DebugConnectError("transport/tcp", address, err)
		return fmt.Errorf("dial tcp %s: %w", address, err)
	}
	t.conn = conn
	t.connected = true
	logging.DebugConnectSuccess("transport/tcp", address, "client")
	return nil
}

// ListenTCP opens a TCP listener for a node accepting requests from host
// tooling. Accept blocks the caller; call it from its own goroutine.
func (t *NetTransport) ListenTCP(address string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen tcp %s: %w", address, err)
	}
	t.mu.Lock()
	t.listener = ln
	t.mu.Unlock()
	logging.DebugLog("transport/tcp", "listening on %s", address)
	return nil
}

// Accept blocks until one client connects, then fixes it as the peer used
// by RecvTCP/ReplyTCP. Only one accepted peer is tracked at a time.
func (t *NetTransport) Accept() error {
	t.mu.Lock()
	ln := t.listener
	t.mu.Unlock()
	if ln == nil {
		return fmt.Errorf("transport: Accept called before ListenTCP")
	}

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	t.mu.Lock()
	t.accepted = conn
	t.mu.Unlock()
	logging.DebugLog("transport/tcp", "accepted %s", conn.RemoteAddr())
	return nil
}

// SetupUDPBroadcast opens a UDP socket for sending broadcast frames to
// broadcastAddr (host:port, typically a subnet broadcast address).
func (t *NetTransport) SetupUDPBroadcast(broadcastAddr string) error {
	addr, err := net.ResolveUDPAddr("udp", broadcastAddr)
	if err != nil {
		return fmt.Errorf("resolve udp broadcast addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return fmt.Errorf("open udp broadcast socket: %w", err)
	}
	t.mu.Lock()
	t.udpConn = conn
	t.broadcast = addr
	t.mu.Unlock()
	logging.DebugLog("transport/udp", "broadcast socket ready for %s", broadcastAddr)
	return nil
}

// SendTCP writes a length-prefixed req over the active TCP connection (set
// up via DialTCP) and blocks for the length-prefixed reply.
func (t *NetTransport) SendTCP(req []byte) ([]byte, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return nil, fmt.Errorf("transport: SendTCP called before DialTCP")
	}

	if err := writeFramed(conn, req); err != nil {
		logging.DebugError("transport/tcp", "SendTCP write", err)
		return nil, err
	}
	logging.DebugTX("transport/tcp", req)

	conn.SetReadDeadline(time.Now().Add(t.recvTO))
	resp, err := readFramed(conn)
	if err != nil {
		logging.DebugError("transport/tcp", "SendTCP read", err)
		return nil, err
	}
	logging.DebugRX("transport/tcp", resp)
	return resp, nil
}

// pollInterval bounds how long RecvTCP blocks waiting for a request before
// returning, so a caller polling it inside a tick loop (node.Context.Run)
// never stalls the loop on an idle connection.
const pollInterval = 20 * time.Millisecond

// RecvTCP waits up to pollInterval for one length-prefixed request to
// arrive on the accepted peer connection (set up via ListenTCP + Accept).
// A poll deadline expiring with nothing pending returns ErrTimeout; any
// other read failure (EOF, reset) reports the peer as gone, so callers
// polling in a loop can tell "nothing pending yet" from "this peer
// disconnected, go Accept() a new one" (see node.Context.Run).
func (t *NetTransport) RecvTCP() ([]byte, error) {
	t.mu.Lock()
	conn := t.accepted
	t.mu.Unlock()
	if conn == nil {
		return nil, fmt.Errorf("transport: RecvTCP called before Accept")
	}

	conn.SetReadDeadline(time.Now().Add(pollInterval))
	req, err := readFramed(conn)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrTimeout
		}
		conn.Close()
		t.mu.Lock()
		if t.accepted == conn {
			t.accepted = nil
		}
		t.mu.Unlock()
		return nil, err
	}
	logging.DebugRX("transport/tcp", req)
	return req, nil
}

// ReplyTCP writes a length-prefixed response back to the accepted peer.
func (t *NetTransport) ReplyTCP(resp []byte) error {
	t.mu.Lock()
	conn := t.accepted
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("transport: ReplyTCP called before Accept")
	}
	if err := writeFramed(conn, resp); err != nil {
		return err
	}
	logging.DebugTX("transport/tcp", resp)
	return nil
}

// SendUDPBroadcast fires frame at the configured broadcast address. No
// reply is expected or read.
func (t *NetTransport) SendUDPBroadcast(frame []byte) error {
	t.mu.Lock()
	conn := t.udpConn
	addr := t.broadcast
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("transport: SendUDPBroadcast called before SetupUDPBroadcast")
	}
	if _, err := conn.WriteToUDP(frame, addr); err != nil {
		logging.DebugError("transport/udp", "SendUDPBroadcast", err)
		return err
	}
	logging.DebugTX("transport/udp", frame)
	return nil
}

// Close releases every socket this transport opened.
func (t *NetTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if t.conn != nil {
		record(t.conn.Close())
		t.conn = nil
	}
	if t.accepted != nil {
		record(t.accepted.Close())
		t.accepted = nil
	}
	if t.listener != nil {
		record(t.listener.Close())
		t.listener = nil
	}
	if t.udpConn != nil {
		record(t.udpConn.Close())
		t.udpConn = nil
	}
	t.connected = false
	return firstErr
}

func writeFramed(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

func readFramed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n > maxFrameBytes {
		return nil, fmt.Errorf("frame length %d exceeds max %d", n, maxFrameBytes)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return buf, nil
}

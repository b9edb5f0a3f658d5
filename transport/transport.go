// Package transport defines the Collab boundary the protocol and node
// layers use to move frame bytes, and a concrete TCP/UDP implementation of
// it. Nothing in wire, proto, store, or node imports net directly; they
// only see the Collab interface, so the same node logic runs over a fake
// transport in tests and a real socket in production.
package transport

import (
	"errors"
	"time"
)

// ErrTimeout is returned by RecvTCP when no request arrived before the
// transport's own poll deadline elapsed — "nothing pending yet", distinct
// from a genuine peer disconnect, so a caller polling in a loop (see
// node.Context.Run) knows whether to keep waiting on the same peer or to
// go back and accept a new one.
var ErrTimeout = errors.New("transport: recv timeout")

// Collab is the transport-layer contract a node depends on: deliver a
// request frame's bytes and receive a response over a reliable stream
// (TCP), and separately broadcast a frame over an unreliable channel
// (UDP) with no response expected. Named for the role it plays rather
// than the socket kind, since a test double or future QUIC/serial
// implementation can satisfy it just as well.
type Collab interface {
	// SendTCP writes req and returns the peer's reply, or an error if the
	// round trip did not complete within the transport's own timeout.
	SendTCP(req []byte) (resp []byte, err error)

	// RecvTCP blocks until one request frame has arrived on the listening
	// side, or ctx-equivalent deadline elapses; returns the raw bytes.
	RecvTCP() (req []byte, err error)

	// ReplyTCP sends resp back to whichever peer RecvTCP's result came
	// from.
	ReplyTCP(resp []byte) error

	// SendUDPBroadcast fires frame onto the broadcast channel. Best
	// effort: no acknowledgement, no retry.
	SendUDPBroadcast(frame []byte) error

	// Close releases any held sockets.
	Close() error
}

// Clock abstracts wall-clock access so node.Context's Uptime can be driven
// by a fake clock in tests, matching store.Store's own clock func() uint64
// seam.
type Clock func() time.Time

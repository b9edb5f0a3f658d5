// Package node ties the store, event queue, and a transport collaborator
// into the single-goroutine main loop a control node runs: drain posted
// events into the store, answer TCP requests, and emit a periodic UDP
// broadcast of the store's broadcast-flagged subset. One goroutine owns
// all mutable node state, so the store never needs its own locking.
package node

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"paramlink/logging"
	"paramlink/proto"
	"paramlink/store"
	"paramlink/transport"
	"paramlink/wire"
)

// Context owns everything one node needs to run the protocol loop.
type Context struct {
	NodeID uint32

	store *store.Store
	queue *store.EventQueue
	clock transport.Clock
	epoch time.Time

	clockMS atomic.Int64

	broadcastPending atomic.Bool
	rxPending        atomic.Bool

	broadcastIntervalMS int64
	lastBroadcastMS     int64
}

// NewContext creates a node context over an already-populated store (see
// paramdesc.Table.Seed) and a fresh event queue.
func NewContext(nodeID uint32, s *store.Store, broadcastInterval time.Duration) *Context {
	return NewContextWithClock(nodeID, s, broadcastInterval, time.Now)
}

// NewContextWithClock is NewContext with an injectable wall clock, so tests
// can drive Uptime() deterministically without sleeping.
func NewContextWithClock(nodeID uint32, s *store.Store, broadcastInterval time.Duration, clock transport.Clock) *Context {
	return &Context{
		NodeID:              nodeID,
		store:               s,
		queue:               store.NewEventQueue(),
		clock:               clock,
		epoch:               clock(),
		broadcastIntervalMS: broadcastInterval.Milliseconds(),
	}
}

// Uptime reports wall-clock time elapsed since the context was created,
// independent of the Tick-driven simulated clock used for broadcast timing.
// Uses the injected clock (NewContextWithClock) so tests can drive it
// deterministically without sleeping.
func (c *Context) Uptime() time.Duration {
	return c.clock().Sub(c.epoch)
}

// NowMS returns the context's own monotonic millisecond clock, advanced by
// Tick rather than by a real timer interrupt.
func (c *Context) NowMS() uint64 {
	return uint64(c.clockMS.Load())
}

// Tick advances the node's clock by deltaMS and marks a broadcast as due
// once broadcastInterval has elapsed since the last one. Call this once
// per loop iteration with the elapsed wall-clock time.
func (c *Context) Tick(deltaMS int64) {
	now := c.clockMS.Add(deltaMS)
	if c.broadcastIntervalMS <= 0 {
		return
	}
	if now-c.lastBroadcastMS >= c.broadcastIntervalMS {
		c.broadcastPending.Store(true)
	}
}

// PostEvent enqueues an (id, value) update from a producer goroutine (the
// hosted-Go stand-in for an interrupt context). Safe to call concurrently;
// returns wire.ErrCapacity if the queue is full.
func (c *Context) PostEvent(id wire.ParameterID, v wire.Value) error {
	return c.queue.Enqueue(store.Event{ID: id, Value: v})
}

// SetBroadcastPending flags the next loop iteration to emit a broadcast,
// independent of the Tick-driven interval (e.g. on an operator command).
func (c *Context) SetBroadcastPending() {
	c.broadcastPending.Store(true)
}

// drainEvents applies every queued event to the store, in FIFO order,
// logging and dropping failures rather than propagating them — a rejected
// event (e.g. targeting a constant parameter) never stops the loop.
func (c *Context) drainEvents() {
	for {
		e, ok := c.queue.Dequeue()
		if !ok {
			return
		}
		if err := c.store.ProcessEvent(e); err != nil {
			logging.DebugLog("node", "dropped event id=%d: %v", e.ID, err)
		}
	}
}

// serveOneRequest reads one length-prefixed TCP request, dispatches it
// through the protocol handler, and writes back the response. A poll
// timeout (no pending request yet) is "nothing to do this iteration" and
// reports peerGone=false; any other read error means the accepted peer is
// gone and reports peerGone=true, so Run can tell its caller to stop polling
// this connection and accept a new one.
func (c *Context) serveOneRequest(t transport.Collab) (peerGone bool) {
	req, err := t.RecvTCP()
	if err != nil {
		if errors.Is(err, transport.ErrTimeout) {
			return false
		}
		logging.DebugLog("node", "peer disconnected: %v", err)
		return true
	}
	resp := proto.HandleFrame(req, c.store)
	if resp == nil {
		logging.DebugLog("node", "dropped unparseable frame (%d bytes)", len(req))
		return false
	}
	buf := make([]byte, resp.WireSize())
	if _, err := resp.Emit(buf); err != nil {
		logging.DebugError("node", "emit response", err)
		return false
	}
	if err := t.ReplyTCP(buf); err != nil {
		logging.DebugError("node", "reply tcp", err)
	}
	return false
}

// emitBroadcastIfDue sends the store's broadcast-flagged subset over UDP
// when broadcastPending is set, then clears the flag.
func (c *Context) emitBroadcastIfDue(t transport.Collab) {
	if !c.broadcastPending.CompareAndSwap(true, false) {
		return
	}
	params := c.store.GetAllBroadcast()
	resp := proto.NewReferenceResponse(c.NodeID, wire.OpListAll, params)
	buf := make([]byte, resp.WireSize())
	if _, err := resp.Emit(buf); err != nil {
		logging.DebugError("node", "emit broadcast", err)
		return
	}
	if err := t.SendUDPBroadcast(buf); err != nil {
		logging.DebugError("node", "send broadcast", err)
		return
	}
	c.lastBroadcastMS = c.clockMS.Load()
}

// Run executes one pass of the main loop: drain posted events into the
// store, answer one pending TCP request if any, and emit a broadcast if
// due. It reports peerGone=true once the accepted TCP peer has genuinely
// disconnected, so a caller driving Run in a ticker loop knows to stop and
// accept a new peer rather than keep polling a dead connection.
func (c *Context) Run(t transport.Collab) (peerGone bool) {
	c.drainEvents()
	peerGone = c.serveOneRequest(t)
	c.emitBroadcastIfDue(t)
	return peerGone
}

// String renders a short diagnostic identity for logging.
func (c *Context) String() string {
	return fmt.Sprintf("node[id=%d]", c.NodeID)
}

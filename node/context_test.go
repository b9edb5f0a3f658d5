package node

import (
	"testing"
	"time"

	"paramlink/proto"
	"paramlink/store"
	"paramlink/transport"
	"paramlink/wire"
)

func makeListAllRequestBytes(t *testing.T, nodeID uint32) []byte {
	t.Helper()
	req := proto.NewListAllRequest(nodeID)
	buf := make([]byte, req.WireSize())
	if _, err := req.Emit(buf); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return buf
}

func newTestContext(t *testing.T) (*Context, *store.Store) {
	t.Helper()
	s := store.New(func() uint64 { return 0 })
	bcast := wire.NewFlags(false, true, false)
	if err := s.Add(wire.Parameter{ID: 1, Flags: bcast, Value: wire.U8Value(1)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(wire.Parameter{ID: 2, Value: wire.U8Value(2)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return NewContext(7, s, time.Second), s
}

func TestContextDrainEventsAppliesToStore(t *testing.T) {
	c, s := newTestContext(t)
	if err := c.PostEvent(2, wire.U8Value(99)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	fc := &transport.FakeCollab{}
	c.Run(fc)

	v, _ := s.GetValue(2)
	if v.U8() != 99 {
		t.Fatalf("GetValue(2) = %d, want 99", v.U8())
	}
}

func TestContextRunAnswersPendingRequest(t *testing.T) {
	c, _ := newTestContext(t)

	req := makeListAllRequestBytes(t, 7)
	fc := &transport.FakeCollab{PendingRequests: [][]byte{req}}

	c.Run(fc)

	if len(fc.Replies) != 1 {
		t.Fatalf("len(Replies) = %d, want 1", len(fc.Replies))
	}
}

func TestContextRunReportsPeerGoneOnDisconnect(t *testing.T) {
	c, _ := newTestContext(t)
	fc := &transport.FakeCollab{}

	if peerGone := c.Run(fc); peerGone {
		t.Fatal("Run reported peerGone on a mere poll timeout")
	}

	fc.Disconnected = true
	if peerGone := c.Run(fc); !peerGone {
		t.Fatal("Run did not report peerGone after a genuine disconnect")
	}
}

func TestContextBroadcastOnlyWhenPending(t *testing.T) {
	c, _ := newTestContext(t)
	fc := &transport.FakeCollab{}

	c.Run(fc)
	if len(fc.Broadcasts) != 0 {
		t.Fatalf("unexpected broadcast before SetBroadcastPending")
	}

	c.SetBroadcastPending()
	c.Run(fc)
	if len(fc.Broadcasts) != 1 {
		t.Fatalf("len(Broadcasts) = %d, want 1", len(fc.Broadcasts))
	}

	// Flag is consumed; a second Run without re-setting it stays quiet.
	c.Run(fc)
	if len(fc.Broadcasts) != 1 {
		t.Fatalf("broadcast fired again without SetBroadcastPending")
	}
}

func TestContextTickMarksBroadcastDue(t *testing.T) {
	c, _ := newTestContext(t)
	c.Tick(500)
	if c.broadcastPending.Load() {
		t.Fatal("broadcast pending before interval elapsed")
	}
	c.Tick(600)
	if !c.broadcastPending.Load() {
		t.Fatal("broadcast not pending after interval elapsed")
	}
}

func TestBridgePostEventNoopWithoutRegistration(t *testing.T) {
	defaultBridge = nil
	if err := BridgePostEvent(1, wire.U8Value(1)); err != nil {
		t.Fatalf("BridgePostEvent with no bridge registered: %v", err)
	}
}

func TestContextUptimeUsesInjectedClock(t *testing.T) {
	s := store.New(func() uint64 { return 0 })
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fakeClock := func() time.Time { return now }
	c := NewContextWithClock(1, s, time.Second, fakeClock)

	if got := c.Uptime(); got != 0 {
		t.Fatalf("Uptime() = %v, want 0 at creation", got)
	}

	now = now.Add(5 * time.Second)
	if got := c.Uptime(); got != 5*time.Second {
		t.Fatalf("Uptime() = %v, want 5s", got)
	}
}

func TestBridgePostEventReachesRegisteredContext(t *testing.T) {
	c, s := newTestContext(t)
	SetDefaultBridge(c)
	defer SetDefaultBridge(nil)

	if err := BridgePostEvent(2, wire.U8Value(55)); err != nil {
		t.Fatalf("BridgePostEvent: %v", err)
	}
	c.drainEvents()
	v, _ := s.GetValue(2)
	if v.U8() != 55 {
		t.Fatalf("GetValue(2) = %d, want 55", v.U8())
	}
}

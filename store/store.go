// Package store implements the parameter store (a bounded, typed registry
// with permission rules and a broadcast-flag partition) and the event
// queue (a fixed-capacity ring for posting updates from producer contexts
// to be applied later by the store's owner).
package store

import (
	"paramlink/wire"
)

// Store is an ordered, bounded sequence of parameters, capacity
// wire.MaxParamsPerOp. It is not safe for concurrent use — per the
// protocol's concurrency model, the store is touched only from the main
// loop never from a producer/interrupt context.
type Store struct {
	params []wire.Parameter
	clock  func() uint64
}

// New creates an empty store. clock returns the current local time in
// milliseconds of node uptime, used to stamp LocalTimeMS on mutation.
func New(clock func() uint64) *Store {
	return &Store{clock: clock}
}

// Len returns the number of registered parameters.
func (s *Store) Len() int { return len(s.params) }

// indexOf returns the slice index of id, or -1 if absent.
func (s *Store) indexOf(id wire.ParameterID) int {
	for i := range s.params {
		if s.params[i].ID == id {
			return i
		}
	}
	return -1
}

// Add registers a new parameter. ErrDuplicate if id is already present,
// ErrCapacity if the store is full. On insert, LocalTimeMS is set to the
// current time and the store is re-partitioned (stable) so broadcast=true
// parameters remain a contiguous prefix.
func (s *Store) Add(p wire.Parameter) error {
	if s.indexOf(p.ID) >= 0 {
		return wire.ErrDuplicate
	}
	if len(s.params) >= wire.MaxParamsPerOp {
		return wire.ErrCapacity
	}
	p.LocalTimeMS = s.clock()
	s.params = append(s.params, p)
	s.partitionBroadcast()
	return nil
}

// partitionBroadcast performs a stable partition by the broadcast bit:
// every broadcast=true parameter ends up at a lower index than every
// broadcast=false parameter, preserving relative insertion order within
// each class. The sort key is solely the broadcast bit.
func (s *Store) partitionBroadcast() {
	broadcastTrue := make([]wire.Parameter, 0, len(s.params))
	broadcastFalse := make([]wire.Parameter, 0, len(s.params))
	for _, p := range s.params {
		if p.Flags.Broadcast() {
			broadcastTrue = append(broadcastTrue, p)
		} else {
			broadcastFalse = append(broadcastFalse, p)
		}
	}
	s.params = append(broadcastTrue, broadcastFalse...)
}

// Get returns the parameter with the given id. The second return value is
// false if absent — absence is a signal, not an error.
func (s *Store) Get(id wire.ParameterID) (wire.Parameter, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return wire.Parameter{}, false
	}
	return s.params[i], true
}

// GetValue returns the value of the parameter with the given id.
func (s *Store) GetValue(id wire.ParameterID) (wire.Value, bool) {
	p, ok := s.Get(id)
	if !ok {
		return wire.Value{}, false
	}
	return p.Value, true
}

// Set updates the value of the parameter with the given id.
//
//   - not found           -> ErrNotFound
//   - constant            -> ErrPermissionDenied (always, regardless of allowReadOnly)
//   - read_only && !allowReadOnly -> ErrPermissionDenied
//   - variant tag mismatch with the current value -> ErrValueTypeMismatch
//
// On success the value is written and LocalTimeMS is updated.
func (s *Store) Set(id wire.ParameterID, v wire.Value, allowReadOnly bool) error {
	i := s.indexOf(id)
	if i < 0 {
		return wire.ErrNotFound
	}
	p := &s.params[i]
	if p.Flags.Constant() {
		return wire.ErrPermissionDenied
	}
	if p.Flags.ReadOnly() && !allowReadOnly {
		return wire.ErrPermissionDenied
	}
	if p.Value.Tag() != v.Tag() {
		return wire.ErrValueTypeMismatch
	}
	p.Value = v
	p.LocalTimeMS = s.clock()
	return nil
}

// ProcessEvent applies an event to the store, equivalent to
// Set(event.ID, event.Value, allowReadOnly=true) — it bypasses the
// read_only check but not the constant check.
func (s *Store) ProcessEvent(e Event) error {
	return s.Set(e.ID, e.Value, true)
}

// GetAllBroadcast returns the contiguous prefix of parameters flagged
// broadcast=true. The returned slice borrows the store's backing array and
// must not be retained across a subsequent Add (which may reallocate).
func (s *Store) GetAllBroadcast() []wire.Parameter {
	n := 0
	for n < len(s.params) && s.params[n].Flags.Broadcast() {
		n++
	}
	return s.params[:n:n]
}

// All returns every registered parameter, in store order.
func (s *Store) All() []wire.Parameter {
	return s.params
}

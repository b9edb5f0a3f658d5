package store

import (
	"sync/atomic"

	"paramlink/wire"
)

// EventQueueCapacity is the fixed capacity of the event ring.
const EventQueueCapacity = 32

// eventSlot is one cell of the ring. seq coordinates producers and the
// consumer without a lock: a producer may claim a slot once seq equals
// its position; the consumer may take a slot once seq equals position+1.
// This is the classic bounded MPMC ring (Vyukov), which gives wait-free
// progress for a single producer and bounded-time progress for the
// consumer even under producer contention — the guarantee §4.5/§5 call
// for on platforms without a richer atomic story.
type eventSlot struct {
	seq  atomic.Uint64
	data Event
}

// EventQueue is a fixed-capacity, lock-free, many-producer/many-consumer
// ring of (id, value) events. Enqueue is non-blocking and loss-intolerant:
// a full queue rejects new events with ErrCapacity rather than overwriting
// the oldest entry.
type EventQueue struct {
	slots [EventQueueCapacity]eventSlot
	head  atomic.Uint64 // next slot a consumer will claim
	tail  atomic.Uint64 // next slot a producer will claim
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}
	return q
}

// Enqueue posts an event. Returns ErrCapacity if the queue is full.
// Safe to call concurrently from any number of producer goroutines
// (the hosted-Go stand-in for interrupt contexts).
func (q *EventQueue) Enqueue(e Event) error {
	var slot *eventSlot
	pos := q.tail.Load()
	for {
		slot = &q.slots[pos%EventQueueCapacity]
		seq := slot.seq.Load()
		diff := int64(seq) - int64(pos)
		switch {
		case diff == 0:
			if q.tail.CompareAndSwap(pos, pos+1) {
				goto claimed
			}
			pos = q.tail.Load()
		case diff < 0:
			// seq is behind pos: the slot still holds an unconsumed event.
			return wire.ErrCapacity
		default:
			pos = q.tail.Load()
		}
	}
claimed:
	slot.data = e
	slot.seq.Store(pos + 1)
	return nil
}

// Dequeue removes and returns one event in FIFO (enqueue) order. The
// second return value is false if the queue is empty.
func (q *EventQueue) Dequeue() (Event, bool) {
	var slot *eventSlot
	pos := q.head.Load()
	for {
		slot = &q.slots[pos%EventQueueCapacity]
		seq := slot.seq.Load()
		diff := int64(seq) - int64(pos+1)
		switch {
		case diff == 0:
			if q.head.CompareAndSwap(pos, pos+1) {
				goto claimed
			}
			pos = q.head.Load()
		case diff < 0:
			return Event{}, false
		default:
			pos = q.head.Load()
		}
	}
claimed:
	e := slot.data
	slot.seq.Store(pos + EventQueueCapacity)
	return e, true
}

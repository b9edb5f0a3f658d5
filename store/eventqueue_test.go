package store

import (
	"sync"
	"testing"

	"paramlink/wire"
)

// Property 11: enqueue(e1); enqueue(e2); dequeue()==e1; dequeue()==e2.
func TestEventQueueOrdering(t *testing.T) {
	q := NewEventQueue()
	e1 := Event{ID: 1, Value: wire.U8Value(1)}
	e2 := Event{ID: 2, Value: wire.U8Value(2)}

	if err := q.Enqueue(e1); err != nil {
		t.Fatalf("Enqueue(e1) error: %v", err)
	}
	if err := q.Enqueue(e2); err != nil {
		t.Fatalf("Enqueue(e2) error: %v", err)
	}

	got1, ok := q.Dequeue()
	if !ok || got1 != e1 {
		t.Fatalf("Dequeue() = %+v, %v; want %+v, true", got1, ok, e1)
	}
	got2, ok := q.Dequeue()
	if !ok || got2 != e2 {
		t.Fatalf("Dequeue() = %+v, %v; want %+v, true", got2, ok, e2)
	}
}

func TestEventQueueEmptyDequeue(t *testing.T) {
	q := NewEventQueue()
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("Dequeue on empty queue reported ok")
	}
}

func TestEventQueueCapacity(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < EventQueueCapacity; i++ {
		if err := q.Enqueue(Event{ID: wire.ParameterID(i)}); err != nil {
			t.Fatalf("Enqueue(%d) error: %v", i, err)
		}
	}
	if err := q.Enqueue(Event{ID: 9999}); err != wire.ErrCapacity {
		t.Fatalf("Enqueue beyond capacity error = %v, want ErrCapacity", err)
	}
}

func TestEventQueueDrainThenRefill(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < EventQueueCapacity; i++ {
		if err := q.Enqueue(Event{ID: wire.ParameterID(i)}); err != nil {
			t.Fatalf("Enqueue(%d) error: %v", i, err)
		}
	}
	for i := 0; i < EventQueueCapacity; i++ {
		e, ok := q.Dequeue()
		if !ok || e.ID != wire.ParameterID(i) {
			t.Fatalf("Dequeue(%d) = %+v, %v", i, e, ok)
		}
	}
	// The ring must accept a fresh batch after a full drain.
	if err := q.Enqueue(Event{ID: 1}); err != nil {
		t.Fatalf("Enqueue after drain error: %v", err)
	}
}

// Exercises the many-producer side: concurrent producers each posting one
// event (within capacity) must all land exactly once, with no loss and no
// duplication, since the ring never has more producers in flight than
// EventQueueCapacity here.
func TestEventQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	const producers = EventQueueCapacity

	var wg sync.WaitGroup
	results := make([]error, producers)
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			results[p] = q.Enqueue(Event{ID: wire.ParameterID(p)})
		}(p)
	}
	wg.Wait()

	for p, err := range results {
		if err != nil {
			t.Fatalf("producer %d Enqueue error: %v", p, err)
		}
	}

	seen := make(map[wire.ParameterID]bool)
	for {
		e, ok := q.Dequeue()
		if !ok {
			break
		}
		if seen[e.ID] {
			t.Fatalf("event id %d delivered more than once", e.ID)
		}
		seen[e.ID] = true
	}
	if len(seen) != producers {
		t.Fatalf("drained %d distinct events, want %d", len(seen), producers)
	}
}

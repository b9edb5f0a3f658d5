package store

import "paramlink/wire"

// Event is an (id, value) pair posted to the event queue by
// application/interrupt code for later application to the store by the
// main loop.
type Event struct {
	ID    wire.ParameterID
	Value wire.Value
}

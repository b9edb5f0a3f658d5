package proto

import (
	"paramlink/store"
	"paramlink/wire"
)

// ParamStore is the subset of store.Store the handler needs: read for
// ListAll/Get, typed mutation for Set. Declared here (rather than taking
// *store.Store directly) so the handler's contract is explicit about what
// it touches.
type ParamStore interface {
	All() []wire.Parameter
	Get(id wire.ParameterID) (wire.Parameter, bool)
	Set(id wire.ParameterID, v wire.Value, allowReadOnly bool) error
}

var _ ParamStore = (*store.Store)(nil)

// HandleFrame implements the server-side protocol state machine for one
// received frame: it validates length/preamble, classifies the op/payload
// pair as well-formed or malformed, and produces the Response to send
// back. The store is touched only for well-formed Get/Set/ListAll
// requests; a malformed frame never reaches it.
func HandleFrame(buf []byte, s ParamStore) *Response {
	if err := wire.CheckLen(buf); err != nil {
		// Too short to even read op/payload_type; nothing meaningful to
		// echo back. Callers typically just drop the datagram/stream at
		// this point rather than attempt a response.
		return nil
	}
	if err := wire.CheckPreamble(buf); err != nil {
		return nil
	}

	fv, err := wire.NewFrameViewChecked(buf)
	if err != nil {
		return nil
	}

	op := fv.Op()
	wantPayload, knownOp := legalPayloadFor(op)
	if !knownOp || fv.PayloadType() != wantPayload {
		// Malformed: op/payload_type pair is not one of the three legal
		// combinations. Emit an empty-payload response echoing op.
		return NewEmptyResponse(fv.NodeID(), op)
	}

	req, err := ParseRequest(buf)
	if err != nil {
		// Well-formed header but the payload itself didn't parse (e.g. a
		// truncated record) — still answer with an empty response rather
		// than surfacing a transport-level error.
		return NewEmptyResponse(fv.NodeID(), op)
	}

	switch op {
	case wire.OpListAll:
		return NewResponse(req.NodeID, op, s.All())
	case wire.OpGet:
		return NewResponse(req.NodeID, op, handleGet(req.IDs(), s))
	case wire.OpSet:
		return NewResponse(req.NodeID, op, handleSet(req.Parameters(), s))
	default:
		return NewEmptyResponse(req.NodeID, op)
	}
}

// handleGet returns the current parameter record for each requested id
// present in the store, silently omitting unknown ids.
func handleGet(ids []wire.ParameterID, s ParamStore) []wire.Parameter {
	var out []wire.Parameter
	for _, id := range ids {
		if p, ok := s.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// handleSet attempts to update each submitted parameter in request order.
// On success the post-update parameter is included in the response; on
// failure it is omitted. Order follows request order.
func handleSet(params []wire.Parameter, s ParamStore) []wire.Parameter {
	var out []wire.Parameter
	for _, p := range params {
		if err := s.Set(p.ID, p.Value, false); err != nil {
			continue
		}
		if updated, ok := s.Get(p.ID); ok {
			out = append(out, updated)
		}
	}
	return out
}

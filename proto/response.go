package proto

import "paramlink/wire"

// Response carries a Parameter-list payload whenever Params is non-empty;
// it owns its parameter slice (built by application code or parsed off the
// wire). An empty Params list is emitted as payload type None with payload
// size 0, not as a zero-count Parameter list, so an empty Get/Set result
// produces the same frame as the malformed-request response.
type Response struct {
	NodeID       uint32
	MessageFlags uint32
	Op           wire.Op
	Params       []wire.Parameter
}

// NewResponse builds a Response echoing the given op, owning params.
func NewResponse(nodeID uint32, op wire.Op, params []wire.Parameter) *Response {
	return &Response{NodeID: nodeID, Op: op, Params: params}
}

// NewEmptyResponse builds a Response with an empty parameter list, used
// for the malformed-request path (payload_type None, payload_size 0,
// echoing op).
func NewEmptyResponse(nodeID uint32, op wire.Op) *Response {
	return &Response{NodeID: nodeID, Op: op}
}

// WireSize returns the total frame byte size this response would emit.
func (r *Response) WireSize() int {
	if len(r.Params) == 0 {
		return wire.HeaderSize
	}
	return wire.HeaderSize + wire.ParameterListWireSize(r.Params)
}

// Emit writes the full frame into buf, which must be at least WireSize()
// bytes. An empty Params list emits payload_type None / payload_size 0,
// matching the malformed-request and "nothing to report" paths.
func (r *Response) Emit(buf []byte) (int, error) {
	size := r.WireSize()
	if len(buf) < size {
		return 0, wire.ErrTruncated
	}

	fv := wire.NewFrameViewUnchecked(buf[:size])
	fv.SetPreamble()
	fv.SetNodeID(r.NodeID)
	fv.SetMessageFlags(r.MessageFlags)
	fv.SetVersion(wire.ProtocolVersion)
	fv.SetOp(r.Op)

	if len(r.Params) == 0 {
		fv.SetPayloadType(wire.PayloadNone)
		fv.SetPayloadSize(0)
		return size, nil
	}

	fv.SetPayloadType(wire.PayloadParamList)
	built := buildParamListPayload(r.Params)
	copy(fv.Payload(), built)
	fv.SetPayloadSize(uint16(len(built)))
	return size, nil
}

// ParseResponse validates the preamble and header, and rejects any
// payload type other than None (empty) or ParameterList.
func ParseResponse(buf []byte) (*Response, error) {
	fv, err := wire.NewFrameViewChecked(buf)
	if err != nil {
		return nil, err
	}

	r := &Response{
		NodeID:       fv.NodeID(),
		MessageFlags: fv.MessageFlags(),
		Op:           fv.Op(),
	}

	switch fv.PayloadType() {
	case wire.PayloadNone:
		return r, nil
	case wire.PayloadParamList:
		payloadSize := int(fv.PayloadSize())
		payload := fv.Payload()
		if payloadSize > len(payload) {
			return nil, wire.ErrTruncated
		}
		params, err := parseParamListPayload(payload[:payloadSize])
		if err != nil {
			return nil, err
		}
		r.Params = params
		return r, nil
	default:
		return nil, wire.ErrInvalidPayloadType
	}
}

// ReferenceResponse is a zero-copy, emit-only variant of Response whose
// parameters come from a borrowed slice rather than an owned vector —
// used to emit the broadcast subset directly from the store without
// copying it into a Response.Params vector first. Both Response and
// ReferenceResponse must produce identical bytes for the same logical
// content.
type ReferenceResponse struct {
	NodeID       uint32
	MessageFlags uint32
	Op           wire.Op
	Params       []wire.Parameter // borrowed; not copied
}

// NewReferenceResponse builds a ReferenceResponse borrowing params.
func NewReferenceResponse(nodeID uint32, op wire.Op, params []wire.Parameter) *ReferenceResponse {
	return &ReferenceResponse{NodeID: nodeID, Op: op, Params: params}
}

// WireSize returns the total frame byte size this response would emit.
func (r *ReferenceResponse) WireSize() int {
	if len(r.Params) == 0 {
		return wire.HeaderSize
	}
	return wire.HeaderSize + wire.ParameterListWireSize(r.Params)
}

// Emit writes the full frame into buf. Identical byte layout to Response.Emit.
func (r *ReferenceResponse) Emit(buf []byte) (int, error) {
	size := r.WireSize()
	if len(buf) < size {
		return 0, wire.ErrTruncated
	}

	fv := wire.NewFrameViewUnchecked(buf[:size])
	fv.SetPreamble()
	fv.SetNodeID(r.NodeID)
	fv.SetMessageFlags(r.MessageFlags)
	fv.SetVersion(wire.ProtocolVersion)
	fv.SetOp(r.Op)

	if len(r.Params) == 0 {
		fv.SetPayloadType(wire.PayloadNone)
		fv.SetPayloadSize(0)
		return size, nil
	}

	fv.SetPayloadType(wire.PayloadParamList)
	built := buildParamListPayload(r.Params)
	copy(fv.Payload(), built)
	fv.SetPayloadSize(uint16(len(built)))
	return size, nil
}

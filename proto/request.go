// Package proto implements the message layer: Request, Response, and
// ReferenceResponse assembly/parsing over the wire package's frame and
// sub-packet cursors, plus the server-side protocol state machine that
// classifies a received frame as well-formed or malformed.
package proto

import "paramlink/wire"

// Request is an operation-carrying message assembly. Its payload type is
// fixed at construction from the operation, not inferred from what the
// caller later pushes.
type Request struct {
	NodeID      uint32
	MessageFlags uint32
	Op          wire.Op
	payloadType wire.PayloadType
	ids         []wire.ParameterID
	params      []wire.Parameter
}

// NewListAllRequest builds a ListAll request, payload type None.
func NewListAllRequest(nodeID uint32) *Request {
	return &Request{NodeID: nodeID, Op: wire.OpListAll, payloadType: wire.PayloadNone}
}

// NewGetRequest builds a Get request, payload type IdList.
func NewGetRequest(nodeID uint32) *Request {
	return &Request{NodeID: nodeID, Op: wire.OpGet, payloadType: wire.PayloadIDList}
}

// NewSetRequest builds a Set request, payload type ParamList.
func NewSetRequest(nodeID uint32) *Request {
	return &Request{NodeID: nodeID, Op: wire.OpSet, payloadType: wire.PayloadParamList}
}

// PayloadType returns the payload type fixed at construction.
func (r *Request) PayloadType() wire.PayloadType { return r.payloadType }

// IDs returns the ids pushed so far (Get requests).
func (r *Request) IDs() []wire.ParameterID { return r.ids }

// Parameters returns the parameters pushed so far (Set requests).
func (r *Request) Parameters() []wire.Parameter { return r.params }

// PushID appends an id to a Get request's payload. ErrCapacity if the
// internal buffer (capacity wire.MaxParamsPerOp) is full.
func (r *Request) PushID(id wire.ParameterID) error {
	if len(r.ids) >= wire.MaxParamsPerOp {
		return wire.ErrCapacity
	}
	r.ids = append(r.ids, id)
	return nil
}

// PushParameter appends a parameter to a Set request's payload.
// ErrCapacity if the internal buffer is full.
func (r *Request) PushParameter(p wire.Parameter) error {
	if len(r.params) >= wire.MaxParamsPerOp {
		return wire.ErrCapacity
	}
	r.params = append(r.params, p)
	return nil
}

// WireSize returns the total frame byte size this request would emit.
func (r *Request) WireSize() int {
	switch r.payloadType {
	case wire.PayloadNone:
		return wire.HeaderSize
	case wire.PayloadIDList:
		return wire.HeaderSize + wire.IDListWireSize(len(r.ids))
	case wire.PayloadParamList:
		return wire.HeaderSize + wire.ParameterListWireSize(r.params)
	default:
		return wire.HeaderSize
	}
}

// Emit writes the full frame (header + payload) into buf, which must be at
// least WireSize() bytes. Returns the number of bytes written.
func (r *Request) Emit(buf []byte) (int, error) {
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
	fv.SetPayloadType(r.payloadType)

	payload := fv.Payload()
	switch r.payloadType {
	case wire.PayloadNone:
		fv.SetPayloadSize(0)
	case wire.PayloadIDList:
		idList := wire.NewIDListPacket(payload)
		idList.SetCount(len(r.ids))
		for i, id := range r.ids {
			if err := idList.SetIDAt(i, id); err != nil {
				return 0, err
			}
		}
		fv.SetPayloadSize(uint16(wire.IDListWireSize(len(r.ids))))
	case wire.PayloadParamList:
		built := buildParamListPayload(r.params)
		copy(payload, built)
		fv.SetPayloadSize(uint16(len(built)))
	}

	return size, nil
}

// legalPayloadFor reports the payload type a well-formed frame must carry
// for the given op.
func legalPayloadFor(op wire.Op) (wire.PayloadType, bool) {
	switch op {
	case wire.OpListAll:
		return wire.PayloadNone, true
	case wire.OpGet:
		return wire.PayloadIDList, true
	case wire.OpSet:
		return wire.PayloadParamList, true
	default:
		return 0, false
	}
}

// ParseRequest validates the preamble and header, then dispatches payload
// decoding based on op. A payload type inconsistent with op is reported as
// ErrInvalidPayloadType.
func ParseRequest(buf []byte) (*Request, error) {
	fv, err := wire.NewFrameViewChecked(buf)
	if err != nil {
		return nil, err
	}

	op := fv.Op()
	wantPayload, known := legalPayloadFor(op)
	if !known {
		return nil, wire.ErrInvalidPayloadType
	}
	if fv.PayloadType() != wantPayload {
		return nil, wire.ErrInvalidPayloadType
	}

	r := &Request{
		NodeID:       fv.NodeID(),
		MessageFlags: fv.MessageFlags(),
		Op:           op,
		payloadType:  wantPayload,
	}

	payload := fv.Payload()
	payloadSize := int(fv.PayloadSize())
	if payloadSize > len(payload) {
		return nil, wire.ErrTruncated
	}
	payload = payload[:payloadSize]

	switch wantPayload {
	case wire.PayloadNone:
	case wire.PayloadIDList:
		idList := wire.NewIDListPacket(payload)
		count := idList.Count()
		for i := 0; i < count; i++ {
			id, err := idList.IDAt(i)
			if err != nil {
				return nil, err
			}
			r.ids = append(r.ids, id)
		}
	case wire.PayloadParamList:
		params, err := parseParamListPayload(payload)
		if err != nil {
			return nil, err
		}
		r.params = params
	}

	return r, nil
}

// buildParamListPayload assembles a count byte followed by every
// parameter's packed record.
func buildParamListPayload(params []wire.Parameter) []byte {
	buf := make([]byte, 0, wire.ParameterListWireSize(params))
	buf = append(buf, byte(len(params)))
	for _, p := range params {
		buf = wire.AppendParameter(buf, p)
	}
	return buf
}

// parseParamListPayload parses every declared parameter out of a
// Parameter-list sub-packet payload.
func parseParamListPayload(payload []byte) ([]wire.Parameter, error) {
	pkt := wire.NewParameterListPacket(payload)
	count := pkt.Count()
	params := make([]wire.Parameter, 0, count)
	for i := 0; i < count; i++ {
		p, err := pkt.ParameterAt(i)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

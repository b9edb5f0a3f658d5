package wire

import "testing"

func sampleParams() []Parameter {
	return []Parameter{
		{LocalTimeMS: 1000, ID: 10, Flags: FlagReadOnly, Value: U32Value(7)},
		{LocalTimeMS: 2000, ID: 11, Flags: FlagBroadcast, Value: F32Value(1.5)},
		{LocalTimeMS: 3000, ID: 12, Flags: 0, Value: BoolValue(true)},
		{LocalTimeMS: 4000, ID: 13, Flags: 0, Value: NoneValue()},
	}
}

// Property 1: codec round-trip — emitting and re-parsing via
// ParameterListPacket yields an equal Parameter, for every Parameter.
func TestParameterListRoundTrip(t *testing.T) {
	params := sampleParams()

	var payload []byte
	payload = append(payload, 0) // count placeholder
	for _, p := range params {
		payload = AppendParameter(payload, p)
	}
	payload[0] = byte(len(params))

	pkt := NewParameterListPacket(payload)
	if pkt.Count() != len(params) {
		t.Fatalf("Count() = %d, want %d", pkt.Count(), len(params))
	}
	for i, want := range params {
		got, err := pkt.ParameterAt(i)
		if err != nil {
			t.Fatalf("ParameterAt(%d) error: %v", i, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParameterAt(%d) = %+v, want %+v", i, got, want)
		}
	}
}

func TestParameterListOutOfBounds(t *testing.T) {
	payload := []byte{0}
	pkt := NewParameterListPacket(payload)
	if _, err := pkt.ParameterAt(0); err != ErrIndexOutOfBounds {
		t.Fatalf("ParameterAt(0) on empty list error = %v, want ErrIndexOutOfBounds", err)
	}
}

func TestParameterListTruncatedRecord(t *testing.T) {
	// Declare one record but supply fewer bytes than the fixed prefix needs.
	payload := []byte{1, 0x01, 0x02, 0x03}
	pkt := NewParameterListPacket(payload)
	if _, err := pkt.ParameterAt(0); err != ErrTruncated {
		t.Fatalf("ParameterAt(0) error = %v, want ErrTruncated", err)
	}
}

func TestParameterListVariableLengthWalk(t *testing.T) {
	// Records of differing wire sizes (None vs U64) must still be walked
	// correctly since the packet is not self-indexed.
	params := []Parameter{
		{ID: 1, Value: NoneValue()},
		{ID: 2, Value: U64Value(0xFFFFFFFFFFFFFFFF)},
		{ID: 3, Value: I8Value(-1)},
	}
	var payload []byte
	payload = append(payload, byte(len(params)))
	for _, p := range params {
		payload = AppendParameter(payload, p)
	}

	pkt := NewParameterListPacket(payload)
	for i, want := range params {
		got, err := pkt.ParameterAt(i)
		if err != nil {
			t.Fatalf("ParameterAt(%d) error: %v", i, err)
		}
		if got.ID != want.ID || !got.Value.Equal(want.Value) {
			t.Fatalf("ParameterAt(%d) = %+v, want %+v", i, got, want)
		}
	}
}

// Property 5 / MTU bound: MaxParamsPerOp 4-byte-valued parameters (the
// largest type width this deployment's parameter tables actually use, per
// DESIGN.md's resolution of this bound), plus envelope overhead, must fit
// in one 1500-byte MTU frame. The 8-byte U64/I64 variants exist for
// protocol completeness but are not exercised at full store capacity; see
// DESIGN.md for the accepted edge case.
func TestMTUBound(t *testing.T) {
	const commonRecordSize = 8 + 4 + 4 + 1 + 4 // time+id+flags+tag+U32/I32/F32 payload
	total := HeaderSize + paramListHeaderSize + MaxParamsPerOp*commonRecordSize
	if total > 1500 {
		t.Fatalf("MTU bound exceeded: %d > 1500", total)
	}
}

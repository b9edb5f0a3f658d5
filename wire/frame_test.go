package wire

import "testing"

func TestCheckLen(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		wantErr error
	}{
		{"empty", nil, ErrTruncated},
		{"one short", make([]byte, HeaderSize-1), ErrTruncated},
		{"exact", make([]byte, HeaderSize), nil},
		{"longer", make([]byte, HeaderSize+10), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckLen(tt.buf); err != tt.wantErr {
				t.Fatalf("CheckLen = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckPreamble(t *testing.T) {
	buf := make([]byte, HeaderSize)
	NewFrameViewUnchecked(buf).SetPreamble()
	if err := CheckPreamble(buf); err != nil {
		t.Fatalf("CheckPreamble(valid) = %v, want nil", err)
	}

	buf[0] ^= 0xFF
	if err := CheckPreamble(buf); err != ErrPreamble {
		t.Fatalf("CheckPreamble(corrupted) = %v, want ErrPreamble", err)
	}
}

func TestFrameViewAccessors(t *testing.T) {
	buf := make([]byte, HeaderSize+3)
	fv := NewFrameViewUnchecked(buf)
	fv.SetPreamble()
	fv.SetNodeID(42)
	fv.SetMessageFlags(0)
	fv.SetVersion(ProtocolVersion)
	fv.SetOp(OpGet)
	fv.SetPayloadType(PayloadIDList)
	fv.SetPayloadSize(3)
	copy(fv.Payload(), []byte{0xAA, 0xBB, 0xCC})

	checked, err := NewFrameViewChecked(buf)
	if err != nil {
		t.Fatalf("NewFrameViewChecked error: %v", err)
	}
	if checked.NodeID() != 42 {
		t.Fatalf("NodeID = %d, want 42", checked.NodeID())
	}
	if checked.Version() != ProtocolVersion {
		t.Fatalf("Version = %d, want %d", checked.Version(), ProtocolVersion)
	}
	if checked.Op() != OpGet {
		t.Fatalf("Op = %v, want Get", checked.Op())
	}
	if checked.PayloadType() != PayloadIDList {
		t.Fatalf("PayloadType = %v, want IdList", checked.PayloadType())
	}
	if checked.PayloadSize() != 3 {
		t.Fatalf("PayloadSize = %d, want 3", checked.PayloadSize())
	}
	payload := checked.Payload()
	if len(payload) != 3 || payload[0] != 0xAA || payload[1] != 0xBB || payload[2] != 0xCC {
		t.Fatalf("Payload() = %v, want [AA BB CC]", payload)
	}
}

// S1 from the protocol's concrete scenarios: a ListAll request's raw bytes
// parse to the expected header fields.
func TestListAllRequestBytesS1(t *testing.T) {
	buf := []byte{
		0xAB, 0xCD, 0xEF, 0xFF, // preamble
		0x00, 0x00, 0x00, 0x00, // node_id
		0x00, 0x00, 0x00, 0x00, // message flags
		0x01,       // version
		0x00,       // op = ListAll
		0x00,       // payload_type = None
		0x00, 0x00, // payload_size = 0
	}
	fv, err := NewFrameViewChecked(buf)
	if err != nil {
		t.Fatalf("NewFrameViewChecked error: %v", err)
	}
	if fv.Op() != OpListAll {
		t.Fatalf("Op = %v, want ListAll", fv.Op())
	}
	if fv.PayloadType() != PayloadNone {
		t.Fatalf("PayloadType = %v, want None", fv.PayloadType())
	}
	if fv.NodeID() != 0 {
		t.Fatalf("NodeID = %d, want 0", fv.NodeID())
	}
}

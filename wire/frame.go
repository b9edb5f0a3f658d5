package wire

import "encoding/binary"

// Preamble is the fixed envelope magic, little-endian on the wire as bytes
// AB CD EF FF.
const Preamble uint32 = 0xFFEFCDAB

// ProtocolVersion is the current envelope version byte.
const ProtocolVersion uint8 = 1

// Op identifies the operation carried by a frame.
type Op uint8

const (
	OpListAll Op = 0
	OpGet     Op = 1
	OpSet     Op = 2
)

func (o Op) String() string {
	switch o {
	case OpListAll:
		return "ListAll"
	case OpGet:
		return "Get"
	case OpSet:
		return "Set"
	default:
		return "Unknown"
	}
}

// PayloadType identifies which sub-packet format follows the header.
type PayloadType uint8

const (
	PayloadNone       PayloadType = 0
	PayloadIDList     PayloadType = 1
	PayloadParamList  PayloadType = 2
)

func (p PayloadType) String() string {
	switch p {
	case PayloadNone:
		return "None"
	case PayloadIDList:
		return "IdList"
	case PayloadParamList:
		return "ParamList"
	default:
		return "Unknown"
	}
}

// HeaderSize is the fixed envelope header length in bytes, before payload.
const HeaderSize = 17

const (
	offPreamble    = 0
	offNodeID      = 4
	offFlags       = 8
	offVersion     = 12
	offOp          = 13
	offPayloadType = 14
	offPayloadSize = 15
)

// FrameView is a cursor over a caller-owned byte buffer exposing the
// envelope fields by offset. It holds only a reference to buf; it never
// copies or allocates.
type FrameView struct {
	buf []byte
}

// NewFrameViewUnchecked wraps buf without validating its length or
// preamble; the caller promises buf is at least HeaderSize bytes and
// well-formed. Used when emitting into a freshly sized buffer.
func NewFrameViewUnchecked(buf []byte) FrameView {
	return FrameView{buf: buf}
}

// NewFrameViewChecked wraps buf after verifying it is long enough to hold
// the envelope header and carries the expected preamble.
func NewFrameViewChecked(buf []byte) (FrameView, error) {
	if len(buf) < HeaderSize {
		return FrameView{}, ErrTruncated
	}
	fv := FrameView{buf: buf}
	if fv.PreambleValue() != Preamble {
		return FrameView{}, ErrPreamble
	}
	return fv, nil
}

// CheckLen reports ErrTruncated if buf is shorter than HeaderSize.
func CheckLen(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrTruncated
	}
	return nil
}

// CheckPreamble reports ErrPreamble if the first 4 bytes of buf do not
// match Preamble. Callers must CheckLen first.
func CheckPreamble(buf []byte) error {
	if binary.LittleEndian.Uint32(buf[offPreamble:]) != Preamble {
		return ErrPreamble
	}
	return nil
}

func (f FrameView) PreambleValue() uint32 {
	return binary.LittleEndian.Uint32(f.buf[offPreamble:])
}

func (f FrameView) SetPreamble() {
	binary.LittleEndian.PutUint32(f.buf[offPreamble:], Preamble)
}

func (f FrameView) NodeID() uint32 {
	return binary.LittleEndian.Uint32(f.buf[offNodeID:])
}

func (f FrameView) SetNodeID(id uint32) {
	binary.LittleEndian.PutUint32(f.buf[offNodeID:], id)
}

func (f FrameView) MessageFlags() uint32 {
	return binary.LittleEndian.Uint32(f.buf[offFlags:])
}

func (f FrameView) SetMessageFlags(flags uint32) {
	binary.LittleEndian.PutUint32(f.buf[offFlags:], flags)
}

func (f FrameView) Version() uint8 {
	return f.buf[offVersion]
}

func (f FrameView) SetVersion(v uint8) {
	f.buf[offVersion] = v
}

func (f FrameView) Op() Op {
	return Op(f.buf[offOp])
}

func (f FrameView) SetOp(op Op) {
	f.buf[offOp] = byte(op)
}

func (f FrameView) PayloadType() PayloadType {
	return PayloadType(f.buf[offPayloadType])
}

func (f FrameView) SetPayloadType(pt PayloadType) {
	f.buf[offPayloadType] = byte(pt)
}

func (f FrameView) PayloadSize() uint16 {
	return binary.LittleEndian.Uint16(f.buf[offPayloadSize:])
}

func (f FrameView) SetPayloadSize(n uint16) {
	binary.LittleEndian.PutUint16(f.buf[offPayloadSize:], n)
}

// Payload borrows the bytes from offset HeaderSize to the end of buf.
func (f FrameView) Payload() []byte {
	return f.buf[HeaderSize:]
}

// Bytes returns the full underlying buffer (header + payload).
func (f FrameView) Bytes() []byte {
	return f.buf
}

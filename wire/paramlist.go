package wire

import "encoding/binary"

// paramListHeaderSize is the one-byte count field at the start of the
// sub-packet.
const paramListHeaderSize = 1

// ParameterListPacket is a cursor over a caller-owned buffer holding a
// count byte followed by count variable-length packed parameter records:
// time(8) id(4) flags(4) type_tag(1) value_bytes(variable). Records are
// not self-indexed: ParameterAt walks from the start, re-deriving each
// record's length from its type tag to locate the next.
type ParameterListPacket struct {
	buf []byte
}

// NewParameterListPacket wraps buf as a Parameter-list sub-packet.
func NewParameterListPacket(buf []byte) ParameterListPacket {
	return ParameterListPacket{buf: buf}
}

// Count returns the number of parameters declared in the sub-packet header.
func (p ParameterListPacket) Count() int {
	if len(p.buf) < paramListHeaderSize {
		return 0
	}
	return int(p.buf[0])
}

// SetCount writes the declared parameter count.
func (p ParameterListPacket) SetCount(n int) {
	p.buf[0] = byte(n)
}

// ParameterAt walks the variable-length records from the start of the
// sub-packet to locate and parse the i-th one. Returns ErrIndexOutOfBounds
// if i >= Count(), or ErrTruncated if a record does not fit in the
// remaining bytes.
func (p ParameterListPacket) ParameterAt(i int) (Parameter, error) {
	count := p.Count()
	if i < 0 || i >= count {
		return Parameter{}, ErrIndexOutOfBounds
	}

	off := paramListHeaderSize
	for idx := 0; idx <= i; idx++ {
		param, size, err := parseParameterRecord(p.buf[off:])
		if err != nil {
			return Parameter{}, err
		}
		if idx == i {
			return param, nil
		}
		off += size
	}
	return Parameter{}, ErrIndexOutOfBounds
}

// AppendParameter appends one packed parameter record to buf, returning the
// extended slice.
func AppendParameter(buf []byte, p Parameter) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], p.LocalTimeMS)
	buf = append(buf, tmp[:]...)

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], uint32(p.ID))
	buf = append(buf, tmp4[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], uint32(p.Flags))
	buf = append(buf, tmp4[:]...)

	buf = EmitValue(buf, p.Value)
	return buf
}

// parseParameterRecord parses one packed parameter record from the front
// of buf, returning the parameter and the number of bytes it occupied.
func parseParameterRecord(buf []byte) (Parameter, int, error) {
	const fixedSize = 8 + 4 + 4 + 1 // time + id + flags + tag, before value bytes
	if len(buf) < fixedSize {
		return Parameter{}, 0, ErrTruncated
	}

	localTime := binary.LittleEndian.Uint64(buf[0:8])
	id := ParameterID(binary.LittleEndian.Uint32(buf[8:12]))
	flags := Flags(binary.LittleEndian.Uint32(buf[12:16]))

	value, valueBytes, err := ParseValue(buf[16:])
	if err != nil {
		return Parameter{}, 0, err
	}

	return Parameter{
		LocalTimeMS: localTime,
		ID:          id,
		Flags:       flags,
		Value:       value,
	}, 16 + valueBytes, nil
}

// ParameterListWireSize returns the total byte size of a Parameter-list
// sub-packet carrying the given parameters.
func ParameterListWireSize(params []Parameter) int {
	size := paramListHeaderSize
	for _, p := range params {
		size += p.wireSize()
	}
	return size
}

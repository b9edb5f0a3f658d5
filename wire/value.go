// Package wire implements the bit-exact, little-endian binary framing for
// the parameter get/set protocol: the tagged value union, the envelope and
// sub-packet cursors, and the flag bits. Every type here operates directly
// on caller-supplied byte slices; nothing in this package allocates beyond
// what the caller already owns.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// ValueType identifies the wire tag for a ParameterValue variant. Tag values
// are part of the wire contract (table in the protocol spec) — changing one
// is a wire-break.
type ValueType byte

const (
	TypeNone         ValueType = 0
	TypeNotification ValueType = 1
	TypeBool         ValueType = 2
	TypeU8           ValueType = 3
	TypeI8           ValueType = 4
	TypeU32          ValueType = 5
	TypeI32          ValueType = 6
	TypeU64          ValueType = 7
	TypeI64          ValueType = 8
	TypeF32          ValueType = 9
)

// Value is a closed tagged union over the ten wire-representable variants.
// The zero Value is TypeNone.
type Value struct {
	tag ValueType
	u64 uint64 // backing store for Bool/U8/I8/U32/I32/U64/I64/F32
}

func NoneValue() Value         { return Value{tag: TypeNone} }
func NotificationValue() Value { return Value{tag: TypeNotification} }
func U8Value(v uint8) Value    { return Value{tag: TypeU8, u64: uint64(v)} }
func I8Value(v int8) Value     { return Value{tag: TypeI8, u64: uint64(uint8(v))} }
func U32Value(v uint32) Value  { return Value{tag: TypeU32, u64: uint64(v)} }
func I32Value(v int32) Value   { return Value{tag: TypeI32, u64: uint64(uint32(v))} }
func U64Value(v uint64) Value  { return Value{tag: TypeU64, u64: v} }
func I64Value(v int64) Value   { return Value{tag: TypeI64, u64: uint64(v)} }
func F32Value(v float32) Value { return Value{tag: TypeF32, u64: uint64(math.Float32bits(v))} }

// BoolValue constructs a Bool variant.
func BoolValue(v bool) Value {
	if v {
		return Value{tag: TypeBool, u64: 1}
	}
	return Value{tag: TypeBool}
}

// Tag returns the variant's wire type tag.
func (v Value) Tag() ValueType { return v.tag }

// Bool returns the value interpreted as Bool; false for any other variant.
func (v Value) Bool() bool { return v.tag == TypeBool && v.u64 != 0 }

// U8 returns the value interpreted as U8.
func (v Value) U8() uint8 { return uint8(v.u64) }

// I8 returns the value interpreted as I8.
func (v Value) I8() int8 { return int8(uint8(v.u64)) }

// U32 returns the value interpreted as U32.
func (v Value) U32() uint32 { return uint32(v.u64) }

// I32 returns the value interpreted as I32.
func (v Value) I32() int32 { return int32(uint32(v.u64)) }

// U64 returns the value interpreted as U64.
func (v Value) U64() uint64 { return v.u64 }

// I64 returns the value interpreted as I64.
func (v Value) I64() int64 { return int64(v.u64) }

// F32 returns the value interpreted as F32.
func (v Value) F32() float32 { return math.Float32frombits(uint32(v.u64)) }

// Equal reports whether two values have the same tag and payload.
func (v Value) Equal(other Value) bool {
	return v.tag == other.tag && v.u64 == other.u64
}

// wireSizes maps each defined tag to its value-payload size in bytes.
// wire_size is a total function over defined tags; undefined tags map to 0.
var wireSizes = map[ValueType]int{
	TypeNone:         0,
	TypeNotification: 0,
	TypeBool:         1,
	TypeU8:           1,
	TypeI8:           1,
	TypeU32:          4,
	TypeI32:          4,
	TypeU64:          8,
	TypeI64:          8,
	TypeF32:          4,
}

// WireSize returns the number of value-payload bytes a tag occupies on the
// wire, not counting the one-byte tag itself. Undefined tags yield 0.
func WireSize(tag ValueType) int {
	return wireSizes[tag]
}

// RecordSize returns the total wire size (tag byte + value bytes) for tag.
func RecordSize(tag ValueType) int {
	return 1 + WireSize(tag)
}

// EmitValue appends the value's tag byte and payload to buf, returning the
// extended slice. The tag byte is always emitted exactly as stored.
func EmitValue(buf []byte, v Value) []byte {
	buf = append(buf, byte(v.tag))
	switch v.tag {
	case TypeNone, TypeNotification:
	case TypeBool:
		buf = append(buf, v.U8())
	case TypeU8, TypeI8:
		buf = append(buf, byte(v.u64))
	case TypeU32, TypeI32:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v.u64))
		buf = append(buf, tmp[:]...)
	case TypeF32:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v.u64))
		buf = append(buf, tmp[:]...)
	case TypeU64, TypeI64:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], v.u64)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// ParseValue reads a tag byte and its value payload from buf, returning the
// decoded Value and the number of bytes consumed. An unknown tag byte is
// read leniently as None, consuming only the tag byte. ErrTruncated is
// returned if the payload does not fit.
func ParseValue(buf []byte) (Value, int, error) {
	if len(buf) < 1 {
		return Value{}, 0, ErrTruncated
	}
	tag := ValueType(buf[0])
	size, known := wireSizes[tag]
	if !known {
		return Value{tag: TypeNone}, 1, nil
	}
	if len(buf) < 1+size {
		return Value{}, 0, ErrTruncated
	}
	payload := buf[1 : 1+size]
	switch tag {
	case TypeNone, TypeNotification:
		return Value{tag: tag}, 1, nil
	case TypeBool:
		return Value{tag: tag, u64: uint64(payload[0])}, 1 + size, nil
	case TypeU8, TypeI8:
		return Value{tag: tag, u64: uint64(payload[0])}, 1 + size, nil
	case TypeU32, TypeI32:
		return Value{tag: tag, u64: uint64(binary.LittleEndian.Uint32(payload))}, 1 + size, nil
	case TypeF32:
		return Value{tag: tag, u64: uint64(binary.LittleEndian.Uint32(payload))}, 1 + size, nil
	case TypeU64, TypeI64:
		return Value{tag: tag, u64: binary.LittleEndian.Uint64(payload)}, 1 + size, nil
	}
	return Value{tag: TypeNone}, 1, nil
}

// ParseTypeName maps a canonical lowercase type name (as used by CLI
// tooling and the paramdesc YAML schema) to its ValueType tag.
func ParseTypeName(name string) (ValueType, error) {
	switch name {
	case "none":
		return TypeNone, nil
	case "notification":
		return TypeNotification, nil
	case "bool":
		return TypeBool, nil
	case "u8":
		return TypeU8, nil
	case "i8":
		return TypeI8, nil
	case "u32":
		return TypeU32, nil
	case "i32":
		return TypeI32, nil
	case "u64":
		return TypeU64, nil
	case "i64":
		return TypeI64, nil
	case "f32":
		return TypeF32, nil
	default:
		return 0, fmt.Errorf("unknown value type %q", name)
	}
}

// ParseValueText parses text into a Value of the named type, using each
// type's canonical textual form (decimal for integers, "true"/"false" for
// Bool, Go float syntax for F32). Used by the CLI to turn a --value flag
// into a wire.Value without the caller needing to know the tag layout.
func ParseValueText(typeName, text string) (Value, error) {
	tag, err := ParseTypeName(typeName)
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case TypeNone:
		return NoneValue(), nil
	case TypeNotification:
		return NotificationValue(), nil
	case TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("parse bool %q: %w", text, err)
		}
		return BoolValue(b), nil
	case TypeU8:
		n, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return Value{}, fmt.Errorf("parse u8 %q: %w", text, err)
		}
		return U8Value(uint8(n)), nil
	case TypeI8:
		n, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			return Value{}, fmt.Errorf("parse i8 %q: %w", text, err)
		}
		return I8Value(int8(n)), nil
	case TypeU32:
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("parse u32 %q: %w", text, err)
		}
		return U32Value(uint32(n)), nil
	case TypeI32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("parse i32 %q: %w", text, err)
		}
		return I32Value(int32(n)), nil
	case TypeU64:
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse u64 %q: %w", text, err)
		}
		return U64Value(n), nil
	case TypeI64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse i64 %q: %w", text, err)
		}
		return I64Value(n), nil
	case TypeF32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Value{}, fmt.Errorf("parse f32 %q: %w", text, err)
		}
		return F32Value(float32(f)), nil
	default:
		return Value{}, fmt.Errorf("unsupported type tag %d", tag)
	}
}

// TypeName returns a human-readable name for a value type tag.
func TypeName(tag ValueType) string {
	switch tag {
	case TypeNone:
		return "None"
	case TypeNotification:
		return "Notification"
	case TypeBool:
		return "Bool"
	case TypeU8:
		return "U8"
	case TypeI8:
		return "I8"
	case TypeU32:
		return "U32"
	case TypeI32:
		return "I32"
	case TypeU64:
		return "U64"
	case TypeI64:
		return "I64"
	case TypeF32:
		return "F32"
	default:
		return "Unknown"
	}
}

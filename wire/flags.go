package wire

// Flags is a 32-bit bitfield describing a parameter's permission and
// broadcast attributes.
type Flags uint32

const (
	// FlagReadOnly marks a parameter externally immutable via Set.
	FlagReadOnly Flags = 1 << 0
	// FlagBroadcast marks a parameter included in the periodic UDP broadcast.
	FlagBroadcast Flags = 1 << 1
	// FlagConstant marks a parameter internally immutable even by application code.
	FlagConstant Flags = 1 << 2
)

// ReadOnly reports whether the read_only bit is set.
func (f Flags) ReadOnly() bool { return f&FlagReadOnly != 0 }

// Broadcast reports whether the broadcast bit is set.
func (f Flags) Broadcast() bool { return f&FlagBroadcast != 0 }

// Constant reports whether the constant bit is set.
func (f Flags) Constant() bool { return f&FlagConstant != 0 }

// NewFlags builds a Flags value from the three named attributes.
func NewFlags(readOnly, broadcast, constant bool) Flags {
	var f Flags
	if readOnly {
		f |= FlagReadOnly
	}
	if broadcast {
		f |= FlagBroadcast
	}
	if constant {
		f |= FlagConstant
	}
	return f
}

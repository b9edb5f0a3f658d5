package wire

// ParameterID is a 32-bit identifier unique within a node's registry.
// Conveyed on the wire little-endian. Zero is permitted but conventionally
// reserved.
type ParameterID uint32

// Parameter is one named, typed, flagged, timestamped cell of live state.
// Invariant: Value's variant tag never changes across mutations of a
// registered parameter.
type Parameter struct {
	LocalTimeMS uint64
	ID          ParameterID
	Flags       Flags
	Value       Value
}

// wireSize returns the total on-wire size of this parameter's packed record:
// time(8) + id(4) + flags(4) + tag(1) + value bytes.
func (p Parameter) wireSize() int {
	return 8 + 4 + 4 + RecordSize(p.Value.Tag())
}

// Equal reports whether two parameters are identical in every field.
func (p Parameter) Equal(other Parameter) bool {
	return p.LocalTimeMS == other.LocalTimeMS &&
		p.ID == other.ID &&
		p.Flags == other.Flags &&
		p.Value.Equal(other.Value)
}

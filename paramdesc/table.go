// Package paramdesc loads the declarative parameter description table: a
// static (id, name, description, type, default, flags) tuple set per
// node, normally produced offline by a code generator. Here the table is
// a YAML file loaded at boot, mirroring config.Load's read/unmarshal
// shape, since the generator itself is out of scope and this is the
// closest in-repo analogue to its compile-time output.
//
// Example file:
//
//	nodes:
//	  - id: 1
//	    name: pump-controller
//	    description: primary coolant pump node
//	    params:
//	      - id: 1
//	        name: setpoint_c
//	        description: target temperature in Celsius
//	        type: f32
//	        default: 0
//	        read_only: false
//	        broadcast: true
//	        constant: false
package paramdesc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"paramlink/store"
	"paramlink/wire"
)

// ParamDef is one parameter's declarative description.
type ParamDef struct {
	ID          wire.ParameterID `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Type        string           `yaml:"type"`
	Default     float64          `yaml:"default"`
	ReadOnly    bool             `yaml:"read_only,omitempty"`
	Broadcast   bool             `yaml:"broadcast,omitempty"`
	Constant    bool             `yaml:"constant,omitempty"`
}

// NodeDef is one node's identity plus its owned parameter set.
type NodeDef struct {
	ID          uint32     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Params      []ParamDef `yaml:"params"`
}

// fileSchema is the top-level YAML document shape.
type fileSchema struct {
	Nodes []NodeDef `yaml:"nodes"`
}

// Table is the loaded, indexed description set for one or more nodes.
type Table struct {
	nodes      map[uint32]NodeDef
	paramNode  map[wire.ParameterID]uint32
	paramByID  map[wire.ParameterID]ParamDef
}

// Load reads and parses a parameter description file, enforcing
// parameter-id uniqueness across the whole table (the load-time
// analogue of the generator's "enforced at generation time" rule).
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter table %s: %w", path, err)
	}

	var doc fileSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse parameter table %s: %w", path, err)
	}

	t := &Table{
		nodes:     make(map[uint32]NodeDef),
		paramNode: make(map[wire.ParameterID]uint32),
		paramByID: make(map[wire.ParameterID]ParamDef),
	}

	for _, n := range doc.Nodes {
		if _, exists := t.nodes[n.ID]; exists {
			return nil, fmt.Errorf("duplicate node id %d in %s", n.ID, path)
		}
		t.nodes[n.ID] = n
		for _, p := range n.Params {
			if _, exists := t.paramByID[p.ID]; exists {
				return nil, fmt.Errorf("duplicate parameter id %d in %s", p.ID, path)
			}
			t.paramByID[p.ID] = p
			t.paramNode[p.ID] = n.ID
		}
	}

	return t, nil
}

// Seed registers every parameter owned by nodeID into s, in table order,
// at its declared default value and flags. Called once at boot.
func (t *Table) Seed(nodeID uint32, s *store.Store) error {
	n, ok := t.nodes[nodeID]
	if !ok {
		return fmt.Errorf("paramdesc: unknown node id %d", nodeID)
	}
	for _, p := range n.Params {
		v, err := valueFromDefault(p.Type, p.Default)
		if err != nil {
			return fmt.Errorf("paramdesc: parameter %d (%s): %w", p.ID, p.Name, err)
		}
		flags := wire.NewFlags(p.ReadOnly, p.Broadcast, p.Constant)
		if err := s.Add(wire.Parameter{ID: p.ID, Flags: flags, Value: v}); err != nil {
			return fmt.Errorf("paramdesc: seed parameter %d (%s): %w", p.ID, p.Name, err)
		}
	}
	return nil
}

// NodeName returns the declared name for a node id.
func (t *Table) NodeName(id uint32) (string, bool) {
	n, ok := t.nodes[id]
	return n.Name, ok
}

// NodeDesc returns the declared description for a node id.
func (t *Table) NodeDesc(id uint32) (string, bool) {
	n, ok := t.nodes[id]
	return n.Description, ok
}

// ParamName returns the declared name for a parameter id.
func (t *Table) ParamName(id wire.ParameterID) (string, bool) {
	p, ok := t.paramByID[id]
	return p.Name, ok
}

// ParamDesc returns the declared description for a parameter id.
func (t *Table) ParamDesc(id wire.ParameterID) (string, bool) {
	p, ok := t.paramByID[id]
	return p.Description, ok
}

// valueFromDefault converts a YAML numeric default into the wire.Value
// variant named by typeName.
func valueFromDefault(typeName string, def float64) (wire.Value, error) {
	switch typeName {
	case "none":
		return wire.NoneValue(), nil
	case "notification":
		return wire.NotificationValue(), nil
	case "bool":
		return wire.BoolValue(def != 0), nil
	case "u8":
		return wire.U8Value(uint8(def)), nil
	case "i8":
		return wire.I8Value(int8(def)), nil
	case "u32":
		return wire.U32Value(uint32(def)), nil
	case "i32":
		return wire.I32Value(int32(def)), nil
	case "u64":
		return wire.U64Value(uint64(def)), nil
	case "i64":
		return wire.I64Value(int64(def)), nil
	case "f32":
		return wire.F32Value(float32(def)), nil
	default:
		return wire.Value{}, fmt.Errorf("unknown parameter type %q", typeName)
	}
}

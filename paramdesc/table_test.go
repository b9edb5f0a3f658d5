package paramdesc

import (
	"os"
	"path/filepath"
	"testing"

	"paramlink/store"
	"paramlink/wire"
)

const sampleYAML = `
nodes:
  - id: 1
    name: pump-controller
    description: primary coolant pump node
    params:
      - id: 1
        name: setpoint_c
        description: target temperature in Celsius
        type: f32
        default: 42.5
        broadcast: true
      - id: 2
        name: serial_number
        type: u32
        default: 1001
        read_only: true
      - id: 3
        name: hardware_rev
        type: u8
        default: 3
        constant: true
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestTableLoadAndSeed(t *testing.T) {
	path := writeSample(t, sampleYAML)
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := store.New(func() uint64 { return 0 })
	if err := tbl.Seed(1, s); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	v, ok := s.GetValue(1)
	if !ok || v.F32() != 42.5 {
		t.Fatalf("GetValue(1) = %v, %v, want 42.5, true", v, ok)
	}

	if name, ok := tbl.ParamName(2); !ok || name != "serial_number" {
		t.Fatalf("ParamName(2) = %q, %v", name, ok)
	}
	if name, ok := tbl.NodeName(1); !ok || name != "pump-controller" {
		t.Fatalf("NodeName(1) = %q, %v", name, ok)
	}
}

func TestTableSeedAppliesPermissionFlags(t *testing.T) {
	path := writeSample(t, sampleYAML)
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := store.New(func() uint64 { return 0 })
	if err := tbl.Seed(1, s); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if err := s.Set(2, wire.U32Value(2), false); err != wire.ErrPermissionDenied {
		t.Fatalf("Set read-only = %v, want ErrPermissionDenied", err)
	}
	if err := s.Set(3, wire.U8Value(4), true); err != wire.ErrPermissionDenied {
		t.Fatalf("Set constant = %v, want ErrPermissionDenied", err)
	}
}

func TestTableDuplicateParamIDRejected(t *testing.T) {
	path := writeSample(t, `
nodes:
  - id: 1
    name: a
    params:
      - id: 5
        name: x
        type: u8
        default: 0
  - id: 2
    name: b
    params:
      - id: 5
        name: y
        type: u8
        default: 0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load with duplicate parameter id across nodes did not error")
	}
}

func TestTableUnknownNodeSeed(t *testing.T) {
	path := writeSample(t, sampleYAML)
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := store.New(func() uint64 { return 0 })
	if err := tbl.Seed(99, s); err == nil {
		t.Fatal("Seed with unknown node id did not error")
	}
}

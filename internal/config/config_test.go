package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigAppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(""), "<empty>")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.CellWidth != DefaultCellWidth {
		t.Fatalf("CellWidth = %d, want default %d", cfg.CellWidth, DefaultCellWidth)
	}
	if cfg.Depth.Simplify != DefaultSimplifyDepth {
		t.Fatalf("Depth.Simplify = %d, want default %d", cfg.Depth.Simplify, DefaultSimplifyDepth)
	}
	if cfg.Depth.ConstEval != DefaultConstEvalDepth {
		t.Fatalf("Depth.ConstEval = %d, want default %d", cfg.Depth.ConstEval, DefaultConstEvalDepth)
	}
	if cfg.Depth.Equality != DefaultEqualityDepth {
		t.Fatalf("Depth.Equality = %d, want default %d", cfg.Depth.Equality, DefaultEqualityDepth)
	}
	if cfg.Depth.Monomorphize != DefaultMonomorphizeDepth {
		t.Fatalf("Depth.Monomorphize = %d, want default %d", cfg.Depth.Monomorphize, DefaultMonomorphizeDepth)
	}
	if len(cfg.FFI) != 0 {
		t.Fatalf("FFI = %v, want empty", cfg.FFI)
	}
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	input := []byte(`
cell_width: 64
depth:
  simplify: 10
  const_eval: 20
ffi:
  - name: square_root
    input_cells: 1
    output_cells: 1
  - name: add
    input_cells: 2
    output_cells: 1
`)
	cfg, err := ParseConfig(input, "<test>")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Depth.Simplify != 10 {
		t.Fatalf("Depth.Simplify = %d, want 10", cfg.Depth.Simplify)
	}
	if cfg.Depth.ConstEval != 20 {
		t.Fatalf("Depth.ConstEval = %d, want 20", cfg.Depth.ConstEval)
	}
	// Fields left unset in the file still fall back to defaults.
	if cfg.Depth.Equality != DefaultEqualityDepth {
		t.Fatalf("Depth.Equality = %d, want default %d", cfg.Depth.Equality, DefaultEqualityDepth)
	}
	if len(cfg.FFI) != 2 {
		t.Fatalf("len(FFI) = %d, want 2", len(cfg.FFI))
	}
	bindings := cfg.Bindings()
	if bindings[0].Name != "square_root" || bindings[0].InputCells != 1 || bindings[0].OutputCells != 1 {
		t.Fatalf("bindings[0] = %+v, want square_root(1,1)", bindings[0])
	}
	if bindings[1].Name != "add" || bindings[1].InputCells != 2 || bindings[1].OutputCells != 1 {
		t.Fatalf("bindings[1] = %+v, want add(2,1)", bindings[1])
	}
}

func TestParseConfigRejectsUnsupportedCellWidth(t *testing.T) {
	_, err := ParseConfig([]byte("cell_width: 32\n"), "<test>")
	if err == nil {
		t.Fatal("expected an error for cell_width: 32, got nil")
	}
}

func TestParseConfigRejectsDuplicateFFIName(t *testing.T) {
	input := []byte(`
ffi:
  - name: square_root
    input_cells: 1
    output_cells: 1
  - name: square_root
    input_cells: 1
    output_cells: 1
`)
	_, err := ParseConfig(input, "<test>")
	if err == nil {
		t.Fatal("expected an error for duplicate ffi binding name, got nil")
	}
}

func TestParseConfigRejectsUnnamedFFIEntry(t *testing.T) {
	input := []byte(`
ffi:
  - input_cells: 1
    output_cells: 1
`)
	_, err := ParseConfig(input, "<test>")
	if err == nil {
		t.Fatal("expected an error for an ffi entry with no name, got nil")
	}
}

func TestParseConfigRejectsNegativeCellCounts(t *testing.T) {
	input := []byte(`
ffi:
  - name: bad
    input_cells: -1
    output_cells: 1
`)
	_, err := ParseConfig(input, "<test>")
	if err == nil {
		t.Fatal("expected an error for a negative cell count, got nil")
	}
}

func TestDefaultMatchesParsingEmptyConfig(t *testing.T) {
	empty, err := ParseConfig([]byte(""), "<empty>")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	def := Default()
	if def.CellWidth != empty.CellWidth || def.Depth != empty.Depth {
		t.Fatalf("Default() = %+v, want %+v", *def, *empty)
	}
}

func TestFindConfigWalksUpToAncestor(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, "lir.yaml")
	if err := os.WriteFile(configPath, []byte("cell_width: 64\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != configPath {
		t.Fatalf("FindConfig found %q, want %q", found, configPath)
	}
}

func TestFindConfigReturnsEmptyWhenAbsent(t *testing.T) {
	found, err := FindConfig(t.TempDir())
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != "" {
		t.Fatalf("FindConfig found %q, want none", found)
	}
}

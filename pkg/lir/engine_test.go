package lir

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lir-lang/lir/internal/cache"
	"github.com/lir-lang/lir/internal/config"
	"github.com/lir-lang/lir/internal/vm"
)

func openTestCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	return store
}

func exampleByName(t *testing.T, name string) Program {
	t.Helper()
	for _, prog := range Examples() {
		if prog.Name == name {
			return prog
		}
	}
	t.Fatalf("no such example program: %s", name)
	return Program{}
}

func TestCompileAndRunArithmeticExample(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sink, err := engine.Compile(exampleByName(t, "arithmetic"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	device := vm.NewTestingDevice("")
	if err := engine.Run(sink, device); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := device.OutputString(); got != "20" {
		t.Fatalf("output = %q, want %q", got, "20")
	}
}

func TestCompileAndRunLetExample(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sink, err := engine.Compile(exampleByName(t, "let"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	device := vm.NewTestingDevice("")
	if err := engine.Run(sink, device); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := device.OutputString(); got != "42" {
		t.Fatalf("output = %q, want %q", got, "42")
	}
}

func TestCompileAndRunBranchExample(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sink, err := engine.Compile(exampleByName(t, "branch"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	device := vm.NewTestingDevice("")
	if err := engine.Run(sink, device); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := device.OutputString(); got != "1" {
		t.Fatalf("output = %q, want %q (10 > 3)", got, "1")
	}
}

func TestCompileAndRunVariantMatchExample(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sink, err := engine.Compile(exampleByName(t, "variant_match"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	device := vm.NewTestingDevice("")
	if err := engine.Run(sink, device); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := device.OutputString(); got != "42" {
		t.Fatalf("output = %q, want %q (Some(42) should bind and return its payload)", got, "42")
	}
}

func TestDisassembleProducesNonEmptyListing(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sink, err := engine.Compile(exampleByName(t, "arithmetic"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	listing := engine.Disassemble(sink)
	if strings.TrimSpace(listing) == "" {
		t.Fatal("Disassemble produced no output")
	}
}

func TestCompileRecordsCacheEntry(t *testing.T) {
	store := openTestCache(t)
	engine, err := New(WithCache(store))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog := exampleByName(t, "arithmetic")
	if _, err := engine.Compile(prog); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	entry, ok, err := store.GetProcedure(prog.Name)
	if err != nil {
		t.Fatalf("GetProcedure: %v", err)
	}
	if !ok {
		t.Fatal("GetProcedure reported false after Compile with a cache attached")
	}
	if entry.RetType != "Int" {
		t.Fatalf("entry.RetType = %q, want Int", entry.RetType)
	}
}

func TestRegisterFFIPersistsToCache(t *testing.T) {
	store := openTestCache(t)
	engine, err := New(WithCache(store))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	binding := config.FFIEntry{Name: "square_root", InputCells: 1, OutputCells: 1}.Binding()
	if err := engine.RegisterFFI(binding); err != nil {
		t.Fatalf("RegisterFFI: %v", err)
	}
	bindings, err := store.FFIBindings()
	if err != nil {
		t.Fatalf("FFIBindings: %v", err)
	}
	if len(bindings) != 1 || bindings[0].Name != "square_root" {
		t.Fatalf("FFIBindings() = %+v, want one square_root entry", bindings)
	}
}

func TestWithConfigRegistersFFIBindings(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(`
ffi:
  - name: square_root
    input_cells: 1
    output_cells: 1
`), "<test>")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	engine, err := New(WithConfig(cfg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := engine.Env().GetFFI("square_root"); !ok {
		t.Fatal("GetFFI(square_root) = false after WithConfig, want true")
	}
}

package cache

import (
	"path/filepath"
	"testing"

	"github.com/lir-lang/lir/internal/asm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func TestHasProcedureMissingOnEmptyStore(t *testing.T) {
	store := openTestStore(t)
	ok, err := store.HasProcedure("__MONOMORPHIZED_(Int)id(Int)Int")
	if err != nil {
		t.Fatalf("HasProcedure: %v", err)
	}
	if ok {
		t.Fatal("HasProcedure on an empty store reported true")
	}
}

func TestPutAndGetProcedureRoundTrips(t *testing.T) {
	store := openTestStore(t)
	entry := ProcedureEntry{
		MangledName: "__MONOMORPHIZED_(Int)id(Int)Int",
		ArgTypes:    []string{"Int"},
		RetType:     "Int",
		Disassembly: "   0: fn __MONOMORPHIZED_(Int)id(Int)Int\n   1: end\n",
	}
	if err := store.PutProcedure(entry); err != nil {
		t.Fatalf("PutProcedure: %v", err)
	}

	ok, err := store.HasProcedure(entry.MangledName)
	if err != nil {
		t.Fatalf("HasProcedure: %v", err)
	}
	if !ok {
		t.Fatal("HasProcedure reported false after PutProcedure")
	}

	got, ok, err := store.GetProcedure(entry.MangledName)
	if err != nil {
		t.Fatalf("GetProcedure: %v", err)
	}
	if !ok {
		t.Fatal("GetProcedure reported false after PutProcedure")
	}
	if got.MangledName != entry.MangledName || got.RetType != entry.RetType || got.Disassembly != entry.Disassembly {
		t.Fatalf("GetProcedure = %+v, want %+v", got, entry)
	}
	if len(got.ArgTypes) != 1 || got.ArgTypes[0] != "Int" {
		t.Fatalf("GetProcedure.ArgTypes = %v, want [Int]", got.ArgTypes)
	}
}

func TestPutProcedureDoesNotDisturbOtherEntries(t *testing.T) {
	store := openTestStore(t)
	first := ProcedureEntry{MangledName: "a", ArgTypes: []string{"Int"}, RetType: "Int", Disassembly: "a"}
	second := ProcedureEntry{MangledName: "b", ArgTypes: []string{"Float"}, RetType: "Float", Disassembly: "b"}

	if err := store.PutProcedure(first); err != nil {
		t.Fatalf("PutProcedure(a): %v", err)
	}
	if err := store.PutProcedure(second); err != nil {
		t.Fatalf("PutProcedure(b): %v", err)
	}

	got, ok, err := store.GetProcedure("a")
	if err != nil || !ok {
		t.Fatalf("GetProcedure(a): ok=%v err=%v", ok, err)
	}
	if got.Disassembly != "a" {
		t.Fatalf("entry a was disturbed by storing b: got %+v", got)
	}
}

func TestFFIBindingsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	bindings := []asm.FFIBinding{
		{Name: "square_root", InputCells: 1, OutputCells: 1},
		{Name: "add", InputCells: 2, OutputCells: 1},
	}
	if err := store.PutFFIBindings(bindings); err != nil {
		t.Fatalf("PutFFIBindings: %v", err)
	}
	got, err := store.FFIBindings()
	if err != nil {
		t.Fatalf("FFIBindings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(FFIBindings()) = %d, want 2", len(got))
	}
	if got[0] != bindings[0] || got[1] != bindings[1] {
		t.Fatalf("FFIBindings() = %+v, want %+v", got, bindings)
	}
}

func TestFFIBindingsEmptyWhenUnset(t *testing.T) {
	store := openTestStore(t)
	got, err := store.FFIBindings()
	if err != nil {
		t.Fatalf("FFIBindings: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("FFIBindings() = %v, want none", got)
	}
}

func TestCleanRemovesFile(t *testing.T) {
	store := openTestStore(t)
	if err := store.PutFFIBindings([]asm.FFIBinding{{Name: "add", InputCells: 2, OutputCells: 1}}); err != nil {
		t.Fatalf("PutFFIBindings: %v", err)
	}
	if err := store.Clean(); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	got, err := store.FFIBindings()
	if err != nil {
		t.Fatalf("FFIBindings after Clean: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("FFIBindings after Clean = %v, want none", got)
	}
}

func TestDefaultPathJoinsProjectDir(t *testing.T) {
	got := DefaultPath("/tmp/project")
	want := filepath.Join("/tmp/project", ".lir-cache.json")
	if got != want {
		t.Fatalf("DefaultPath = %q, want %q", got, want)
	}
}

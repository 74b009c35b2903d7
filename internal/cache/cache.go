// Package cache persists compiled-procedure and FFI-binding data between
// CLI invocations (spec.md §6 "On-disk / wire": "Polymorphic procedures and
// FFI bindings must be serializable, stable for caching"). It is grounded
// on the pack's own project-scoped disk cache,
// `funvibe-funxy/internal/ext/cache.go`'s `Cache` type (a directory/file
// rooted at the project dir, a lookup-or-miss API, a Clean), adapted from
// a binary-blob cache to a JSON document. Individual entries are read and
// patched with `tidwall/gjson`/`tidwall/sjson` rather than a full
// unmarshal-mutate-marshal round trip, so a build that only touches a
// handful of monomorphizations leaves the rest of the cache file's bytes
// untouched (spec.md's "read/patch JSON without a full struct round-trip,
// so the cache file stays diff-friendly across builds").
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/lir-lang/lir/internal/asm"
)

const (
	procedureKeyPrefix = "procedures."
	ffiKey             = "ffi"
)

// Store is a JSON-backed cache file rooted at a single path. The monomorph
// memoization itself still lives on *PolyProcedure (process-lifetime,
// spec.md §4.7); Store is an on-disk record of compiled entries that a
// later process can read back (as `lir disasm` does). Nothing consults it
// to skip type-checking or compiling: every compile runs in full (spec.md
// §6: the monomorph cache and type-check flag are NOT part of the
// serialized form — they're reconstructed on load — while the compiled op
// stream this package stores, as disassembly text, is).
type Store struct {
	path string
}

// Open returns a Store backed by path, creating the parent directory (but
// not the file itself — a missing file just means an empty cache) if
// needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating %s: %w", filepath.Dir(path), err)
	}
	return &Store{path: path}, nil
}

// DefaultPath mirrors the pack's convention of a dotfile cache under the
// project directory (funxy's `.funxy/ext-cache/`): `<dir>/.lir-cache.json`.
func DefaultPath(projectDir string) string {
	return filepath.Join(projectDir, ".lir-cache.json")
}

func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: reading %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Store) patch(mutate func(data []byte) ([]byte, error)) error {
	data, err := s.read()
	if err != nil {
		return err
	}
	data, err = mutate(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("cache: writing %s: %w", s.path, err)
	}
	return nil
}

// ProcedureEntry is what Store persists for one monomorphized (or
// otherwise named) Procedure: its disassembled op stream, so the cache
// file is human-diffable, plus the argument/return type strings of its
// signature. Store records and returns these fields as given; it does not
// compare them against anything or invalidate entries.
type ProcedureEntry struct {
	MangledName string   `json:"mangled_name"`
	ArgTypes    []string `json:"arg_types"`
	RetType     string   `json:"ret_type"`
	Disassembly string   `json:"disassembly"`
}

// PutProcedure records (or overwrites) the cache entry for mangledName,
// patching only that key of the JSON document.
func (s *Store) PutProcedure(entry ProcedureEntry) error {
	return s.patch(func(data []byte) ([]byte, error) {
		path := procedureKeyPrefix + gjsonEscape(entry.MangledName)
		out, err := sjson.SetBytes(data, path, entry)
		if err != nil {
			return nil, fmt.Errorf("cache: storing procedure %s: %w", entry.MangledName, err)
		}
		return out, nil
	})
}

// HasProcedure reports whether mangledName already has a cache entry,
// without unmarshaling the rest of the document.
func (s *Store) HasProcedure(mangledName string) (bool, error) {
	data, err := s.read()
	if err != nil {
		return false, err
	}
	result := gjson.GetBytes(data, procedureKeyPrefix+gjsonEscape(mangledName))
	return result.Exists(), nil
}

// GetProcedure looks up the cached entry for mangledName.
func (s *Store) GetProcedure(mangledName string) (ProcedureEntry, bool, error) {
	data, err := s.read()
	if err != nil {
		return ProcedureEntry{}, false, err
	}
	result := gjson.GetBytes(data, procedureKeyPrefix+gjsonEscape(mangledName))
	if !result.Exists() {
		return ProcedureEntry{}, false, nil
	}
	entry := ProcedureEntry{
		MangledName: result.Get("mangled_name").String(),
		RetType:     result.Get("ret_type").String(),
	}
	for _, v := range result.Get("arg_types").Array() {
		entry.ArgTypes = append(entry.ArgTypes, v.String())
	}
	entry.Disassembly = result.Get("disassembly").String()
	return entry, true, nil
}

// PutFFIBindings overwrites the stored FFI binding table wholesale — the
// table is small and session-scoped (spec.md §9's one-binding-per-symbol
// FFI table), unlike the per-procedure entries that accumulate across
// many separate compiles.
func (s *Store) PutFFIBindings(bindings []asm.FFIBinding) error {
	return s.patch(func(data []byte) ([]byte, error) {
		out, err := sjson.SetBytes(data, ffiKey, bindings)
		if err != nil {
			return nil, fmt.Errorf("cache: storing ffi table: %w", err)
		}
		return out, nil
	})
}

// FFIBindings reads back the stored FFI binding table.
func (s *Store) FFIBindings() ([]asm.FFIBinding, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	result := gjson.GetBytes(data, ffiKey)
	if !result.Exists() {
		return nil, nil
	}
	var out []asm.FFIBinding
	for _, v := range result.Array() {
		out = append(out, asm.FFIBinding{
			Name:        v.Get("Name").String(),
			InputCells:  int(v.Get("InputCells").Int()),
			OutputCells: int(v.Get("OutputCells").Int()),
		})
	}
	return out, nil
}

// Clean removes the cache file entirely.
func (s *Store) Clean() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache: removing %s: %w", s.path, err)
	}
	return nil
}

// gjsonEscape escapes the path-metacharacters gjson/sjson give special
// meaning (`.`, `*`, `?`) in a mangled procedure name, since
// `mangleMonomorphName` freely embeds characters like `,` and `(` from
// rendered type names but dots never appear in them — this guards the one
// character gjson path syntax actually special-cases that could.
func gjsonEscape(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}

// Package config loads the LIR CLI's YAML session file: the VM's target
// cell width, recursion-depth limits for simplifying/const-evaluating/
// monomorphizing (loaded and defaulted here; nothing in the module reads
// them back to enforce them), and the FFI binding table a
// session wants available to `ffi_call`. Grounded on the teacher pack's
// own YAML config loader (`funvibe-funxy/internal/ext/config.go`:
// `LoadConfig`/`ParseConfig`/`FindConfig`, struct-plus-tags, a `validate`
// pass, a `setDefaults` pass) but built on `github.com/goccy/go-yaml`
// rather than `gopkg.in/yaml.v3`, per SPEC_FULL.md §B.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/lir-lang/lir/internal/asm"
)

// Default recursion-depth limits. The first three match internal/lir's own
// built-in constants (maxSimplifyDepth, maxConstDepth, maxEqualityDepth);
// DefaultMonomorphizeDepth has the same value as maxSizeDepth, and
// internal/lir has no monomorphization depth limit of its own. A config
// file only needs to name a limit when it wants to raise or lower one of
// these. This package never reaches into internal/lir to override its
// constants, and neither cmd/lir nor pkg/lir passes the loaded values on,
// so internal/lir's own bounds are the ones in force.
const (
	DefaultCellWidth         = 64
	DefaultSimplifyDepth     = 500
	DefaultConstEvalDepth    = 500
	DefaultEqualityDepth     = 1000
	DefaultMonomorphizeDepth = 500
)

// FFIEntry is one row of a session's FFI binding table: the wire shape
// FFIBinding already uses (spec.md §9, `src/side_effects/ffi.rs`), given
// YAML tags so it round-trips through a config file.
type FFIEntry struct {
	Name        string `yaml:"name"`
	InputCells  int    `yaml:"input_cells"`
	OutputCells int    `yaml:"output_cells"`
}

// Binding converts this entry to the asm.FFIBinding the compiler and VM
// actually consume.
func (e FFIEntry) Binding() asm.FFIBinding {
	return asm.FFIBinding{Name: e.Name, InputCells: e.InputCells, OutputCells: e.OutputCells}
}

// Depths holds the recursion-depth ceilings a session wants to enforce.
// Zero fields fall back to the matching Default* constant in setDefaults.
type Depths struct {
	Simplify     int `yaml:"simplify,omitempty"`
	ConstEval    int `yaml:"const_eval,omitempty"`
	Equality     int `yaml:"equality,omitempty"`
	Monomorphize int `yaml:"monomorphize,omitempty"`
}

// Config is the top-level shape of a session's lir.yaml.
type Config struct {
	// CellWidth is the VM's tape cell width in bits, currently always 64
	// (spec.md §6 fixes int64 cells); carried as a field rather than a
	// constant so a future wider/narrower VM variant has somewhere to
	// declare itself without a wire-format break.
	CellWidth int `yaml:"cell_width,omitempty"`

	Depth Depths `yaml:"depth,omitempty"`

	// FFI lists the bindings a session wants registered with the VM's
	// Device before running, keyed by symbol (duplicates are a validation
	// error, matching the original's one-binding-per-symbol table).
	FFI []FFIEntry `yaml:"ffi,omitempty"`
}

// LoadConfig reads and parses path as a lir.yaml session file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses YAML content already read from path (path is used
// only to make error messages locate the offending file).
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for lir.yaml (or lir.yml) starting at dir and
// walking up through parent directories, stopping at the filesystem root.
// Returns "" with a nil error when no config file is found anywhere above
// dir — callers should fall back to Default().
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"lir.yaml", "lir.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Default returns a Config with every field at its documented default,
// used when no lir.yaml is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) validate(path string) error {
	if c.CellWidth != 0 && c.CellWidth != 64 {
		return fmt.Errorf("config: %s: cell_width %d unsupported, the VM only implements 64-bit cells", path, c.CellWidth)
	}
	seen := make(map[string]bool, len(c.FFI))
	for i, entry := range c.FFI {
		if entry.Name == "" {
			return fmt.Errorf("config: %s: ffi[%d]: name is required", path, i)
		}
		if seen[entry.Name] {
			return fmt.Errorf("config: %s: ffi[%d]: duplicate binding name %q", path, i, entry.Name)
		}
		seen[entry.Name] = true
		if entry.InputCells < 0 || entry.OutputCells < 0 {
			return fmt.Errorf("config: %s: ffi[%d] (%s): cell counts must be non-negative", path, i, entry.Name)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.CellWidth == 0 {
		c.CellWidth = DefaultCellWidth
	}
	if c.Depth.Simplify == 0 {
		c.Depth.Simplify = DefaultSimplifyDepth
	}
	if c.Depth.ConstEval == 0 {
		c.Depth.ConstEval = DefaultConstEvalDepth
	}
	if c.Depth.Equality == 0 {
		c.Depth.Equality = DefaultEqualityDepth
	}
	if c.Depth.Monomorphize == 0 {
		c.Depth.Monomorphize = DefaultMonomorphizeDepth
	}
}

// Bindings converts every configured FFI entry to its wire form, in file
// order.
func (c *Config) Bindings() []asm.FFIBinding {
	out := make([]asm.FFIBinding, len(c.FFI))
	for i, e := range c.FFI {
		out[i] = e.Binding()
	}
	return out
}

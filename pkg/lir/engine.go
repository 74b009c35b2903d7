// Package lir is the public façade over the LIR core: build Expr/Procedure
// trees with internal/lir's builder functions (EConst, EBinaryOp, EApply,
// and friends — spec.md §1 Non-goals rules out a source-text frontend, so
// this is the only construction path, the same one internal/lir's own
// tests use), then hand a top-level Program to an Engine to get back a
// compiled *asm.Sink ready for internal/vm.
//
// Grounded on the shape of the teacher's own public package,
// `pkg/dwscript` (an `Engine` built with `New(opts ...Option)`, functional
// options, a `RegisterFunction`/`RegisterFFI`-style host-call registration
// point) — adapted from a source-driven scripting engine to a
// tree-construction one, since LIR has no text syntax to `Parse`.
package lir

import (
	"fmt"

	"github.com/lir-lang/lir/internal/asm"
	"github.com/lir-lang/lir/internal/cache"
	"github.com/lir-lang/lir/internal/config"
	"github.com/lir-lang/lir/internal/debugcodegen"
	corelir "github.com/lir-lang/lir/internal/lir"
	"github.com/lir-lang/lir/internal/vm"
)

// Engine owns a top-level Env (spec.md §4.4's nested-scope symbol table)
// and, optionally, the session Config and on-disk cache Store that
// configure and record what it compiles.
type Engine struct {
	env    *corelir.Env
	config *config.Config
	cache  *cache.Store
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithConfig supplies a loaded session Config (internal/config); its
// recursion-depth limits and cell-width are advisory (internal/lir keeps
// its own hardcoded ceilings regardless, see DESIGN.md), but every FFI
// binding it names is registered on the Engine's Env immediately.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithCache attaches an on-disk Store: every Compile call records the
// program it compiled, and RegisterFFI persists the binding table too.
func WithCache(store *cache.Store) Option {
	return func(e *Engine) { e.cache = store }
}

// New builds an Engine with a fresh Env, applying opts in order.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{env: corelir.NewEnv()}
	for _, opt := range opts {
		opt(e)
	}
	if e.config != nil {
		for _, binding := range e.config.Bindings() {
			e.env.DefineFFI(binding)
		}
	}
	return e, nil
}

// Env exposes the Engine's symbol table, so callers can DefineVar/
// DefineType/DefineConst before building the Expr trees that reference
// them — mirroring how internal/lir's own tests set up an Env by hand.
func (e *Engine) Env() *corelir.Env { return e.env }

// RegisterFFI makes binding callable from compiled LIR via an FFICall op,
// and — when the Engine has a cache Store attached — appends it to the
// on-disk FFI table so a later process's Engine can reload it (spec.md §6
// "FFI bindings must be serializable, stable for caching").
func (e *Engine) RegisterFFI(binding asm.FFIBinding) error {
	e.env.DefineFFI(binding)
	if e.cache == nil {
		return nil
	}
	existing, err := e.cache.FFIBindings()
	if err != nil {
		return err
	}
	return e.cache.PutFFIBindings(append(existing, binding))
}

// Program is a named, argument-free top-level expression. LIR has no
// source-file or module concept (spec.md §1 Non-goals exclude source
// parsing entirely), so a Program is nothing more than an Expr plus the
// name its compiled form is cached/disassembled under.
type Program struct {
	Name string
	Body corelir.Expr
}

// Compile type-checks prog.Body, lowers it to assembly, and appends the
// ops that Display the resulting value to stdout (internal/debugcodegen),
// so Run produces human-readable output for any result shape without the
// caller having to hand-write printing code. When the Engine has a cache
// Store, the compiled entry is recorded under prog.Name — this is a
// diff-friendly on-disk record, not a recompilation bypass: the cache
// does not short-circuit the compile itself (see DESIGN.md's discussion
// of internal/cache's scope).
func (e *Engine) Compile(prog Program) (*asm.Sink, error) {
	resultType, err := prog.Body.GetType(e.env)
	if err != nil {
		return nil, fmt.Errorf("lir: %s: %w", prog.Name, err)
	}
	if err := prog.Body.TypeCheck(e.env); err != nil {
		return nil, fmt.Errorf("lir: %s: %w", prog.Name, err)
	}

	sink := asm.NewSink()
	bodyStart := sink.CurrentInstruction()
	if err := prog.Body.Compile(e.env, sink); err != nil {
		return nil, fmt.Errorf("lir: %s: %w", prog.Name, err)
	}
	sink.LogInstructionsAfter(prog.Name, "program body", bodyStart)

	resultSize, err := resultType.GetSize(e.env)
	if err != nil {
		return nil, fmt.Errorf("lir: %s: %w", prog.Name, err)
	}
	// The compiled expression leaves its resultSize-cell value on top of
	// the stack, topmost cell last (the same layout Procedure.Compile's
	// return-copy assumes): its base address is SP's own value offset by
	// 1-resultSize, zero reads (SP.Deref() on a register base is pure
	// arithmetic — see internal/vm's resolveAddress).
	base := asm.Reg(asm.SP).Deref().Offset(1 - resultSize)
	if err := debugcodegen.Display(base, resultType, e.env, sink); err != nil {
		return nil, fmt.Errorf("lir: %s: generating display code: %w", prog.Name, err)
	}
	sink.Op(asm.Pop{Size: resultSize})

	if e.cache != nil {
		entry := cache.ProcedureEntry{
			MangledName: prog.Name,
			RetType:     resultType.String(),
			Disassembly: sink.Disassemble(),
		}
		if err := e.cache.PutProcedure(entry); err != nil {
			return nil, err
		}
	}
	return sink, nil
}

// CompileProcedure lowers proc to assembly under its own Fn label,
// following Procedure.Compile's call convention (spec.md §4.6) without
// calling or displaying anything — useful for building up a multi-
// procedure program where later procedures (or a Program's Body) reach
// the label by name via EApply/Call.
func (e *Engine) CompileProcedure(proc *corelir.Procedure) (*asm.Sink, error) {
	if err := proc.TypeCheck(e.env); err != nil {
		return nil, fmt.Errorf("lir: %s: %w", proc.MangledName(), err)
	}
	sink := asm.NewSink()
	if err := proc.Compile(e.env, sink); err != nil {
		return nil, fmt.Errorf("lir: %s: %w", proc.MangledName(), err)
	}
	if e.cache != nil {
		entry := cache.ProcedureEntry{
			MangledName: proc.MangledName(),
			Disassembly: sink.Disassemble(),
		}
		if err := e.cache.PutProcedure(entry); err != nil {
			return nil, err
		}
	}
	return sink, nil
}

// Run executes a compiled program against device (internal/vm's reference
// interpreter — spec.md §1: the VM itself is out of core scope, but this
// façade wires the contract up so callers don't have to touch
// internal/vm directly).
func (e *Engine) Run(sink *asm.Sink, device vm.Device) error {
	interp, err := vm.New(sink, device)
	if err != nil {
		return err
	}
	return interp.Run()
}

// Disassemble renders a compiled program one instruction per line.
func (e *Engine) Disassemble(sink *asm.Sink) string {
	return sink.Disassemble()
}

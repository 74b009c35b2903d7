package lir

import "github.com/lir-lang/lir/internal/errs"

// VarInfo describes one variable binding: its type, whether it may be
// written through, and whether it's a compiler-introduced temporary (which
// debug tooling may want to hide).
type VarInfo struct {
	Type       Type
	Mutability Mutability
	IsTemp     bool
	// Offset is this variable's position relative to FP. DefineArgs assigns
	// it for arguments; DefineVar leaves it zero, and the compiler sets it
	// once the local's stack slot is known.
	Offset int
}

// scope is one frame of the Env stack (spec.md §3 "Environment").
type scope struct {
	vars   map[string]VarInfo
	types  map[string]Type
	consts map[string]ConstExpr
	// assocConsts holds associated constants keyed by the owning type's
	// canonical String() form, then by constant name.
	assocConsts map[string]map[string]ConstExpr
	// ffi holds FFI bindings visible in this scope, keyed by symbol.
	ffi map[string]FFIBinding

	expectedReturn *Type
	nextOffset     int
}

func newScopeFrame() *scope {
	return &scope{
		vars:        map[string]VarInfo{},
		types:       map[string]Type{},
		consts:      map[string]ConstExpr{},
		assocConsts: map[string]map[string]ConstExpr{},
		ffi:         map[string]FFIBinding{},
	}
}

// Env is the nested-scope symbol table (spec.md §3, §6). A new Env (or one
// returned by NewScope) "clones parent visibility" by chaining lookups
// through the parent pointer; writes only ever land in the innermost frame.
type Env struct {
	frame  *scope
	parent *Env
}

// NewEnv returns a fresh, empty top-level environment.
func NewEnv() *Env {
	return &Env{frame: newScopeFrame()}
}

// NewScope opens a child scope. Lookups fall through to the parent; writes
// land only in the child.
func (e *Env) NewScope() *Env {
	return &Env{frame: newScopeFrame(), parent: e}
}

func (e *Env) DefineVar(name string, mut Mutability, t Type, isTemp bool) {
	e.frame.vars[name] = VarInfo{Type: t, Mutability: mut, IsTemp: isTemp}
}

func (e *Env) GetVar(name string) (VarInfo, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.frame.vars[name]; ok {
			return v, true
		}
	}
	return VarInfo{}, false
}

func (e *Env) DefineType(name string, t Type) {
	e.frame.types[name] = t
}

func (e *Env) GetType(name string) (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.frame.types[name]; ok {
			return t, true
		}
	}
	return Type{}, false
}

func (e *Env) DefineConst(name string, c ConstExpr) {
	e.frame.consts[name] = c
}

func (e *Env) GetConst(name string) (ConstExpr, bool) {
	for env := e; env != nil; env = env.parent {
		if c, ok := env.frame.consts[name]; ok {
			return c, true
		}
	}
	return ConstExpr{}, false
}

// DefineAssociatedConst attaches a const to a type (used for `impl`-style
// associated constants, e.g. `Int::MAX`).
func (e *Env) DefineAssociatedConst(t Type, name string, c ConstExpr) {
	key := t.String()
	if e.frame.assocConsts[key] == nil {
		e.frame.assocConsts[key] = map[string]ConstExpr{}
	}
	e.frame.assocConsts[key][name] = c
}

// GetAllAssociatedConsts returns every constant associated with t, searching
// outward through enclosing scopes and letting inner scopes shadow outer
// ones.
func (e *Env) GetAllAssociatedConsts(t Type) map[string]ConstExpr {
	key := t.String()
	out := map[string]ConstExpr{}
	chain := []*Env{}
	for env := e; env != nil; env = env.parent {
		chain = append(chain, env)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if m, ok := chain[i].frame.assocConsts[key]; ok {
			for name, c := range m {
				out[name] = c
			}
		}
	}
	return out
}

// DefineFFI registers a foreign-function binding visible in this scope.
func (e *Env) DefineFFI(binding FFIBinding) {
	e.frame.ffi[binding.Name] = binding
}

func (e *Env) GetFFI(name string) (FFIBinding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.frame.ffi[name]; ok {
			return b, true
		}
	}
	return FFIBinding{}, false
}

// DefineArgs declares a procedure's arguments as locals at ascending
// FP-relative offsets (spec.md §4.6 step 2) and returns their total size in
// cells.
func (e *Env) DefineArgs(args []Arg) (int, error) {
	offset := 0
	infos := make([]struct {
		name string
		info VarInfo
	}, 0, len(args))
	for _, a := range args {
		size, err := a.Type.GetSize(e)
		if err != nil {
			return 0, err
		}
		infos = append(infos, struct {
			name string
			info VarInfo
		}{a.Name, VarInfo{Type: a.Type, Mutability: a.Mutability, Offset: offset}})
		offset += size
	}
	for _, i := range infos {
		e.frame.vars[i.name] = i.info
	}
	e.frame.nextOffset = offset
	return offset, nil
}

// Arg is one procedure argument: name, mutability, and type.
type Arg struct {
	Name       string
	Mutability Mutability
	Type       Type
}

func (e *Env) SetExpectedReturnType(t Type) {
	e.frame.expectedReturn = &t
}

func (e *Env) ExpectedReturnType() (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if env.frame.expectedReturn != nil {
			return *env.frame.expectedReturn, true
		}
	}
	return Type{}, false
}

// RequireType is a convenience used throughout type-checking: look up a
// Symbol's bound type or fail with TypeNotDefined.
func (e *Env) RequireType(name string) (Type, error) {
	if t, ok := e.GetType(name); ok {
		return t, nil
	}
	return Type{}, errs.New(errs.TypeNotDefined, errs.WithName(name))
}

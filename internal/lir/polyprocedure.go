package lir

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lir-lang/lir/internal/diag"
	"github.com/lir-lang/lir/internal/errs"
)

// PolyProcedure is a type-parameterized procedure (spec.md §4.7), grounded
// on poly.rs. It owns a monomorph cache keyed by mangled name and a
// set-once "has type-checked" flag, both process-lifetime and safe for
// concurrent use across compilation units (spec.md §5).
type PolyProcedure struct {
	name     string
	tyParams []PolyParam
	args     []Arg
	ret      Type
	body     *Expr

	mono  sync.Map // map[string]*Procedure
	once  sync.Once
	tcErr error
}

// NewPolyProcedure constructs a polymorphic procedure. Each type parameter
// may carry a bound (the type it must decay to) or none, in which case
// type-checking binds it to a fresh nominal Unit so the body still
// type-checks against an abstract stand-in (spec.md §4.7).
func NewPolyProcedure(name string, tyParams []PolyParam, args []Arg, ret Type, body Expr) *PolyProcedure {
	return &PolyProcedure{name: name, tyParams: tyParams, args: args, ret: ret, body: &body}
}

// FromMono builds a PolyProcedure back out of an already-monomorphic
// Procedure, re-attaching the type parameter list it was stripped of —
// used when a caller holds a Procedure produced elsewhere (e.g.
// deserialized) but needs to re-monomorphize it under new type arguments
// (spec.md §6 "On-disk / wire").
func FromMono(mono *Procedure, tyParams []PolyParam) *PolyProcedure {
	return &PolyProcedure{
		name:     mono.mangledName,
		tyParams: tyParams,
		args:     mono.args,
		ret:      mono.ret,
		body:     mono.body,
	}
}

func (p *PolyProcedure) Name() string { return p.name }

func (p *PolyProcedure) typeParamNames() []string {
	out := make([]string, len(p.tyParams))
	for i, tp := range p.tyParams {
		out[i] = tp.Name
	}
	return out
}

// GetType is `Poly(params, Proc(args, ret))` (spec.md §4.7).
func (p *PolyProcedure) GetType(env *Env) (Type, error) {
	argTypes := make([]Type, len(p.args))
	for i, a := range p.args {
		argTypes[i] = a.Type
	}
	return Poly(p.tyParams, Proc(argTypes, p.ret)), nil
}

// TypeCheck runs once per PolyProcedure, guarded by sync.Once (spec.md §5
// "a per-PolyProcedure 'already type-checked' flag, set-once"). Each type
// parameter is bound either to its declared bound or to a fresh nominal
// Unit(param, None), so inner types referencing it remain well-formed
// under abstraction (spec.md §4.7 final paragraph).
func (p *PolyProcedure) TypeCheck(env *Env) error {
	p.once.Do(func() {
		diag.Mono.Debug("type checking %s", p.name)
		scope := env.NewScope()
		for _, tp := range p.tyParams {
			if tp.Bound != nil {
				scope.DefineVar(tp.Name, Immutable, *tp.Bound, false)
				scope.DefineType(tp.Name, *tp.Bound)
			} else {
				scope.DefineType(tp.Name, Unit(tp.Name, None()))
			}
		}
		if _, err := scope.DefineArgs(p.args); err != nil {
			p.tcErr = err
			return
		}
		scope.SetExpectedReturnType(p.ret)

		for _, a := range p.args {
			if err := a.Type.TypeCheck(scope); err != nil {
				p.tcErr = err
				return
			}
		}
		if err := p.ret.TypeCheck(scope); err != nil {
			p.tcErr = err
			return
		}

		bodyType, err := p.body.GetType(scope)
		if err != nil {
			p.tcErr = err
			return
		}
		diag.Mono.Debug("got body type %s of %s", bodyType, p.name)
		ok, err := bodyType.CanDecayTo(p.ret, scope)
		if err != nil {
			p.tcErr = err
			return
		}
		if !ok {
			diag.Mono.Error("mismatched return type for %s: expected %s, found %s", p.name, p.ret, bodyType)
			p.tcErr = mismatchedTypesErr(p.ret, bodyType, EConst(CEPolyProc(p)))
			return
		}
		p.tcErr = p.body.TypeCheck(scope)
	})
	return p.tcErr
}

// Monomorphize binds ty_args to this procedure's type parameters and
// returns the resulting concrete Procedure, consulting (and populating) the
// per-PolyProcedure memoization cache (spec.md §4.7, grounded on
// poly.rs `monomorphize`).
func (p *PolyProcedure) Monomorphize(tyArgs []Type, env *Env) (*Procedure, error) {
	diag.Mono.Debug("monomorphizing %s with %v", p.name, tyArgs)
	if len(tyArgs) != len(p.tyParams) {
		return nil, errs.New(errs.InvalidTemplateArgs, errs.WithDetail(
			fmt.Sprintf("%s expects %d type argument(s), got %d", p.name, len(p.tyParams), len(tyArgs))))
	}
	for i, tp := range p.tyParams {
		if tp.Bound == nil {
			continue
		}
		ok, err := tyArgs[i].CanDecayTo(*tp.Bound, env)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.New(errs.InvalidTemplateArgs,
				errs.WithExpected(*tp.Bound), errs.WithFound(tyArgs[i]))
		}
	}

	simplified := make([]Type, len(tyArgs))
	for i, t := range tyArgs {
		concrete, err := t.SimplifyUntilConcrete(env)
		if err != nil {
			return nil, err
		}
		simplified[i] = concrete
	}

	bindTypeArgs := func(t Type) (Type, error) {
		applied := Apply(Poly(p.tyParams, t), simplified...)
		return applied.SimplifyUntilConcrete(env)
	}

	args := make([]Arg, len(p.args))
	for i, a := range p.args {
		bound, err := bindTypeArgs(a.Type)
		if err != nil {
			return nil, err
		}
		args[i] = Arg{Name: a.Name, Mutability: a.Mutability, Type: bound}
	}
	ret, err := bindTypeArgs(p.ret)
	if err != nil {
		return nil, err
	}

	mangledName := mangleMonomorphName(p.name, simplified, args, ret)

	diag.Mono.Debug("checking if monomorphized procedure %s has already been memoized", mangledName)
	if cached, ok := p.mono.Load(mangledName); ok {
		diag.Mono.Debug("monomorphized procedure %s has already been memoized", mangledName)
		return cached.(*Procedure), nil
	}
	diag.Mono.Debug("monomorphized procedure %s has not been memoized yet", mangledName)

	names := p.typeParamNames()
	monoExpr := *p.body
	for i, n := range names {
		monoExpr = monoExpr.substituteTypes(n, simplified[i])
	}

	monomorph := NewNamedProcedure(mangledName, args, ret, monoExpr)
	if err := monomorph.TypeCheck(env); err != nil {
		return nil, err
	}

	diag.Mono.Debug("memoizing monomorphized procedure %s", mangledName)
	actual, _ := p.mono.LoadOrStore(mangledName, monomorph)
	return actual.(*Procedure), nil
}

func mangleMonomorphName(name string, tyArgs []Type, args []Arg, ret Type) string {
	parts := make([]string, len(tyArgs))
	for i, t := range tyArgs {
		parts[i] = t.String()
	}
	argParts := make([]string, len(args))
	for i, a := range args {
		argParts[i] = a.Type.String()
	}
	return fmt.Sprintf("__MONOMORPHIZED_(%s)%s(%s)%s",
		strings.Join(parts, ","), name, strings.Join(argParts, ","), ret.String())
}

func (p *PolyProcedure) String() string {
	params := make([]string, len(p.tyParams))
	for i, tp := range p.tyParams {
		if tp.Bound != nil {
			params[i] = fmt.Sprintf("%s: %s", tp.Name, tp.Bound)
		} else {
			params[i] = tp.Name
		}
	}
	args := make([]string, len(p.args))
	for i, a := range p.args {
		prefix := ""
		if a.Mutability.IsMutable() {
			prefix = "mut "
		}
		args[i] = fmt.Sprintf("%s%s: %s", prefix, a.Name, a.Type)
	}
	return fmt.Sprintf("proc[%s](%s) -> %s = %s",
		strings.Join(params, ", "), strings.Join(args, ", "), p.ret, p.body)
}

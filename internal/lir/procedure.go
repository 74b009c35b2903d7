package lir

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/lir-lang/lir/internal/asm"
)

// lambdaCount is the process-wide monotonic counter producing unique
// mangled names for anonymous procedures (spec.md §5 "a process-wide
// monotonic counter producing unique lambda ids"), grounded on
// procedure.rs's `LAMBDA_COUNT` static Mutex<usize>.
var lambdaCount int64

// Procedure is a fully-monomorphic procedure: a mangled label, its
// argument list, return type, and body (spec.md §4.6).
type Procedure struct {
	mangledName string
	args        []Arg
	ret         Type
	body        *Expr
}

// NewProcedure constructs an anonymous procedure, assigning it the next
// `__LAMBDA_<n>` label.
func NewProcedure(args []Arg, ret Type, body Expr) *Procedure {
	n := atomic.AddInt64(&lambdaCount, 1)
	return &Procedure{
		mangledName: fmt.Sprintf("__LAMBDA_%d", n),
		args:        args,
		ret:         ret,
		body:        &body,
	}
}

// NewNamedProcedure constructs a procedure under an explicit mangled name,
// used by PolyProcedure.Monomorphize where the name is derived from the
// type arguments rather than the lambda counter.
func NewNamedProcedure(name string, args []Arg, ret Type, body Expr) *Procedure {
	return &Procedure{mangledName: name, args: args, ret: ret, body: &body}
}

func (p *Procedure) MangledName() string { return p.mangledName }

// PushLabel emits the ops that make the procedure construct evaluate to a
// first-class procedure value: its label address (spec.md §4.6 step 5).
func (p *Procedure) PushLabel(out asm.Program) {
	out.Op(asm.SetLabel{Dst: asm.Reg(asm.A), Label: p.mangledName})
	out.Op(asm.Push{Src: asm.Reg(asm.A), Size: 1})
}

// GetType is `Proc(args, ret)` (spec.md §4.6).
func (p *Procedure) GetType(env *Env) (Type, error) {
	argTypes := make([]Type, len(p.args))
	for i, a := range p.args {
		argTypes[i] = a.Type
	}
	return Proc(argTypes, p.ret), nil
}

// TypeCheck confirms the body's inferred type matches the declared return
// type, in a scope where the arguments are bound (spec.md §4.6, grounded
// on procedure.rs `TypeCheck::type_check`).
func (p *Procedure) TypeCheck(env *Env) error {
	scope := env.NewScope()
	if _, err := scope.DefineArgs(p.args); err != nil {
		return err
	}
	bodyType, err := p.body.GetType(scope)
	if err != nil {
		return err
	}
	if ok, err := bodyType.Equals(p.ret, env); err != nil {
		return err
	} else if !ok {
		return mismatchedTypesErr(p.ret, bodyType, *p.body)
	}
	return p.body.TypeCheck(scope)
}

// Compile lowers the procedure to assembly per the call convention of
// spec.md §4.5-§4.6: Fn(label), body, Copy return-over-args, Pop, End,
// then push the label as the construct's own value.
func (p *Procedure) Compile(env *Env, out asm.Program) error {
	scope := env.NewScope()
	argsSize, err := scope.DefineArgs(p.args)
	if err != nil {
		return err
	}
	retSize, err := p.ret.GetSize(env)
	if err != nil {
		return err
	}
	out.Op(asm.Fn{Label: p.mangledName})
	if err := p.body.Compile(scope, out); err != nil {
		return err
	}
	out.Op(asm.Copy{
		Dst:  asm.Reg(asm.FP).Deref().Offset(1 - argsSize),
		Src:  asm.Reg(asm.SP).Deref().Offset(1 - retSize),
		Size: retSize,
	})
	out.Op(asm.Pop{Size: argsSize})
	out.Op(asm.End{})
	p.PushLabel(out)
	return nil
}

func (p *Procedure) String() string {
	parts := make([]string, len(p.args))
	for i, a := range p.args {
		prefix := ""
		if a.Mutability.IsMutable() {
			prefix = "mut "
		}
		parts[i] = fmt.Sprintf("%s%s: %s", prefix, a.Name, a.Type)
	}
	return fmt.Sprintf("proc(%s) -> %s = %s", strings.Join(parts, ", "), p.ret, p.body)
}

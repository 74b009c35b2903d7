package lir

import "github.com/lir-lang/lir/internal/asm"

// logicalBinOp implements the Bool-only And/Or operators (spec.md §4.4
// "Logical"). Both operands must already be simplified to Bool; there is
// no short-circuit at this layer since arguments are already compiled by
// the time CompileTypes runs (stack-neutrality contract, spec.md §4.1).
type logicalBinOp struct {
	name string
	fold func(a, b bool) bool
	emit func(src, dst asm.Location) asm.Op
}

func (o logicalBinOp) Name() string { return o.name }

func (o logicalBinOp) CanApply(lhs, rhs Type, env *Env) (bool, error) {
	l, err := lhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	r, err := rhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	return l.Kind == KindBool && r.Kind == KindBool, nil
}

func (o logicalBinOp) ReturnType(lhs, rhs Expr, env *Env) (Type, error) {
	return Bool(), nil
}

func (o logicalBinOp) Eval(lhs, rhs ConstExpr, env *Env) (ConstExpr, error) {
	l, err := lhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	r, err := rhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	return CEBool(o.fold(l.boolVal, r.boolVal)), nil
}

func (o logicalBinOp) CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error {
	dst := asm.Reg(asm.SP).Deref().Offset(-1)
	src := asm.Reg(asm.SP).Deref()
	out.Op(o.emit(src, dst))
	out.Op(asm.Pop{Size: 1})
	return nil
}

func OpAnd() BinaryOp {
	return logicalBinOp{"&&",
		func(a, b bool) bool { return a && b },
		func(s, d asm.Location) asm.Op { return asm.BitwiseAnd{Src: s, Dst: d} },
	}
}
func OpOr() BinaryOp {
	return logicalBinOp{"||",
		func(a, b bool) bool { return a || b },
		func(s, d asm.Location) asm.Op { return asm.BitwiseOr{Src: s, Dst: d} },
	}
}

// logicalNotOp is the Bool unary negation (spec.md §4.4 "!").
type logicalNotOp struct{}

func OpNot() UnaryOp { return logicalNotOp{} }

func (logicalNotOp) Name() string { return "!" }

func (logicalNotOp) CanApply(t Type, env *Env) (bool, error) {
	c, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	return c.Kind == KindBool, nil
}

func (logicalNotOp) ReturnType(e Expr, env *Env) (Type, error) { return Bool(), nil }

func (logicalNotOp) Eval(c ConstExpr, env *Env) (ConstExpr, error) {
	v, err := c.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	return CEBool(!v.boolVal), nil
}

func (logicalNotOp) CompileTypes(t Type, env *Env, out asm.Program) error {
	dst := asm.Reg(asm.SP).Deref()
	out.Op(asm.Set{Dst: asm.Reg(asm.A), Val: 1})
	out.Op(asm.Sub{Src: dst, Dst: asm.Reg(asm.A)})
	out.Op(asm.Move{Src: asm.Reg(asm.A), Dst: dst})
	return nil
}

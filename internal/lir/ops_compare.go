package lir

import "github.com/lir-lang/lir/internal/asm"

// equalityOp implements == and != over any pair of structurally-equal,
// concrete-sized types (spec.md §4.4 "Comparison", "== and != apply to any
// type for which the two operand types are themselves type-equal").
type equalityOp struct {
	name    string
	negate  bool
}

func OpEq() BinaryOp  { return equalityOp{name: "=="} }
func OpNeq() BinaryOp { return equalityOp{name: "!=", negate: true} }

func (o equalityOp) Name() string { return o.name }

func (o equalityOp) CanApply(lhs, rhs Type, env *Env) (bool, error) {
	return lhs.Equals(rhs, env)
}

func (o equalityOp) ReturnType(lhs, rhs Expr, env *Env) (Type, error) { return Bool(), nil }

func (o equalityOp) Eval(lhs, rhs ConstExpr, env *Env) (ConstExpr, error) {
	l, err := lhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	r, err := rhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	eq := constExprEqual(l, r)
	if o.negate {
		eq = !eq
	}
	return CEBool(eq), nil
}

func constExprEqual(l, r ConstExpr) bool {
	if l.kind != r.kind {
		return false
	}
	switch l.kind {
	case ceInt:
		return l.intVal == r.intVal
	case ceFloat:
		return l.floatVal == r.floatVal
	case ceBool:
		return l.boolVal == r.boolVal
	case ceChar:
		return l.charVal == r.charVal
	case ceOf:
		return l.name == r.name && l.ty.String() == r.ty.String()
	case ceTuple, ceArray:
		if len(l.elems) != len(r.elems) {
			return false
		}
		for i := range l.elems {
			if !constExprEqual(l.elems[i], r.elems[i]) {
				return false
			}
		}
		return true
	default:
		return l.String() == r.String()
	}
}

// CompileTypes compares the two size-cell operands on SP's top slots cell
// by cell, ANDs the per-cell results, and collapses both operands into the
// single result cell (mirrors the arithmetic ops' convention).
func (o equalityOp) CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error {
	size, err := lhs.GetSize(env)
	if err != nil {
		return err
	}
	dst := asm.Reg(asm.SP).Deref().Offset(1 - 2*size)
	out.Op(asm.Set{Dst: asm.Reg(asm.C), Val: 1})
	for i := 0; i < size; i++ {
		l := asm.Reg(asm.SP).Deref().Offset(1 - 2*size + i)
		r := asm.Reg(asm.SP).Deref().Offset(1 - size + i)
		out.Op(asm.IsEqual{A: l, B: r, Dst: asm.Reg(asm.A)})
		out.Op(asm.BitwiseAnd{Src: asm.Reg(asm.A), Dst: asm.Reg(asm.C)})
	}
	if o.negate {
		out.Op(asm.Set{Dst: asm.Reg(asm.B), Val: 1})
		out.Op(asm.Sub{Src: asm.Reg(asm.C), Dst: asm.Reg(asm.B)})
		out.Op(asm.Move{Src: asm.Reg(asm.B), Dst: dst})
	} else {
		out.Op(asm.Move{Src: asm.Reg(asm.C), Dst: dst})
	}
	out.Op(asm.Pop{Size: 2*size - 1})
	return nil
}

// orderingOp implements <, <=, >, >= over Int/Float/Char (spec.md §4.4
// "ordering comparisons apply to Int, Float, and Char").
type orderingOp struct {
	name       string
	swap       bool // > and >= swap operands relative to < and <=
	orEqual    bool
}

func OpLt() BinaryOp { return orderingOp{name: "<"} }
func OpLe() BinaryOp { return orderingOp{name: "<=", orEqual: true} }
func OpGt() BinaryOp { return orderingOp{name: ">", swap: true} }
func OpGe() BinaryOp { return orderingOp{name: ">=", swap: true, orEqual: true} }

func (o orderingOp) Name() string { return o.name }

func (o orderingOp) CanApply(lhs, rhs Type, env *Env) (bool, error) {
	l, err := lhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	r, err := rhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	ordered := func(t Type) bool {
		return t.Kind == KindInt || t.Kind == KindFloat || t.Kind == KindChar
	}
	return ordered(l) && ordered(r), nil
}

func (o orderingOp) ReturnType(lhs, rhs Expr, env *Env) (Type, error) { return Bool(), nil }

func (o orderingOp) Eval(lhs, rhs ConstExpr, env *Env) (ConstExpr, error) {
	l, err := lhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	r, err := rhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	a, b := orderingKey(l), orderingKey(r)
	if o.swap {
		a, b = b, a
	}
	less := a < b
	if o.orEqual {
		return CEBool(less || a == b), nil
	}
	return CEBool(less), nil
}

func orderingKey(c ConstExpr) float64 {
	switch c.kind {
	case ceFloat:
		return c.floatVal
	case ceChar:
		return float64(c.charVal)
	default:
		return float64(c.intVal)
	}
}

func (o orderingOp) CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error {
	dst := asm.Reg(asm.SP).Deref().Offset(-1)
	src := asm.Reg(asm.SP).Deref()
	a, b := dst, src
	if o.swap {
		a, b = src, dst
	}
	out.Op(asm.IsLess{A: a, B: b, Dst: asm.Reg(asm.A)})
	if o.orEqual {
		out.Op(asm.IsEqual{A: a, B: b, Dst: asm.Reg(asm.B)})
		out.Op(asm.BitwiseOr{Src: asm.Reg(asm.B), Dst: asm.Reg(asm.A)})
	}
	out.Op(asm.Move{Src: asm.Reg(asm.A), Dst: dst})
	out.Op(asm.Pop{Size: 1})
	return nil
}

package lir

import "github.com/lir-lang/lir/internal/asm"

// bitwiseBinOp implements the Int-only And/Or/Xor/Shl/Shr operators
// (spec.md §4.4 "Bitwise").
type bitwiseBinOp struct {
	name string
	fold func(a, b int64) int64
	emit func(src, dst asm.Location) asm.Op
}

func (o bitwiseBinOp) Name() string { return o.name }

func (o bitwiseBinOp) CanApply(lhs, rhs Type, env *Env) (bool, error) {
	l, err := lhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	r, err := rhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	return l.Kind == KindInt && r.Kind == KindInt, nil
}

func (o bitwiseBinOp) ReturnType(lhs, rhs Expr, env *Env) (Type, error) { return Int(), nil }

func (o bitwiseBinOp) Eval(lhs, rhs ConstExpr, env *Env) (ConstExpr, error) {
	l, err := lhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	r, err := rhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	return CEInt(o.fold(l.intVal, r.intVal)), nil
}

func (o bitwiseBinOp) CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error {
	dst := asm.Reg(asm.SP).Deref().Offset(-1)
	src := asm.Reg(asm.SP).Deref()
	out.Op(o.emit(src, dst))
	out.Op(asm.Pop{Size: 1})
	return nil
}

func OpBitAnd() BinaryOp {
	return bitwiseBinOp{"&", func(a, b int64) int64 { return a & b },
		func(s, d asm.Location) asm.Op { return asm.BitwiseAnd{Src: s, Dst: d} }}
}
func OpBitOr() BinaryOp {
	return bitwiseBinOp{"|", func(a, b int64) int64 { return a | b },
		func(s, d asm.Location) asm.Op { return asm.BitwiseOr{Src: s, Dst: d} }}
}
func OpBitXor() BinaryOp {
	return bitwiseBinOp{"^", func(a, b int64) int64 { return a ^ b },
		func(s, d asm.Location) asm.Op { return asm.BitwiseXor{Src: s, Dst: d} }}
}
func OpShl() BinaryOp {
	return bitwiseBinOp{"<<", func(a, b int64) int64 { return a << uint(b) },
		func(s, d asm.Location) asm.Op { return asm.ShiftLeft{Src: s, Dst: d} }}
}
func OpShr() BinaryOp {
	return bitwiseBinOp{">>", func(a, b int64) int64 { return a >> uint(b) },
		func(s, d asm.Location) asm.Op { return asm.ShiftRight{Src: s, Dst: d} }}
}

// bitwiseNotOp is the Int unary complement (spec.md §4.4 "~").
type bitwiseNotOp struct{}

func OpBitNot() UnaryOp { return bitwiseNotOp{} }

func (bitwiseNotOp) Name() string { return "~" }

func (bitwiseNotOp) CanApply(t Type, env *Env) (bool, error) {
	c, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	return c.Kind == KindInt, nil
}

func (bitwiseNotOp) ReturnType(e Expr, env *Env) (Type, error) { return Int(), nil }

func (bitwiseNotOp) Eval(c ConstExpr, env *Env) (ConstExpr, error) {
	v, err := c.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	return CEInt(^v.intVal), nil
}

func (bitwiseNotOp) CompileTypes(t Type, env *Env, out asm.Program) error {
	out.Op(asm.BitwiseNot{Dst: asm.Reg(asm.SP).Deref()})
	return nil
}

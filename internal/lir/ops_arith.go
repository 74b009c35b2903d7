package lir

import (
	"github.com/lir-lang/lir/internal/asm"
	"github.com/lir-lang/lir/internal/errs"
)

// numericBinOp is shared scaffolding for the homogeneous Int/Float
// arithmetic operators plus pointer arithmetic (spec.md §4.4 "Arithmetic").
// Each concrete op supplies its name, integer instruction, float
// instruction, and const-fold function.
type numericBinOp struct {
	name     string
	intOp    func(a, b int64) int64
	floatOp  func(a, b float64) float64
	emitInt  func(src, dst asm.Location) asm.Op
	emitFloa func(src, dst asm.Location) asm.Op
}

func (o numericBinOp) Name() string { return o.name }

func (o numericBinOp) CanApply(lhs, rhs Type, env *Env) (bool, error) {
	l, err := lhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	r, err := rhs.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	switch {
	case l.Kind == KindInt && r.Kind == KindInt:
		return true, nil
	case l.Kind == KindFloat && r.Kind == KindFloat:
		return true, nil
	case l.Kind == KindFloat && r.Kind == KindInt, l.Kind == KindInt && r.Kind == KindFloat:
		// Literal Int->Float promotion only; see ReturnType.
		return true, nil
	case l.Kind == KindPointer && r.Kind == KindInt:
		return o.name == "+" || o.name == "-", nil
	case l.Kind == KindPointer && r.Kind == KindPointer && o.name == "-":
		ok, err := l.Equals(r, env)
		return ok, err
	default:
		return false, nil
	}
}

func (o numericBinOp) ReturnType(lhs, rhs Expr, env *Env) (Type, error) {
	l, err := lhs.GetType(env)
	if err != nil {
		return Type{}, err
	}
	r, err := rhs.GetType(env)
	if err != nil {
		return Type{}, err
	}
	lc, err := l.SimplifyUntilConcrete(env)
	if err != nil {
		return Type{}, err
	}
	rc, err := r.SimplifyUntilConcrete(env)
	if err != nil {
		return Type{}, err
	}
	switch {
	case lc.Kind == KindPointer && rc.Kind == KindPointer:
		return Int(), nil
	case lc.Kind == KindPointer:
		return lc, nil
	case lc.Kind == KindFloat || rc.Kind == KindFloat:
		return Float(), nil
	case lc.Kind == KindInt && rc.Kind == KindInt:
		return Int(), nil
	default:
		return Type{}, invalidBinaryOpTypesErr(o.name, lc, rc)
	}
}

func (o numericBinOp) Eval(lhs, rhs ConstExpr, env *Env) (ConstExpr, error) {
	l, err := lhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	r, err := rhs.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	if l.kind == ceFloat || r.kind == ceFloat {
		lf, rf := asFloat(l), asFloat(r)
		return CEFloat(o.floatOp(lf, rf)), nil
	}
	return CEInt(o.intOp(l.intVal, r.intVal)), nil
}

func asFloat(c ConstExpr) float64 {
	if c.kind == ceFloat {
		return c.floatVal
	}
	return float64(c.intVal)
}

func (o numericBinOp) CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error {
	l, err := lhs.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	dst := asm.Reg(asm.SP).Deref().Offset(-1)
	src := asm.Reg(asm.SP).Deref()
	if l.Kind == KindFloat {
		out.Op(o.emitFloa(src, dst))
	} else {
		out.Op(o.emitInt(src, dst))
	}
	out.Op(asm.Pop{Size: 1})
	return nil
}

func OpAdd() BinaryOp {
	return numericBinOp{"+",
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b },
		func(s, d asm.Location) asm.Op { return asm.Add{Src: s, Dst: d} },
		func(s, d asm.Location) asm.Op { return asm.FAdd{Src: s, Dst: d} },
	}
}
func OpSub() BinaryOp {
	return numericBinOp{"-",
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b },
		func(s, d asm.Location) asm.Op { return asm.Sub{Src: s, Dst: d} },
		func(s, d asm.Location) asm.Op { return asm.FSub{Src: s, Dst: d} },
	}
}
func OpMul() BinaryOp {
	return numericBinOp{"*",
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b },
		func(s, d asm.Location) asm.Op { return asm.Mul{Src: s, Dst: d} },
		func(s, d asm.Location) asm.Op { return asm.FMul{Src: s, Dst: d} },
	}
}
func OpDiv() BinaryOp {
	return numericBinOp{"/",
		func(a, b int64) int64 { return a / b },
		func(a, b float64) float64 { return a / b },
		func(s, d asm.Location) asm.Op { return asm.Div{Src: s, Dst: d} },
		func(s, d asm.Location) asm.Op { return asm.FDiv{Src: s, Dst: d} },
	}
}
func OpRem() BinaryOp {
	return numericBinOp{"%",
		func(a, b int64) int64 { return a % b },
		func(a, b float64) float64 {
			m := a
			for m >= b {
				m -= b
			}
			return m
		},
		func(s, d asm.Location) asm.Op { return asm.Rem{Src: s, Dst: d} },
		func(s, d asm.Location) asm.Op { return asm.Rem{Src: s, Dst: d} },
	}
}

func invalidBinaryOpTypesErr(name string, lhs, rhs Type) error {
	return errs.New(errs.InvalidBinaryOpTypes, errs.WithName(name), errs.WithType(lhs), errs.WithType2(rhs))
}

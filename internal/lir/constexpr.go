package lir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lir-lang/lir/internal/errs"
)

// ceKind tags which alternative of the ConstExpr tree a value holds
// (spec.md §3 "Constant Expressions").
type ceKind int

const (
	ceNone ceKind = iota
	ceInt
	ceFloat
	ceBool
	ceChar
	ceSymbol
	ceOf         // Of(Type, variant): a data-less enum/union variant value
	ceUnion      // Union(Type, variant, value)
	ceEnumUnion  // EnumUnion(Type, variant, value)
	ceTuple
	ceArray
	ceStructLit
	ceProc       // reference to a monomorphic Procedure, by mangled name
	cePolyProc   // reference to a PolyProcedure value
	ceSizeOfType
	ceUnaryOp
	ceBinaryOp
	ceTernaryOp
	ceMonomorphize // applying type arguments to a PolyProc const
)

// maxConstDepth bounds ConstExpr.Eval recursion (spec.md §4.2).
const maxConstDepth = 500

// ConstExpr is a compile-time value or the expression that produces one.
type ConstExpr struct {
	kind ceKind

	intVal   int64
	floatVal float64
	boolVal  bool
	charVal  rune
	name     string // symbol name / variant name / proc name

	ty      *Type // Of/Union/EnumUnion's type, SizeOfType's operand
	value   *ConstExpr
	elems   []ConstExpr
	names   []string // field names, parallel to elems for struct literals

	proc     *Procedure
	polyProc *PolyProcedure

	unary   UnaryOp
	binary  BinaryOp
	ternary TernaryOp
	args    []ConstExpr

	tyArgs []Type
}

func CEInt(v int64) ConstExpr     { return ConstExpr{kind: ceInt, intVal: v} }
func CEFloat(v float64) ConstExpr { return ConstExpr{kind: ceFloat, floatVal: v} }
func CEBool(v bool) ConstExpr     { return ConstExpr{kind: ceBool, boolVal: v} }
func CEChar(v rune) ConstExpr     { return ConstExpr{kind: ceChar, charVal: v} }
func CENone() ConstExpr           { return ConstExpr{kind: ceNone} }
func CESymbol(name string) ConstExpr {
	return ConstExpr{kind: ceSymbol, name: name}
}
func CEOf(t Type, variant string) ConstExpr {
	return ConstExpr{kind: ceOf, ty: &t, name: variant}
}
func CEUnion(t Type, variant string, val ConstExpr) ConstExpr {
	return ConstExpr{kind: ceUnion, ty: &t, name: variant, value: &val}
}
func CEEnumUnion(t Type, variant string, val ConstExpr) ConstExpr {
	return ConstExpr{kind: ceEnumUnion, ty: &t, name: variant, value: &val}
}
func CETuple(elems ...ConstExpr) ConstExpr {
	return ConstExpr{kind: ceTuple, elems: elems}
}
func CEArray(elems ...ConstExpr) ConstExpr {
	return ConstExpr{kind: ceArray, elems: elems}
}
func CEStruct(names []string, elems []ConstExpr) ConstExpr {
	return ConstExpr{kind: ceStructLit, names: names, elems: elems}
}
func CEProc(p *Procedure) ConstExpr {
	return ConstExpr{kind: ceProc, proc: p, name: p.MangledName()}
}
func CEPolyProc(p *PolyProcedure) ConstExpr {
	return ConstExpr{kind: cePolyProc, polyProc: p, name: p.Name()}
}
func CESizeOfType(t Type) ConstExpr {
	return ConstExpr{kind: ceSizeOfType, ty: &t}
}
func CEUnaryOp(op UnaryOp, a ConstExpr) ConstExpr {
	return ConstExpr{kind: ceUnaryOp, unary: op, args: []ConstExpr{a}}
}
func CEBinaryOp(op BinaryOp, a, b ConstExpr) ConstExpr {
	return ConstExpr{kind: ceBinaryOp, binary: op, args: []ConstExpr{a, b}}
}
func CETernaryOp(op TernaryOp, a, b, c ConstExpr) ConstExpr {
	return ConstExpr{kind: ceTernaryOp, ternary: op, args: []ConstExpr{a, b, c}}
}
func CEMonomorphize(p ConstExpr, tyArgs []Type) ConstExpr {
	return ConstExpr{kind: ceMonomorphize, value: &p, tyArgs: tyArgs}
}

func (c ConstExpr) IsProc() bool     { return c.kind == ceProc }
func (c ConstExpr) Proc() *Procedure { return c.proc }

func (c ConstExpr) String() string {
	switch c.kind {
	case ceNone:
		return "None"
	case ceInt:
		return strconv.FormatInt(c.intVal, 10)
	case ceFloat:
		return strconv.FormatFloat(c.floatVal, 'g', -1, 64)
	case ceBool:
		return strconv.FormatBool(c.boolVal)
	case ceChar:
		return "'" + string(c.charVal) + "'"
	case ceSymbol:
		return c.name
	case ceOf:
		return fmt.Sprintf("%s::%s", c.ty, c.name)
	case ceUnion:
		return fmt.Sprintf("%s{%s: %s}", c.ty, c.name, c.value)
	case ceEnumUnion:
		return fmt.Sprintf("%s::%s(%s)", c.ty, c.name, c.value)
	case ceTuple:
		return tupleString(c.elems)
	case ceArray:
		return "[" + joinConstExprs(c.elems) + "]"
	case ceStructLit:
		parts := make([]string, len(c.elems))
		for i := range c.elems {
			parts[i] = fmt.Sprintf("%s: %s", c.names[i], c.elems[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ceProc:
		return c.name
	case cePolyProc:
		return c.name
	case ceSizeOfType:
		return fmt.Sprintf("sizeof(%s)", c.ty)
	case ceUnaryOp:
		return fmt.Sprintf("(%s %s)", c.unary.Name(), c.args[0])
	case ceBinaryOp:
		return fmt.Sprintf("(%s %s %s)", c.args[0], c.binary.Name(), c.args[1])
	case ceTernaryOp:
		return fmt.Sprintf("(%s ? %s : %s)", c.args[0], c.args[1], c.args[2])
	case ceMonomorphize:
		return fmt.Sprintf("%s<%s>", c.value, typesString(c.tyArgs))
	default:
		return "<invalid const>"
	}
}

func tupleString(elems []ConstExpr) string {
	return "(" + joinConstExprs(elems) + ")"
}

func joinConstExprs(elems []ConstExpr) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func typesString(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Eval folds a ConstExpr to normal form (spec.md §4.2).
func (c ConstExpr) Eval(env *Env) (ConstExpr, error) {
	return c.evalDepth(env, 0)
}

func (c ConstExpr) evalDepth(env *Env, depth int) (ConstExpr, error) {
	if depth > maxConstDepth {
		return ConstExpr{}, errs.New(errs.RecursionDepthConst, errs.WithExpr(c))
	}
	switch c.kind {
	case ceNone, ceInt, ceFloat, ceBool, ceChar, ceProc, cePolyProc:
		return c, nil
	case ceSymbol:
		val, ok := env.GetConst(c.name)
		if !ok {
			return ConstExpr{}, errs.New(errs.SymbolNotDefined, errs.WithName(c.name))
		}
		return val.evalDepth(env, depth+1)
	case ceOf:
		return c, nil
	case ceUnion:
		val, err := c.value.evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		out := c
		out.value = &val
		return out, nil
	case ceEnumUnion:
		val, err := c.value.evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		out := c
		out.value = &val
		return out, nil
	case ceTuple, ceArray:
		elems := make([]ConstExpr, len(c.elems))
		for i, e := range c.elems {
			v, err := e.evalDepth(env, depth+1)
			if err != nil {
				return ConstExpr{}, err
			}
			elems[i] = v
		}
		out := c
		out.elems = elems
		return out, nil
	case ceStructLit:
		elems := make([]ConstExpr, len(c.elems))
		for i, e := range c.elems {
			v, err := e.evalDepth(env, depth+1)
			if err != nil {
				return ConstExpr{}, err
			}
			elems[i] = v
		}
		out := c
		out.elems = elems
		return out, nil
	case ceSizeOfType:
		size, err := c.ty.GetSize(env)
		if err != nil {
			return ConstExpr{}, err
		}
		return CEInt(int64(size)), nil
	case ceUnaryOp:
		a, err := c.args[0].evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		return c.unary.Eval(a, env)
	case ceBinaryOp:
		a, err := c.args[0].evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		b, err := c.args[1].evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		return c.binary.Eval(a, b, env)
	case ceTernaryOp:
		a, err := c.args[0].evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		b, err := c.args[1].evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		cc, err := c.args[2].evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		return c.ternary.Eval(a, b, cc, env)
	case ceMonomorphize:
		base, err := c.value.evalDepth(env, depth+1)
		if err != nil {
			return ConstExpr{}, err
		}
		if base.kind != cePolyProc {
			return ConstExpr{}, errs.New(errs.InvalidMonomorphize, errs.WithExpr(c))
		}
		mono, err := base.polyProc.Monomorphize(c.tyArgs, env)
		if err != nil {
			return ConstExpr{}, err
		}
		return CEProc(mono), nil
	default:
		return ConstExpr{}, errs.New(errs.InvalidConstExpr, errs.WithExpr(c))
	}
}

// AsInt requires the evaluated form to be integral or char (spec.md §4.2).
func (c ConstExpr) AsInt(env *Env) (int64, error) {
	v, err := c.Eval(env)
	if err != nil {
		return 0, err
	}
	switch v.kind {
	case ceInt:
		return v.intVal, nil
	case ceChar:
		return int64(v.charVal), nil
	default:
		return 0, errs.New(errs.NonIntegralConst, errs.WithExpr(v))
	}
}

// AsBool requires the evaluated form to be a boolean.
func (c ConstExpr) AsBool(env *Env) (bool, error) {
	v, err := c.Eval(env)
	if err != nil {
		return false, err
	}
	if v.kind != ceBool {
		return false, errs.New(errs.NonIntegralConst, errs.WithExpr(v))
	}
	return v.boolVal, nil
}

// GetType infers the type of a constant expression without evaluating it
// further than necessary (used by Expr.GetType for embedded ConstExprs).
func (c ConstExpr) GetType(env *Env) (Type, error) {
	switch c.kind {
	case ceNone:
		return None(), nil
	case ceInt:
		return Int(), nil
	case ceFloat:
		return Float(), nil
	case ceBool:
		return Bool(), nil
	case ceChar:
		return Char(), nil
	case ceSymbol:
		if v, ok := env.GetConst(c.name); ok {
			return v.GetType(env)
		}
		if t, ok := env.GetVar(c.name); ok {
			return t.Type, nil
		}
		return Type{}, errs.New(errs.SymbolNotDefined, errs.WithName(c.name))
	case ceOf:
		return *c.ty, nil
	case ceUnion:
		return *c.ty, nil
	case ceEnumUnion:
		return *c.ty, nil
	case ceTuple:
		elemTypes := make([]Type, len(c.elems))
		for i, e := range c.elems {
			t, err := e.GetType(env)
			if err != nil {
				return Type{}, err
			}
			elemTypes[i] = t
		}
		return Tuple(elemTypes...), nil
	case ceArray:
		var elemTy Type
		if len(c.elems) > 0 {
			var err error
			elemTy, err = c.elems[0].GetType(env)
			if err != nil {
				return Type{}, err
			}
		} else {
			elemTy = None()
		}
		return Array(elemTy, CEInt(int64(len(c.elems)))), nil
	case ceStructLit:
		fields := make(Fields, len(c.elems))
		for i, e := range c.elems {
			t, err := e.GetType(env)
			if err != nil {
				return Type{}, err
			}
			fields[i] = Field{Name: c.names[i], Type: t}
		}
		return Struct(fields), nil
	case ceProc:
		return c.proc.GetType(env)
	case cePolyProc:
		return c.polyProc.GetType(env)
	case ceSizeOfType:
		return Int(), nil
	case ceUnaryOp:
		return c.unary.ReturnType(Expr{kind: eConst, ce: &c.args[0]}, env)
	case ceBinaryOp:
		return c.binary.ReturnType(Expr{kind: eConst, ce: &c.args[0]}, Expr{kind: eConst, ce: &c.args[1]}, env)
	case ceTernaryOp:
		return c.ternary.ReturnType(
			Expr{kind: eConst, ce: &c.args[0]},
			Expr{kind: eConst, ce: &c.args[1]},
			Expr{kind: eConst, ce: &c.args[2]}, env)
	case ceMonomorphize:
		base, err := c.value.Eval(env)
		if err != nil {
			return Type{}, err
		}
		if base.kind != cePolyProc {
			return Type{}, errs.New(errs.InvalidMonomorphize, errs.WithExpr(c))
		}
		mono, err := base.polyProc.Monomorphize(c.tyArgs, env)
		if err != nil {
			return Type{}, err
		}
		return mono.GetType(env)
	default:
		return Type{}, errs.New(errs.InvalidConstExpr, errs.WithExpr(c))
	}
}

// Substitute performs capture-avoiding substitution of a type-level name
// through a constant expression's embedded types (spec.md §4.7 step 3).
func (c ConstExpr) Substitute(name string, ty Type) ConstExpr {
	out := c
	if c.ty != nil {
		sub := c.ty.Substitute(name, ty)
		out.ty = &sub
	}
	if c.value != nil {
		sub := c.value.Substitute(name, ty)
		out.value = &sub
	}
	if len(c.elems) > 0 {
		elems := make([]ConstExpr, len(c.elems))
		for i, e := range c.elems {
			elems[i] = e.Substitute(name, ty)
		}
		out.elems = elems
	}
	if len(c.args) > 0 {
		args := make([]ConstExpr, len(c.args))
		for i, a := range c.args {
			args[i] = a.Substitute(name, ty)
		}
		out.args = args
	}
	if len(c.tyArgs) > 0 {
		tyArgs := make([]Type, len(c.tyArgs))
		for i, a := range c.tyArgs {
			tyArgs[i] = a.Substitute(name, ty)
		}
		out.tyArgs = tyArgs
	}
	return out
}

package lir

import "github.com/lir-lang/lir/internal/errs"

// eKind tags which alternative of the typed Expr tree a value holds
// (spec.md §3 "Expressions").
type eKind int

const (
	eConst eKind = iota
	eVarRef
	eBlock
	eAssign
	eMemberNamed
	eMemberIndexed
	eIndex
	eAddressOf
	eDeref
	eUnaryOp
	eBinaryOp
	eTernaryOp
	eApply
	eTypeApply
	eAs
	eArray
	eTuple
	eStruct
	eUnion
	eEnumUnion
	eMatch
)

// Expr is the single representation for every alternative of the typed
// expression algebra. As with Type and ConstExpr, Go's lack of sum types
// means one tagged struct stands in for what the original expresses as an
// enum of boxed variants.
type Expr struct {
	kind eKind

	ce *ConstExpr // eConst

	name string // eVarRef, eMemberNamed (field), eTypeApply (proc name)

	// eBlock: a sequence of bound let-expressions followed by a body
	lets []letBinding
	body *Expr

	// eAssign
	assignOp AssignOp
	lhs      *Expr
	rhs      *Expr

	// eMemberIndexed, eIndex
	index *Expr

	// eAddressOf, eDeref, eUnaryOp, eAs
	operand  *Expr
	unary    UnaryOp
	castType *Type

	binary BinaryOp

	ternary TernaryOp
	a, b, c *Expr

	// eApply
	proc *Expr
	args []Expr

	// eTypeApply
	tyArgs []Type

	// eArray, eTuple
	elems []Expr

	// eStruct, eUnion, eEnumUnion
	structType *Type
	variant    string
	fieldNames []string
	fieldVals  []Expr

	// eMatch
	scrutinee *Expr
	arms      []MatchArm
}

// letBinding is one `let name = expr` introduced by a block.
type letBinding struct {
	name string
	mut  Mutability
	expr Expr
}

// MatchArm pairs a pattern with the expression it guards (spec.md §4.3).
// Arm order is preserved end-to-end, per the "first match wins" lowering
// rule.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

func EConst(c ConstExpr) Expr { return Expr{kind: eConst, ce: &c} }
func EVarRef(name string) Expr { return Expr{kind: eVarRef, name: name} }

func EBlock(lets []letBinding, body Expr) Expr {
	return Expr{kind: eBlock, lets: lets, body: &body}
}
func LetBind(name string, mut Mutability, expr Expr) letBinding {
	return letBinding{name: name, mut: mut, expr: expr}
}

// LetBindings collects LetBind results into the slice EBlock wants.
// letBinding stays unexported since nothing outside this package needs to
// name the type, only to pass values of it through here.
func LetBindings(binds ...letBinding) []letBinding { return binds }

func EAssign(op AssignOp, lhs, rhs Expr) Expr {
	return Expr{kind: eAssign, assignOp: op, lhs: &lhs, rhs: &rhs}
}

func EMemberNamed(operand Expr, field string) Expr {
	return Expr{kind: eMemberNamed, operand: &operand, name: field}
}
func EMemberIndexed(operand Expr, idx Expr) Expr {
	return Expr{kind: eMemberIndexed, operand: &operand, index: &idx}
}
func EIndex(operand Expr, idx Expr) Expr {
	return Expr{kind: eIndex, operand: &operand, index: &idx}
}
func EAddressOf(operand Expr) Expr { return Expr{kind: eAddressOf, operand: &operand} }
func EDeref(operand Expr) Expr     { return Expr{kind: eDeref, operand: &operand} }

func EUnaryOp(op UnaryOp, operand Expr) Expr {
	return Expr{kind: eUnaryOp, unary: op, operand: &operand}
}
func EBinaryOp(op BinaryOp, lhs, rhs Expr) Expr {
	return Expr{kind: eBinaryOp, binary: op, a: &lhs, b: &rhs}
}
func ETernaryOp(op TernaryOp, a, b, c Expr) Expr {
	return Expr{kind: eTernaryOp, ternary: op, a: &a, b: &b, c: &c}
}

func EApply(proc Expr, args ...Expr) Expr {
	return Expr{kind: eApply, proc: &proc, args: args}
}
func ETypeApply(name string, tyArgs ...Type) Expr {
	return Expr{kind: eTypeApply, name: name, tyArgs: tyArgs}
}
func EAs(operand Expr, target Type) Expr {
	return Expr{kind: eAs, operand: &operand, castType: &target}
}

func EArray(elems ...Expr) Expr { return Expr{kind: eArray, elems: elems} }
func ETuple(elems ...Expr) Expr { return Expr{kind: eTuple, elems: elems} }

func EStruct(ty Type, names []string, vals []Expr) Expr {
	return Expr{kind: eStruct, structType: &ty, fieldNames: names, fieldVals: vals}
}
func EUnion(ty Type, field string, val Expr) Expr {
	return Expr{kind: eUnion, structType: &ty, variant: field, fieldVals: []Expr{val}}
}
func EEnumUnion(ty Type, variant string, val Expr) Expr {
	return Expr{kind: eEnumUnion, structType: &ty, variant: variant, fieldVals: []Expr{val}}
}

func EMatch(scrutinee Expr, arms ...MatchArm) Expr {
	return Expr{kind: eMatch, scrutinee: &scrutinee, arms: arms}
}

// GetType infers an expression's type without compiling it (spec.md §4.3,
// §4.5). Every branch mirrors the matching operator or construction rule
// from §4.4.
func (e Expr) GetType(env *Env) (Type, error) {
	switch e.kind {
	case eConst:
		return e.ce.GetType(env)
	case eVarRef:
		if v, ok := env.GetVar(e.name); ok {
			return v.Type, nil
		}
		if c, ok := env.GetConst(e.name); ok {
			return c.GetType(env)
		}
		return Type{}, errs.New(errs.SymbolNotDefined, errs.WithName(e.name))
	case eBlock:
		inner := env.NewScope()
		for _, l := range e.lets {
			t, err := l.expr.GetType(inner)
			if err != nil {
				return Type{}, err
			}
			inner.DefineVar(l.name, l.mut, t, false)
		}
		return e.body.GetType(inner)
	case eAssign:
		lhsT, err := e.lhs.GetType(env)
		if err != nil {
			return Type{}, err
		}
		if !e.lhs.isMutableLValue(env) {
			return Type{}, errs.New(errs.MismatchedMutability,
				errs.WithExpected(Mutable), errs.WithFound(Immutable), errs.WithExpr(*e.lhs))
		}
		rhsT, err := e.rhs.GetType(env)
		if err != nil {
			return Type{}, err
		}
		if ok, err := e.assignOp.CanApply(lhsT, rhsT, env); err != nil {
			return Type{}, err
		} else if !ok {
			return Type{}, errs.New(errs.InvalidAssignOpTypes, errs.WithType(lhsT), errs.WithType2(rhsT))
		}
		return None(), nil
	case eMemberNamed:
		operandT, err := e.operand.GetType(env)
		if err != nil {
			return Type{}, err
		}
		return memberType(operandT, e.name, env)
	case eMemberIndexed:
		operandT, err := e.operand.GetType(env)
		if err != nil {
			return Type{}, err
		}
		concrete, err := operandT.SimplifyUntilConcrete(env)
		if err != nil {
			return Type{}, err
		}
		if concrete.Kind != KindTuple {
			return Type{}, errs.New(errs.MemberNotFound, errs.WithType(concrete))
		}
		n, err := e.index.ConstValue().AsInt(env)
		if err != nil {
			return Type{}, err
		}
		if n < 0 || int(n) >= len(concrete.Elems) {
			return Type{}, errs.New(errs.MemberNotFound, errs.WithType(concrete))
		}
		return concrete.Elems[n], nil
	case eIndex:
		operandT, err := e.operand.GetType(env)
		if err != nil {
			return Type{}, err
		}
		concrete, err := operandT.SimplifyUntilConcrete(env)
		if err != nil {
			return Type{}, err
		}
		switch concrete.Kind {
		case KindArray:
			return *concrete.Elem, nil
		case KindPointer:
			return *concrete.Elem, nil
		default:
			return Type{}, errs.New(errs.InvalidIndex, errs.WithType(concrete))
		}
	case eAddressOf:
		operandT, err := e.operand.GetType(env)
		if err != nil {
			return Type{}, err
		}
		mut := Immutable
		if e.operand.isMutableLValue(env) {
			mut = Mutable
		}
		return Pointer(mut, operandT), nil
	case eDeref:
		operandT, err := e.operand.GetType(env)
		if err != nil {
			return Type{}, err
		}
		concrete, err := operandT.SimplifyUntilConcrete(env)
		if err != nil {
			return Type{}, err
		}
		if concrete.Kind != KindPointer {
			return Type{}, errs.New(errs.DerefNonPointer, errs.WithType(concrete))
		}
		return *concrete.Elem, nil
	case eUnaryOp:
		return e.unary.ReturnType(*e.operand, env)
	case eBinaryOp:
		return e.binary.ReturnType(*e.a, *e.b, env)
	case eTernaryOp:
		return e.ternary.ReturnType(*e.a, *e.b, *e.c, env)
	case eApply:
		procT, err := e.proc.GetType(env)
		if err != nil {
			return Type{}, err
		}
		concrete, err := procT.SimplifyUntilConcrete(env)
		if err != nil {
			return Type{}, err
		}
		if concrete.Kind != KindProc {
			return Type{}, errs.New(errs.ApplyNonProc, errs.WithType(concrete))
		}
		return *concrete.Ret, nil
	case eTypeApply:
		pp, ok := env.GetConst(e.name)
		if !ok {
			return Type{}, errs.New(errs.SymbolNotDefined, errs.WithName(e.name))
		}
		mono, err := pp.evalDepth(env, 0)
		if err != nil {
			return Type{}, err
		}
		if mono.kind != cePolyProc {
			return Type{}, errs.New(errs.ApplyNonTemplate, errs.WithName(e.name))
		}
		proc, err := mono.polyProc.Monomorphize(e.tyArgs, env)
		if err != nil {
			return Type{}, err
		}
		return proc.GetType(env)
	case eAs:
		operandT, err := e.operand.GetType(env)
		if err != nil {
			return Type{}, err
		}
		ok, err := CanCast(operandT, *e.castType, env)
		if err != nil {
			return Type{}, err
		}
		if !ok {
			return Type{}, errs.New(errs.InvalidAs,
				errs.WithExpr(e), errs.WithType(operandT), errs.WithType2(*e.castType))
		}
		return *e.castType, nil
	case eArray:
		var elemTy Type
		if len(e.elems) > 0 {
			var err error
			elemTy, err = e.elems[0].GetType(env)
			if err != nil {
				return Type{}, err
			}
		} else {
			elemTy = None()
		}
		return Array(elemTy, CEInt(int64(len(e.elems)))), nil
	case eTuple:
		elemTypes := make([]Type, len(e.elems))
		for i, el := range e.elems {
			t, err := el.GetType(env)
			if err != nil {
				return Type{}, err
			}
			elemTypes[i] = t
		}
		return Tuple(elemTypes...), nil
	case eStruct, eUnion, eEnumUnion:
		return *e.structType, nil
	case eMatch:
		if len(e.arms) == 0 {
			return Type{}, errs.New(errs.InvalidMatchExpr)
		}
		scrutineeT, err := e.scrutinee.GetType(env)
		if err != nil {
			return Type{}, err
		}
		scope, err := e.arms[0].Pattern.bindScope(scrutineeT, env)
		if err != nil {
			return Type{}, err
		}
		return e.arms[0].Body.GetType(scope)
	default:
		return Type{}, errs.New(errs.InvalidMatchExpr)
	}
}

// ConstValue unwraps an Expr that is known (by the caller) to be an
// embedded constant, used where spec'd algorithms need a ConstExpr (e.g.
// tuple-index operands, which must be compile-time integers).
func (e Expr) ConstValue() ConstExpr {
	if e.kind == eConst {
		return *e.ce
	}
	return CENone()
}

// isMutableLValue reports whether an expression denotes a place that may
// be written through, used by address-of to decide the resulting
// pointer's mutability.
func (e Expr) isMutableLValue(env *Env) bool {
	switch e.kind {
	case eVarRef:
		v, ok := env.GetVar(e.name)
		return ok && v.Mutability.IsMutable()
	case eDeref:
		t, err := e.operand.GetType(env)
		if err != nil {
			return false
		}
		concrete, err := t.SimplifyUntilConcrete(env)
		if err != nil {
			return false
		}
		return concrete.Kind == KindPointer && concrete.PtrMut.IsMutable()
	case eMemberNamed:
		return e.operand.isMutableLValue(env)
	case eMemberIndexed, eIndex:
		return e.operand.isMutableLValue(env)
	default:
		return false
	}
}

// String renders an expression for diagnostics. It is intentionally
// approximate (not a round-trippable printer) — errors only need enough to
// point a reader at the offending construct.
func (e Expr) String() string {
	switch e.kind {
	case eConst:
		return e.ce.String()
	case eVarRef:
		return e.name
	case eBlock:
		return "{ " + e.body.String() + " }"
	case eAssign:
		return e.lhs.String() + " " + e.assignOp.Name() + " " + e.rhs.String()
	case eMemberNamed:
		return e.operand.String() + "." + e.name
	case eMemberIndexed:
		return e.operand.String() + "." + e.index.String()
	case eIndex:
		return e.operand.String() + "[" + e.index.String() + "]"
	case eAddressOf:
		return "&" + e.operand.String()
	case eDeref:
		return "*" + e.operand.String()
	case eUnaryOp:
		return e.unary.Name() + " " + e.operand.String()
	case eBinaryOp:
		return e.a.String() + " " + e.binary.Name() + " " + e.b.String()
	case eTernaryOp:
		return e.ternary.Name() + "(" + e.a.String() + ", " + e.b.String() + ", " + e.c.String() + ")"
	case eApply:
		return e.proc.String() + "(...)"
	case eTypeApply:
		return e.name + "<...>"
	case eAs:
		return e.operand.String() + " as " + e.castType.String()
	case eArray:
		return "[...]"
	case eTuple:
		return "(...)"
	case eStruct, eUnion, eEnumUnion:
		return e.structType.String() + "{...}"
	case eMatch:
		return "match " + e.scrutinee.String() + " { ... }"
	default:
		return "<invalid expr>"
	}
}

// TypeCheck recursively validates an expression, surfacing the first
// error found in evaluation order. GetType already performs the structural
// checks each form requires; TypeCheck additionally descends into every
// subexpression so errors nested arbitrarily deep are still caught even
// when an outer form doesn't itself need the inner value's type.
//
// eBlock and eMatch introduce names (let bindings, pattern binds) that are
// only visible in a child scope, so each is special-cased here rather than
// going through the outer-env-only children() walk below — otherwise a
// block body or match arm referencing its own binding would report
// SymbolNotDefined despite GetType resolving the very same expression fine.
func (e Expr) TypeCheck(env *Env) error {
	if _, err := e.GetType(env); err != nil {
		return err
	}
	switch e.kind {
	case eBlock:
		inner := env.NewScope()
		for _, l := range e.lets {
			if err := l.expr.TypeCheck(inner); err != nil {
				return err
			}
			t, err := l.expr.GetType(inner)
			if err != nil {
				return err
			}
			inner.DefineVar(l.name, l.mut, t, false)
		}
		return e.body.TypeCheck(inner)
	case eMatch:
		if err := e.scrutinee.TypeCheck(env); err != nil {
			return err
		}
		scrutineeT, err := e.scrutinee.GetType(env)
		if err != nil {
			return err
		}
		for _, arm := range e.arms {
			scope, err := arm.Pattern.bindScope(scrutineeT, env)
			if err != nil {
				return err
			}
			if err := arm.Body.TypeCheck(scope); err != nil {
				return err
			}
		}
		return nil
	}
	for _, child := range e.children() {
		if err := child.TypeCheck(env); err != nil {
			return err
		}
	}
	return nil
}

func (e Expr) children() []Expr {
	switch e.kind {
	case eBlock:
		out := make([]Expr, 0, len(e.lets)+1)
		for _, l := range e.lets {
			out = append(out, l.expr)
		}
		return append(out, *e.body)
	case eAssign:
		return []Expr{*e.lhs, *e.rhs}
	case eMemberNamed, eAddressOf, eDeref, eUnaryOp, eAs:
		return []Expr{*e.operand}
	case eMemberIndexed, eIndex:
		return []Expr{*e.operand, *e.index}
	case eBinaryOp:
		return []Expr{*e.a, *e.b}
	case eTernaryOp:
		return []Expr{*e.a, *e.b, *e.c}
	case eApply:
		out := append([]Expr{*e.proc}, e.args...)
		return out
	case eArray, eTuple:
		return e.elems
	case eStruct:
		return e.fieldVals
	case eUnion, eEnumUnion:
		return e.fieldVals
	case eMatch:
		out := []Expr{*e.scrutinee}
		for _, arm := range e.arms {
			out = append(out, arm.Body)
		}
		return out
	default:
		return nil
	}
}

func memberType(t Type, name string, env *Env) (Type, error) {
	concrete, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return Type{}, err
	}
	switch concrete.Kind {
	case KindStruct, KindUnion:
		if ft, ok := concrete.Fields.Get(name); ok {
			return ft, nil
		}
		return Type{}, errs.New(errs.MemberNotFound, errs.WithType(concrete), errs.WithName(name))
	default:
		consts := env.GetAllAssociatedConsts(concrete)
		if c, ok := consts[name]; ok {
			return c.GetType(env)
		}
		return Type{}, errs.New(errs.MemberNotFound, errs.WithType(concrete), errs.WithName(name))
	}
}

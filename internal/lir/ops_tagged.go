package lir

import "github.com/lir-lang/lir/internal/asm"

// Tag extracts the Enum discriminant of a tagged union value, grounded on
// tagged_union.rs's `Tag` unary operator. CanApply accepts any type that
// simplifies to variants non-strictly (Enum or EnumUnion), matching the
// original's `simplify_until_has_variants(env, false)`.
type tagOp struct{}

func OpTag() UnaryOp { return tagOp{} }

func (tagOp) Name() string { return "tag" }

func (tagOp) CanApply(t Type, env *Env) (bool, error) {
	simplified, err := t.Simplify(env)
	if err != nil {
		return false, err
	}
	_, err = simplified.SimplifyUntilHasVariants(env, false)
	return err == nil, nil
}

func (tagOp) ReturnType(e Expr, env *Env) (Type, error) {
	t, err := e.GetType(env)
	if err != nil {
		return Type{}, err
	}
	t, err = t.SimplifyUntilHasVariants(env, false)
	if err != nil {
		return Type{}, err
	}
	if t.Kind != KindEnumUnion {
		return Type{}, mismatchedTypesErr(EnumUnion(nil), t, e)
	}
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return Enum(names...), nil
}

func (tagOp) Eval(c ConstExpr, env *Env) (ConstExpr, error) {
	v, err := c.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	if v.kind != ceEnumUnion {
		return ConstExpr{}, mismatchedTypesErr(EnumUnion(nil), Type{}, EConst(v))
	}
	simplified, err := v.ty.Simplify(env)
	if err != nil {
		return ConstExpr{}, err
	}
	if simplified.Kind != KindEnumUnion {
		return ConstExpr{}, mismatchedTypesErr(EnumUnion(nil), simplified, EConst(v))
	}
	names := make([]string, len(simplified.Fields))
	for i, f := range simplified.Fields {
		names[i] = f.Name
	}
	return CEOf(Enum(names...), v.name), nil
}

// CompileTypes keeps only the variant's trailing tag cell, dropping the
// payload cells underneath it (mirrors the original's "move the tag down,
// pop the rest" sequence).
func (tagOp) CompileTypes(t Type, env *Env, out asm.Program) error {
	size, err := t.GetSize(env)
	if err != nil {
		return err
	}
	out.Op(asm.Move{
		Src: asm.Reg(asm.SP).Deref(),
		Dst: asm.Reg(asm.SP).Deref().Offset(1 - size),
	})
	if size > 1 {
		out.Op(asm.Pop{Size: size - 1})
	}
	return nil
}

// Data strips a tagged union's tag, leaving its Union-typed payload
// (tagged_union.rs's `Data` unary operator).
type dataOp struct{}

func OpData() UnaryOp { return dataOp{} }

func (dataOp) Name() string { return "data" }

func (dataOp) CanApply(t Type, env *Env) (bool, error) { return tagOp{}.CanApply(t, env) }

func (dataOp) ReturnType(e Expr, env *Env) (Type, error) {
	t, err := e.GetType(env)
	if err != nil {
		return Type{}, err
	}
	t, err = t.SimplifyUntilHasVariants(env, false)
	if err != nil {
		return Type{}, err
	}
	if t.Kind != KindEnumUnion {
		return Type{}, mismatchedTypesErr(EnumUnion(nil), t, e)
	}
	return Union(t.Fields), nil
}

func (dataOp) Eval(c ConstExpr, env *Env) (ConstExpr, error) {
	v, err := c.Eval(env)
	if err != nil {
		return ConstExpr{}, err
	}
	if v.kind != ceEnumUnion {
		return ConstExpr{}, mismatchedTypesErr(EnumUnion(nil), Type{}, EConst(v))
	}
	simplified, err := v.ty.Simplify(env)
	if err != nil {
		return ConstExpr{}, err
	}
	if simplified.Kind != KindEnumUnion {
		return ConstExpr{}, mismatchedTypesErr(EnumUnion(nil), simplified, EConst(v))
	}
	return CEUnion(Union(simplified.Fields), v.name, *v.value).Eval(env)
}

// CompileTypes drops the tag cell, leaving the payload cells beneath it
// (tagged_union.rs: `Pop(None, 1)`).
func (dataOp) CompileTypes(t Type, env *Env, out asm.Program) error {
	out.Op(asm.Pop{Size: 1})
	return nil
}

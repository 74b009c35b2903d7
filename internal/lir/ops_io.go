package lir

import "github.com/lir-lang/lir/internal/asm"

// Get reads one scalar value from stdin into the pointee of a
// `&mut Char`/`&mut Int`/`&mut Float` operand (io.rs's `Get` unary
// operator).
type getOp struct{}

func OpGet() UnaryOp { return getOp{} }

func (getOp) Name() string { return "get" }

func (getOp) CanApply(t Type, env *Env) (bool, error) {
	c, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	if c.Kind != KindPointer {
		return false, nil
	}
	if !c.PtrMut.IsMutable() {
		return false, nil
	}
	elem, err := c.Elem.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	return elem.Kind == KindChar || elem.Kind == KindInt || elem.Kind == KindFloat, nil
}

func (getOp) ReturnType(e Expr, env *Env) (Type, error) { return None(), nil }

func (getOp) Eval(c ConstExpr, env *Env) (ConstExpr, error) {
	return ConstExpr{}, errsUnsupported(c)
}

func (getOp) CompileTypes(t Type, env *Env, out asm.Program) error {
	c, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	elem, err := c.Elem.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	dst := asm.Reg(asm.SP).Deref().Deref()
	switch elem.Kind {
	case KindChar:
		out.Op(asm.Get{Dst: dst, In: asm.StdinChar()})
	case KindInt:
		out.Op(asm.Get{Dst: dst, In: asm.StdinInt()})
	case KindFloat:
		out.Op(asm.Get{Dst: dst, In: asm.StdinFloat()})
	default:
		return errsUnsupported(CENone())
	}
	out.Op(asm.Pop{Size: 1})
	return nil
}

// Put writes a scalar Int/Float/Char/Bool value to stdout (io.rs's `Put`
// operator, restricted here to the primitive cases; compound-type
// Debug/Display walking lives in the dedicated codegen pass).
type putOp struct{}

func OpPut() UnaryOp { return putOp{} }

func (putOp) Name() string { return "put" }

func (putOp) CanApply(t Type, env *Env) (bool, error) {
	c, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	switch c.Kind {
	case KindChar, KindInt, KindFloat, KindBool:
		return true, nil
	default:
		return false, nil
	}
}

func (putOp) ReturnType(e Expr, env *Env) (Type, error) { return None(), nil }

func (putOp) Eval(c ConstExpr, env *Env) (ConstExpr, error) {
	return ConstExpr{}, errsUnsupported(c)
}

func (putOp) CompileTypes(t Type, env *Env, out asm.Program) error {
	c, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	src := asm.Reg(asm.SP).Deref()
	switch c.Kind {
	case KindChar:
		out.Op(asm.Put{Src: src, Out: asm.StdoutChar()})
	case KindInt:
		out.Op(asm.Put{Src: src, Out: asm.StdoutInt()})
	case KindFloat:
		out.Op(asm.Put{Src: src, Out: asm.StdoutFloat()})
	case KindBool:
		out.Op(asm.If{Cond: src})
		putLiteralString(out, "true")
		out.Op(asm.Else{})
		putLiteralString(out, "false")
		out.Op(asm.End{})
	}
	out.Op(asm.Pop{Size: 1})
	return nil
}

// putLiteralString emits the `set A, ch; put A, stdout-char` sequence for
// each byte of a fixed string (io.rs's Bool/None-branch rendering).
func putLiteralString(out asm.Program, s string) {
	for _, ch := range []byte(s) {
		out.Op(asm.Set{Dst: asm.Reg(asm.A), Val: int64(ch)})
		out.Op(asm.Put{Src: asm.Reg(asm.A), Out: asm.StdoutChar()})
	}
}

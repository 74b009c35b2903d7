package lir

import "github.com/lir-lang/lir/internal/asm"

// assignOp is the plain `=` operator (spec.md §4.4 "Assignment ops
// additionally take lvalue constraints"): lhs must be a type rhs decays to.
// By the time CompileTypes runs, the lhs address sits on top of the stack
// (pushed by Expr.compileAddress) with the rhs value's cells directly
// beneath it (pushed by Expr.Compile) — see compile.go's eAssign case.
type assignOp struct{}

func OpAssign() AssignOp { return assignOp{} }

func (assignOp) Name() string { return "=" }

func (assignOp) CanApply(lhs, rhs Type, env *Env) (bool, error) {
	return rhs.CanDecayTo(lhs, env)
}

func (assignOp) CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error {
	size, err := rhs.GetSize(env)
	if err != nil {
		return err
	}
	return compileStoreToAddress(size, out)
}

// compileStoreToAddress consumes the address cell on top of the stack and
// the `size` value cells beneath it, writing the value to memory at that
// address and leaving the stack exactly as it was before either was
// pushed (stack-neutrality contract, spec.md §4.1).
func compileStoreToAddress(size int, out asm.Program) error {
	out.Op(asm.Move{Src: asm.Reg(asm.SP).Deref(), Dst: asm.Reg(asm.B)})
	out.Op(asm.Pop{Size: 1})
	out.Op(asm.Copy{
		Src:  asm.Reg(asm.SP).Deref().Offset(1 - size),
		Dst:  asm.Reg(asm.B).Deref(),
		Size: size,
	})
	out.Op(asm.Pop{Size: size})
	return nil
}

// compoundAssignOp implements `+=`, `-=`, `*=`, `/=`, `%=` (spec.md §4.4):
// read-modify-write through an lvalue, restricted to the scalar types the
// underlying binary operator accepts.
type compoundAssignOp struct {
	name string
	bin  BinaryOp
}

func OpAddAssign() AssignOp { return compoundAssignOp{"+=", OpAdd()} }
func OpSubAssign() AssignOp { return compoundAssignOp{"-=", OpSub()} }
func OpMulAssign() AssignOp { return compoundAssignOp{"*=", OpMul()} }
func OpDivAssign() AssignOp { return compoundAssignOp{"/=", OpDiv()} }
func OpRemAssign() AssignOp { return compoundAssignOp{"%=", OpRem()} }

func (o compoundAssignOp) Name() string { return o.name }

func (o compoundAssignOp) CanApply(lhs, rhs Type, env *Env) (bool, error) {
	return o.bin.CanApply(lhs, rhs, env)
}

func (o compoundAssignOp) CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error {
	l, err := lhs.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	addr := asm.Reg(asm.SP).Deref()
	out.Op(asm.Move{Src: addr, Dst: asm.Reg(asm.B)})
	out.Op(asm.Pop{Size: 1})

	dst := asm.Reg(asm.B).Deref()
	src := asm.Reg(asm.SP).Deref()
	n, ok := o.bin.(numericBinOp)
	if !ok {
		return errsUnsupported(CENone())
	}
	if l.Kind == KindFloat {
		out.Op(n.emitFloa(src, dst))
	} else {
		out.Op(n.emitInt(src, dst))
	}
	out.Op(asm.Pop{Size: 1})
	return nil
}

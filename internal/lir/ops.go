package lir

import "github.com/lir-lang/lir/internal/asm"

// UnaryOp, BinaryOp, TernaryOp, and AssignOp are the operator traits of
// spec.md §4.4. The original source implements each operator as a trait
// object (`Box<dyn UnaryOp>`); Go has no closed trait-object hierarchy with
// a fixed enumerable set, so each concrete operator is instead a small
// value type implementing the matching interface, and the *set* of
// operators is closed by the constructors exposed from this package
// (spec.md §9 "no dynamic extension is required at runtime").
type UnaryOp interface {
	Name() string
	CanApply(t Type, env *Env) (bool, error)
	ReturnType(e Expr, env *Env) (Type, error)
	Eval(c ConstExpr, env *Env) (ConstExpr, error)
	CompileTypes(t Type, env *Env, out asm.Program) error
}

type BinaryOp interface {
	Name() string
	CanApply(lhs, rhs Type, env *Env) (bool, error)
	ReturnType(lhs, rhs Expr, env *Env) (Type, error)
	Eval(lhs, rhs ConstExpr, env *Env) (ConstExpr, error)
	CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error
}

type TernaryOp interface {
	Name() string
	CanApply(a, b, c Type, env *Env) (bool, error)
	ReturnType(a, b, c Expr, env *Env) (Type, error)
	Eval(a, b, c ConstExpr, env *Env) (ConstExpr, error)
	CompileTypes(a, b, c Type, env *Env, out asm.Program) error
}

// AssignOp is the assignment-operator interface (spec.md §4.4 "Assignment
// ops additionally take lvalue constraints"). Its methods see only types;
// the check that the left operand is a mutable lvalue is made by eAssign's
// GetType in expr.go.
type AssignOp interface {
	Name() string
	CanApply(lhs, rhs Type, env *Env) (bool, error)
	CompileTypes(lhs, rhs Type, env *Env, out asm.Program) error
}

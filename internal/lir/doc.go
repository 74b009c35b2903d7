// Package lir implements the Low Intermediate Representation described in
// spec.md: a structurally-typed, polymorphic, constant-foldable expression
// language that compiles to the stack-machine assembly of internal/asm.
//
// Mirroring the original Rust `lir` crate (one module, many files), lir is a
// single Go package split across many files by concern: types.go (the type
// algebra), simplify.go/equality.go/size.go (the simplifier), constexpr.go
// (constant folding), expr.go/pattern.go (typed expressions and pattern
// matching), ops_*.go (the operator set), env.go (the symbol table),
// procedure.go/polyprocedure.go (monomorphic and generic procedures), and
// compile.go (the expression-to-assembly driver). The value-serialization
// code generator lives in its own package, internal/debugcodegen. All of Type, ConstExpr, Expr, and
// Pattern are mutually recursive, exactly as in the original; splitting them
// into separate Go packages would force an import cycle, so — as the
// original crate does — they share one compilation unit.
package lir

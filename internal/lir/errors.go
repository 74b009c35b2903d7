package lir

import "github.com/lir-lang/lir/internal/errs"

// mismatchedTypesErr is a small convenience shared by TypeCheck methods
// across this package, mirroring the `Error::MismatchedTypes{expected,
// found, expr}` constructor used throughout the original type-checker.
func mismatchedTypesErr(expected, found Type, expr Expr) error {
	return errs.New(errs.MismatchedTypes,
		errs.WithExpected(expected), errs.WithFound(found), errs.WithExpr(expr))
}

func errsSymbolNotDefined(name string) error {
	return errs.New(errs.SymbolNotDefined, errs.WithName(name))
}

func errsApplyNonTemplate(name string) error {
	return errs.New(errs.ApplyNonTemplate, errs.WithName(name))
}

func errsInvalidRefer(e Expr) error {
	return errs.New(errs.InvalidRefer, errs.WithExpr(e))
}

func errsVariantNotFound(t Type, variant string) error {
	return errs.New(errs.VariantNotFound, errs.WithType(t), errs.WithName(variant))
}

func errsUnsupported(c ConstExpr) error {
	return errs.New(errs.UnsupportedOperation, errs.WithExpr(c))
}

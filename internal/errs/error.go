// Package errs implements the LIR error taxonomy (spec.md §7): a closed set
// of error kinds, each annotated with the source span responsible, whose
// textual form is stable enough to locate the offending construct without
// the core having to know anything about how the host renders diagnostics.
package errs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kr/pretty"
	"github.com/maruel/natural"
)

// Error is the single concrete error type for the whole taxonomy. Payload
// fields are typed as fmt.Stringer rather than internal/lir's concrete Type
// or Expr types, so this package has no dependency on internal/lir (which
// depends on errs, not the other way around) and can render
// whatever the caller hands it.
type Error struct {
	Kind       Kind
	Annotation Annotation

	Expected fmt.Stringer
	Found    fmt.Stringer
	Type     fmt.Stringer
	Type2    fmt.Stringer
	Expr     fmt.Stringer
	Name     string
	Names    []string
	Detail   string
	Inner    error
}

// Option configures an Error built by New.
type Option func(*Error)

func WithExpected(s fmt.Stringer) Option { return func(e *Error) { e.Expected = s } }
func WithFound(s fmt.Stringer) Option    { return func(e *Error) { e.Found = s } }
func WithType(s fmt.Stringer) Option     { return func(e *Error) { e.Type = s } }
func WithType2(s fmt.Stringer) Option    { return func(e *Error) { e.Type2 = s } }
func WithExpr(s fmt.Stringer) Option     { return func(e *Error) { e.Expr = s } }
func WithName(n string) Option           { return func(e *Error) { e.Name = n } }
func WithNames(n []string) Option        { return func(e *Error) { e.Names = n } }
func WithDetail(d string) Option         { return func(e *Error) { e.Detail = d } }
func WithInner(err error) Option         { return func(e *Error) { e.Inner = err } }

// New builds an Error of the given kind with the supplied payload.
func New(kind Kind, opts ...Option) *Error {
	e := &Error{Kind: kind}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Annotate wraps err with an additional source span. If err is already an
// *Error, a copy of it is returned with the new annotation unioned into the
// existing one (matching the original's merge-not-nest behavior, src/lir/error.rs
// `annotate`) instead of wrapping again.
func Annotate(err error, a Annotation) *Error {
	if e, ok := err.(*Error); ok {
		out := *e
		out.Annotation = e.Annotation.Union(a)
		return &out
	}
	return &Error{Kind: UnsupportedOperation, Annotation: a, Detail: err.Error()}
}

func (e *Error) Unwrap() error { return e.Inner }

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.message())
	if !e.Annotation.IsZero() {
		fmt.Fprintf(&b, " (at %s)", e.Annotation)
	}
	return b.String()
}

func (e *Error) message() string {
	switch e.Kind {
	case MismatchedTypes:
		return fmt.Sprintf("mismatched types: expected %s, found %s in %s", e.Expected, e.Found, e.exprOrDetail())
	case MismatchedMutability:
		return fmt.Sprintf("mismatched mutability: expected %s, found %s in %s", e.Expected, e.Found, e.exprOrDetail())
	case SymbolNotDefined:
		return fmt.Sprintf("symbol %s not defined", e.Name)
	case TypeNotDefined:
		return fmt.Sprintf("type %s not defined", e.Name)
	case TypeRedefined:
		return fmt.Sprintf("type %s redefined", e.Name)
	case DuplicateMember:
		return fmt.Sprintf("duplicate member %s of type %s", e.Name, e.Type)
	case VariantNotFound:
		return fmt.Sprintf("variant %s not found in %s", e.Name, e.Type)
	case MemberNotFound:
		return fmt.Sprintf("member %s not found in %s", e.Name, e.exprOrDetail())
	case UnsizedType:
		return fmt.Sprintf("tried to instantiate unsized type %s", e.Type)
	case DerefNonPointer:
		return fmt.Sprintf("tried to dereference non-pointer %s", e.exprOrDetail())
	case ApplyNonProc:
		return fmt.Sprintf("tried to apply non-procedure %s", e.exprOrDetail())
	case ApplyNonTemplate:
		return fmt.Sprintf("tried to apply non-template type %s", e.Type)
	case SizeOfTemplate:
		return fmt.Sprintf("tried to get size of template type %s", e.Type)
	case InvalidIndex:
		return fmt.Sprintf("invalid index expression %s", e.exprOrDetail())
	case InvalidRefer:
		return fmt.Sprintf("invalid refer expression %s", e.exprOrDetail())
	case InvalidUnaryOp:
		return fmt.Sprintf("invalid unary operation %s %s", e.Name, e.exprOrDetail())
	case InvalidUnaryOpTypes:
		return fmt.Sprintf("invalid unary operation %s for type %s", e.Name, e.Type)
	case InvalidBinaryOp:
		return fmt.Sprintf("invalid binary operation %s %s", e.Name, e.exprOrDetail())
	case InvalidBinaryOpTypes:
		return fmt.Sprintf("invalid binary operation %s for types %s and %s", e.Name, e.Type, e.Type2)
	case InvalidTernaryOp:
		return fmt.Sprintf("invalid ternary operation %s %s", e.Name, e.exprOrDetail())
	case InvalidTernaryOpTypes:
		return fmt.Sprintf("invalid ternary operation %s for types %s, %s, and more", e.Name, e.Type, e.Type2)
	case InvalidAssignOp:
		return fmt.Sprintf("invalid assignment operation %s %s", e.Name, e.exprOrDetail())
	case InvalidAssignOpTypes:
		return fmt.Sprintf("invalid assignment operation %s for types %s and %s", e.Name, e.Type, e.Type2)
	case InvalidAs:
		return fmt.Sprintf("invalid as expression %s for types %s and %s", e.exprOrDetail(), e.Type, e.Type2)
	case NegativeArrayLength:
		return fmt.Sprintf("negative array length %s", e.exprOrDetail())
	case InvalidPatternForType:
		return fmt.Sprintf("invalid pattern %s for type %s", e.exprOrDetail(), e.Type)
	case InvalidPatternForExpr:
		return fmt.Sprintf("invalid pattern %s for expression %s", e.exprOrDetail(), e.Expr)
	case InvalidMatchExpr:
		return fmt.Sprintf("invalid match expression %s", e.exprOrDetail())
	case NonExhaustivePatterns:
		return fmt.Sprintf("non-exhaustive patterns %s for expression %s", e.sortedNames(), e.exprOrDetail())
	case InvalidConstExpr:
		return fmt.Sprintf("invalid constant expression %s", e.exprOrDetail())
	case NonIntegralConst:
		return fmt.Sprintf("got non-integral constant expression %s", e.exprOrDetail())
	case UnsupportedOperation:
		return fmt.Sprintf("unsupported operation %s", e.exprOrDetail())
	case UnusedExpr:
		return fmt.Sprintf("unused expression %s of type %s", e.exprOrDetail(), e.Type)
	case InvalidTemplateArgs:
		return fmt.Sprintf("invalid template arguments for type %s", e.Type)
	case CompilePolyProc:
		return fmt.Sprintf("tried to compile polymorphic procedure %s", e.exprOrDetail())
	case InvalidMonomorphize:
		return fmt.Sprintf("invalid monomorphization of constant expression %s", e.exprOrDetail())
	case RecursionDepthConst:
		return fmt.Sprintf("recursion depth exceeded when trying to evaluate %s", e.exprOrDetail())
	case RecursionDepthTypeEquality:
		return fmt.Sprintf("recursion depth exceeded when trying to confirm %s == %s", e.Type, e.Type2)
	case CouldntSimplify:
		return fmt.Sprintf("couldn't simplify %s to %s", e.Type, e.Type2)
	case UnimplementedOperator:
		return fmt.Sprintf("unimplemented operator %s", e.Name)
	case NonSymbol:
		return fmt.Sprintf("expected symbol, found %s", e.exprOrDetail())
	case AssemblyError:
		return fmt.Sprintf("assembly error: %s", e.innerOrDetail())
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

func (e *Error) exprOrDetail() string {
	if e.Expr != nil {
		return e.Expr.String()
	}
	return e.Detail
}

func (e *Error) innerOrDetail() string {
	if e.Inner != nil {
		return e.Inner.Error()
	}
	return e.Detail
}

// sortedNames renders Names in natural sort order (natural.Less), so a
// NonExhaustivePatterns listing of missing variants ("v2", "v10", "v1")
// reads as a human would order it rather than in map-iteration or
// lexicographic order.
func (e *Error) sortedNames() string {
	names := append([]string(nil), e.Names...)
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return "[" + strings.Join(names, ", ") + "]"
}

// Dump renders a structured, field-by-field view of the error for tooling
// that wants more than the one-line Error() string — e.g. a language
// server's diagnostic detail pane. It uses kr/pretty's Go-syntax-like dump
// so nested Type/Expr values are fully visible, not elided.
func (e *Error) Dump() string {
	return strings.Join(pretty.Diff(&Error{}, e), "\n")
}

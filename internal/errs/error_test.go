package errs

import (
	"strings"
	"testing"
)

type str string

func (s str) String() string { return string(s) }

func TestAnnotateMergesSpansInsteadOfNesting(t *testing.T) {
	base := New(SymbolNotDefined, WithName("x"))
	inner := Annotate(base, NewAnnotation("f.lir", 1, 1, 1, 5))
	outer := Annotate(inner, NewAnnotation("f.lir", 1, 1, 3, 1))

	if outer.Kind != SymbolNotDefined {
		t.Fatalf("expected kind to survive annotation, got %v", outer.Kind)
	}
	if outer.Annotation.EndLine != 3 || outer.Annotation.EndColumn != 1 {
		t.Fatalf("expected union to widen to outer span, got %s", outer.Annotation)
	}
	if strings.Contains(outer.Error(), "f.lir:1:1-1:5") {
		t.Fatalf("expected spans to merge, not nest: %s", outer.Error())
	}
}

func TestMismatchedTypesMessage(t *testing.T) {
	e := New(MismatchedTypes, WithExpected(str("Int")), WithFound(str("Bool")), WithExpr(str("x + 1")))
	msg := e.Error()
	if !strings.Contains(msg, "expected Int") || !strings.Contains(msg, "found Bool") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestNonExhaustivePatternsSortsNamesNaturally(t *testing.T) {
	e := New(NonExhaustivePatterns, WithNames([]string{"v10", "v2", "v1"}), WithExpr(str("match x")))
	msg := e.Error()
	if !strings.Contains(msg, "[v1, v2, v10]") {
		t.Fatalf("expected natural sort order, got: %s", msg)
	}
}

func TestAnnotateOfPlainErrorWraps(t *testing.T) {
	plain := New(UnsupportedOperation, WithDetail("boom"))
	wrapped := Annotate(plain, NewAnnotation("f.lir", 2, 2, 2, 2))
	if wrapped.Annotation.IsZero() {
		t.Fatalf("expected annotation to be attached")
	}
}

package errs

import "fmt"

// Annotation locates the source construct responsible for an error. It is a
// span (spec.md §7, §9): wrapping an already-annotated error unions the two
// spans rather than nesting them, so the outermost annotation always
// describes the widest context that still matters.
type Annotation struct {
	File        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	set         bool
}

// NewAnnotation builds a span for a single source location.
func NewAnnotation(file string, startLine, startColumn, endLine, endColumn int) Annotation {
	return Annotation{
		File:        file,
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
		set:         true,
	}
}

// IsZero reports whether this annotation carries no location.
func (a Annotation) IsZero() bool { return !a.set }

// Union merges two annotations into the smallest span covering both. This is
// the `|=` combinator from the original's `annotate` (src/lir/error.rs): when
// an already-annotated error is annotated again, the spans union instead of
// nesting.
func (a Annotation) Union(b Annotation) Annotation {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	out := a
	out.File = a.File
	if before(b.StartLine, b.StartColumn, a.StartLine, a.StartColumn) {
		out.StartLine, out.StartColumn = b.StartLine, b.StartColumn
	}
	if before(a.EndLine, a.EndColumn, b.EndLine, b.EndColumn) {
		out.EndLine, out.EndColumn = b.EndLine, b.EndColumn
	}
	return out
}

func before(l1, c1, l2, c2 int) bool {
	if l1 != l2 {
		return l1 < l2
	}
	return c1 < c2
}

func (a Annotation) String() string {
	if a.IsZero() {
		return "<no location>"
	}
	if a.File != "" {
		return fmt.Sprintf("%s:%d:%d-%d:%d", a.File, a.StartLine, a.StartColumn, a.EndLine, a.EndColumn)
	}
	return fmt.Sprintf("%d:%d-%d:%d", a.StartLine, a.StartColumn, a.EndLine, a.EndColumn)
}

package asm

import "fmt"

// Program is the sink the LIR compiler emits into (spec.md §6). Any
// implementation must preserve insertion order: ops are appended in source
// order and never reordered or rewritten by the core.
type Program interface {
	// Op appends one instruction.
	Op(op Op)
	// CurrentInstruction returns the index the next Op call will occupy.
	CurrentInstruction() int
	// LogInstructionsAfter attributes every op emitted since `since` to a
	// human-readable label and detail string, for diagnostics. Implementations
	// that don't care about instrumentation may make this a no-op.
	LogInstructionsAfter(label, detail string, since int)
}

// Span is a half-open range of instruction indices, used to attribute
// emitted code back to the source construct that produced it.
type Span struct {
	Label  string
	Detail string
	Start  int
	End    int // exclusive
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d) %s: %s", s.Start, s.End, s.Label, s.Detail)
}

// Sink is the reference Program implementation: an in-memory, append-only
// op stream plus the instrumentation spans attached via
// LogInstructionsAfter. internal/vm executes a Sink's Ops directly; it is
// also what internal/cache and the CLI disassembler serialize.
type Sink struct {
	Ops   []Op
	Spans []Span
}

// NewSink returns an empty instruction sink.
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Op(op Op) {
	s.Ops = append(s.Ops, op)
}

func (s *Sink) CurrentInstruction() int {
	return len(s.Ops)
}

func (s *Sink) LogInstructionsAfter(label, detail string, since int) {
	if since >= len(s.Ops) {
		return
	}
	s.Spans = append(s.Spans, Span{
		Label:  label,
		Detail: detail,
		Start:  since,
		End:    len(s.Ops),
	})
}

// Disassemble renders the op stream one instruction per line, indenting
// nested If/While/Fn blocks. It is used by the CLI's `disasm` subcommand and
// by golden-snapshot tests.
func (s *Sink) Disassemble() string {
	var out string
	depth := 0
	for i, op := range s.Ops {
		switch op.(type) {
		case Else:
			depth--
		case End:
			depth--
		}
		if depth < 0 {
			depth = 0
		}
		out += fmt.Sprintf("%4d: %s%s\n", i, indent(depth), op)
		switch op.(type) {
		case If, While, Fn, Else:
			depth++
		}
	}
	return out
}

func indent(depth int) string {
	s := ""
	for i := 0; i < depth; i++ {
		s += "  "
	}
	return s
}

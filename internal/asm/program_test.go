package asm

import "testing"

func TestSinkPreservesInsertionOrder(t *testing.T) {
	s := NewSink()
	s.Op(Set{Dst: Reg(A), Val: 3})
	s.Op(Set{Dst: Reg(B), Val: 4})
	s.Op(Add{Src: Reg(B), Dst: Reg(A)})

	if len(s.Ops) != 3 {
		t.Fatalf("expected 3 ops, got %d", len(s.Ops))
	}
	if _, ok := s.Ops[0].(Set); !ok {
		t.Fatalf("expected ops[0] to be Set, got %T", s.Ops[0])
	}
	if _, ok := s.Ops[2].(Add); !ok {
		t.Fatalf("expected ops[2] to be Add, got %T", s.Ops[2])
	}
}

func TestCurrentInstructionTracksLength(t *testing.T) {
	s := NewSink()
	if s.CurrentInstruction() != 0 {
		t.Fatalf("expected 0 at start")
	}
	s.Op(Set{Dst: Reg(A), Val: 1})
	if s.CurrentInstruction() != 1 {
		t.Fatalf("expected 1 after one op")
	}
}

func TestLogInstructionsAfterRecordsSpan(t *testing.T) {
	s := NewSink()
	start := s.CurrentInstruction()
	s.Op(Set{Dst: Reg(A), Val: 1})
	s.Op(Push{Src: Reg(A), Size: 1})
	s.LogInstructionsAfter("push-const", "for 1", start)

	if len(s.Spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(s.Spans))
	}
	span := s.Spans[0]
	if span.Start != 0 || span.End != 2 || span.Label != "push-const" {
		t.Fatalf("unexpected span: %+v", span)
	}
}

func TestDisassembleIndentsBlocks(t *testing.T) {
	s := NewSink()
	s.Op(Fn{Label: "main"})
	s.Op(If{Cond: Reg(A)})
	s.Op(Set{Dst: Reg(B), Val: 1})
	s.Op(Else{})
	s.Op(Set{Dst: Reg(B), Val: 0})
	s.Op(End{})
	s.Op(End{})

	out := s.Disassemble()
	if out == "" {
		t.Fatalf("expected non-empty disassembly")
	}
	want := "   0: fn main\n" +
		"   1:   if A\n" +
		"   2:     set B, 1\n" +
		"   3:   else\n" +
		"   4:     set B, 0\n" +
		"   5:   end\n" +
		"   6: end\n"
	if out != want {
		t.Fatalf("Disassemble() =\n%s\nwant\n%s", out, want)
	}
}

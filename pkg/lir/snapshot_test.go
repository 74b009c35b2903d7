package lir

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestDisassemblySnapshots pins each example program's compiled listing
// against a golden file, the same way the teacher's interpreter tests use
// go-snaps for fixture-driven output comparison — here over
// internal/asm.Sink.Disassemble() text instead of interpreter stdout.
func TestDisassemblySnapshots(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, prog := range Examples() {
		sink, err := engine.Compile(prog)
		if err != nil {
			t.Fatalf("Compile(%s): %v", prog.Name, err)
		}
		snaps.MatchSnapshot(t, prog.Name, engine.Disassemble(sink))
	}
}

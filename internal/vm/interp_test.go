package vm

import (
	"testing"

	"github.com/lir-lang/lir/internal/asm"
)

func run(t *testing.T, ops []asm.Op, device Device) *Interpreter {
	t.Helper()
	sink := asm.NewSink()
	for _, op := range ops {
		sink.Op(op)
	}
	interp, err := New(sink, device)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := interp.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return interp
}

func TestPushMoveIsTopOfStack(t *testing.T) {
	interp := run(t, []asm.Op{
		asm.Set{Dst: asm.Reg(asm.A), Val: 7},
		asm.Move{Src: asm.Reg(asm.A), Dst: asm.Addr(500)},
		asm.Push{Src: asm.Addr(500), Size: 1},
		asm.Move{Src: asm.Reg(asm.SP).Deref(), Dst: asm.Reg(asm.B)},
	}, NewTestingDevice(""))
	if got := interp.regs[asm.B]; got != 7 {
		t.Fatalf("SP.Deref() after pushing 7 = %d, want 7", got)
	}
}

func TestSecondFromTop(t *testing.T) {
	interp := run(t, []asm.Op{
		asm.Set{Dst: asm.Reg(asm.A), Val: 1},
		asm.Move{Src: asm.Reg(asm.A), Dst: asm.Addr(500)},
		asm.Push{Src: asm.Addr(500), Size: 1},
		asm.Set{Dst: asm.Reg(asm.A), Val: 2},
		asm.Move{Src: asm.Reg(asm.A), Dst: asm.Addr(500)},
		asm.Push{Src: asm.Addr(500), Size: 1},
		asm.Move{Src: asm.Reg(asm.SP).Deref(), Dst: asm.Reg(asm.B)},
		asm.Move{Src: asm.Reg(asm.SP).Deref().Offset(-1), Dst: asm.Reg(asm.C)},
	}, NewTestingDevice(""))
	if interp.regs[asm.B] != 2 {
		t.Fatalf("top = %d, want 2 (last pushed)", interp.regs[asm.B])
	}
	if interp.regs[asm.C] != 1 {
		t.Fatalf("second-from-top = %d, want 1 (first pushed)", interp.regs[asm.C])
	}
}

func TestPointerDerefChasesStoredAddress(t *testing.T) {
	// A local variable at FP+0 holds the pointer value 100; tape[100] is
	// the pointee. Pushing FP.Offset(0) puts the pointer value on top of
	// the stack; SP.Deref().Deref() then follows it to the pointee,
	// mirroring the eDeref compile case in internal/lir/compile.go.
	interp := &Interpreter{
		device:   NewTestingDevice(""),
		tape:     make([]int64, tapeExtensionSize),
		blockEnd: map[int]int{},
		elseOf:   map[int]int{},
		labels:   map[string]int{},
	}
	interp.setCell(100, 42)
	interp.setCell(0, 100)
	ops := []asm.Op{
		asm.Push{Src: asm.Reg(asm.FP).Offset(0), Size: 1},
		asm.Push{Src: asm.Reg(asm.SP).Deref().Deref(), Size: 1},
		asm.Move{Src: asm.Reg(asm.SP).Deref(), Dst: asm.Reg(asm.B)},
	}
	interp.ops = ops
	if err := interp.matchBlocks(); err != nil {
		t.Fatalf("matchBlocks: %v", err)
	}
	if err := interp.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if interp.regs[asm.B] != 42 {
		t.Fatalf("dereferenced pointer value = %d, want 42", interp.regs[asm.B])
	}
}

func TestGetAddressIsPureArithmetic(t *testing.T) {
	interp := &Interpreter{
		device:   NewTestingDevice(""),
		tape:     make([]int64, tapeExtensionSize),
		blockEnd: map[int]int{},
		elseOf:   map[int]int{},
		labels:   map[string]int{},
	}
	interp.regs[asm.FP] = 50
	ops := []asm.Op{
		asm.GetAddress{Src: asm.Reg(asm.FP).Offset(3), Dst: asm.Reg(asm.A)},
	}
	interp.ops = ops
	if err := interp.matchBlocks(); err != nil {
		t.Fatalf("matchBlocks: %v", err)
	}
	if err := interp.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if interp.regs[asm.A] != 53 {
		t.Fatalf("GetAddress(FP.Offset(3)) = %d, want 53 (FP+3, no read)", interp.regs[asm.A])
	}
}

func TestIfElse(t *testing.T) {
	interp := run(t, []asm.Op{
		asm.Set{Dst: asm.Reg(asm.A), Val: 0},
		asm.If{Cond: asm.Reg(asm.A)},
		asm.Set{Dst: asm.Reg(asm.B), Val: 1},
		asm.Else{},
		asm.Set{Dst: asm.Reg(asm.B), Val: 2},
		asm.End{},
	}, NewTestingDevice(""))
	if interp.regs[asm.B] != 2 {
		t.Fatalf("else branch should run when Cond is 0, got B=%d", interp.regs[asm.B])
	}
}

func TestWhileCountsDown(t *testing.T) {
	interp := run(t, []asm.Op{
		asm.Set{Dst: asm.Reg(asm.A), Val: 3},
		asm.Set{Dst: asm.Reg(asm.B), Val: 0},
		asm.While{Cond: asm.Reg(asm.A)},
		asm.Dec{Loc: asm.Reg(asm.A)},
		asm.Next{Loc: asm.Reg(asm.B), Delta: 1},
		asm.End{},
	}, NewTestingDevice(""))
	if interp.regs[asm.A] != 0 {
		t.Fatalf("A = %d, want 0", interp.regs[asm.A])
	}
	if interp.regs[asm.B] != 3 {
		t.Fatalf("B = %d, want 3 iterations", interp.regs[asm.B])
	}
}

func TestCallThroughLabel(t *testing.T) {
	interp := run(t, []asm.Op{
		asm.Set{Dst: asm.Reg(asm.A), Val: 0},
		asm.SetLabel{Dst: asm.Reg(asm.C), Label: "double"},
		asm.Call{Target: asm.Reg(asm.C)},
		asm.Fn{Label: "double"},
		asm.Set{Dst: asm.Reg(asm.B), Val: 2},
		asm.Mul{Src: asm.Reg(asm.B), Dst: asm.Reg(asm.A)},
		asm.End{},
	}, NewTestingDevice(""))
	// A starts at 0; the labeled Fn body never runs on its own (skipped
	// over until Call jumps into it), and Call executes it exactly once.
	if interp.regs[asm.A] != 0 {
		t.Fatalf("A = %d, want 0 (0*2)", interp.regs[asm.A])
	}
}

func TestPutThroughTestingDevice(t *testing.T) {
	dev := NewTestingDevice("")
	interp := run(t, []asm.Op{
		asm.Set{Dst: asm.Reg(asm.A), Val: 'h'},
		asm.Put{Src: asm.Reg(asm.A), Out: asm.StdoutChar()},
		asm.Set{Dst: asm.Reg(asm.A), Val: 'i'},
		asm.Put{Src: asm.Reg(asm.A), Out: asm.StdoutChar()},
	}, dev)
	_ = interp
	if got := dev.OutputString(); got != "hi" {
		t.Fatalf("OutputString() = %q, want %q", got, "hi")
	}
}

func TestGetIntFromTestingDevice(t *testing.T) {
	dev := NewTestingDevice("  42")
	interp := run(t, []asm.Op{
		asm.Get{Dst: asm.Reg(asm.A), In: asm.StdinInt()},
	}, dev)
	if interp.regs[asm.A] != 42 {
		t.Fatalf("A = %d, want 42", interp.regs[asm.A])
	}
}

func TestFFICallSquareRoot(t *testing.T) {
	dev := NewStandardDevice()
	if err := dev.Poke(asInt(16.0)); err != nil {
		t.Fatalf("Poke: %v", err)
	}
	if err := dev.FFICall(asm.FFIBinding{Name: "square_root"}, nil); err != nil {
		t.Fatalf("FFICall: %v", err)
	}
	got, err := dev.Peek()
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if asFloat(got) != 4.0 {
		t.Fatalf("sqrt(16) = %v, want 4.0", asFloat(got))
	}
}

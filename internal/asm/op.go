package asm

import "fmt"

// Op is one instruction of the CoreOp instruction set (spec.md §4.5). The
// set is closed: new instructions are not meant to be added by users of the
// package, so Op is a sealed interface rather than an extensible one.
type Op interface {
	fmt.Stringer
	isOp()
}

// FFIBinding names a foreign function the VM's Device resolves by symbol.
// The core treats the symbol as opaque; only the VM (out of scope) gives it
// meaning.
type FFIBinding struct {
	Name        string
	InputCells  int
	OutputCells int
}

func (f FFIBinding) String() string {
	return f.Name
}

// GoString gives FFIBinding a stable, structured debug form, matching the
// original `ffi name(in) -> out` rendering.
func (f FFIBinding) GoString() string {
	return fmt.Sprintf("ffi %s(%d) -> %d", f.Name, f.InputCells, f.OutputCells)
}

type (
	// Set writes a literal integer into a location (a register, typically).
	Set struct {
		Dst Location
		Val int64
	}

	// SetFloat writes a literal float's bit pattern into a location.
	SetFloat struct {
		Dst Location
		Val float64
	}

	// SetLabel writes the instruction index of a Fn label into a location.
	SetLabel struct {
		Dst   Location
		Label string
	}

	// Push copies Size cells starting at Src onto the stack and advances SP.
	Push struct {
		Src  Location
		Size int
	}

	// Pop removes Size cells from the top of the stack. If Dst is non-nil,
	// the single topmost cell is also copied there before popping (used to
	// capture a scalar result, e.g. `Pop(A, size)`).
	Pop struct {
		Dst  *Location
		Size int
	}

	// Move copies a single cell from Src to Dst.
	Move struct {
		Src, Dst Location
	}

	// Copy copies Size contiguous cells from Src to Dst. Source and
	// destination regions may overlap (used by the call-return convention
	// in internal/lir's procedure.go, which copies the return value down over the
	// argument region).
	Copy struct {
		Src, Dst Location
		Size     int
	}

	// GetAddress writes the resolved address of Src into Dst.
	GetAddress struct {
		Src, Dst Location
	}

	// Next advances the pointer stored at Loc by Delta cells. Used by
	// Debug/Display codegen's array-walk loops (internal/debugcodegen).
	Next struct {
		Loc   Location
		Delta int
	}

	// Dec decrements the counter cell at Loc by one.
	Dec struct {
		Loc Location
	}

	// If opens a conditional block, taken when the cell at Cond is nonzero.
	If struct {
		Cond Location
	}

	// Else closes the preceding If's true-branch and opens the false-branch.
	Else struct{}

	// End closes the innermost open block (If/Else, While, or Fn).
	End struct{}

	// While opens a loop that repeats while the cell at Cond is nonzero.
	While struct {
		Cond Location
	}

	// Fn opens a function body under Label, to be closed by a matching End.
	Fn struct {
		Label string
	}

	// Call invokes the function whose label address is stored at Target.
	Call struct {
		Target Location
	}

	// Many groups a sequence of ops emitted as one logical unit, for
	// instrumentation (span-attribution) purposes.
	Many struct {
		Ops []Op
	}

	// Put writes the cell at Src to the given output channel/mode.
	Put struct {
		Src Location
		Out Output
	}

	// Get reads one value from the given input channel/mode into Dst.
	Get struct {
		Dst Location
		In  Input
	}

	// IsEqual writes 1 into Dst if the cells at A and B are equal, else 0.
	IsEqual struct {
		A, B, Dst Location
	}

	// IsLess writes 1 into Dst if the cell at A is less than the cell at B.
	IsLess struct {
		A, B, Dst Location
	}

	// Add/Sub/Mul/Div/Rem perform integer arithmetic in place: Dst += Src etc.
	Add struct{ Src, Dst Location }
	Sub struct{ Src, Dst Location }
	Mul struct{ Src, Dst Location }
	Div struct{ Src, Dst Location }
	Rem struct{ Src, Dst Location }

	// FAdd/FSub/FMul/FDiv perform float arithmetic in place on the bit
	// patterns stored at the given locations.
	FAdd struct{ Src, Dst Location }
	FSub struct{ Src, Dst Location }
	FMul struct{ Src, Dst Location }
	FDiv struct{ Src, Dst Location }

	// BitwiseAnd/Or/Xor/ShiftLeft/ShiftRight perform bitwise ops in place.
	BitwiseAnd   struct{ Src, Dst Location }
	BitwiseOr    struct{ Src, Dst Location }
	BitwiseXor   struct{ Src, Dst Location }
	ShiftLeft    struct{ Src, Dst Location }
	ShiftRight   struct{ Src, Dst Location }
	BitwiseNot   struct{ Dst Location }

	// FFICall dispatches to a registered foreign function through the
	// Device's FFI channel.
	FFICall struct {
		Binding FFIBinding
		Tape    *Location // optional direct tape access granted to the callee
	}
)

func (Set) isOp()          {}
func (SetFloat) isOp()     {}
func (SetLabel) isOp()     {}
func (Push) isOp()         {}
func (Pop) isOp()          {}
func (Move) isOp()         {}
func (Copy) isOp()         {}
func (GetAddress) isOp()   {}
func (Next) isOp()         {}
func (Dec) isOp()          {}
func (If) isOp()           {}
func (Else) isOp()         {}
func (End) isOp()          {}
func (While) isOp()        {}
func (Fn) isOp()           {}
func (Call) isOp()         {}
func (Many) isOp()         {}
func (Put) isOp()          {}
func (Get) isOp()          {}
func (IsEqual) isOp()      {}
func (IsLess) isOp()       {}
func (Add) isOp()          {}
func (Sub) isOp()          {}
func (Mul) isOp()          {}
func (Div) isOp()          {}
func (Rem) isOp()          {}
func (FAdd) isOp()         {}
func (FSub) isOp()         {}
func (FMul) isOp()         {}
func (FDiv) isOp()         {}
func (BitwiseAnd) isOp()   {}
func (BitwiseOr) isOp()    {}
func (BitwiseXor) isOp()   {}
func (ShiftLeft) isOp()    {}
func (ShiftRight) isOp()   {}
func (BitwiseNot) isOp()   {}
func (FFICall) isOp()      {}

func (o Set) String() string        { return fmt.Sprintf("set %s, %d", o.Dst, o.Val) }
func (o SetFloat) String() string   { return fmt.Sprintf("set %s, %g", o.Dst, o.Val) }
func (o SetLabel) String() string   { return fmt.Sprintf("set-label %s, %s", o.Dst, o.Label) }
func (o Push) String() string       { return fmt.Sprintf("push %s, %d", o.Src, o.Size) }
func (o Pop) String() string {
	if o.Dst == nil {
		return fmt.Sprintf("pop none, %d", o.Size)
	}
	return fmt.Sprintf("pop %s, %d", *o.Dst, o.Size)
}
func (o Move) String() string       { return fmt.Sprintf("move %s, %s", o.Src, o.Dst) }
func (o Copy) String() string       { return fmt.Sprintf("copy %s, %s, %d", o.Src, o.Dst, o.Size) }
func (o GetAddress) String() string { return fmt.Sprintf("lea %s, %s", o.Dst, o.Src) }
func (o Next) String() string       { return fmt.Sprintf("next %s, %d", o.Loc, o.Delta) }
func (o Dec) String() string        { return fmt.Sprintf("dec %s", o.Loc) }
func (o If) String() string         { return fmt.Sprintf("if %s", o.Cond) }
func (o Else) String() string       { return "else" }
func (o End) String() string        { return "end" }
func (o While) String() string      { return fmt.Sprintf("while %s", o.Cond) }
func (o Fn) String() string         { return fmt.Sprintf("fn %s", o.Label) }
func (o Call) String() string       { return fmt.Sprintf("call %s", o.Target) }
func (o Many) String() string       { return fmt.Sprintf("many(%d ops)", len(o.Ops)) }
func (o Put) String() string        { return fmt.Sprintf("put %s, %s", o.Src, o.Out) }
func (o Get) String() string        { return fmt.Sprintf("get %s, %s", o.Dst, o.In) }
func (o IsEqual) String() string    { return fmt.Sprintf("is-equal %s, %s, %s", o.A, o.B, o.Dst) }
func (o IsLess) String() string     { return fmt.Sprintf("is-less %s, %s, %s", o.A, o.B, o.Dst) }
func (o Add) String() string        { return fmt.Sprintf("add %s, %s", o.Src, o.Dst) }
func (o Sub) String() string        { return fmt.Sprintf("sub %s, %s", o.Src, o.Dst) }
func (o Mul) String() string        { return fmt.Sprintf("mul %s, %s", o.Src, o.Dst) }
func (o Div) String() string        { return fmt.Sprintf("div %s, %s", o.Src, o.Dst) }
func (o Rem) String() string        { return fmt.Sprintf("rem %s, %s", o.Src, o.Dst) }
func (o FAdd) String() string       { return fmt.Sprintf("fadd %s, %s", o.Src, o.Dst) }
func (o FSub) String() string       { return fmt.Sprintf("fsub %s, %s", o.Src, o.Dst) }
func (o FMul) String() string       { return fmt.Sprintf("fmul %s, %s", o.Src, o.Dst) }
func (o FDiv) String() string       { return fmt.Sprintf("fdiv %s, %s", o.Src, o.Dst) }
func (o BitwiseAnd) String() string { return fmt.Sprintf("and %s, %s", o.Src, o.Dst) }
func (o BitwiseOr) String() string  { return fmt.Sprintf("or %s, %s", o.Src, o.Dst) }
func (o BitwiseXor) String() string { return fmt.Sprintf("xor %s, %s", o.Src, o.Dst) }
func (o ShiftLeft) String() string  { return fmt.Sprintf("shl %s, %s", o.Src, o.Dst) }
func (o ShiftRight) String() string { return fmt.Sprintf("shr %s, %s", o.Src, o.Dst) }
func (o BitwiseNot) String() string { return fmt.Sprintf("not %s", o.Dst) }
func (o FFICall) String() string    { return fmt.Sprintf("ffi-call %s", o.Binding) }

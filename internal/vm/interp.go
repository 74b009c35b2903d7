package vm

import (
	"fmt"

	"github.com/lir-lang/lir/internal/asm"
)

const tapeExtensionSize = 100000

// Interpreter executes an *asm.Sink's op stream against a growable tape,
// using Device for every Get/Put/FFICall. It is the "standard variant"
// reference machine of spec.md §6: five scalar registers (A, B, C, SP, FP)
// plus an address space of cells, with If/Else/End/While/Fn/Call resolved
// by a block-matching pass over the instruction stream. SP/FP are
// maintained to point AT the topmost occupied cell of their respective
// region (not one past it), matching the addressing convention the
// compiler's own op emission already assumes (`internal/lir/compile.go`'s
// `SP.Deref()` for "the value on top of stack", `SP.Deref().Offset(-1)`
// for the value just below it). There is no original_source counterpart
// to transcribe here — `vm/interpreter/core.rs` was not part of the
// retrieved original_source slice, only `mod.rs`'s Device trait was — so
// the execution loop itself follows directly from internal/asm's own
// documented op semantics instead.
type Interpreter struct {
	ops    []asm.Op
	device Device

	tape []int64
	regs [5]int64 // indexed by asm.Register

	blockEnd map[int]int // If/While/Fn start -> matching End index
	elseOf   map[int]int // If start -> Else index, when present
	labels   map[string]int
}

// New builds an Interpreter over program, ready to Run against device.
func New(program *asm.Sink, device Device) (*Interpreter, error) {
	vm := &Interpreter{
		ops:      program.Ops,
		device:   device,
		tape:     make([]int64, tapeExtensionSize),
		blockEnd: map[int]int{},
		elseOf:   map[int]int{},
		labels:   map[string]int{},
	}
	if err := vm.matchBlocks(); err != nil {
		return nil, err
	}
	return vm, nil
}

func (vm *Interpreter) matchBlocks() error {
	var stack []int
	for i, op := range vm.ops {
		switch o := op.(type) {
		case asm.If, asm.While, asm.Fn:
			if f, ok := o.(asm.Fn); ok {
				vm.labels[f.Label] = i
			}
			stack = append(stack, i)
		case asm.Else:
			if len(stack) == 0 {
				return fmt.Errorf("vm: unmatched else at %d", i)
			}
			start := stack[len(stack)-1]
			if _, ok := vm.ops[start].(asm.If); !ok {
				return fmt.Errorf("vm: else without if at %d", i)
			}
			vm.elseOf[start] = i
		case asm.End:
			if len(stack) == 0 {
				return fmt.Errorf("vm: unmatched end at %d", i)
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			vm.blockEnd[start] = i
		}
	}
	if len(stack) != 0 {
		return fmt.Errorf("vm: %d unclosed block(s)", len(stack))
	}
	return nil
}

// Run executes the whole program from the first instruction.
func (vm *Interpreter) Run() error {
	_, err := vm.run(0, len(vm.ops))
	return err
}

// run executes ops in [start, end), which must be a well-nested region
// (block matching guarantees this for every region run() is ever called
// with: the whole program, an If branch, a While body, or a Fn body).
func (vm *Interpreter) run(start, end int) (int, error) {
	i := start
	for i < end {
		op := vm.ops[i]
		switch o := op.(type) {
		case asm.If:
			blockEnd := vm.blockEnd[i]
			elseStart, hasElse := vm.elseOf[i]
			if vm.load(o.Cond) != 0 {
				thenEnd := blockEnd
				if hasElse {
					thenEnd = elseStart
				}
				if _, err := vm.run(i+1, thenEnd); err != nil {
					return i, err
				}
			} else if hasElse {
				if _, err := vm.run(elseStart+1, blockEnd); err != nil {
					return i, err
				}
			}
			i = blockEnd
		case asm.While:
			blockEnd := vm.blockEnd[i]
			for vm.load(o.Cond) != 0 {
				if _, err := vm.run(i+1, blockEnd); err != nil {
					return i, err
				}
			}
			i = blockEnd
		case asm.Fn:
			// Fn bodies execute only via Call; skip over the whole block.
			i = vm.blockEnd[i]
		case asm.Call:
			target := int(vm.load(o.Target))
			fnEnd, ok := vm.blockEnd[target]
			if !ok {
				return i, fmt.Errorf("vm: call target %d is not a function start", target)
			}
			if _, err := vm.run(target+1, fnEnd); err != nil {
				return i, err
			}
		case asm.Many:
			for _, sub := range o.Ops {
				if err := vm.execSimple(sub); err != nil {
					return i, err
				}
			}
		default:
			if err := vm.execSimple(op); err != nil {
				return i, err
			}
		}
		i++
	}
	return i, nil
}

// execSimple executes every op with no block-matching needs (everything
// except If/Else/End/While/Fn/Call, which run() handles directly since
// they consult the block tables). Else/End are unreachable here: run()
// never iterates past an If/While's own body without having already
// jumped to blockEnd.
func (vm *Interpreter) execSimple(op asm.Op) error {
	switch o := op.(type) {
	case asm.Set:
		vm.store(o.Dst, o.Val)
	case asm.SetFloat:
		vm.store(o.Dst, asInt(o.Val))
	case asm.SetLabel:
		fnStart, ok := vm.labels[o.Label]
		if !ok {
			return fmt.Errorf("vm: undefined label %q", o.Label)
		}
		vm.store(o.Dst, int64(fnStart))
	case asm.Push:
		srcAddr := vm.resolveAddress(o.Src)
		top := int(vm.regs[asm.SP])
		for k := 0; k < o.Size; k++ {
			vm.setCell(top+1+k, vm.cell(srcAddr+k))
		}
		vm.regs[asm.SP] += int64(o.Size)
	case asm.Pop:
		if o.Dst != nil {
			vm.store(*o.Dst, vm.cell(int(vm.regs[asm.SP])))
		}
		vm.regs[asm.SP] -= int64(o.Size)
	case asm.Move:
		vm.store(o.Dst, vm.load(o.Src))
	case asm.Copy:
		srcAddr, dstAddr := vm.resolveAddress(o.Src), vm.resolveAddress(o.Dst)
		if dstAddr <= srcAddr {
			for k := 0; k < o.Size; k++ {
				vm.setCell(dstAddr+k, vm.cell(srcAddr+k))
			}
		} else {
			for k := o.Size - 1; k >= 0; k-- {
				vm.setCell(dstAddr+k, vm.cell(srcAddr+k))
			}
		}
	case asm.GetAddress:
		vm.store(o.Dst, int64(vm.resolveAddress(o.Src)))
	case asm.Next:
		vm.store(o.Loc, vm.load(o.Loc)+int64(o.Delta))
	case asm.Dec:
		vm.store(o.Loc, vm.load(o.Loc)-1)
	case asm.Put:
		return vm.device.Put(vm.load(o.Src), o.Out)
	case asm.Get:
		v, err := vm.device.Get(o.In)
		if err != nil {
			return err
		}
		vm.store(o.Dst, v)
	case asm.IsEqual:
		vm.store(o.Dst, boolCell(vm.load(o.A) == vm.load(o.B)))
	case asm.IsLess:
		vm.store(o.Dst, boolCell(vm.load(o.A) < vm.load(o.B)))
	case asm.Add:
		vm.store(o.Dst, vm.load(o.Dst)+vm.load(o.Src))
	case asm.Sub:
		vm.store(o.Dst, vm.load(o.Dst)-vm.load(o.Src))
	case asm.Mul:
		vm.store(o.Dst, vm.load(o.Dst)*vm.load(o.Src))
	case asm.Div:
		vm.store(o.Dst, vm.load(o.Dst)/vm.load(o.Src))
	case asm.Rem:
		vm.store(o.Dst, vm.load(o.Dst)%vm.load(o.Src))
	case asm.FAdd:
		vm.store(o.Dst, asInt(asFloat(vm.load(o.Dst))+asFloat(vm.load(o.Src))))
	case asm.FSub:
		vm.store(o.Dst, asInt(asFloat(vm.load(o.Dst))-asFloat(vm.load(o.Src))))
	case asm.FMul:
		vm.store(o.Dst, asInt(asFloat(vm.load(o.Dst))*asFloat(vm.load(o.Src))))
	case asm.FDiv:
		vm.store(o.Dst, asInt(asFloat(vm.load(o.Dst))/asFloat(vm.load(o.Src))))
	case asm.BitwiseAnd:
		vm.store(o.Dst, vm.load(o.Dst)&vm.load(o.Src))
	case asm.BitwiseOr:
		vm.store(o.Dst, vm.load(o.Dst)|vm.load(o.Src))
	case asm.BitwiseXor:
		vm.store(o.Dst, vm.load(o.Dst)^vm.load(o.Src))
	case asm.ShiftLeft:
		vm.store(o.Dst, vm.load(o.Dst)<<uint(vm.load(o.Src)))
	case asm.ShiftRight:
		vm.store(o.Dst, vm.load(o.Dst)>>uint(vm.load(o.Src)))
	case asm.BitwiseNot:
		vm.store(o.Dst, ^vm.load(o.Dst))
	case asm.FFICall:
		var tapeView []int64
		if o.Tape != nil {
			tapeView = vm.tape
		}
		return vm.device.FFICall(o.Binding, tapeView)
	default:
		return fmt.Errorf("vm: unhandled op %T", op)
	}
	return nil
}

func boolCell(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (vm *Interpreter) cell(addr int) int64 {
	vm.ensureCapacity(addr)
	return vm.tape[addr]
}

func (vm *Interpreter) setCell(addr int, v int64) {
	vm.ensureCapacity(addr)
	vm.tape[addr] = v
}

func (vm *Interpreter) ensureCapacity(addr int) {
	if addr < len(vm.tape) {
		return
	}
	grown := make([]int64, addr+tapeExtensionSize)
	copy(grown, vm.tape)
	vm.tape = grown
}

// resolveAddress computes the tape address a Location denotes, for the
// ops (Push/Copy/GetAddress) that want an address rather than the value
// stored at one. A register base's numeric value already IS a tape
// address by convention (SP/FP are maintained as such); the first Deref
// applied directly to a register base therefore only promotes the chain
// into "address space" and consumes no read, while every subsequent
// Deref (chasing an actual stored pointer, or any Deref off a literal
// Addr base, which starts in address space already) performs one.
func (vm *Interpreter) resolveAddress(loc asm.Location) int {
	var addr int
	fromRegister := false
	if lit, ok := loc.LiteralAddr(); ok {
		addr = lit
	} else {
		addr = int(vm.regs[loc.Register()])
		fromRegister = true
	}
	freeDerefAvailable := fromRegister
	for _, link := range loc.Links() {
		switch link.Kind {
		case asm.LinkOffset:
			addr += link.N
		case asm.LinkDeref:
			if freeDerefAvailable {
				freeDerefAvailable = false
				continue
			}
			addr = int(vm.cell(addr))
		}
	}
	return addr
}

// load reads the value a Location currently names: the register itself
// when the location is bare, else the tape cell its address resolves to.
func (vm *Interpreter) load(loc asm.Location) int64 {
	if loc.IsRegister() {
		return vm.regs[loc.Register()]
	}
	return vm.cell(vm.resolveAddress(loc))
}

// store writes val to wherever a Location names, register or tape cell.
func (vm *Interpreter) store(loc asm.Location, val int64) {
	if loc.IsRegister() {
		vm.regs[loc.Register()] = val
		return
	}
	vm.setCell(vm.resolveAddress(loc), val)
}

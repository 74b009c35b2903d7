// Package vm is the reference tape-memory interpreter for internal/asm's
// CoreOp instruction set (spec.md §6). It exists only to give
// internal/debugcodegen and internal/lir's compiler something to execute
// against in tests — it is not a production interpreter, has no real
// file-system or process FFI dispatch beyond an in-memory registry, and
// applies no optimization, matching SPEC_FULL.md §E's explicit scoping of
// this package.
//
// Grounded on `vm/interpreter/mod.rs`'s Device trait and its two
// implementations, TestingDevice and StandardDevice.
package vm

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/lir-lang/lir/internal/asm"
	"github.com/lir-lang/lir/internal/diag"
)

var trace = diag.FromEnv("vm")

// Device is the interpreter's side-effect boundary: every Get/Put/FFICall
// op in a program dispatches through one of these methods, exactly as
// `vm/interpreter/mod.rs`'s `Device` trait does for the Rust interpreter.
type Device interface {
	Get(in asm.Input) (int64, error)
	Put(val int64, out asm.Output) error

	// Peek/Poke move values through the FFI channel ahead of an FFICall,
	// the same queue-based protocol the original uses so FFI bindings can
	// be plain functions over a channel rather than over the whole tape.
	Peek() (int64, error)
	Poke(val int64) error

	// FFICall dispatches to whatever the binding's symbol names. tape is
	// provided so a binding may be granted direct tape access, matching
	// the original's `Option<&mut Vec<i64>>` parameter.
	FFICall(binding asm.FFIBinding, tape []int64) error
}

func asInt(f float64) int64    { return int64(math.Float64bits(f)) }
func asFloat(bits int64) float64 { return math.Float64frombits(uint64(bits)) }

// TestingDevice buffers sample input and records every Put call, matching
// `TestingDevice` in the original: tests feed it canned stdin and assert
// against its recorded output rather than a real terminal.
type TestingDevice struct {
	ffi     map[string]func(channel *[]int64, tape []int64)
	ffiChan []int64
	input   []int64
	output  []struct {
		val int64
		out asm.Output
	}
}

// NewTestingDevice builds a TestingDevice whose stdin is the characters of
// sample (mirroring the original's `TestingDevice::new`).
func NewTestingDevice(sample string) *TestingDevice {
	d := &TestingDevice{ffi: map[string]func(channel *[]int64, tape []int64){}}
	for _, r := range sample {
		d.input = append(d.input, int64(r))
	}
	return d
}

// NewTestingDeviceRaw builds a TestingDevice with an exact integer input
// queue rather than a character stream (`TestingDevice::new_raw`).
func NewTestingDeviceRaw(input []int64) *TestingDevice {
	d := &TestingDevice{ffi: map[string]func(channel *[]int64, tape []int64){}}
	d.input = append(d.input, input...)
	return d
}

// AddBinding registers an FFI function under name, visible to FFICall.
func (d *TestingDevice) AddBinding(name string, f func(channel *[]int64, tape []int64)) {
	d.ffi[name] = f
}

func (d *TestingDevice) putChar(ch rune) error {
	d.output = append(d.output, struct {
		val int64
		out asm.Output
	}{int64(ch), asm.StdoutChar()})
	return nil
}

func (d *TestingDevice) putInt(val int64) error {
	for _, ch := range fmt.Sprintf("%d", val) {
		if err := d.putChar(ch); err != nil {
			return err
		}
	}
	return nil
}

func (d *TestingDevice) putFloat(val float64) error {
	for _, ch := range fmt.Sprintf("%v", val) {
		if err := d.putChar(ch); err != nil {
			return err
		}
	}
	return nil
}

func (d *TestingDevice) getChar() (int64, error) {
	return d.Get(asm.StdinChar())
}

func (d *TestingDevice) getInt() (int64, error) {
	for len(d.input) > 0 && isSpaceCell(d.input[0]) {
		if _, err := d.getChar(); err != nil {
			return 0, err
		}
	}
	var result int64
	for len(d.input) > 0 {
		n := d.input[0]
		if n < '0' || n > '9' {
			break
		}
		result = result*10 + (n - '0')
		d.input = d.input[1:]
	}
	trace.Debug("got integer input: %d", result)
	return result, nil
}

func (d *TestingDevice) getFloat() (float64, error) {
	whole, err := d.getInt()
	if err != nil {
		return 0, err
	}
	if len(d.input) == 0 || d.input[0] != '.' {
		return float64(whole), nil
	}
	if _, err := d.getChar(); err != nil {
		return 0, err
	}
	frac, err := d.getInt()
	if err != nil {
		return 0, err
	}
	if frac == 0 {
		return float64(whole), nil
	}
	digits := int(math.Log10(float64(frac))) + 1
	return float64(whole) + float64(frac)/math.Pow(10, float64(digits)), nil
}

func isSpaceCell(c int64) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (d *TestingDevice) Get(in asm.Input) (int64, error) {
	switch in.Mode {
	case asm.ModeChar:
		if len(d.input) == 0 {
			return 0, fmt.Errorf("vm: input is empty")
		}
		v := d.input[0]
		d.input = d.input[1:]
		return v, nil
	case asm.ModeInt:
		return d.getInt()
	case asm.ModeFloat:
		f, err := d.getFloat()
		if err != nil {
			return 0, err
		}
		return asInt(f), nil
	default:
		return 0, nil
	}
}

func (d *TestingDevice) Put(val int64, out asm.Output) error {
	switch out.Mode {
	case asm.ModeChar:
		return d.putChar(rune(val))
	case asm.ModeInt:
		return d.putInt(val)
	case asm.ModeFloat:
		return d.putFloat(asFloat(val))
	default:
		return nil
	}
}

func (d *TestingDevice) Peek() (int64, error) {
	if len(d.ffiChan) == 0 {
		return 0, fmt.Errorf("vm: ffi channel is empty")
	}
	v := d.ffiChan[0]
	d.ffiChan = d.ffiChan[1:]
	return v, nil
}

func (d *TestingDevice) Poke(val int64) error {
	d.ffiChan = append(d.ffiChan, val)
	return nil
}

func (d *TestingDevice) FFICall(binding asm.FFIBinding, tape []int64) error {
	f, ok := d.ffi[binding.Name]
	if !ok {
		return fmt.Errorf("vm: ffi call not found: %s", binding.Name)
	}
	trace.Debug("calling ffi: %s", binding.Name)
	f(&d.ffiChan, tape)
	return nil
}

// OutputString renders every recorded stdout-char Put as a string
// (`TestingDevice::output_str`).
func (d *TestingDevice) OutputString() string {
	var b strings.Builder
	for _, o := range d.output {
		b.WriteByte(byte(o.val))
	}
	return b.String()
}

// OutputValues returns the raw cell value of every recorded Put
// (`TestingDevice::output_vals`).
func (d *TestingDevice) OutputValues() []int64 {
	out := make([]int64, len(d.output))
	for i, o := range d.output {
		out[i] = o.val
	}
	return out
}

// StandardDevice reads stdin and writes stdout/stderr for real, and ships
// the same two built-in FFI bindings the original's `StandardDevice`
// default-constructs (`square_root`, `add`).
type StandardDevice struct {
	ffi    map[string]func(channel *[]int64, tape []int64)
	ffiCh  []int64
	reader *bufio.Reader
}

// NewStandardDevice builds a StandardDevice wired to os.Stdin/os.Stdout/os.Stderr.
func NewStandardDevice() *StandardDevice {
	d := &StandardDevice{
		ffi:    map[string]func(channel *[]int64, tape []int64){},
		reader: bufio.NewReader(os.Stdin),
	}
	d.AddBinding("square_root", func(channel *[]int64, _ []int64) {
		val := asFloat(pop(channel))
		*channel = append(*channel, asInt(math.Sqrt(val)))
	})
	d.AddBinding("add", func(channel *[]int64, _ []int64) {
		a := asFloat(pop(channel))
		b := asFloat(pop(channel))
		*channel = append(*channel, asInt(a+b))
	})
	return d
}

func pop(channel *[]int64) int64 {
	v := (*channel)[0]
	*channel = (*channel)[1:]
	return v
}

func (d *StandardDevice) AddBinding(name string, f func(channel *[]int64, tape []int64)) {
	d.ffi[name] = f
}

func (d *StandardDevice) Get(in asm.Input) (int64, error) {
	switch in.Mode {
	case asm.ModeChar:
		b, err := d.reader.ReadByte()
		if err != nil {
			return 0, err
		}
		return int64(b), nil
	case asm.ModeInt:
		var n int64
		if _, err := fmt.Fscan(d.reader, &n); err != nil {
			trace.Error("EOF while parsing integer")
			return 0, nil
		}
		return n, nil
	case asm.ModeFloat:
		var f float64
		if _, err := fmt.Fscan(d.reader, &f); err != nil {
			trace.Error("could not parse float, defaulting to 0.0")
			return 0, nil
		}
		return asInt(f), nil
	default:
		return 0, nil
	}
}

func (d *StandardDevice) Put(val int64, out asm.Output) error {
	var w *os.File
	switch out.Dest {
	case asm.Stderr:
		w = os.Stderr
	default:
		w = os.Stdout
	}
	switch out.Mode {
	case asm.ModeChar:
		fmt.Fprintf(w, "%c", rune(val))
	case asm.ModeInt:
		fmt.Fprintf(w, "%d", val)
	case asm.ModeFloat:
		fmt.Fprintf(w, "%v", asFloat(val))
	}
	return nil
}

func (d *StandardDevice) Peek() (int64, error) {
	if len(d.ffiCh) == 0 {
		return 0, fmt.Errorf("vm: ffi channel is empty")
	}
	v := d.ffiCh[0]
	d.ffiCh = d.ffiCh[1:]
	return v, nil
}

func (d *StandardDevice) Poke(val int64) error {
	d.ffiCh = append(d.ffiCh, val)
	return nil
}

func (d *StandardDevice) FFICall(binding asm.FFIBinding, tape []int64) error {
	f, ok := d.ffi[binding.Name]
	if !ok {
		return fmt.Errorf("vm: ffi call not found: %s", binding.Name)
	}
	f(&d.ffiCh, tape)
	return nil
}

package asm

// Channel names a stream the VM's Device can read from or write to.
type Channel int

const (
	Stdin Channel = iota
	Stdout
	Stderr
)

func (c Channel) String() string {
	switch c {
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "channel(?)"
	}
}

// CellMode says how a raw cell value should be interpreted when it crosses
// the Device boundary: as an integer, a float bit-pattern, or a character
// code point.
type CellMode int

const (
	ModeInt CellMode = iota
	ModeFloat
	ModeChar
)

func (m CellMode) String() string {
	switch m {
	case ModeInt:
		return "int"
	case ModeFloat:
		return "float"
	case ModeChar:
		return "char"
	default:
		return "mode(?)"
	}
}

// Input identifies where a Get op reads from.
type Input struct {
	Source Channel
	Mode   CellMode
}

func StdinInt() Input   { return Input{Stdin, ModeInt} }
func StdinFloat() Input { return Input{Stdin, ModeFloat} }
func StdinChar() Input  { return Input{Stdin, ModeChar} }

// Output identifies where a Put op writes to.
type Output struct {
	Dest Channel
	Mode CellMode
}

func StdoutInt() Output   { return Output{Stdout, ModeInt} }
func StdoutFloat() Output { return Output{Stdout, ModeFloat} }
func StdoutChar() Output  { return Output{Stdout, ModeChar} }
func StderrInt() Output   { return Output{Stderr, ModeInt} }
func StderrFloat() Output { return Output{Stderr, ModeFloat} }
func StderrChar() Output  { return Output{Stderr, ModeChar} }

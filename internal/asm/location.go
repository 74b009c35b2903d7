// Package asm defines the stack-machine assembly language the LIR compiler
// targets: registers, addressing, the CoreOp instruction set, and the
// AssemblyProgram sink contract that the compiler writes into.
package asm

import "fmt"

// Register names a scalar slot the VM keeps outside the tape.
type Register int

const (
	A Register = iota
	B
	C
	SP
	FP
)

func (r Register) String() string {
	switch r {
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	case SP:
		return "SP"
	case FP:
		return "FP"
	default:
		return fmt.Sprintf("reg(%d)", int(r))
	}
}

// Location is an addressing expression: a register or tape address, with a
// chain of Offset/Deref operations applied to it. This mirrors the way the
// LIR compiler builds addresses like `FP.deref().offset(1 - args_size)`
// (see internal/lir's procedure.go): the base is resolved first, then each link in
// the chain is applied in order.
type Location struct {
	base  Register
	addr  *int // set when the base is a literal tape address rather than a register
	links []link
}

type linkKind int

const (
	linkOffset linkKind = iota
	linkDeref
)

type link struct {
	kind linkKind
	n    int
}

// Reg builds a bare register location.
func Reg(r Register) Location { return Location{base: r} }

// Addr builds a bare literal tape-address location.
func Addr(n int) Location {
	a := n
	return Location{addr: &a}
}

// Offset returns a new location that adds n cells to the address this
// location currently resolves to.
func (l Location) Offset(n int) Location {
	if n == 0 {
		return l
	}
	out := l.clone()
	if len(out.links) > 0 && out.links[len(out.links)-1].kind == linkOffset {
		out.links[len(out.links)-1].n += n
		return out
	}
	out.links = append(out.links, link{kind: linkOffset, n: n})
	return out
}

// Deref returns a new location that treats the current address's contents
// as a pointer and follows it.
func (l Location) Deref() Location {
	out := l.clone()
	out.links = append(out.links, link{kind: linkDeref})
	return out
}

func (l Location) clone() Location {
	out := l
	out.links = append([]link(nil), l.links...)
	if l.addr != nil {
		a := *l.addr
		out.addr = &a
	}
	return out
}

// IsRegister reports whether this location resolves directly to a register
// with no pending offsets or derefs (the common case for op operands like
// `Set(A, 5)`).
func (l Location) IsRegister() bool {
	return l.addr == nil && len(l.links) == 0
}

// Register returns the base register. Valid only when IsRegister is true.
func (l Location) Register() Register { return l.base }

func (l Location) String() string {
	var s string
	if l.addr != nil {
		s = fmt.Sprintf("[%d]", *l.addr)
	} else {
		s = l.base.String()
	}
	for _, lk := range l.links {
		switch lk.kind {
		case linkOffset:
			if lk.n >= 0 {
				s = fmt.Sprintf("%s+%d", s, lk.n)
			} else {
				s = fmt.Sprintf("%s%d", s, lk.n)
			}
		case linkDeref:
			s = fmt.Sprintf("*(%s)", s)
		}
	}
	return s
}

// Equal reports structural equality of two locations (it compares their
// rendered String forms); the package's tests use it.
func (l Location) Equal(o Location) bool {
	return l.String() == o.String()
}

// LinkKind distinguishes the two steps a Location's addressing chain can
// take after resolving its base.
type LinkKind int

const (
	LinkOffset LinkKind = iota
	LinkDeref
)

// Link is one step of a Location's chain, exposed read-only so
// internal/vm can resolve an address to an actual tape cell without this
// package needing to know anything about tapes or registers itself.
type Link struct {
	Kind LinkKind
	N    int // meaningful only when Kind == LinkOffset
}

// LiteralAddr reports whether this location is rooted at a literal tape
// address (built with Addr) rather than a register, returning that address
// when it is.
func (l Location) LiteralAddr() (addr int, ok bool) {
	if l.addr == nil {
		return 0, false
	}
	return *l.addr, true
}

// Links returns the ordered chain of Offset/Deref steps applied after the
// base (register or literal address) resolves.
func (l Location) Links() []Link {
	out := make([]Link, len(l.links))
	for i, lk := range l.links {
		kind := LinkOffset
		if lk.kind == linkDeref {
			kind = LinkDeref
		}
		out[i] = Link{Kind: kind, N: lk.n}
	}
	return out
}

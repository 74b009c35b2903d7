package lir

// Mutability tags a pointer or binding as allowing writes through it or not.
// `&mut T` decays to `&T` (spec.md §4.1 CanDecayTo) but never the reverse.
type Mutability int

const (
	Immutable Mutability = iota
	Mutable
)

func (m Mutability) IsMutable() bool { return m == Mutable }

func (m Mutability) String() string {
	if m == Mutable {
		return "mut"
	}
	return "const"
}

// CanDecayTo reports whether a value of mutability m may be used where
// `target` is required: Mutable may stand in for Immutable, never the
// reverse.
func (m Mutability) CanDecayTo(target Mutability) bool {
	if m == target {
		return true
	}
	return m == Mutable && target == Immutable
}

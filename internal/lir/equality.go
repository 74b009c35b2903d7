package lir

import "github.com/lir-lang/lir/internal/errs"

const maxEqualityDepth = 1000

// visitedPairs tracks (T, T') comparisons already in progress, so that
// recursive types (expressed via `Let`) terminate: when a pair is revisited,
// equality is assumed to hold coinductively (spec.md §4.1, §9).
type visitedPairs map[[2]string]bool

func pairKey(a, b Type) [2]string {
	return [2]string{a.String(), b.String()}
}

// Equals is structural equality modulo simplification (spec.md §4.1): it
// ignores names bound by Let/Poly but preserves field/variant order, and
// treats Unit as nominal (two Units are equal iff their names match too).
func (t Type) Equals(other Type, env *Env) (bool, error) {
	return t.equalsVisited(other, env, visitedPairs{}, 0)
}

func (t Type) equalsVisited(other Type, env *Env, visited visitedPairs, depth int) (bool, error) {
	if depth > maxEqualityDepth {
		return false, errs.New(errs.RecursionDepthTypeEquality, errs.WithType(t), errs.WithType2(other))
	}
	key := pairKey(t, other)
	if visited[key] {
		return true, nil
	}
	visited[key] = true

	a, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	b, err := other.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}

	if a.Kind != b.Kind {
		// Never decays into equality with anything except itself; all other
		// kind mismatches are a hard inequality.
		return false, nil
	}

	switch a.Kind {
	case KindNone, KindNever, KindAny, KindCell, KindInt, KindFloat, KindBool, KindChar, KindEnum:
		if a.Kind == KindEnum {
			return stringSlicesEqual(a.Variants, b.Variants), nil
		}
		return true, nil
	case KindPointer:
		if a.PtrMut != b.PtrMut {
			return false, nil
		}
		return a.Elem.equalsVisited(*b.Elem, env, visited, depth+1)
	case KindArray:
		aLen, err := a.Len.AsInt(env)
		if err != nil {
			return false, err
		}
		bLen, err := b.Len.AsInt(env)
		if err != nil {
			return false, err
		}
		if aLen != bLen {
			return false, nil
		}
		return a.Elem.equalsVisited(*b.Elem, env, visited, depth+1)
	case KindTuple:
		if len(a.Elems) != len(b.Elems) {
			return false, nil
		}
		for i := range a.Elems {
			ok, err := a.Elems[i].equalsVisited(b.Elems[i], env, visited, depth+1)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	case KindStruct, KindUnion, KindEnumUnion:
		if len(a.Fields) != len(b.Fields) {
			return false, nil
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false, nil
			}
			ok, err := a.Fields[i].Type.equalsVisited(b.Fields[i].Type, env, visited, depth+1)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	case KindProc:
		if len(a.Args) != len(b.Args) {
			return false, nil
		}
		for i := range a.Args {
			ok, err := a.Args[i].equalsVisited(b.Args[i], env, visited, depth+1)
			if err != nil || !ok {
				return ok, err
			}
		}
		return a.Ret.equalsVisited(*b.Ret, env, visited, depth+1)
	case KindUnit:
		if a.Name != b.Name {
			return false, nil
		}
		return a.Elem.equalsVisited(*b.Elem, env, visited, depth+1)
	case KindConstParam:
		return a.Name == b.Name, nil
	default:
		// Symbol/Let/Apply/Poly should have been eliminated by
		// SimplifyUntilConcrete; if one remains, the only way they can be
		// equal is to a bound variable of the same name (e.g. inside a
		// Poly body where the parameter stands for an abstract type).
		if a.Kind == KindSymbol && b.Kind == KindSymbol {
			return a.Name == b.Name, nil
		}
		return false, nil
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CanDecayTo is equality with the implicit decays spec.md §4.1 names:
// Array(T,n) -> Pointer(immutable, T), &mut T -> &T, Never -> anything.
func (t Type) CanDecayTo(target Type, env *Env) (bool, error) {
	a, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	b, err := target.SimplifyUntilConcrete(env)
	if err != nil {
		return false, err
	}
	if a.Kind == KindNever {
		return true, nil
	}
	if ok, err := a.Equals(b, env); err != nil {
		return false, err
	} else if ok {
		return true, nil
	}
	if a.Kind == KindArray && b.Kind == KindPointer {
		ok, err := a.Elem.Equals(*b.Elem, env)
		return ok, err
	}
	if a.Kind == KindPointer && b.Kind == KindPointer {
		if !a.PtrMut.CanDecayTo(b.PtrMut) {
			return false, nil
		}
		return a.Elem.Equals(*b.Elem, env)
	}
	return false, nil
}

package lir

import "github.com/lir-lang/lir/internal/errs"

const maxSizeDepth = 500

// GetSize returns a type's size in cells after full simplification
// (spec.md §4.1, invariant (i)): every non-Never type has a defined size.
func (t Type) GetSize(env *Env) (int, error) {
	return t.getSizeDepth(env, 0)
}

func (t Type) getSizeDepth(env *Env, depth int) (int, error) {
	if depth > maxSizeDepth {
		return 0, errs.New(errs.RecursionDepthTypeEquality, errs.WithType(t), errs.WithType2(t))
	}
	concrete, err := t.simplifyUntilConcreteDepth(env, depth+1)
	if err != nil {
		return 0, err
	}
	switch concrete.Kind {
	case KindNone:
		return 0, nil
	case KindNever:
		return 0, nil
	case KindAny, KindCell, KindInt, KindFloat, KindBool, KindChar:
		return 1, nil
	case KindPointer:
		return 1, nil
	case KindProc:
		return 1, nil
	case KindEnum:
		return 1, nil
	case KindArray:
		n, err := concrete.Len.AsInt(env)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, errs.New(errs.UnsizedType, errs.WithType(concrete))
		}
		elemSize, err := concrete.Elem.getSizeDepth(env, depth+1)
		if err != nil {
			return 0, err
		}
		return elemSize * int(n), nil
	case KindTuple:
		total := 0
		for _, e := range concrete.Elems {
			s, err := e.getSizeDepth(env, depth+1)
			if err != nil {
				return 0, err
			}
			total += s
		}
		return total, nil
	case KindStruct, KindUnion:
		total := 0
		if concrete.Kind == KindUnion {
			max := 0
			for _, f := range concrete.Fields {
				s, err := f.Type.getSizeDepth(env, depth+1)
				if err != nil {
					return 0, err
				}
				if s > max {
					max = s
				}
			}
			return max, nil
		}
		for _, f := range concrete.Fields {
			s, err := f.Type.getSizeDepth(env, depth+1)
			if err != nil {
				return 0, err
			}
			total += s
		}
		return total, nil
	case KindEnumUnion:
		max := 0
		for _, f := range concrete.Fields {
			s, err := f.Type.getSizeDepth(env, depth+1)
			if err != nil {
				return 0, err
			}
			if s > max {
				max = s
			}
		}
		return max + 1, nil // +1 for the tag cell
	case KindUnit:
		return concrete.Elem.getSizeDepth(env, depth+1)
	case KindConstParam:
		return 1, nil
	default:
		return 0, errs.New(errs.UnsizedType, errs.WithType(t))
	}
}

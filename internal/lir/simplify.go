package lir

import "github.com/lir-lang/lir/internal/errs"

const maxSimplifyDepth = 500

// Simplify performs one pass of outermost reduction: Apply beta-reduces its
// head, Symbol resolves through the environment, and Let substitutes its
// bound name away (spec.md §4.1).
func (t Type) Simplify(env *Env) (Type, error) {
	switch t.Kind {
	case KindApply:
		head, err := t.Head.Simplify(env)
		if err != nil {
			return Type{}, err
		}
		if head.Kind != KindPoly {
			// Already simplified to something non-poly; nothing more to beta-reduce.
			out := t
			out.Head = &head
			return out, nil
		}
		if len(head.Params) != len(t.TyArgs) {
			return Type{}, errs.New(errs.InvalidTemplateArgs, errs.WithType(t))
		}
		body := *head.Body
		for i, p := range head.Params {
			body = body.Substitute(p.Name, t.TyArgs[i])
		}
		return body, nil
	case KindSymbol:
		if bound, ok := env.GetType(t.Name); ok {
			return bound, nil
		}
		return t, nil
	case KindLet:
		return t.Body.Substitute(t.Name, *t.Bound), nil
	default:
		return t, nil
	}
}

// SimplifyUntilConcrete repeatedly applies Simplify until the head
// constructor is primitive/compound/callable or a bound variable
// (spec.md §4.1).
func (t Type) SimplifyUntilConcrete(env *Env) (Type, error) {
	return t.simplifyUntilConcreteDepth(env, 0)
}

func (t Type) simplifyUntilConcreteDepth(env *Env, depth int) (Type, error) {
	cur := t
	for i := 0; i < maxSimplifyDepth; i++ {
		if cur.IsConcreteHead() {
			return cur, nil
		}
		next, err := cur.Simplify(env)
		if err != nil {
			return Type{}, err
		}
		if next.String() == cur.String() {
			return next, nil
		}
		cur = next
	}
	return Type{}, errs.New(errs.CouldntSimplify, errs.WithType(t), errs.WithType2(cur))
}

// SimplifyUntilHasVariants simplifies until the head exposes variants.
// strict=true requires an EnumUnion (a payload-carrying tagged union);
// strict=false also accepts a bare Enum (payload-less tag only — a tag can
// be read off either shape) (spec.md §4.1). The Tag and Data operators'
// `can_apply` checks both pass strict=false.
func (t Type) SimplifyUntilHasVariants(env *Env, strict bool) (Type, error) {
	concrete, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return Type{}, err
	}
	switch concrete.Kind {
	case KindEnumUnion:
		return concrete, nil
	case KindEnum:
		if strict {
			return Type{}, errs.New(errs.MismatchedTypes,
				errs.WithExpected(EnumUnion(nil)), errs.WithFound(concrete))
		}
		return concrete, nil
	default:
		return Type{}, errs.New(errs.MismatchedTypes,
			errs.WithExpected(EnumUnion(nil)), errs.WithFound(concrete))
	}
}

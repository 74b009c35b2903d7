package lir

import "github.com/lir-lang/lir/internal/errs"

// pKind tags which alternative of the pattern language (spec.md §4.3) a
// Pattern value holds.
type pKind int

const (
	pWildcard pKind = iota
	pLiteral
	pBind
	pTuple
	pStruct
	pVariant
	pOr
)

// Pattern is a node of the match-arm pattern language: literal, wildcard,
// variable binding, tuple, named struct, enum-union variant (with a nested
// sub-pattern), or an or-pattern joining alternatives.
type Pattern struct {
	kind pKind

	lit ConstExpr // pLiteral

	name string // pBind, pVariant (variant name)
	sub  *Pattern // pVariant's nested pattern, nil for a data-less variant

	elems []Pattern // pTuple

	fieldNames []string // pStruct
	fieldPats  []Pattern

	alts []Pattern // pOr
}

func PWildcard() Pattern           { return Pattern{kind: pWildcard} }
func PLiteral(c ConstExpr) Pattern { return Pattern{kind: pLiteral, lit: c} }
func PBind(name string) Pattern    { return Pattern{kind: pBind, name: name} }
func PTuple(elems ...Pattern) Pattern {
	return Pattern{kind: pTuple, elems: elems}
}
func PStruct(names []string, pats []Pattern) Pattern {
	return Pattern{kind: pStruct, fieldNames: names, fieldPats: pats}
}
func PVariant(name string, sub *Pattern) Pattern {
	return Pattern{kind: pVariant, name: name, sub: sub}
}
func POr(alts ...Pattern) Pattern { return Pattern{kind: pOr, alts: alts} }

// CheckType reports whether p's shape mirrors t's head after simplification
// (spec.md §4.3 "Type-compatibility"). A mismatch is InvalidPatternForType.
func (p Pattern) CheckType(t Type, env *Env) error {
	concrete, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	switch p.kind {
	case pWildcard, pBind:
		return nil
	case pLiteral:
		litTy, err := p.lit.GetType(env)
		if err != nil {
			return err
		}
		ok, err := litTy.Equals(concrete, env)
		if err != nil {
			return err
		}
		if !ok {
			return errs.New(errs.InvalidPatternForType, errs.WithType(concrete))
		}
		return nil
	case pTuple:
		if concrete.Kind != KindTuple || len(concrete.Elems) != len(p.elems) {
			return errs.New(errs.InvalidPatternForType, errs.WithType(concrete))
		}
		for i, sub := range p.elems {
			if err := sub.CheckType(concrete.Elems[i], env); err != nil {
				return err
			}
		}
		return nil
	case pStruct:
		if concrete.Kind != KindStruct {
			return errs.New(errs.InvalidPatternForType, errs.WithType(concrete))
		}
		for i, name := range p.fieldNames {
			ft, ok := concrete.Fields.Get(name)
			if !ok {
				return errs.New(errs.MemberNotFound, errs.WithType(concrete), errs.WithName(name))
			}
			if err := p.fieldPats[i].CheckType(ft, env); err != nil {
				return err
			}
		}
		return nil
	case pVariant:
		switch concrete.Kind {
		case KindEnumUnion:
			ft, ok := concrete.Fields.Get(p.name)
			if !ok {
				return errs.New(errs.VariantNotFound, errs.WithType(concrete), errs.WithName(p.name))
			}
			if p.sub != nil {
				return p.sub.CheckType(ft, env)
			}
			return nil
		case KindEnum:
			for _, v := range concrete.Variants {
				if v == p.name {
					return nil
				}
			}
			return errs.New(errs.VariantNotFound, errs.WithType(concrete), errs.WithName(p.name))
		default:
			return errs.New(errs.InvalidPatternForType, errs.WithType(concrete))
		}
	case pOr:
		for _, alt := range p.alts {
			if err := alt.CheckType(concrete, env); err != nil {
				return err
			}
		}
		return nil
	default:
		return errs.New(errs.InvalidPatternForType, errs.WithType(concrete))
	}
}

// bindScope returns a child of env with this pattern's bound name(s) defined
// against scrutineeT, the type of the value being matched, so an arm body
// like `Some(x) => x` or a bare bind arm can resolve the name it introduces.
// Only pBind (the whole scrutinee) and a pVariant's immediate pBind payload
// are bound; deeper sub-patterns (tuple/struct/or, or a variant's nested
// tuple/struct payload) aren't recursed into yet and bind nothing of their
// own beyond what CheckType already validated.
func (p Pattern) bindScope(scrutineeT Type, env *Env) (*Env, error) {
	scope := env.NewScope()
	switch p.kind {
	case pBind:
		scope.DefineVar(p.name, Immutable, scrutineeT, false)
	case pVariant:
		if p.sub == nil || p.sub.kind != pBind {
			return scope, nil
		}
		concrete, err := scrutineeT.SimplifyUntilConcrete(env)
		if err != nil {
			return nil, err
		}
		if concrete.Kind != KindEnumUnion {
			return scope, nil
		}
		ft, ok := concrete.Fields.Get(p.name)
		if !ok {
			return nil, errs.New(errs.VariantNotFound, errs.WithType(concrete), errs.WithName(p.name))
		}
		scope.DefineVar(p.sub.name, Immutable, ft, false)
	}
	return scope, nil
}

// CheckExhaustive verifies that a list of arm patterns, taken together,
// cover every value of t (spec.md §4.3 "Exhaustiveness"). Coverage is
// computed structurally: Bool needs both true/false covered (by literal
// patterns, or a wildcard/bind), Enum/EnumUnion need every variant name
// covered, and for any other type literal patterns never count toward
// exhaustiveness — a wildcard or bind arm is required to close out an
// otherwise-literal match.
func CheckExhaustive(t Type, pats []Pattern, env *Env) error {
	concrete, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	if hasCatchAll(pats) {
		return nil
	}
	switch concrete.Kind {
	case KindBool:
		covered := map[string]bool{}
		for _, p := range pats {
			collectLiteralBoolCoverage(p, covered)
		}
		var missing []string
		if !covered["true"] {
			missing = append(missing, "true")
		}
		if !covered["false"] {
			missing = append(missing, "false")
		}
		if len(missing) > 0 {
			return errs.New(errs.NonExhaustivePatterns, errs.WithNames(missing), errs.WithType(concrete))
		}
		return nil
	case KindEnum:
		covered := map[string]bool{}
		for _, p := range pats {
			collectVariantCoverage(p, covered)
		}
		return missingVariants(concrete.Variants, covered, concrete)
	case KindEnumUnion:
		covered := map[string]bool{}
		for _, p := range pats {
			collectVariantCoverage(p, covered)
		}
		return missingVariants(concrete.Fields.Names(), covered, concrete)
	default:
		// Any other shape (tuples, structs, primitives without a finite
		// variant set) requires an explicit catch-all, already ruled out
		// above.
		return errs.New(errs.NonExhaustivePatterns, errs.WithNames([]string{"_"}), errs.WithType(concrete))
	}
}

func missingVariants(all []string, covered map[string]bool, t Type) error {
	var missing []string
	for _, v := range all {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return errs.New(errs.NonExhaustivePatterns, errs.WithNames(missing), errs.WithType(t))
	}
	return nil
}

func hasCatchAll(pats []Pattern) bool {
	for _, p := range pats {
		if p.kind == pWildcard || p.kind == pBind {
			return true
		}
		if p.kind == pOr && hasCatchAll(p.alts) {
			return true
		}
	}
	return false
}

func collectLiteralBoolCoverage(p Pattern, covered map[string]bool) {
	switch p.kind {
	case pLiteral:
		if b, err := p.lit.AsBool(nil); err == nil {
			if b {
				covered["true"] = true
			} else {
				covered["false"] = true
			}
		}
	case pOr:
		for _, alt := range p.alts {
			collectLiteralBoolCoverage(alt, covered)
		}
	}
}

func collectVariantCoverage(p Pattern, covered map[string]bool) {
	switch p.kind {
	case pVariant:
		covered[p.name] = true
	case pOr:
		for _, alt := range p.alts {
			collectVariantCoverage(alt, covered)
		}
	}
}

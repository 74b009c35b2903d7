package lir

// TypeCheck validates a type expression's well-formedness: every Symbol it
// references must resolve, every Apply's arity must match its Poly head,
// and nested component types must themselves check out. This is the type-
// level counterpart to Expr.TypeCheck (spec.md §4.1, §4.7 step where
// argument and return types are checked before the body).
func (t Type) TypeCheck(env *Env) error {
	switch t.Kind {
	case KindSymbol:
		_, err := t.RequireTypeDefined(env)
		return err
	case KindPointer:
		return t.Elem.TypeCheck(env)
	case KindArray:
		if _, err := t.Len.AsInt(env); err != nil {
			return err
		}
		return t.Elem.TypeCheck(env)
	case KindTuple:
		for _, e := range t.Elems {
			if err := e.TypeCheck(env); err != nil {
				return err
			}
		}
		return nil
	case KindStruct, KindUnion, KindEnumUnion:
		for _, f := range t.Fields {
			if err := f.Type.TypeCheck(env); err != nil {
				return err
			}
		}
		return nil
	case KindProc:
		for _, a := range t.Args {
			if err := a.TypeCheck(env); err != nil {
				return err
			}
		}
		return t.Ret.TypeCheck(env)
	case KindUnit:
		return t.Elem.TypeCheck(env)
	case KindLet:
		inner := env.NewScope()
		inner.DefineType(t.Name, *t.Bound)
		return t.Body.TypeCheck(inner)
	case KindPoly:
		inner := env.NewScope()
		for _, p := range t.Params {
			if p.Bound != nil {
				inner.DefineType(p.Name, *p.Bound)
			} else {
				inner.DefineType(p.Name, Unit(p.Name, None()))
			}
		}
		return t.Body.TypeCheck(inner)
	case KindApply:
		if err := t.Head.TypeCheck(env); err != nil {
			return err
		}
		for _, a := range t.TyArgs {
			if err := a.TypeCheck(env); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// RequireTypeDefined resolves a Symbol through Env, returning
// TypeNotDefined if unresolved (used by TypeCheck; Simplify silently
// leaves unresolved symbols as-is since some callers tolerate it, but
// TypeCheck is the boundary that should reject them).
func (t Type) RequireTypeDefined(env *Env) (Type, error) {
	if t.Kind != KindSymbol {
		return t, nil
	}
	return env.RequireType(t.Name)
}

// substituteTypes performs capture-avoiding substitution of a type-level
// name through every type embedded in an expression tree (spec.md §4.7
// step 3), mirroring Type.Substitute but walking Expr's shape instead.
func (e Expr) substituteTypes(name string, ty Type) Expr {
	out := e
	if e.ce != nil {
		sub := e.ce.Substitute(name, ty)
		out.ce = &sub
	}
	if e.castType != nil {
		sub := e.castType.Substitute(name, ty)
		out.castType = &sub
	}
	if e.structType != nil {
		sub := e.structType.Substitute(name, ty)
		out.structType = &sub
	}
	if len(e.tyArgs) > 0 {
		tyArgs := make([]Type, len(e.tyArgs))
		for i, a := range e.tyArgs {
			tyArgs[i] = a.Substitute(name, ty)
		}
		out.tyArgs = tyArgs
	}
	if len(e.lets) > 0 {
		lets := make([]letBinding, len(e.lets))
		for i, l := range e.lets {
			lets[i] = letBinding{name: l.name, mut: l.mut, expr: l.expr.substituteTypes(name, ty)}
		}
		out.lets = lets
	}
	if e.body != nil {
		b := e.body.substituteTypes(name, ty)
		out.body = &b
	}
	if e.lhs != nil {
		l := e.lhs.substituteTypes(name, ty)
		out.lhs = &l
	}
	if e.rhs != nil {
		r := e.rhs.substituteTypes(name, ty)
		out.rhs = &r
	}
	if e.operand != nil {
		o := e.operand.substituteTypes(name, ty)
		out.operand = &o
	}
	if e.index != nil {
		idx := e.index.substituteTypes(name, ty)
		out.index = &idx
	}
	if e.a != nil {
		a := e.a.substituteTypes(name, ty)
		out.a = &a
	}
	if e.b != nil {
		b := e.b.substituteTypes(name, ty)
		out.b = &b
	}
	if e.c != nil {
		c := e.c.substituteTypes(name, ty)
		out.c = &c
	}
	if e.proc != nil {
		p := e.proc.substituteTypes(name, ty)
		out.proc = &p
	}
	if len(e.args) > 0 {
		args := make([]Expr, len(e.args))
		for i, a := range e.args {
			args[i] = a.substituteTypes(name, ty)
		}
		out.args = args
	}
	if len(e.elems) > 0 {
		elems := make([]Expr, len(e.elems))
		for i, el := range e.elems {
			elems[i] = el.substituteTypes(name, ty)
		}
		out.elems = elems
	}
	if len(e.fieldVals) > 0 {
		fvs := make([]Expr, len(e.fieldVals))
		for i, fv := range e.fieldVals {
			fvs[i] = fv.substituteTypes(name, ty)
		}
		out.fieldVals = fvs
	}
	if e.scrutinee != nil {
		s := e.scrutinee.substituteTypes(name, ty)
		out.scrutinee = &s
	}
	if len(e.arms) > 0 {
		arms := make([]MatchArm, len(e.arms))
		for i, arm := range e.arms {
			arms[i] = MatchArm{Pattern: arm.Pattern, Body: arm.Body.substituteTypes(name, ty)}
		}
		out.arms = arms
	}
	return out
}

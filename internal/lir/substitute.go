package lir

// Substitute performs capture-avoiding substitution of `name` with `ty`
// through a type expression, skipping into (but never renaming) `Let` and
// `Poly` binders that shadow `name` (spec.md §4.1, §9).
func (t Type) Substitute(name string, ty Type) Type {
	switch t.Kind {
	case KindSymbol:
		if t.Name == name {
			return ty
		}
		return t
	case KindPointer:
		elem := t.Elem.Substitute(name, ty)
		out := t
		out.Elem = &elem
		return out
	case KindArray:
		elem := t.Elem.Substitute(name, ty)
		length := t.Len.Substitute(name, ty)
		out := t
		out.Elem = &elem
		out.Len = &length
		return out
	case KindTuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = e.Substitute(name, ty)
		}
		out := t
		out.Elems = elems
		return out
	case KindStruct, KindUnion, KindEnumUnion:
		fields := make(Fields, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = Field{Name: f.Name, Type: f.Type.Substitute(name, ty)}
		}
		out := t
		out.Fields = fields
		return out
	case KindEnum:
		return t
	case KindProc:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.Substitute(name, ty)
		}
		ret := t.Ret.Substitute(name, ty)
		out := t
		out.Args = args
		out.Ret = &ret
		return out
	case KindUnit:
		inner := t.Elem.Substitute(name, ty)
		out := t
		out.Elem = &inner
		return out
	case KindLet:
		bound := t.Bound.Substitute(name, ty)
		out := t
		out.Bound = &bound
		if t.Name == name {
			// The let-binder shadows `name` inside its own body.
			return out
		}
		body := t.Body.Substitute(name, ty)
		out.Body = &body
		return out
	case KindPoly:
		for _, p := range t.Params {
			if p.Name == name {
				// Shadowed by this Poly's own parameter list.
				return t
			}
		}
		params := make([]PolyParam, len(t.Params))
		for i, p := range t.Params {
			params[i] = p
			if p.Bound != nil {
				b := p.Bound.Substitute(name, ty)
				params[i].Bound = &b
			}
		}
		body := t.Body.Substitute(name, ty)
		out := t
		out.Params = params
		out.Body = &body
		return out
	case KindApply:
		head := t.Head.Substitute(name, ty)
		args := make([]Type, len(t.TyArgs))
		for i, a := range t.TyArgs {
			args[i] = a.Substitute(name, ty)
		}
		out := t
		out.Head = &head
		out.TyArgs = args
		return out
	case KindConstParam:
		if t.Name == name {
			return ty
		}
		bound := t.ConstBound.Substitute(name, ty)
		out := t
		out.ConstBound = &bound
		return out
	default:
		return t
	}
}

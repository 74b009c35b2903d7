package lir

import (
	"fmt"
	"strings"
)

// Kind tags which alternative of the Type algebra a Type value holds
// (spec.md §3). Go has no native sum types, so Type is one struct with a
// Kind discriminant and the fields relevant to that Kind populated; this
// mirrors the teacher's bytecode.Value{Data any; Type ValueType} tagged-union
// shape, scaled up to a closed set of named fields instead of `any`.
type Kind int

const (
	KindNone Kind = iota
	KindNever
	KindAny
	KindCell
	KindInt
	KindFloat
	KindBool
	KindChar

	KindPointer
	KindArray
	KindTuple
	KindStruct
	KindUnion
	KindEnumUnion
	KindEnum

	KindProc

	KindUnit
	KindSymbol
	KindLet
	KindPoly
	KindApply
	KindConstParam
)

// Field is one named member of a Struct, Union, or EnumUnion. Fields is kept
// as an ordered slice, not a Go map, because spec.md invariant (ii) requires
// field/variant order to be preserved by structural equality.
type Field struct {
	Name string
	Type Type
}

// Fields is an ordered name->Type table.
type Fields []Field

func (fs Fields) Get(name string) (Type, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Type, true
		}
	}
	return Type{}, false
}

func (fs Fields) Names() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

// PolyParam is one type parameter of a Poly abstraction, with an optional
// bound (spec.md §4.7, §9 Open Question: bounds are enforced when present).
type PolyParam struct {
	Name  string
	Bound *Type
}

// Type is the single representation for every alternative of spec.md §3's
// algebraic Type sum.
type Type struct {
	Kind Kind

	// Pointer
	PtrMut Mutability
	Elem   *Type // Pointer/Array element, Unit inner type

	// Array
	Len *ConstExpr

	// Tuple
	Elems []Type

	// Struct / Union / EnumUnion
	Fields Fields

	// Enum
	Variants []string

	// Proc
	Args []Type
	Ret  *Type

	// Unit / Symbol / Let / ConstParam
	Name string

	// Let
	Bound *Type // the type the name is bound to
	Body  *Type // the expression the binding is visible in

	// Poly
	Params []PolyParam

	// Apply
	Head    *Type
	TyArgs  []Type

	// ConstParam
	ConstBound *Type
}

func None() Type  { return Type{Kind: KindNone} }
func Never() Type { return Type{Kind: KindNever} }
func Any() Type   { return Type{Kind: KindAny} }
func Cell() Type  { return Type{Kind: KindCell} }
func Int() Type   { return Type{Kind: KindInt} }
func Float() Type { return Type{Kind: KindFloat} }
func Bool() Type  { return Type{Kind: KindBool} }
func Char() Type  { return Type{Kind: KindChar} }

func Pointer(mut Mutability, elem Type) Type {
	return Type{Kind: KindPointer, PtrMut: mut, Elem: &elem}
}

func Array(elem Type, length ConstExpr) Type {
	return Type{Kind: KindArray, Elem: &elem, Len: &length}
}

func Tuple(elems ...Type) Type {
	return Type{Kind: KindTuple, Elems: elems}
}

func Struct(fields Fields) Type {
	return Type{Kind: KindStruct, Fields: fields}
}

func Union(fields Fields) Type {
	return Type{Kind: KindUnion, Fields: fields}
}

func EnumUnion(fields Fields) Type {
	return Type{Kind: KindEnumUnion, Fields: fields}
}

func Enum(variants ...string) Type {
	return Type{Kind: KindEnum, Variants: variants}
}

func Proc(args []Type, ret Type) Type {
	return Type{Kind: KindProc, Args: args, Ret: &ret}
}

func Unit(name string, inner Type) Type {
	return Type{Kind: KindUnit, Name: name, Elem: &inner}
}

func Symbol(name string) Type {
	return Type{Kind: KindSymbol, Name: name}
}

func Let(name string, bound Type, body Type) Type {
	return Type{Kind: KindLet, Name: name, Bound: &bound, Body: &body}
}

func Poly(params []PolyParam, body Type) Type {
	return Type{Kind: KindPoly, Params: params, Body: &body}
}

func Apply(head Type, args ...Type) Type {
	return Type{Kind: KindApply, Head: &head, TyArgs: args}
}

func ConstParam(name string, bound Type) Type {
	return Type{Kind: KindConstParam, Name: name, ConstBound: &bound}
}

func (t Type) String() string {
	switch t.Kind {
	case KindNone:
		return "None"
	case KindNever:
		return "Never"
	case KindAny:
		return "Any"
	case KindCell:
		return "Cell"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindChar:
		return "Char"
	case KindPointer:
		prefix := "&"
		if t.PtrMut.IsMutable() {
			prefix = "&mut "
		}
		return prefix + t.Elem.String()
	case KindArray:
		return fmt.Sprintf("%s[%s]", t.Elem, t.Len)
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindStruct:
		return "struct " + fieldsString(t.Fields)
	case KindUnion:
		return "union " + fieldsString(t.Fields)
	case KindEnumUnion:
		return "enum " + fieldsString(t.Fields)
	case KindEnum:
		return "enum {" + strings.Join(t.Variants, ", ") + "}"
	case KindProc:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("proc(%s) -> %s", strings.Join(parts, ", "), t.Ret)
	case KindUnit:
		return t.Name
	case KindSymbol:
		return t.Name
	case KindLet:
		return fmt.Sprintf("let %s = %s in %s", t.Name, t.Bound, t.Body)
	case KindPoly:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			if p.Bound != nil {
				parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Bound)
			} else {
				parts[i] = p.Name
			}
		}
		return fmt.Sprintf("poly[%s] %s", strings.Join(parts, ", "), t.Body)
	case KindApply:
		parts := make([]string, len(t.TyArgs))
		for i, a := range t.TyArgs {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s<%s>", t.Head, strings.Join(parts, ", "))
	case KindConstParam:
		return fmt.Sprintf("const %s: %s", t.Name, t.ConstBound)
	default:
		return "<invalid type>"
	}
}

func fieldsString(fields Fields) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// IsPrimitive reports whether a simplified type's head is one of the
// primitive constructors listed in spec.md §3.
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case KindNone, KindNever, KindAny, KindCell, KindInt, KindFloat, KindBool, KindChar:
		return true
	default:
		return false
	}
}

// IsConcreteHead reports whether a type's head is a primitive, compound, or
// callable constructor (i.e. simplify_until_concrete's target set).
func (t Type) IsConcreteHead() bool {
	switch t.Kind {
	case KindSymbol, KindApply, KindLet:
		return false
	default:
		return true
	}
}

// Package debugcodegen emits the recursive "print a value of this type" op
// sequences the reference Put operator only handles for a bare scalar
// (internal/lir's Put unary operator covers Int/Float/Char/Bool directly;
// everything structural — Array, Struct, Tuple, Union, EnumUnion, Proc,
// Type values, pointers — is generated here). Grounded verbatim on
// `_examples/original_source/src/lir/expr/ops/io.rs`'s `Put::debug` and
// `Put::display` functions (spec.md §4.8).
package debugcodegen

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/lir-lang/lir/internal/asm"
	"github.com/lir-lang/lir/internal/lir"
)

func putChar(out asm.Program, ch byte) {
	out.Op(asm.Set{Dst: asm.Reg(asm.A), Val: int64(ch)})
	out.Op(asm.Put{Src: asm.Reg(asm.A), Out: asm.StdoutChar()})
}

// putString emits one Set+Put pair per byte of s, after NFC-normalizing it
// so composed and decomposed forms of the same glyph (e.g. a struct or
// variant name containing combining marks) print identically regardless of
// which normal form the source text used (io.rs has no Unicode-
// normalization step since Rust source identifiers are ASCII in practice;
// this is the one place SPEC_FULL.md's domain-stack wiring gives
// golang.org/x/text/unicode/norm a job, per §B).
func putString(out asm.Program, s string) {
	normalized := norm.NFC.String(s)
	for i := 0; i < len(normalized); i++ {
		putChar(out, normalized[i])
	}
}

// Debug emits ops that print the value at addr, of type t, to stdout in a
// structural, always-unambiguous form (io.rs's `Put::debug`). It mirrors
// the original's per-Kind dispatch exactly, including its "Array of
// Int/Float gets a tight while-loop, everything else unrolls per element"
// special case.
func Debug(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	concrete, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	switch concrete.Kind {
	case lir.KindUnit:
		return Debug(addr, *concrete.Elem, env, out)
	case lir.KindSymbol:
		if _, err := concrete.RequireTypeDefined(env); err != nil {
			return err
		}
		putString(out, concrete.Name)
		return nil
	case lir.KindNone:
		putString(out, "None")
		return nil
	case lir.KindAny:
		putString(out, "Any")
		return nil
	case lir.KindNever:
		putString(out, "Never")
		return nil
	case lir.KindCell:
		out.Op(asm.Put{Src: addr, Out: asm.StdoutInt()})
		putString(out, " (Cell)")
		return nil
	case lir.KindInt:
		out.Op(asm.Put{Src: addr, Out: asm.StdoutInt()})
		return nil
	case lir.KindFloat:
		out.Op(asm.Put{Src: addr, Out: asm.StdoutFloat()})
		return nil
	case lir.KindChar:
		putChar(out, '\'')
		out.Op(asm.Put{Src: addr, Out: asm.StdoutChar()})
		putChar(out, '\'')
		return nil
	case lir.KindBool:
		out.Op(asm.If{Cond: addr})
		putString(out, "true")
		out.Op(asm.Else{})
		putString(out, "false")
		out.Op(asm.End{})
		return nil
	case lir.KindPointer:
		prefix := "&("
		if concrete.PtrMut.IsMutable() {
			prefix = "&mut ("
		}
		putString(out, prefix)
		out.Op(asm.Put{Src: addr, Out: asm.StdoutInt()})
		putChar(out, ')')
		return nil
	case lir.KindEnum:
		return debugEnum(addr, concrete, out)
	case lir.KindArray:
		return debugArray(addr, concrete, env, out)
	case lir.KindStruct:
		return debugStruct(addr, concrete, env, out)
	case lir.KindTuple:
		return debugTuple(addr, concrete, env, out)
	case lir.KindProc:
		return debugProc(concrete, out)
	case lir.KindEnumUnion:
		return debugEnumUnion(addr, concrete, env, out)
	case lir.KindUnion:
		return debugUnion(addr, concrete, env, out)
	default:
		return fmt.Errorf("debugcodegen: no Debug form for %s", concrete)
	}
}

func debugEnum(addr asm.Location, t lir.Type, out asm.Program) error {
	for i, variant := range t.Variants {
		out.Op(asm.Set{Dst: asm.Reg(asm.A), Val: int64(i)})
		out.Op(asm.IsEqual{A: addr, B: asm.Reg(asm.A), Dst: asm.Reg(asm.B)})
		out.Op(asm.If{Cond: asm.Reg(asm.B)})
		putString(out, fmt.Sprintf("%s of %s", t, variant))
		out.Op(asm.End{})
	}
	return nil
}

func debugArray(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	arrayLen, err := t.Len.AsInt(env)
	if err != nil {
		return err
	}
	elem, err := t.Elem.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	switch elem.Kind {
	case lir.KindInt, lir.KindFloat:
		putChar(out, '[')
		out.Op(asm.GetAddress{Src: addr, Dst: asm.Reg(asm.A)})
		out.Op(asm.Set{Dst: asm.Reg(asm.B), Val: arrayLen})
		out.Op(asm.While{Cond: asm.Reg(asm.B)})
		if elem.Kind == lir.KindInt {
			out.Op(asm.Put{Src: asm.Reg(asm.A).Deref(), Out: asm.StdoutInt()})
		} else {
			out.Op(asm.Put{Src: asm.Reg(asm.A).Deref(), Out: asm.StdoutFloat()})
		}
		out.Op(asm.Next{Loc: asm.Reg(asm.A), Delta: 1})
		out.Op(asm.Dec{Loc: asm.Reg(asm.B)})
		out.Op(asm.If{Cond: asm.Reg(asm.B)})
		putChar(out, ',')
		putChar(out, ' ')
		out.Op(asm.End{})
		out.Op(asm.End{})
		putChar(out, ']')
		return nil
	default:
		elemSize, err := elem.GetSize(env)
		if err != nil {
			return err
		}
		putChar(out, '[')
		for i := int64(0); i < arrayLen; i++ {
			if err := Debug(addr.Offset(int(i)*elemSize), elem, env, out); err != nil {
				return err
			}
			if i < arrayLen-1 {
				putChar(out, ',')
				putChar(out, ' ')
			}
		}
		putChar(out, ']')
		return nil
	}
}

func debugStruct(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	putChar(out, '{')
	offset := 0
	for i, f := range t.Fields {
		putString(out, f.Name)
		putChar(out, '=')
		if err := Debug(addr.Offset(offset), f.Type, env, out); err != nil {
			return err
		}
		if i < len(t.Fields)-1 {
			putChar(out, ',')
			putChar(out, ' ')
			size, err := f.Type.GetSize(env)
			if err != nil {
				return err
			}
			offset += size
		}
	}
	putChar(out, '}')
	return nil
}

func debugTuple(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	putChar(out, '(')
	offset := 0
	for i, elemT := range t.Elems {
		if err := Debug(addr.Offset(offset), elemT, env, out); err != nil {
			return err
		}
		if i < len(t.Elems)-1 {
			putChar(out, ',')
			putChar(out, ' ')
			size, err := elemT.GetSize(env)
			if err != nil {
				return err
			}
			offset += size
		}
	}
	putChar(out, ')')
	return nil
}

func debugProc(t lir.Type, out asm.Program) error {
	if len(t.Args) != 1 {
		putChar(out, '(')
	}
	for i, a := range t.Args {
		putString(out, a.String())
		if i < len(t.Args)-1 {
			putChar(out, ',')
			putChar(out, ' ')
		}
	}
	if len(t.Args) != 1 {
		putChar(out, ')')
	}
	putString(out, fmt.Sprintf(" -> %s", t.Ret))
	return nil
}

func debugEnumUnion(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	size, err := t.GetSize(env)
	if err != nil {
		return err
	}
	tagAddr := addr.Offset(size - 1)
	for i, f := range t.Fields {
		out.Op(asm.Set{Dst: asm.Reg(asm.A), Val: int64(i)})
		out.Op(asm.IsEqual{A: tagAddr, B: asm.Reg(asm.A), Dst: asm.Reg(asm.B)})
		out.Op(asm.If{Cond: asm.Reg(asm.B)})
		putString(out, fmt.Sprintf("%s of %s ", t, f.Name))
		if err := Debug(addr, f.Type, env, out); err != nil {
			return err
		}
		out.Op(asm.End{})
	}
	return nil
}

func debugUnion(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	putString(out, "union {")
	for i, f := range t.Fields {
		putString(out, f.Name)
		putChar(out, ':')
		putChar(out, ' ')
		putString(out, f.Type.String())
		putChar(out, ' ')
		putChar(out, '=')
		putChar(out, ' ')
		if err := Debug(addr, f.Type, env, out); err != nil {
			return err
		}
		if i < len(t.Fields)-1 {
			putChar(out, ',')
			putChar(out, ' ')
		}
	}
	putChar(out, '}')
	return nil
}

// Display emits a more human-facing rendering (io.rs's `Put::display`):
// Char pointers print as C-strings (NUL-terminated char loop) instead of
// their raw address, Bool/Int/Float/Char print bare (no quoting), and
// every other shape falls back to Debug.
func Display(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	concrete, err := t.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	switch concrete.Kind {
	case lir.KindCell:
		out.Op(asm.Put{Src: addr, Out: asm.StdoutInt()})
		return nil
	case lir.KindChar:
		out.Op(asm.Put{Src: addr, Out: asm.StdoutChar()})
		return nil
	case lir.KindPointer:
		elem, err := concrete.Elem.SimplifyUntilConcrete(env)
		if err != nil {
			return err
		}
		if elem.Kind != lir.KindChar {
			return Debug(addr, concrete, env, out)
		}
		out.Op(asm.Move{Src: addr, Dst: asm.Reg(asm.A)})
		out.Op(asm.While{Cond: asm.Reg(asm.A).Deref()})
		out.Op(asm.Put{Src: asm.Reg(asm.A).Deref(), Out: asm.StdoutChar()})
		out.Op(asm.Next{Loc: asm.Reg(asm.A), Delta: 1})
		out.Op(asm.End{})
		return nil
	case lir.KindEnum:
		for i, variant := range concrete.Variants {
			out.Op(asm.Set{Dst: asm.Reg(asm.A), Val: int64(i)})
			out.Op(asm.IsEqual{A: addr, B: asm.Reg(asm.A), Dst: asm.Reg(asm.B)})
			out.Op(asm.If{Cond: asm.Reg(asm.B)})
			putString(out, variant)
			out.Op(asm.End{})
		}
		putString(out, fmt.Sprintf(" of %s", concrete))
		return nil
	case lir.KindArray:
		return displayArray(addr, concrete, env, out)
	default:
		return Debug(addr, concrete, env, out)
	}
}

func displayArray(addr asm.Location, t lir.Type, env *lir.Env, out asm.Program) error {
	arrayLen, err := t.Len.AsInt(env)
	if err != nil {
		return err
	}
	elem, err := t.Elem.SimplifyUntilConcrete(env)
	if err != nil {
		return err
	}
	if elem.Kind == lir.KindChar {
		out.Op(asm.GetAddress{Src: addr, Dst: asm.Reg(asm.A)})
		out.Op(asm.Set{Dst: asm.Reg(asm.B), Val: arrayLen})
		out.Op(asm.While{Cond: asm.Reg(asm.B)})
		out.Op(asm.If{Cond: asm.Reg(asm.A).Deref()})
		out.Op(asm.Put{Src: asm.Reg(asm.A).Deref(), Out: asm.StdoutChar()})
		out.Op(asm.Next{Loc: asm.Reg(asm.A), Delta: 1})
		out.Op(asm.Dec{Loc: asm.Reg(asm.B)})
		out.Op(asm.Else{})
		out.Op(asm.Set{Dst: asm.Reg(asm.B), Val: 0})
		out.Op(asm.End{})
		out.Op(asm.End{})
		return nil
	}
	return Debug(addr, t, env, out)
}

package asm

import "testing"

func TestLocationOffsetCollapses(t *testing.T) {
	loc := Reg(FP).Offset(3).Offset(-5)
	if got, want := loc.String(), "FP-2"; got != want {
		t.Fatalf("Offset chain = %q, want %q", got, want)
	}
}

func TestLocationDerefThenOffset(t *testing.T) {
	loc := Reg(SP).Deref().Offset(1)
	if got, want := loc.String(), "*(SP)+1"; got != want {
		t.Fatalf("Deref/Offset = %q, want %q", got, want)
	}
	if loc.IsRegister() {
		t.Fatalf("expected non-register location after Deref/Offset")
	}
}

func TestLocationEqual(t *testing.T) {
	a := Reg(FP).Offset(1 - 3)
	b := Reg(FP).Offset(-2)
	if !a.Equal(b) {
		t.Fatalf("expected %s == %s", a, b)
	}
}

func TestBareRegisterIsRegister(t *testing.T) {
	if !Reg(A).IsRegister() {
		t.Fatalf("expected bare register location to report IsRegister")
	}
	if Reg(A).Register() != A {
		t.Fatalf("expected Register() to round-trip")
	}
}

package lir

import (
	"errors"
	"testing"

	"github.com/lir-lang/lir/internal/errs"
)

// TestAssignThroughImmutablePointerFails exercises spec.md §8 scenario 6:
// `*p = x` where p: &Int (an immutable pointer) must fail type-checking
// with MismatchedMutability, not silently succeed.
func TestAssignThroughImmutablePointerFails(t *testing.T) {
	env := NewEnv()
	env.DefineVar("p", Immutable, Pointer(Immutable, Int()), false)

	assign := EAssign(OpAssign(), EDeref(EVarRef("p")), EConst(CEInt(5)))

	_, err := assign.GetType(env)
	if err == nil {
		t.Fatal("GetType succeeded, want MismatchedMutability error")
	}
	var lirErr *errs.Error
	if !errors.As(err, &lirErr) {
		t.Fatalf("error %v is not *errs.Error", err)
	}
	if lirErr.Kind != errs.MismatchedMutability {
		t.Fatalf("error kind = %v, want MismatchedMutability", lirErr.Kind)
	}
}

// TestAssignThroughMutablePointerSucceeds confirms the same shape passes
// when the pointer is mutable, so the new check only rejects the immutable
// case above rather than every deref assignment.
func TestAssignThroughMutablePointerSucceeds(t *testing.T) {
	env := NewEnv()
	env.DefineVar("p", Immutable, Pointer(Mutable, Int()), false)

	assign := EAssign(OpAssign(), EDeref(EVarRef("p")), EConst(CEInt(5)))

	if _, err := assign.GetType(env); err != nil {
		t.Fatalf("GetType: %v", err)
	}
}

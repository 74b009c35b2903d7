package lir

import "testing"

func TestArithmeticEval(t *testing.T) {
	env := NewEnv()
	sum, err := OpAdd().Eval(CEInt(2), CEInt(3), env)
	if err != nil {
		t.Fatal(err)
	}
	if sum.intVal != 5 {
		t.Fatalf("2 + 3 = %d, want 5", sum.intVal)
	}

	prod, err := OpMul().Eval(CEFloat(1.5), CEInt(2), env)
	if err != nil {
		t.Fatal(err)
	}
	if prod.floatVal != 3.0 {
		t.Fatalf("1.5 * 2 = %g, want 3.0", prod.floatVal)
	}
}

func TestComparisonEval(t *testing.T) {
	env := NewEnv()
	lt, err := OpLt().Eval(CEInt(1), CEInt(2), env)
	if err != nil {
		t.Fatal(err)
	}
	if !lt.boolVal {
		t.Fatal("1 < 2 should be true")
	}

	ge, err := OpGe().Eval(CEInt(2), CEInt(2), env)
	if err != nil {
		t.Fatal(err)
	}
	if !ge.boolVal {
		t.Fatal("2 >= 2 should be true")
	}

	eq, err := OpEq().Eval(CEBool(true), CEBool(true), env)
	if err != nil {
		t.Fatal(err)
	}
	if !eq.boolVal {
		t.Fatal("true == true should be true")
	}
}

func TestLogicalAndBitwise(t *testing.T) {
	env := NewEnv()
	and, err := OpAnd().Eval(CEBool(true), CEBool(false), env)
	if err != nil {
		t.Fatal(err)
	}
	if and.boolVal {
		t.Fatal("true && false should be false")
	}

	not, err := OpNot().Eval(CEBool(false), env)
	if err != nil {
		t.Fatal(err)
	}
	if !not.boolVal {
		t.Fatal("!false should be true")
	}

	xor, err := OpBitXor().Eval(CEInt(0b101), CEInt(0b110), env)
	if err != nil {
		t.Fatal(err)
	}
	if xor.intVal != 0b011 {
		t.Fatalf("0b101 ^ 0b110 = %b, want 0b011", xor.intVal)
	}
}

func TestTagAndDataRoundTrip(t *testing.T) {
	env := NewEnv()
	unionTy := EnumUnion(Fields{
		{Name: "ok", Type: Int()},
		{Name: "err", Type: None()},
	})
	val := CEEnumUnion(unionTy, "ok", CEInt(42))

	tagVal, err := OpTag().Eval(val, env)
	if err != nil {
		t.Fatal(err)
	}
	if tagVal.name != "ok" {
		t.Fatalf("tag = %s, want ok", tagVal.name)
	}

	dataVal, err := OpData().Eval(val, env)
	if err != nil {
		t.Fatal(err)
	}
	if dataVal.name != "ok" || dataVal.value.intVal != 42 {
		t.Fatalf("data = %+v, want ok(42)", dataVal)
	}
}

func TestCanCast(t *testing.T) {
	env := NewEnv()
	ok, err := CanCast(Int(), Float(), env)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Int should cast to Float")
	}

	ok, err = CanCast(Int(), Struct(nil), env)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("Int should not cast to Struct")
	}
}

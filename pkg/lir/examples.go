package lir

import corelir "github.com/lir-lang/lir/internal/lir"

// Examples returns a small fixed set of named Programs exercising the core
// Expr shapes an Engine can compile and run: arithmetic, a local binding,
// a branch dispatched through EMatch (LIR's builder surface has no
// if/then/else constructor — condSelect is internal to pattern-match
// lowering — so EMatch over a Bool scrutinee is the idiomatic way to build
// one from outside internal/lir), and an EnumUnion variant match. cmd/lir's
// run/build subcommands look programs up here by name (disasm reads back
// the cache entry a build recorded under that name), since spec.md §1's
// Non-goals rule out a source-text frontend for these commands to parse
// instead.
func Examples() []Program {
	return []Program{
		{Name: "arithmetic", Body: arithmeticExample()},
		{Name: "let", Body: letExample()},
		{Name: "branch", Body: branchExample()},
		{Name: "variant_match", Body: variantMatchExample()},
	}
}

// arithmeticExample computes (2 + 3) * 4 entirely with constant operands.
func arithmeticExample() corelir.Expr {
	two := corelir.EConst(corelir.CEInt(2))
	three := corelir.EConst(corelir.CEInt(3))
	four := corelir.EConst(corelir.CEInt(4))
	sum := corelir.EBinaryOp(corelir.OpAdd(), two, three)
	return corelir.EBinaryOp(corelir.OpMul(), sum, four)
}

// letExample binds a local and reads it back through an arithmetic
// expression, exercising EBlock/LetBind/EVarRef.
func letExample() corelir.Expr {
	binding := corelir.LetBind("x", corelir.Immutable, corelir.EConst(corelir.CEInt(7)))
	body := corelir.EBinaryOp(corelir.OpMul(), corelir.EVarRef("x"), corelir.EConst(corelir.CEInt(6)))
	return corelir.EBlock(corelir.LetBindings(binding), body)
}

// branchExample dispatches on a boolean scrutinee via EMatch, picking
// between two Int literals depending on whether 10 > 3.
func branchExample() corelir.Expr {
	cond := corelir.EBinaryOp(corelir.OpGt(), corelir.EConst(corelir.CEInt(10)), corelir.EConst(corelir.CEInt(3)))
	return corelir.EMatch(cond,
		corelir.MatchArm{Pattern: corelir.PLiteral(corelir.CEBool(true)), Body: corelir.EConst(corelir.CEInt(1))},
		corelir.MatchArm{Pattern: corelir.PWildcard(), Body: corelir.EConst(corelir.CEInt(0))},
	)
}

// variantMatchExample builds an Option-shaped EnumUnion (Some(Int) / None),
// constructs Some(42), and matches it: the Some arm binds its payload and
// returns it, the None arm returns 0. Exercises EMatch dispatching on an
// EnumUnion tag rather than a literal, and a pVariant arm's payload bind.
func variantMatchExample() corelir.Expr {
	option := corelir.EnumUnion(corelir.Fields{
		{Name: "Some", Type: corelir.Int()},
		{Name: "None", Type: corelir.None()},
	})
	some42 := corelir.EEnumUnion(option, "Some", corelir.EConst(corelir.CEInt(42)))
	bound := corelir.PBind("x")
	return corelir.EMatch(some42,
		corelir.MatchArm{Pattern: corelir.PVariant("Some", &bound), Body: corelir.EVarRef("x")},
		corelir.MatchArm{Pattern: corelir.PVariant("None", nil), Body: corelir.EConst(corelir.CEInt(0))},
	)
}

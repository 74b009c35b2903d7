package lir

import "github.com/lir-lang/lir/internal/asm"

// FFIBinding is the same wire shape internal/asm's FFICall op consumes; the
// core only ever stores and looks these up by symbol (spec.md §6, §9).
type FFIBinding = asm.FFIBinding

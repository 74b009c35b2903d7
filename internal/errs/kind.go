package errs

// Kind enumerates the LIR error taxonomy of spec.md §7, plus the two
// variants the distillation abridged away but the original source
// (`src/lir/error.rs`) still carries: UnimplementedOperator and NonSymbol
// (see SPEC_FULL.md §D.1).
type Kind int

const (
	MismatchedTypes Kind = iota
	MismatchedMutability
	SymbolNotDefined
	TypeNotDefined
	TypeRedefined
	DuplicateMember
	VariantNotFound
	MemberNotFound
	UnsizedType
	DerefNonPointer
	ApplyNonProc
	ApplyNonTemplate
	SizeOfTemplate
	InvalidIndex
	InvalidRefer
	InvalidUnaryOp
	InvalidUnaryOpTypes
	InvalidBinaryOp
	InvalidBinaryOpTypes
	InvalidTernaryOp
	InvalidTernaryOpTypes
	InvalidAssignOp
	InvalidAssignOpTypes
	InvalidAs
	NegativeArrayLength
	InvalidPatternForType
	InvalidPatternForExpr
	InvalidMatchExpr
	NonExhaustivePatterns
	InvalidConstExpr
	NonIntegralConst
	UnsupportedOperation
	UnusedExpr
	InvalidTemplateArgs
	CompilePolyProc
	InvalidMonomorphize
	RecursionDepthConst
	RecursionDepthTypeEquality
	CouldntSimplify
	UnimplementedOperator
	NonSymbol
	AssemblyError
)

func (k Kind) String() string {
	switch k {
	case MismatchedTypes:
		return "MismatchedTypes"
	case MismatchedMutability:
		return "MismatchedMutability"
	case SymbolNotDefined:
		return "SymbolNotDefined"
	case TypeNotDefined:
		return "TypeNotDefined"
	case TypeRedefined:
		return "TypeRedefined"
	case DuplicateMember:
		return "DuplicateMember"
	case VariantNotFound:
		return "VariantNotFound"
	case MemberNotFound:
		return "MemberNotFound"
	case UnsizedType:
		return "UnsizedType"
	case DerefNonPointer:
		return "DerefNonPointer"
	case ApplyNonProc:
		return "ApplyNonProc"
	case ApplyNonTemplate:
		return "ApplyNonTemplate"
	case SizeOfTemplate:
		return "SizeOfTemplate"
	case InvalidIndex:
		return "InvalidIndex"
	case InvalidRefer:
		return "InvalidRefer"
	case InvalidUnaryOp:
		return "InvalidUnaryOp"
	case InvalidUnaryOpTypes:
		return "InvalidUnaryOpTypes"
	case InvalidBinaryOp:
		return "InvalidBinaryOp"
	case InvalidBinaryOpTypes:
		return "InvalidBinaryOpTypes"
	case InvalidTernaryOp:
		return "InvalidTernaryOp"
	case InvalidTernaryOpTypes:
		return "InvalidTernaryOpTypes"
	case InvalidAssignOp:
		return "InvalidAssignOp"
	case InvalidAssignOpTypes:
		return "InvalidAssignOpTypes"
	case InvalidAs:
		return "InvalidAs"
	case NegativeArrayLength:
		return "NegativeArrayLength"
	case InvalidPatternForType:
		return "InvalidPatternForType"
	case InvalidPatternForExpr:
		return "InvalidPatternForExpr"
	case InvalidMatchExpr:
		return "InvalidMatchExpr"
	case NonExhaustivePatterns:
		return "NonExhaustivePatterns"
	case InvalidConstExpr:
		return "InvalidConstExpr"
	case NonIntegralConst:
		return "NonIntegralConst"
	case UnsupportedOperation:
		return "UnsupportedOperation"
	case UnusedExpr:
		return "UnusedExpr"
	case InvalidTemplateArgs:
		return "InvalidTemplateArgs"
	case CompilePolyProc:
		return "CompilePolyProc"
	case InvalidMonomorphize:
		return "InvalidMonomorphize"
	case RecursionDepthConst:
		return "RecursionDepthConst"
	case RecursionDepthTypeEquality:
		return "RecursionDepthTypeEquality"
	case CouldntSimplify:
		return "CouldntSimplify"
	case UnimplementedOperator:
		return "UnimplementedOperator"
	case NonSymbol:
		return "NonSymbol"
	case AssemblyError:
		return "AssemblyError"
	default:
		return "UnknownError"
	}
}

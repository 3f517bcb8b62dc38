package typesystem

// TypeKind classifies a type by its shape. Named types take the kind of
// their definition.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindClass
	KindStruct
	KindInterface
	KindDelegate
	KindTypeParameter
	KindArray
	KindTuple
	KindNullable
	KindPointer
	KindFunctionPointer
	KindFunctionType // natural type of a lambda or method group, not yet a delegate
	KindError
)

var kindNames = map[TypeKind]string{
	KindUnknown:         "unknown",
	KindClass:           "class",
	KindStruct:          "struct",
	KindInterface:       "interface",
	KindDelegate:        "delegate",
	KindTypeParameter:   "type parameter",
	KindArray:           "array",
	KindTuple:           "tuple",
	KindNullable:        "nullable",
	KindPointer:         "pointer",
	KindFunctionPointer: "function pointer",
	KindFunctionType:    "function type",
	KindError:           "error",
}

func (k TypeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseDefinitionKind maps a declaration keyword to a kind.
// Only the four nominal kinds can be declared.
func ParseDefinitionKind(s string) (TypeKind, bool) {
	switch s {
	case "class":
		return KindClass, true
	case "struct":
		return KindStruct, true
	case "interface":
		return KindInterface, true
	case "delegate":
		return KindDelegate, true
	}
	return KindUnknown, false
}

// Variance of a generic type parameter. The same values describe the
// direction used when merging nullability of equivalent types.
type Variance int

const (
	Invariant Variance = iota
	Out
	In
)

func (v Variance) String() string {
	switch v {
	case Out:
		return "out"
	case In:
		return "in"
	default:
		return ""
	}
}

// Flip swaps In and Out; Invariant stays.
func (v Variance) Flip() Variance {
	switch v {
	case Out:
		return In
	case In:
		return Out
	default:
		return Invariant
	}
}

// Compose applies a parameter's declared variance to the variance of the
// position it appears in.
func (v Variance) Compose(param Variance) Variance {
	switch param {
	case Out:
		return v
	case In:
		return v.Flip()
	default:
		return Invariant
	}
}

// RefKind is how a parameter or return value is passed.
type RefKind int

const (
	RefNone RefKind = iota
	RefRef
	RefOut
	RefIn
)

func (r RefKind) String() string {
	switch r {
	case RefRef:
		return "ref"
	case RefOut:
		return "out"
	case RefIn:
		return "in"
	default:
		return ""
	}
}

// IsManagedReference reports whether the value is passed by reference.
func (r RefKind) IsManagedReference() bool {
	return r != RefNone
}

package typesystem

import (
	"strconv"
	"strings"
)

// CompareKind selects which distinctions type equality ignores.
type CompareKind int

const (
	ConsiderEverything CompareKind = 0
	IgnoreNullability  CompareKind = 1 << iota
	IgnoreTupleNames

	// IgnoreNullabilityAndTupleNames is the equality bound sets and
	// candidate sets are keyed by.
	IgnoreNullabilityAndTupleNames = IgnoreNullability | IgnoreTupleNames
)

func (c CompareKind) has(flag CompareKind) bool { return c&flag != 0 }

// Equal compares two annotated types.
func Equal(a, b TypeWithAnnotation, cmp CompareKind) bool {
	return AnnotatedKey(a, cmp) == AnnotatedKey(b, cmp)
}

// Identical compares two bare types.
func Identical(a, b Type, cmp CompareKind) bool {
	return Key(a, cmp) == Key(b, cmp)
}

// Key renders a canonical string for t under cmp. Two types are equal
// under cmp exactly when their keys match. Type variables are keyed by ID.
func Key(t Type, cmp CompareKind) string {
	var sb strings.Builder
	writeKey(&sb, t, cmp)
	return sb.String()
}

// AnnotatedKey is Key including the top-level annotation unless ignored.
func AnnotatedKey(t TypeWithAnnotation, cmp CompareKind) string {
	var sb strings.Builder
	writeAnnotatedKey(&sb, t, cmp)
	return sb.String()
}

func writeAnnotatedKey(sb *strings.Builder, t TypeWithAnnotation, cmp CompareKind) {
	writeKey(sb, t.Type, cmp)
	if !cmp.has(IgnoreNullability) && t.Type != nil && IsReferenceType(t.Type) {
		switch t.Nullability {
		case Annotated:
			sb.WriteByte('?')
		case NotAnnotated:
			sb.WriteByte('!')
		}
	}
}

func writeKey(sb *strings.Builder, t Type, cmp CompareKind) {
	switch typ := t.(type) {
	case nil:
		sb.WriteString("<nil>")
	case TVar:
		sb.WriteString("$")
		sb.WriteString(strconv.Itoa(typ.ID))
	case TCon:
		sb.WriteString(typ.Def.Key())
	case TApp:
		sb.WriteString(typ.Def.Key())
		sb.WriteByte('<')
		for i, a := range typ.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeAnnotatedKey(sb, a, cmp)
		}
		sb.WriteByte('>')
	case TArray:
		writeAnnotatedKey(sb, typ.Elem, cmp)
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(typ.normalizedRank()))
		sb.WriteString("]")
	case TTuple:
		sb.WriteByte('(')
		for i, e := range typ.Elements {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeAnnotatedKey(sb, e, cmp)
			if !cmp.has(IgnoreTupleNames) && i < len(typ.Names) && typ.Names[i] != "" {
				sb.WriteByte(':')
				sb.WriteString(typ.Names[i])
			}
		}
		sb.WriteByte(')')
	case TNullable:
		sb.WriteString("N(")
		writeKey(sb, typ.Elem, cmp)
		sb.WriteByte(')')
	case TPointer:
		sb.WriteString("P(")
		writeAnnotatedKey(sb, typ.Elem, cmp)
		sb.WriteByte(')')
	case TFunc:
		sb.WriteString("F")
		sb.WriteString(typ.CallingConvention)
		sb.WriteByte('(')
		for i, p := range typ.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(p.RefKind)))
			writeAnnotatedKey(sb, p.Type, cmp)
		}
		sb.WriteString(")")
		sb.WriteString(strconv.Itoa(int(typ.ReturnRefKind)))
		writeAnnotatedKey(sb, typ.Return, cmp)
	case TFunctionType:
		sb.WriteString("fn(")
		writeKey(sb, typ.Delegate, cmp)
		sb.WriteByte(')')
	case TError:
		sb.WriteString("!err:")
		sb.WriteString(typ.Name)
	case TUninferred:
		sb.WriteString("!uninferred:")
		sb.WriteString(typ.Param)
	default:
		sb.WriteString(t.String())
	}
}

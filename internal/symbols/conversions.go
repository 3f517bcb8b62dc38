package symbols

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// Conversions answers the questions type inference asks about a symbol
// table: implicit convertibility and the inheritance hierarchy.
type Conversions struct {
	*SymbolTable
	nullability bool
}

// NewConversions wraps st. includeNullability selects whether inference
// tracks nullability annotations.
func NewConversions(st *SymbolTable, includeNullability bool) Conversions {
	return Conversions{SymbolTable: st, nullability: includeNullability}
}

func (c Conversions) IncludeNullability() bool {
	return c.nullability
}

// WithNullability returns a copy with nullability tracking switched.
func (c Conversions) WithNullability(include bool) Conversions {
	return Conversions{SymbolTable: c.SymbolTable, nullability: include}
}

// ImplicitConversionExists reports whether a value of type src converts
// implicitly to dst. Nullability annotations are ignored at every level.
// A lambda or method group placeholder only converts to another
// placeholder.
func (s *SymbolTable) ImplicitConversionExists(src, dst typesystem.Type) bool {
	return s.convertible(src, dst, 0)
}

func (s *SymbolTable) convertible(src, dst typesystem.Type, depth int) bool {
	if src == nil || dst == nil || depth > maxHierarchyDepth {
		return false
	}
	if typesystem.Identical(src, dst, typesystem.IgnoreNullabilityAndTupleNames) {
		return true
	}

	srcFn, srcIsFn := src.(typesystem.TFunctionType)
	dstFn, dstIsFn := dst.(typesystem.TFunctionType)
	if srcIsFn || dstIsFn {
		if srcIsFn && dstIsFn && srcFn.Delegate != nil && dstFn.Delegate != nil {
			return s.convertible(srcFn.Delegate, dstFn.Delegate, depth+1)
		}
		return false
	}

	if !typesystem.IsReallyAType(src) || !typesystem.IsReallyAType(dst) {
		return false
	}

	switch st := src.(type) {
	case typesystem.TPointer, typesystem.TFunc:
		return false
	case typesystem.TNullable:
		if dt, ok := dst.(typesystem.TNullable); ok {
			return s.valueConvertible(st.Elem, dt.Elem)
		}
		if typesystem.IsReferenceType(dst) {
			return s.convertible(st.Elem, dst, depth+1)
		}
		return false
	case typesystem.TTuple:
		if dt, ok := dst.(typesystem.TTuple); ok {
			if len(dt.Elements) != len(st.Elements) {
				return false
			}
			for i := range st.Elements {
				if !s.convertible(st.Elements[i].Type, dt.Elements[i].Type, depth+1) {
					return false
				}
			}
			return true
		}
	case typesystem.TArray:
		if dt, ok := dst.(typesystem.TArray); ok {
			return st.SameShape(dt) && s.referenceConvertible(st.Elem.Type, dt.Elem.Type, depth+1)
		}
	}

	if dt, ok := dst.(typesystem.TNullable); ok {
		return s.valueConvertible(src, dt.Elem)
	}
	if s.numericWidening(src, dst) {
		return true
	}
	if typesystem.IsObject(dst) {
		return true
	}
	if tv, ok := src.(typesystem.TVar); ok {
		for _, c := range tv.Constraints {
			if s.convertible(c, dst, depth+1) {
				return true
			}
		}
	}

	dstDef := typesystem.DefinitionOf(dst)
	if dstDef == nil {
		return false
	}
	switch dstDef.Kind {
	case typesystem.KindClass:
		for _, b := range s.BaseChain(src) {
			if typesystem.Identical(b, dst, typesystem.IgnoreNullabilityAndTupleNames) {
				return true
			}
		}
	case typesystem.KindInterface:
		if typesystem.IsInterface(src) && s.varianceConvertible(src, dst, depth) {
			return true
		}
		for _, iface := range s.AllInterfaces(src) {
			if s.varianceConvertible(iface, dst, depth) {
				return true
			}
		}
	case typesystem.KindDelegate:
		return typesystem.IsDelegate(src) && s.varianceConvertible(src, dst, depth)
	}
	return false
}

// varianceConvertible checks two instantiations of one variant generic
// definition argument by argument.
func (s *SymbolTable) varianceConvertible(src, dst typesystem.Type, depth int) bool {
	if !typesystem.SameDefinition(src, dst) {
		return false
	}
	def, srcArgs, _ := typesystem.Named(src)
	_, dstArgs, _ := typesystem.Named(dst)
	if len(srcArgs) != len(dstArgs) {
		return false
	}
	for i, p := range def.Params {
		a, b := srcArgs[i].Type, dstArgs[i].Type
		if typesystem.Identical(a, b, typesystem.IgnoreNullabilityAndTupleNames) {
			continue
		}
		switch p.Variance {
		case typesystem.Out:
			if !s.referenceConvertible(a, b, depth+1) {
				return false
			}
		case typesystem.In:
			if !s.referenceConvertible(b, a, depth+1) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// referenceConvertible is identity or an implicit conversion between two
// reference types.
func (s *SymbolTable) referenceConvertible(src, dst typesystem.Type, depth int) bool {
	if typesystem.Identical(src, dst, typesystem.IgnoreNullabilityAndTupleNames) {
		return true
	}
	return typesystem.IsReferenceType(src) && typesystem.IsReferenceType(dst) && s.convertible(src, dst, depth)
}

// valueConvertible covers the conversions lifted through nullable: identity
// and numeric widening.
func (s *SymbolTable) valueConvertible(src, dst typesystem.Type) bool {
	return typesystem.Identical(src, dst, typesystem.IgnoreNullabilityAndTupleNames) || s.numericWidening(src, dst)
}

func (s *SymbolTable) numericWidening(src, dst typesystem.Type) bool {
	sd, dd := typesystem.DefinitionOf(src), typesystem.DefinitionOf(dst)
	if sd == nil || dd == nil || sd.NumericRank == 0 || dd.NumericRank == 0 {
		return false
	}
	return sd.NumericRank < dd.NumericRank
}

package typesystem

// Named splits a named type into its definition and type arguments.
func Named(t Type) (*Definition, []TypeWithAnnotation, bool) {
	switch typ := t.(type) {
	case TCon:
		return typ.Def, nil, true
	case TApp:
		return typ.Def, typ.Args, true
	}
	return nil, nil, false
}

// DefinitionOf returns the definition of a named type, or nil.
func DefinitionOf(t Type) *Definition {
	def, _, _ := Named(t)
	return def
}

// SameDefinition reports whether a and b are constructed from one definition.
func SameDefinition(a, b Type) bool {
	da := DefinitionOf(a)
	return da != nil && da == DefinitionOf(b)
}

// IsReferenceType reports whether values of t are references.
func IsReferenceType(t Type) bool {
	switch typ := t.(type) {
	case TCon, TApp:
		switch DefinitionOf(typ).Kind {
		case KindClass, KindInterface, KindDelegate:
			return true
		}
		return false
	case TArray, TFunctionType:
		return true
	case TVar:
		if typ.IsReference {
			return true
		}
		for _, c := range typ.Constraints {
			if c.Kind() == KindClass || (c.Kind() == KindTypeParameter && IsReferenceType(c)) {
				return true
			}
		}
		return false
	}
	return false
}

// IsValueType reports whether t is known to be a value type.
func IsValueType(t Type) bool {
	switch typ := t.(type) {
	case TCon, TApp:
		return DefinitionOf(typ).Kind == KindStruct
	case TTuple, TNullable:
		return true
	case TVar:
		return typ.IsValue
	}
	return false
}

// IsReferenceLike covers reference types and function pointers, the
// positions where callable signatures allow variance.
func IsReferenceLike(t Type) bool {
	if _, ok := t.(TFunc); ok {
		return true
	}
	return IsReferenceType(t)
}

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	def := DefinitionOf(t)
	return def != nil && def.Special == SpecialVoid
}

// IsObject reports whether t is the root object type.
func IsObject(t Type) bool {
	def := DefinitionOf(t)
	return def != nil && def.Special == SpecialObject
}

// IsError reports whether t failed to resolve.
func IsError(t Type) bool {
	return t != nil && t.Kind() == KindError
}

// IsReallyAType excludes missing, error and void types.
func IsReallyAType(t Type) bool {
	return t != nil && !IsError(t) && !IsVoid(t)
}

// IsFunctionType reports whether t is a lambda or method group placeholder.
func IsFunctionType(t Type) bool {
	_, ok := t.(TFunctionType)
	return ok
}

// IsInterface reports whether t is a named interface type.
func IsInterface(t Type) bool {
	def := DefinitionOf(t)
	return def != nil && def.Kind == KindInterface
}

// IsDelegate reports whether t is a named delegate type.
func IsDelegate(t Type) bool {
	def := DefinitionOf(t)
	return def != nil && def.Kind == KindDelegate
}

// AllTypeArgumentCount is the number of type arguments of a named type.
func AllTypeArgumentCount(t Type) int {
	_, args, _ := Named(t)
	return len(args)
}

// DelegateSignature returns the Invoke signature of a delegate type with
// its type arguments substituted.
func DelegateSignature(t Type) (TFunc, bool) {
	def, args, ok := Named(t)
	if !ok || def.Kind != KindDelegate || def.Invoke == nil {
		return TFunc{}, false
	}
	return def.Invoke.Apply(def.Subst(args)).(TFunc), true
}

// DelegateType returns the delegate a target converts a lambda to: either
// the type itself or the delegate wrapped in an expression tree.
func DelegateType(t Type) (Type, bool) {
	def, args, ok := Named(t)
	if !ok {
		return nil, false
	}
	if def.Kind == KindDelegate {
		return t, true
	}
	if def.Special == SpecialExpression && len(args) == 1 && IsDelegate(args[0].Type) {
		return args[0].Type, true
	}
	return nil, false
}

// CallableSignature returns the signature of a delegate, expression tree
// of delegate, or function pointer target.
func CallableSignature(t Type) (TFunc, bool) {
	if fp, ok := t.(TFunc); ok {
		return fp, true
	}
	d, ok := DelegateType(t)
	if !ok {
		return TFunc{}, false
	}
	return DelegateSignature(d)
}

// TupleElements returns the element types of a tuple.
func TupleElements(t Type) ([]TypeWithAnnotation, bool) {
	tt, ok := t.(TTuple)
	if !ok {
		return nil, false
	}
	return tt.Elements, true
}

// RefKindsEqual compares by-reference passing of two signatures.
func RefKindsEqual(a, b TFunc) bool {
	if a.ReturnRefKind != b.ReturnRefKind || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].RefKind != b.Params[i].RefKind {
			return false
		}
	}
	return true
}

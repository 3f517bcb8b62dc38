package typesystem

// Visit walks t depth first and returns the first type for which pred is
// true, or nil. Annotated positions are visited through their type.
func Visit(t Type, pred func(Type) bool) Type {
	if t == nil {
		return nil
	}
	if pred(t) {
		return t
	}
	switch typ := t.(type) {
	case TApp:
		return visitAll(typ.Args, pred)
	case TArray:
		return Visit(typ.Elem.Type, pred)
	case TTuple:
		return visitAll(typ.Elements, pred)
	case TNullable:
		return Visit(typ.Elem, pred)
	case TPointer:
		return Visit(typ.Elem.Type, pred)
	case TFunc:
		for _, p := range typ.Params {
			if found := Visit(p.Type.Type, pred); found != nil {
				return found
			}
		}
		return Visit(typ.Return.Type, pred)
	case TFunctionType:
		return Visit(typ.Delegate, pred)
	default:
		return nil
	}
}

func visitAll(ts []TypeWithAnnotation, pred func(Type) bool) Type {
	for _, a := range ts {
		if found := Visit(a.Type, pred); found != nil {
			return found
		}
	}
	return nil
}

// ContainsTypeVariable reports whether tv occurs anywhere inside t.
func ContainsTypeVariable(t Type, tv TVar) bool {
	return Visit(t, func(x Type) bool {
		v, ok := x.(TVar)
		return ok && v.Same(tv)
	}) != nil
}

// ContainsAnyTypeVariable reports whether t mentions any type parameter.
func ContainsAnyTypeVariable(t Type) bool {
	return Visit(t, func(x Type) bool {
		_, ok := x.(TVar)
		return ok
	}) != nil
}

// CollectHints returns the "_" placeholders inside t in depth-first order.
func CollectHints(t Type) []TVar {
	var hints []TVar
	Visit(t, func(x Type) bool {
		if v, ok := x.(TVar); ok && v.Hint {
			hints = append(hints, v)
		}
		return false
	})
	return hints
}

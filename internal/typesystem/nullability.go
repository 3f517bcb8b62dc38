package typesystem

// Nullability is the top-level annotation carried next to a type.
// Oblivious means the annotation is unknown.
type Nullability int

const (
	Oblivious Nullability = iota
	NotAnnotated
	Annotated
)

func (n Nullability) String() string {
	switch n {
	case NotAnnotated:
		return "not-annotated"
	case Annotated:
		return "annotated"
	default:
		return "oblivious"
	}
}

func (n Nullability) IsAnnotated() bool    { return n == Annotated }
func (n Nullability) IsNotAnnotated() bool { return n == NotAnnotated }
func (n Nullability) IsOblivious() bool    { return n == Oblivious }

// Join widens: Annotated absorbs everything, then Oblivious.
func (n Nullability) Join(other Nullability) Nullability {
	switch {
	case n == Annotated || other == Annotated:
		return Annotated
	case n == Oblivious || other == Oblivious:
		return Oblivious
	default:
		return NotAnnotated
	}
}

// Meet narrows: NotAnnotated absorbs everything, then Oblivious.
func (n Nullability) Meet(other Nullability) Nullability {
	switch {
	case n == NotAnnotated || other == NotAnnotated:
		return NotAnnotated
	case n == Oblivious || other == Oblivious:
		return Oblivious
	default:
		return Annotated
	}
}

// EnsureCompatible is used for invariant positions. An oblivious side
// yields to the other; a real disagreement resolves to NotAnnotated.
func (n Nullability) EnsureCompatible(other Nullability) Nullability {
	switch {
	case n == Oblivious:
		return other
	case other == Oblivious:
		return n
	case n == other:
		return n
	default:
		return NotAnnotated
	}
}

// Merge combines two annotations according to the variance of the position.
func (n Nullability) Merge(other Nullability, v Variance) Nullability {
	switch v {
	case Out:
		return n.Join(other)
	case In:
		return n.Meet(other)
	default:
		return n.EnsureCompatible(other)
	}
}

// MergeEquivalent merges two types that are equal ignoring nullability.
// Annotations are combined position by position: type arguments follow the
// declared variance of their parameter, callable parameters flip.
func MergeEquivalent(a, b TypeWithAnnotation, v Variance) TypeWithAnnotation {
	merged := TypeWithAnnotation{Nullability: a.Nullability.Merge(b.Nullability, v)}
	merged.Type = mergeEquivalentTypes(a.Type, b.Type, v)
	return merged
}

func mergeEquivalentTypes(a, b Type, v Variance) Type {
	switch at := a.(type) {
	case TApp:
		bt, ok := b.(TApp)
		if !ok || at.Def != bt.Def || len(at.Args) != len(bt.Args) {
			return a
		}
		args := make([]TypeWithAnnotation, len(at.Args))
		for i := range at.Args {
			pv := Invariant
			if i < len(at.Def.Params) {
				pv = at.Def.Params[i].Variance
			}
			args[i] = MergeEquivalent(at.Args[i], bt.Args[i], v.Compose(pv))
		}
		return TApp{Def: at.Def, Args: args}
	case TArray:
		bt, ok := b.(TArray)
		if !ok {
			return a
		}
		return TArray{Elem: MergeEquivalent(at.Elem, bt.Elem, v), Rank: at.Rank}
	case TTuple:
		bt, ok := b.(TTuple)
		if !ok || len(at.Elements) != len(bt.Elements) {
			return a
		}
		elems := make([]TypeWithAnnotation, len(at.Elements))
		for i := range at.Elements {
			elems[i] = MergeEquivalent(at.Elements[i], bt.Elements[i], v)
		}
		return TTuple{Elements: elems, Names: at.Names}
	case TNullable:
		bt, ok := b.(TNullable)
		if !ok {
			return a
		}
		return TNullable{Elem: mergeEquivalentTypes(at.Elem, bt.Elem, v)}
	case TPointer:
		bt, ok := b.(TPointer)
		if !ok {
			return a
		}
		return TPointer{Elem: MergeEquivalent(at.Elem, bt.Elem, Invariant)}
	case TFunc:
		bt, ok := b.(TFunc)
		if !ok || len(at.Params) != len(bt.Params) {
			return a
		}
		params := make([]Param, len(at.Params))
		for i, p := range at.Params {
			pv := v.Flip()
			if p.RefKind != RefNone {
				pv = Invariant
			}
			params[i] = Param{Type: MergeEquivalent(p.Type, bt.Params[i].Type, pv), RefKind: p.RefKind}
		}
		rv := v
		if at.ReturnRefKind != RefNone {
			rv = Invariant
		}
		return TFunc{
			Params:            params,
			Return:            MergeEquivalent(at.Return, bt.Return, rv),
			ReturnRefKind:     at.ReturnRefKind,
			CallingConvention: at.CallingConvention,
		}
	default:
		return a
	}
}

// EraseNullability makes every annotation inside t oblivious.
func EraseNullability(t TypeWithAnnotation) TypeWithAnnotation {
	if t.Type == nil {
		return TypeWithAnnotation{}
	}
	return TypeWithAnnotation{Type: eraseType(t.Type)}
}

func eraseType(t Type) Type {
	switch typ := t.(type) {
	case TApp:
		args := make([]TypeWithAnnotation, len(typ.Args))
		for i, a := range typ.Args {
			args[i] = EraseNullability(a)
		}
		return TApp{Def: typ.Def, Args: args}
	case TArray:
		return TArray{Elem: EraseNullability(typ.Elem), Rank: typ.Rank}
	case TTuple:
		elems := make([]TypeWithAnnotation, len(typ.Elements))
		for i, e := range typ.Elements {
			elems[i] = EraseNullability(e)
		}
		return TTuple{Elements: elems, Names: typ.Names}
	case TNullable:
		return TNullable{Elem: eraseType(typ.Elem)}
	case TPointer:
		return TPointer{Elem: EraseNullability(typ.Elem)}
	case TFunc:
		params := make([]Param, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = Param{Type: EraseNullability(p.Type), RefKind: p.RefKind}
		}
		return TFunc{Params: params, Return: EraseNullability(typ.Return), ReturnRefKind: typ.ReturnRefKind, CallingConvention: typ.CallingConvention}
	case TFunctionType:
		if typ.Delegate == nil {
			return typ
		}
		return TFunctionType{Delegate: eraseType(typ.Delegate)}
	default:
		return t
	}
}

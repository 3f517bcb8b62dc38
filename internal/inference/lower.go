package inference

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// lowerBoundInference records that source must convert to target.
func (in *inferrer) lowerBoundInference(source, target typesystem.TypeWithAnnotation) {
	debugAssert(source.HasType() && target.HasType(), "lower-bound inference on a missing type")
	if !source.HasType() || !target.HasType() {
		return
	}
	switch {
	case in.exactOrBoundsNullableInference(Lower, source, target):
	case in.exactOrBoundsTypeVariableInference(Lower, source, target):
	case in.lowerBoundArrayInference(source.Type, target.Type):
	case in.lowerBoundTupleInference(source.Type, target.Type):
	case in.lowerBoundConstructedInference(source.Type, target.Type):
	case in.lowerBoundFunctionPointerInference(source.Type, target.Type):
	}
}

// matchingElementType returns the element type target expects from the
// array source: the element of an array of the same shape, or the type
// argument of an interface that single-dimensional arrays implement.
func matchingElementType(source typesystem.TArray, target typesystem.Type) (typesystem.TypeWithAnnotation, bool) {
	if ta, ok := target.(typesystem.TArray); ok {
		if ta.SameShape(source) {
			return ta.Elem, true
		}
		return typesystem.TypeWithAnnotation{}, false
	}
	if !source.IsSingleDimensional() {
		return typesystem.TypeWithAnnotation{}, false
	}
	def, args, ok := typesystem.Named(target)
	if !ok || !def.ArrayInterface || len(args) != 1 {
		return typesystem.TypeWithAnnotation{}, false
	}
	return args[0], true
}

func (in *inferrer) lowerBoundArrayInference(source, target typesystem.Type) bool {
	sa, ok := source.(typesystem.TArray)
	if !ok {
		return false
	}
	elemTarget, ok := matchingElementType(sa, target)
	if !ok {
		return false
	}
	if typesystem.IsReferenceType(sa.Elem.Type) {
		in.lowerBoundInference(sa.Elem, elemTarget)
	} else {
		in.exactInference(sa.Elem, elemTarget)
	}
	return true
}

func (in *inferrer) lowerBoundTupleInference(source, target typesystem.Type) bool {
	se, ok := typesystem.TupleElements(source)
	if !ok {
		return false
	}
	te, ok := typesystem.TupleElements(target)
	if !ok || len(se) != len(te) {
		return false
	}
	for i := range se {
		in.lowerBoundInference(se[i], te[i])
	}
	return true
}

func (in *inferrer) lowerBoundConstructedInference(source, target typesystem.Type) bool {
	if typesystem.AllTypeArgumentCount(target) == 0 {
		return false
	}
	if typesystem.SameDefinition(source, target) {
		if typesystem.IsInterface(source) || typesystem.IsDelegate(source) {
			in.lowerBoundTypeArgumentInference(source, target)
		} else {
			in.exactTypeArgumentInference(source, target)
		}
		return true
	}
	return in.lowerBoundClassInference(source, target) || in.lowerBoundInterfaceInference(source, target)
}

// lowerBoundClassInference walks the base classes of source looking for
// the generic class target is built from.
func (in *inferrer) lowerBoundClassInference(source, target typesystem.Type) bool {
	if target.Kind() != typesystem.KindClass {
		return false
	}
	var base typesystem.Type
	switch source.Kind() {
	case typesystem.KindClass, typesystem.KindTypeParameter:
		base = in.conv.BaseType(source)
	default:
		return false
	}
	for depth := 0; base != nil && depth < maxBaseDepth; depth++ {
		if typesystem.SameDefinition(base, target) {
			in.exactTypeArgumentInference(base, target)
			return true
		}
		base = in.conv.BaseType(base)
	}
	return false
}

// lowerBoundInterfaceInference finds the single instantiation of target's
// interface among everything source implements. Several distinct
// instantiations make the inference ambiguous and nothing is inferred.
func (in *inferrer) lowerBoundInterfaceInference(source, target typesystem.Type) bool {
	if !typesystem.IsInterface(target) {
		return false
	}
	switch source.Kind() {
	case typesystem.KindStruct, typesystem.KindClass, typesystem.KindInterface, typesystem.KindTypeParameter:
	default:
		return false
	}
	all := modNullability(in.conv.AllInterfaces(source), typesystem.In)
	match, ok := uniqueInstantiation(all, target)
	if !ok {
		return false
	}
	in.lowerBoundTypeArgumentInference(match, target)
	return true
}

// modNullability collapses interfaces that differ only in annotations.
func modNullability(ifaces []typesystem.Type, v typesystem.Variance) []typesystem.Type {
	var out []typesystem.TypeWithAnnotation
	for _, it := range ifaces {
		t := typesystem.With(it)
		merged := false
		for k, o := range out {
			if typesystem.Equal(o, t, typesystem.IgnoreNullabilityAndTupleNames) {
				out[k] = typesystem.MergeEquivalent(o, t, v)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, t)
		}
	}
	types := make([]typesystem.Type, len(out))
	for i, t := range out {
		types[i] = t.Type
	}
	return types
}

// uniqueInstantiation returns the only element of candidates built from
// the same definition as target.
func uniqueInstantiation(candidates []typesystem.Type, target typesystem.Type) (typesystem.Type, bool) {
	var match typesystem.Type
	for _, c := range candidates {
		if !typesystem.SameDefinition(c, target) {
			continue
		}
		if match == nil {
			match = c
			continue
		}
		if !typesystem.Identical(match, c, typesystem.ConsiderEverything) {
			return nil, false
		}
	}
	return match, match != nil
}

// lowerBoundTypeArgumentInference infers between two instantiations of the
// same variant definition. Covariant reference arguments keep the lower
// direction, contravariant ones flip it, everything else is exact.
func (in *inferrer) lowerBoundTypeArgumentInference(source, target typesystem.Type) {
	def, sargs, _ := typesystem.Named(source)
	_, targs, _ := typesystem.Named(target)
	debugAssert(len(sargs) == len(targs), "type argument count mismatch between %s and %s", source, target)
	for i := 0; i < min(len(sargs), len(targs)); i++ {
		sa, ta := sargs[i], targs[i]
		switch {
		case typesystem.IsReferenceType(sa.Type) && paramVariance(def, i) == typesystem.Out:
			in.lowerBoundInference(sa, ta)
		case typesystem.IsReferenceType(sa.Type) && paramVariance(def, i) == typesystem.In:
			in.upperBoundInference(sa, ta)
		default:
			in.exactInference(sa, ta)
		}
	}
}

func paramVariance(def *typesystem.Definition, i int) typesystem.Variance {
	if def == nil || i >= len(def.Params) {
		return typesystem.Invariant
	}
	return def.Params[i].Variance
}

func (in *inferrer) lowerBoundFunctionPointerInference(source, target typesystem.Type) bool {
	sf, ok := source.(typesystem.TFunc)
	if !ok {
		return false
	}
	tf, ok := target.(typesystem.TFunc)
	if !ok || !functionPointersMatch(sf, tf) {
		return false
	}
	for i, sp := range sf.Params {
		if typesystem.IsReferenceLike(sp.Type.Type) && sp.RefKind == typesystem.RefNone {
			in.upperBoundInference(sp.Type, tf.Params[i].Type)
		} else {
			in.exactInference(sp.Type, tf.Params[i].Type)
		}
	}
	if typesystem.IsReferenceLike(sf.Return.Type) && sf.ReturnRefKind == typesystem.RefNone {
		in.lowerBoundInference(sf.Return, tf.Return)
	} else {
		in.exactInference(sf.Return, tf.Return)
	}
	return true
}

package inference

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// upperBoundInference records that target must convert to source. It
// mirrors lowerBoundInference with the direction reversed.
func (in *inferrer) upperBoundInference(source, target typesystem.TypeWithAnnotation) {
	debugAssert(source.HasType() && target.HasType(), "upper-bound inference on a missing type")
	if !source.HasType() || !target.HasType() {
		return
	}
	switch {
	case in.exactOrBoundsNullableInference(Upper, source, target):
	case in.exactOrBoundsTypeVariableInference(Upper, source, target):
	case in.upperBoundArrayInference(source.Type, target.Type):
	case in.upperBoundConstructedInference(source.Type, target.Type):
	case in.upperBoundFunctionPointerInference(source.Type, target.Type):
	}
}

func (in *inferrer) upperBoundArrayInference(source, target typesystem.Type) bool {
	ta, ok := target.(typesystem.TArray)
	if !ok {
		return false
	}
	elemSource, ok := matchingElementType(ta, source)
	if !ok {
		return false
	}
	if typesystem.IsReferenceType(elemSource.Type) {
		in.upperBoundInference(elemSource, ta.Elem)
	} else {
		in.exactInference(elemSource, ta.Elem)
	}
	return true
}

func (in *inferrer) upperBoundConstructedInference(source, target typesystem.Type) bool {
	if typesystem.AllTypeArgumentCount(source) == 0 {
		return false
	}
	if typesystem.SameDefinition(source, target) {
		if typesystem.IsInterface(target) || typesystem.IsDelegate(target) {
			in.upperBoundTypeArgumentInference(source, target)
		} else {
			in.exactTypeArgumentInference(source, target)
		}
		return true
	}
	return in.upperBoundClassInference(source, target) || in.upperBoundInterfaceInference(source, target)
}

// upperBoundClassInference walks the bases of target looking for the
// generic class source is built from.
func (in *inferrer) upperBoundClassInference(source, target typesystem.Type) bool {
	if source.Kind() != typesystem.KindClass || target.Kind() != typesystem.KindClass {
		return false
	}
	base := in.conv.BaseType(target)
	for depth := 0; base != nil && depth < maxBaseDepth; depth++ {
		if typesystem.SameDefinition(base, source) {
			in.exactTypeArgumentInference(source, base)
			return true
		}
		base = in.conv.BaseType(base)
	}
	return false
}

func (in *inferrer) upperBoundInterfaceInference(source, target typesystem.Type) bool {
	if !typesystem.IsInterface(source) {
		return false
	}
	switch target.Kind() {
	case typesystem.KindStruct, typesystem.KindClass, typesystem.KindInterface:
	default:
		return false
	}
	all := modNullability(in.conv.AllInterfaces(target), typesystem.Out)
	match, ok := uniqueInstantiation(all, source)
	if !ok {
		return false
	}
	in.upperBoundTypeArgumentInference(source, match)
	return true
}

// upperBoundTypeArgumentInference is the mirror of the lower-bound rule:
// covariant reference arguments stay upper, contravariant ones flip.
func (in *inferrer) upperBoundTypeArgumentInference(source, target typesystem.Type) {
	def, sargs, _ := typesystem.Named(source)
	_, targs, _ := typesystem.Named(target)
	debugAssert(len(sargs) == len(targs), "type argument count mismatch between %s and %s", source, target)
	for i := 0; i < min(len(sargs), len(targs)); i++ {
		sa, ta := sargs[i], targs[i]
		switch {
		case typesystem.IsReferenceType(sa.Type) && paramVariance(def, i) == typesystem.Out:
			in.upperBoundInference(sa, ta)
		case typesystem.IsReferenceType(sa.Type) && paramVariance(def, i) == typesystem.In:
			in.lowerBoundInference(sa, ta)
		default:
			in.exactInference(sa, ta)
		}
	}
}

func (in *inferrer) upperBoundFunctionPointerInference(source, target typesystem.Type) bool {
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
			in.lowerBoundInference(sp.Type, tf.Params[i].Type)
		} else {
			in.exactInference(sp.Type, tf.Params[i].Type)
		}
	}
	if typesystem.IsReferenceLike(sf.Return.Type) && sf.ReturnRefKind == typesystem.RefNone {
		in.upperBoundInference(sf.Return, tf.Return)
	} else {
		in.exactInference(sf.Return, tf.Return)
	}
	return true
}

package inference

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// exactInference requires source and target to be the same type and
// records exact bounds for the variables target mentions.
func (in *inferrer) exactInference(source, target typesystem.TypeWithAnnotation) {
	debugAssert(source.HasType() && target.HasType(), "exact inference on a missing type")
	if !source.HasType() || !target.HasType() {
		return
	}
	switch {
	case in.exactOrBoundsNullableInference(Exact, source, target):
	case in.exactOrBoundsTypeVariableInference(Exact, source, target):
	case in.exactArrayInference(source.Type, target.Type):
	case in.exactTupleInference(source.Type, target.Type):
	case in.exactConstructedInference(source.Type, target.Type):
	case in.exactPointerInference(source.Type, target.Type):
	}
}

func (in *inferrer) exactArrayInference(source, target typesystem.Type) bool {
	sa, ok := source.(typesystem.TArray)
	if !ok {
		return false
	}
	ta, ok := target.(typesystem.TArray)
	if !ok || !sa.SameShape(ta) {
		return false
	}
	in.exactInference(sa.Elem, ta.Elem)
	return true
}

func (in *inferrer) exactTupleInference(source, target typesystem.Type) bool {
	se, ok := typesystem.TupleElements(source)
	if !ok {
		return false
	}
	te, ok := typesystem.TupleElements(target)
	if !ok || len(se) != len(te) {
		return false
	}
	for i := range se {
		in.exactInference(se[i], te[i])
	}
	return true
}

func (in *inferrer) exactConstructedInference(source, target typesystem.Type) bool {
	if !typesystem.SameDefinition(source, target) || typesystem.AllTypeArgumentCount(target) == 0 {
		return false
	}
	in.exactTypeArgumentInference(source, target)
	return true
}

func (in *inferrer) exactTypeArgumentInference(source, target typesystem.Type) {
	_, sargs, _ := typesystem.Named(source)
	_, targs, _ := typesystem.Named(target)
	debugAssert(len(sargs) == len(targs), "type argument count mismatch between %s and %s", source, target)
	for i := 0; i < min(len(sargs), len(targs)); i++ {
		in.exactInference(sargs[i], targs[i])
	}
}

func (in *inferrer) exactPointerInference(source, target typesystem.Type) bool {
	if sp, ok := source.(typesystem.TPointer); ok {
		if tp, ok := target.(typesystem.TPointer); ok {
			in.exactInference(sp.Elem, tp.Elem)
			return true
		}
		return false
	}
	sf, ok := source.(typesystem.TFunc)
	if !ok {
		return false
	}
	tf, ok := target.(typesystem.TFunc)
	if !ok || !functionPointersMatch(sf, tf) {
		return false
	}
	for i := range sf.Params {
		in.exactInference(sf.Params[i].Type, tf.Params[i].Type)
	}
	in.exactInference(sf.Return, tf.Return)
	return true
}

// functionPointersMatch requires the same arity, passing modes and
// calling convention.
func functionPointersMatch(a, b typesystem.TFunc) bool {
	return len(a.Params) == len(b.Params) && typesystem.RefKindsEqual(a, b) && a.CallingConvention == b.CallingConvention
}

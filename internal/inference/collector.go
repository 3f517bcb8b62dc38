package inference

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// makeExplicitParameterTypeInferences is the first-phase treatment of one
// argument: everything that can be learned before any variable is fixed.
func (in *inferrer) makeExplicitParameterTypeInferences(arg Argument, target typesystem.TypeWithAnnotation, kind BoundKind) {
	if lambda, ok := arg.(LambdaArg); ok {
		if _, isDelegate := typesystem.DelegateType(target.Type); isDelegate {
			in.explicitParameterTypeInference(lambda, target.Type)
			in.explicitReturnTypeInference(lambda, target.Type)
			return
		}
	}
	if tuple, ok := arg.(TupleArg); ok && in.makeExplicitTupleInferences(tuple, target, kind) {
		return
	}

	argType := in.ext.ArgumentType(arg)
	if typesystem.IsReallyAType(argType.Type) {
		in.exactOrBoundsInference(kind, argType, target)
		return
	}
	if i, ok := in.unfixedIndex(target.Type); ok && !target.Nullability.IsAnnotated() && kind == Lower {
		in.bounds[i].joinNullability(argType.Nullability)
	}
}

func (in *inferrer) makeExplicitTupleInferences(tuple TupleArg, target typesystem.TypeWithAnnotation, kind BoundKind) bool {
	elems, ok := typesystem.TupleElements(target.Type)
	if !ok || len(elems) != len(tuple.Elements) {
		return false
	}
	for i, e := range tuple.Elements {
		in.makeExplicitParameterTypeInferences(e, elems[i], kind)
	}
	return true
}

// explicitParameterTypeInference binds the written parameter types of a
// lambda exactly to the delegate's parameter types.
func (in *inferrer) explicitParameterTypeInference(lambda LambdaArg, target typesystem.Type) {
	if !lambda.HasExplicitParams() {
		return
	}
	delegate, _ := typesystem.DelegateType(target)
	sig, ok := typesystem.DelegateSignature(delegate)
	if !ok {
		return
	}
	n := min(len(lambda.Params), len(sig.Params))
	for i := 0; i < n; i++ {
		in.exactInference(lambda.Params[i], sig.Params[i].Type)
	}
}

// explicitReturnTypeInference binds a declared lambda return type exactly.
func (in *inferrer) explicitReturnTypeInference(lambda LambdaArg, target typesystem.Type) {
	if lambda.Return == nil || !lambda.Return.HasType() {
		return
	}
	delegate, _ := typesystem.DelegateType(target)
	sig, ok := typesystem.DelegateSignature(delegate)
	if !ok || !sig.Return.HasType() {
		return
	}
	in.exactInference(*lambda.Return, sig.Return)
}

func (in *inferrer) exactOrBoundsInference(kind BoundKind, source, target typesystem.TypeWithAnnotation) {
	switch kind {
	case Exact:
		in.exactInference(source, target)
	case Lower:
		in.lowerBoundInference(source, target)
	case Upper:
		in.upperBoundInference(source, target)
	}
}

// exactOrBoundsNullableInference strips one level of nullability when both
// sides carry it, then infers on what is left.
func (in *inferrer) exactOrBoundsNullableInference(kind BoundKind, source, target typesystem.TypeWithAnnotation) bool {
	if sn, ok := source.Type.(typesystem.TNullable); ok {
		if tn, ok := target.Type.(typesystem.TNullable); ok {
			in.exactOrBoundsInference(kind, typesystem.With(sn.Elem), typesystem.With(tn.Elem))
			return true
		}
	}
	if source.Nullability.IsAnnotated() && target.Nullability.IsAnnotated() {
		in.exactOrBoundsInference(kind, source.AsNotAnnotated(), target.AsNotAnnotated())
		return true
	}
	return false
}

func (in *inferrer) exactOrBoundsTypeVariableInference(kind BoundKind, source, target typesystem.TypeWithAnnotation) bool {
	i, ok := in.unfixedIndex(target.Type)
	if !ok {
		return false
	}
	in.addBound(i, kind, source)
	return true
}

// addBound records source as a bound of variable i. When either the new
// bound or an existing exact bound mentions an unfixed "_" placeholder,
// the two are inferred against each other so information flows through
// partially written type arguments such as List<_>.
func (in *inferrer) addBound(i int, kind BoundKind, source typesystem.TypeWithAnnotation) {
	b := in.bounds[i]
	existing := [3][]typesystem.TypeWithAnnotation{
		b.bounds(Exact), b.bounds(Lower), b.bounds(Upper),
	}
	if !b.add(kind, source) {
		return
	}
	in.log.Debug("bound", "var", in.typeVars[i].String(), "kind", kind.String(), "type", source.String())

	if in.propagating >= maxPropagationDepth {
		return
	}
	in.propagating++
	defer func() { in.propagating-- }()

	for _, e := range existing[Exact] {
		if in.mentionsUnfixed(e.Type, i) {
			in.exactOrBoundsInference(kind, source, e)
		}
	}
	if kind == Exact && in.mentionsUnfixed(source.Type, i) {
		for _, k := range []BoundKind{Exact, Lower, Upper} {
			for _, other := range existing[k] {
				in.exactOrBoundsInference(k, other, source)
			}
		}
	}
}

// mentionsUnfixed reports whether t contains an unfixed placeholder other
// than self.
func (in *inferrer) mentionsUnfixed(t typesystem.Type, self int) bool {
	return typesystem.Visit(t, func(x typesystem.Type) bool {
		j, ok := in.unfixedIndex(x)
		return ok && j != self && in.typeVars[j].Hint
	}) != nil
}

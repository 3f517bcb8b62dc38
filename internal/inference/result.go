package inference

import (
	"github.com/google/uuid"

	"github.com/funvibe/typeinfer/internal/typesystem"
)

// InferredType is the outcome for one variable. Type is empty when the
// variable could not be resolved.
type InferredType struct {
	Var  typesystem.TVar
	Type typesystem.TypeWithAnnotation
}

// Result of an inference run. A failed run still carries whatever was
// fixed before the failure.
type Result struct {
	Success       bool
	InferredTypes []InferredType
	// HasTypeVariableInferredFromFunctionType is set when some variable
	// took its type from a lambda or method group's natural type.
	HasTypeVariableInferredFromFunctionType bool
	RunID                                   uuid.UUID
}

// Lookup returns the inferred type of tv.
func (r Result) Lookup(tv typesystem.TVar) (typesystem.TypeWithAnnotation, bool) {
	for _, it := range r.InferredTypes {
		if it.Var.Same(tv) {
			return it.Type, it.Type.HasType()
		}
	}
	return typesystem.TypeWithAnnotation{}, false
}

// Subst turns the resolved variables into a substitution.
func (r Result) Subst() typesystem.Subst {
	s := make(typesystem.Subst, len(r.InferredTypes))
	for _, it := range r.InferredTypes {
		if it.Type.HasType() {
			s[it.Var.ID] = it.Type
		}
	}
	return s
}

// Unresolved lists the variables without a type.
func (r Result) Unresolved() []typesystem.TVar {
	var out []typesystem.TVar
	for _, it := range r.InferredTypes {
		if !it.Type.HasType() {
			out = append(out, it.Var)
		}
	}
	return out
}

// Err returns nil for a successful run and an *InferenceError otherwise.
func (r Result) Err(callee string) error {
	if r.Success {
		return nil
	}
	return &InferenceError{Callee: callee, Unresolved: r.Unresolved()}
}

func (in *inferrer) results() Result {
	res := Result{InferredTypes: make([]InferredType, len(in.typeVars))}
	for i, tv := range in.typeVars {
		res.InferredTypes[i] = InferredType{Var: tv, Type: in.resultType(i)}
		if in.fixed[i].fromFunctionType {
			res.HasTypeVariableInferredFromFunctionType = true
		}
	}
	return res
}

// resultType applies the collected nullable lower bound to a fixed type.
// Error types keep their place only when they carry a name.
func (in *inferrer) resultType(i int) typesystem.TypeWithAnnotation {
	t := in.fixed[i].typ
	if !t.HasType() {
		return typesystem.TypeWithAnnotation{}
	}
	if typesystem.IsError(t.Type) {
		if e, ok := t.Type.(typesystem.TError); ok && e.Name != "" {
			return t
		}
		return typesystem.TypeWithAnnotation{}
	}
	if in.conv.IncludeNullability() && in.bounds[i].nullableLower.IsAnnotated() {
		return t.AsAnnotated()
	}
	return t
}

package inference

import (
	"fmt"

	"github.com/funvibe/typeinfer/internal/typesystem"
)

// BoundKind says how a source type relates to the type being inferred.
type BoundKind int

const (
	// Exact: the variable must be identical to the bound.
	Exact BoundKind = iota
	// Lower: the bound must convert to the variable.
	Lower
	// Upper: the variable must convert to the bound.
	Upper
)

func (k BoundKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return fmt.Sprintf("BoundKind(%d)", int(k))
	}
}

// variance is the position variance used when merging bounds of this kind.
func (k BoundKind) variance() typesystem.Variance {
	switch k {
	case Lower:
		return typesystem.Out
	case Upper:
		return typesystem.In
	default:
		return typesystem.Invariant
	}
}

// Constraint pairs an argument with the parameter type it is passed to.
type Constraint struct {
	Source Argument
	Target typesystem.TypeWithAnnotation
	Kind   BoundKind
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %s", c.Source, c.Kind, c.Target)
}

// MakeTypeVariables lists the variables to infer for a call: the method's
// type parameters followed by every "_" placeholder in the explicit type
// arguments.
func MakeTypeVariables(typeParams []typesystem.TVar, typeArgs []typesystem.TypeWithAnnotation) []typesystem.TVar {
	vars := make([]typesystem.TVar, 0, len(typeParams))
	vars = append(vars, typeParams...)
	for _, ta := range typeArgs {
		vars = append(vars, typesystem.CollectHints(ta.Type)...)
	}
	return vars
}

// MakeConstraints pairs arguments with parameters and explicit type
// arguments with type parameters. Extra arguments or parameters on either
// side are ignored.
func MakeConstraints(params []typesystem.Param, args []Argument, typeParams []typesystem.TVar, typeArgs []typesystem.TypeWithAnnotation) []Constraint {
	n := min(len(params), len(args))
	constraints := make([]Constraint, 0, n+len(typeArgs))
	for i := 0; i < n; i++ {
		kind := Lower
		if params[i].RefKind.IsManagedReference() || isPointerArgument(args[i]) {
			kind = Exact
		}
		constraints = append(constraints, Constraint{Source: args[i], Target: params[i].Type, Kind: kind})
	}
	for i := 0; i < min(len(typeParams), len(typeArgs)); i++ {
		constraints = append(constraints, Constraint{
			Source: HintArg{Type: typeArgs[i]},
			Target: typesystem.With(typeParams[i]),
			Kind:   Exact,
		})
	}
	return constraints
}

func isPointerArgument(arg Argument) bool {
	e, ok := arg.(ExprArg)
	if !ok {
		return false
	}
	_, ok = e.Type.Type.(typesystem.TPointer)
	return ok
}

// InferredTypeArguments maps a result back onto the method's type
// parameters. A parameter that was not inferred gets an uninferred
// placeholder naming it.
func InferredTypeArguments(typeParams []typesystem.TVar, r Result) []typesystem.TypeWithAnnotation {
	byID := make(map[int]typesystem.TypeWithAnnotation, len(r.InferredTypes))
	for _, it := range r.InferredTypes {
		if it.Type.HasType() {
			byID[it.Var.ID] = it.Type
		}
	}
	out := make([]typesystem.TypeWithAnnotation, len(typeParams))
	for i, tp := range typeParams {
		if t, ok := byID[tp.ID]; ok {
			out[i] = t
			continue
		}
		out[i] = typesystem.With(typesystem.TUninferred{Param: tp.Name})
	}
	return out
}

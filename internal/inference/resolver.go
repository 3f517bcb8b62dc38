package inference

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// conversionResolver applies overloads by implicit conversion of the
// target's parameter types and picks the most specific applicable one.
// Generic overloads are instantiated by a nested inference run.
type conversionResolver struct {
	conv Conversions
}

// NewResolver returns the overload resolver used when no other is given.
func NewResolver(conv Conversions) OverloadResolver {
	return conversionResolver{conv: conv}
}

func (r conversionResolver) ResolveMethodGroup(group MethodGroupArg, params []typesystem.Param, returnRefKind typesystem.RefKind, callingConvention string, isFunctionPointer bool) (Method, bool) {
	var applicable []Method
	for _, m := range group.Overloads {
		if inst, ok := r.applicable(m, params, returnRefKind, callingConvention, isFunctionPointer); ok {
			applicable = append(applicable, inst)
		}
	}
	return r.best(applicable)
}

func (r conversionResolver) applicable(m Method, params []typesystem.Param, returnRefKind typesystem.RefKind, cc string, isFunctionPointer bool) (Method, bool) {
	if len(m.Params) != len(params) || returnRefKind != typesystem.RefNone {
		return Method{}, false
	}
	if isFunctionPointer && m.CallingConvention != cc {
		return Method{}, false
	}
	if len(m.TypeParams) > 0 {
		inst, ok := r.instantiate(m, params)
		if !ok {
			return Method{}, false
		}
		m = inst
	}
	for i, p := range params {
		mp := m.Params[i]
		if p.RefKind != mp.RefKind {
			return Method{}, false
		}
		if p.RefKind != typesystem.RefNone {
			if !typesystem.Equal(p.Type, mp.Type, typesystem.IgnoreNullabilityAndTupleNames) {
				return Method{}, false
			}
			continue
		}
		if !r.conv.ImplicitConversionExists(p.Type.Type, mp.Type.Type) {
			return Method{}, false
		}
	}
	return m, true
}

func (r conversionResolver) instantiate(m Method, params []typesystem.Param) (Method, bool) {
	args := make([]Argument, len(params))
	for i, p := range params {
		args[i] = ExprArg{Type: p.Type}
	}
	res := Infer(m.TypeParams, MakeConstraints(m.Params, args, nil, nil), r.conv, nil)
	if !res.Success {
		return Method{}, false
	}
	subst := res.Subst()
	inst := Method{
		Name:              m.Name,
		Params:            make([]typesystem.Param, len(m.Params)),
		Return:            m.Return.Apply(subst),
		CallingConvention: m.CallingConvention,
	}
	for i, p := range m.Params {
		inst.Params[i] = typesystem.Param{Type: p.Type.Apply(subst), RefKind: p.RefKind}
	}
	return inst, true
}

// best returns the unique candidate whose parameters all convert to the
// corresponding parameters of every other candidate.
func (r conversionResolver) best(candidates []Method) (Method, bool) {
	switch len(candidates) {
	case 0:
		return Method{}, false
	case 1:
		return candidates[0], true
	}
	found := -1
	for i, m := range candidates {
		dominates := true
		for j, o := range candidates {
			if i != j && !r.atLeastAsSpecific(m, o) {
				dominates = false
				break
			}
		}
		if !dominates {
			continue
		}
		if found >= 0 {
			return Method{}, false
		}
		found = i
	}
	if found < 0 {
		return Method{}, false
	}
	return candidates[found], true
}

func (r conversionResolver) atLeastAsSpecific(m, o Method) bool {
	for i := range m.Params {
		if !r.conv.ImplicitConversionExists(m.Params[i].Type.Type, o.Params[i].Type.Type) {
			return false
		}
	}
	return true
}

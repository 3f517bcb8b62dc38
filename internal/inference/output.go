package inference

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// outputTypeInference learns from what a lambda or method group returns
// once its inputs are fixed, falling back to the argument's own type.
func (in *inferrer) outputTypeInference(arg Argument, target typesystem.TypeWithAnnotation) {
	if in.inferredReturnTypeInference(arg, target) {
		return
	}
	if in.methodGroupReturnTypeInference(arg, target.Type) {
		return
	}
	sourceType := in.ext.ArgumentType(arg)
	if sourceType.HasType() {
		in.lowerBoundInference(sourceType, target)
	}
}

func (in *inferrer) inferredReturnTypeInference(arg Argument, target typesystem.TypeWithAnnotation) bool {
	delegate, ok := typesystem.DelegateType(target.Type)
	if !ok {
		return false
	}
	sig, ok := typesystem.DelegateSignature(delegate)
	if !ok || !sig.Return.HasType() || typesystem.IsVoid(sig.Return.Type) {
		return false
	}
	inferred := in.inferReturnType(arg, delegate)
	if !inferred.HasType() {
		return false
	}
	in.lowerBoundInference(inferred, sig.Return)
	return true
}

// inferReturnType binds a lambda body against the delegate with every
// fixed variable substituted and returns the type it produces.
func (in *inferrer) inferReturnType(arg Argument, delegate typesystem.Type) typesystem.TypeWithAnnotation {
	lambda, ok := arg.(LambdaArg)
	if !ok {
		return typesystem.TypeWithAnnotation{}
	}
	sig, ok := typesystem.DelegateSignature(delegate)
	if !ok {
		return typesystem.TypeWithAnnotation{}
	}
	if lambda.HasSignature() && lambda.ParamCount != len(sig.Params) {
		return typesystem.TypeWithAnnotation{}
	}
	fixedSig, ok := typesystem.DelegateSignature(in.fixedDelegate(delegate))
	if !ok {
		return typesystem.TypeWithAnnotation{}
	}
	params := fixedSig.ParamTypes()
	if lambda.HasExplicitParams() {
		if len(lambda.Params) != len(params) {
			return typesystem.TypeWithAnnotation{}
		}
		for i, p := range lambda.Params {
			if !typesystem.Equal(p, params[i], typesystem.IgnoreNullabilityAndTupleNames) {
				return typesystem.TypeWithAnnotation{}
			}
		}
		params = lambda.Params
	}
	if lambda.Return != nil && lambda.Return.HasType() {
		return *lambda.Return
	}
	if lambda.Body == nil {
		return typesystem.TypeWithAnnotation{}
	}
	ret, fromFunctionType := lambda.Body.InferReturnType(params)
	if fromFunctionType || !typesystem.IsReallyAType(ret.Type) {
		return typesystem.TypeWithAnnotation{}
	}
	return ret
}

func (in *inferrer) methodGroupReturnTypeInference(arg Argument, target typesystem.Type) bool {
	group, ok := arg.(MethodGroupArg)
	if !ok {
		return false
	}
	_, isFunctionPointer := target.(typesystem.TFunc)
	if group.AddressOf != isFunctionPointer {
		return false
	}
	sig, ok := typesystem.CallableSignature(target)
	if !ok || !sig.Return.HasType() || typesystem.IsVoid(sig.Return.Type) {
		return false
	}

	callable := target
	if !isFunctionPointer {
		callable, _ = typesystem.DelegateType(target)
	}
	fixedSig, ok := typesystem.CallableSignature(in.fixedDelegate(callable))
	if !ok {
		return false
	}
	method, ok := in.resolver.ResolveMethodGroup(group, fixedSig.Params, sig.ReturnRefKind, sig.CallingConvention, isFunctionPointer)
	if !ok {
		in.log.Debug("method group unresolved", "group", group.Name)
		return false
	}
	ret := in.ext.MethodGroupResultType(group, method)
	if !ret.HasType() || typesystem.IsVoid(ret.Type) {
		return false
	}
	in.lowerBoundInference(ret, sig.Return)
	return true
}

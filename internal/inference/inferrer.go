package inference

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/funvibe/typeinfer/internal/typesystem"
)

// maxPropagationDepth bounds the bound-to-bound inference triggered by
// bounds that mention other unfixed "_" placeholders. Each level needs a
// placeholder nested inside the previous one's bound, so real call sites
// stay within a few levels; the cap only stops runaway mutual recursion
// between placeholders that mention each other.
const maxPropagationDepth = 16

// maxBaseDepth bounds walks up a base class chain.
const maxBaseDepth = 64

type fixedResult struct {
	typ              typesystem.TypeWithAnnotation
	fromFunctionType bool
}

type inferrer struct {
	conv        Conversions
	ext         Extensions
	resolver    OverloadResolver
	typeVars    []typesystem.TVar
	index       map[int]int
	constraints []Constraint
	subst       typesystem.Subst
	bounds      []*boundSet
	fixed       []fixedResult
	deps        *dependencyGraph
	log         *slog.Logger
	propagating int
}

// Infer solves typeVars against constraints. subst carries type arguments
// already known from an enclosing context; it is applied when delegate
// signatures are read. Infer never returns an error: a failed run is
// reported through Result.Success.
func Infer(typeVars []typesystem.TVar, constraints []Constraint, conv Conversions, subst typesystem.Subst, opts ...Option) Result {
	o := options{ext: DefaultExtensions}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolver == nil {
		o.resolver = NewResolver(conv)
	}
	log := o.logger
	if log == nil {
		log = logger
	}
	if o.runID != uuid.Nil {
		log = log.With("run", o.runID.String())
	}

	in := &inferrer{
		conv:        conv,
		ext:         o.ext,
		resolver:    o.resolver,
		typeVars:    typeVars,
		index:       make(map[int]int, len(typeVars)),
		constraints: constraints,
		subst:       subst,
		bounds:      make([]*boundSet, len(typeVars)),
		fixed:       make([]fixedResult, len(typeVars)),
		log:         log,
	}
	for i, tv := range typeVars {
		in.index[tv.ID] = i
		in.bounds[i] = newBoundSet()
	}

	if len(constraints) == 0 {
		log.Debug("no constraints", "vars", len(typeVars))
		return Result{RunID: o.runID}
	}

	in.deps = newDependencyGraph(len(typeVars), in.dependsDirectlyOn)
	success := in.run()
	res := in.results()
	res.Success = success
	res.RunID = o.runID
	log.Debug("inference finished", "success", success, "vars", len(typeVars))
	return res
}

func (in *inferrer) run() bool {
	in.inferTypeArgsFirstPhase()
	for {
		switch in.doSecondPhase() {
		case phaseSuccess:
			return true
		case phaseFailed:
			return false
		}
	}
}

func (in *inferrer) inferTypeArgsFirstPhase() {
	for _, c := range in.constraints {
		in.makeExplicitParameterTypeInferences(c.Source, c.Target, c.Kind)
	}
}

type phaseResult int

const (
	phaseInProgress phaseResult = iota
	phaseNoProgress
	phaseSuccess
	phaseFailed
)

func (in *inferrer) doSecondPhase() phaseResult {
	if in.allFixed() {
		return phaseSuccess
	}
	in.makeOutputTypeInferences()

	res := in.fixNondependentParameters()
	if res != phaseNoProgress {
		return res
	}
	res = in.fixDependentParameters()
	if res == phaseNoProgress {
		return phaseFailed
	}
	return res
}

func (in *inferrer) makeOutputTypeInferences() {
	for _, c := range in.constraints {
		in.makeOutputTypeInferencesFor(c.Source, c.Target)
	}
}

func (in *inferrer) makeOutputTypeInferencesFor(arg Argument, target typesystem.TypeWithAnnotation) {
	if tuple, ok := arg.(TupleArg); ok && tuple.Type == nil {
		elems, ok := typesystem.TupleElements(target.Type)
		if !ok || len(elems) != len(tuple.Elements) {
			return
		}
		for i, e := range tuple.Elements {
			in.makeOutputTypeInferencesFor(e, elems[i])
		}
		return
	}
	if in.hasUnfixedParamInOutputType(arg, target.Type) && !in.hasUnfixedParamInInputType(arg, target.Type) {
		in.outputTypeInference(arg, target)
	}
}

func (in *inferrer) fixNondependentParameters() phaseResult {
	return in.fixParameters(func(i int) bool { return !in.deps.dependsOnAny(i) })
}

func (in *inferrer) fixDependentParameters() phaseResult {
	return in.fixParameters(func(i int) bool { return in.deps.anyDependsOn(i) })
}

// fixParameters selects every unfixed variable with a bound that satisfies
// pred, then fixes the selection in order. Selecting first keeps one
// fix from changing which variables qualify in the same round. A failed
// fix does not stop the others, so the partial substitution stays as
// complete as it can be.
func (in *inferrer) fixParameters(pred func(int) bool) phaseResult {
	var selected []int
	for i := range in.typeVars {
		if !in.isFixed(i) && in.bounds[i].hasBound() && pred(i) {
			selected = append(selected, i)
		}
	}
	if len(selected) == 0 {
		return phaseNoProgress
	}
	res := phaseInProgress
	for _, i := range selected {
		if !in.fix(i) {
			in.log.Debug("fix failed", "var", in.typeVars[i].String())
			res = phaseFailed
		}
	}
	return res
}

func (in *inferrer) allFixed() bool {
	for i := range in.fixed {
		if !in.isFixed(i) {
			return false
		}
	}
	return true
}

func (in *inferrer) isFixed(i int) bool {
	return in.fixed[i].typ.HasType()
}

// unfixedIndex returns the index of t when it is an unfixed variable of
// this run.
func (in *inferrer) unfixedIndex(t typesystem.Type) (int, bool) {
	tv, ok := t.(typesystem.TVar)
	if !ok {
		return 0, false
	}
	i, ok := in.index[tv.ID]
	if !ok || in.isFixed(i) {
		return 0, false
	}
	return i, true
}

func (in *inferrer) hasUnfixedParamInOutputType(arg Argument, target typesystem.Type) bool {
	for i := range in.typeVars {
		if !in.isFixed(i) && in.doesOutputTypeContain(arg, target, i) {
			return true
		}
	}
	return false
}

func (in *inferrer) hasUnfixedParamInInputType(arg Argument, target typesystem.Type) bool {
	for i := range in.typeVars {
		if !in.isFixed(i) && in.doesInputTypeContain(arg, target, i) {
			return true
		}
	}
	return false
}

// callableTarget returns the signature an argument is converted through,
// when the argument is a lambda or method group that can convert to the
// target at all.
func callableTarget(arg Argument, target typesystem.Type) (typesystem.TFunc, bool) {
	_, isFunctionPointer := target.(typesystem.TFunc)
	switch a := arg.(type) {
	case LambdaArg:
		if isFunctionPointer {
			return typesystem.TFunc{}, false
		}
	case MethodGroupArg:
		if a.AddressOf != isFunctionPointer {
			return typesystem.TFunc{}, false
		}
	default:
		return typesystem.TFunc{}, false
	}
	return typesystem.CallableSignature(target)
}

func (in *inferrer) doesInputTypeContain(arg Argument, target typesystem.Type, i int) bool {
	sig, ok := callableTarget(arg, target)
	if !ok {
		return false
	}
	for _, p := range sig.Params {
		if typesystem.ContainsTypeVariable(p.Type.Type, in.typeVars[i]) {
			return true
		}
	}
	return false
}

func (in *inferrer) doesOutputTypeContain(arg Argument, target typesystem.Type, i int) bool {
	sig, ok := callableTarget(arg, target)
	if !ok {
		return false
	}
	return typesystem.ContainsTypeVariable(sig.Return.Type, in.typeVars[i])
}

// dependsDirectlyOn reports whether variable i must wait for j. That is
// the case when some callable argument takes j as input and produces i,
// or when an explicit type argument for i mentions the placeholder j.
func (in *inferrer) dependsDirectlyOn(i, j int) bool {
	for _, c := range in.constraints {
		if in.doesInputTypeContain(c.Source, c.Target.Type, j) && in.doesOutputTypeContain(c.Source, c.Target.Type, i) {
			return true
		}
		if h, ok := c.Source.(HintArg); ok && i != j {
			tv, isVar := c.Target.Type.(typesystem.TVar)
			if isVar && tv.Same(in.typeVars[i]) && typesystem.ContainsTypeVariable(h.Type.Type, in.typeVars[j]) {
				return true
			}
		}
	}
	return false
}

// fixedHints maps every fixed "_" placeholder to its result.
func (in *inferrer) fixedHints() typesystem.Subst {
	s := typesystem.Subst{}
	for i, tv := range in.typeVars {
		if tv.Hint && in.isFixed(i) {
			s[tv.ID] = in.fixed[i].typ
		}
	}
	return s
}

// fixedDelegate substitutes what is known so far into a delegate or
// function pointer type: the outer substitution, then each fixed type
// parameter. Unfixed variables and "_" placeholders stay as they are.
func (in *inferrer) fixedDelegate(t typesystem.Type) typesystem.Type {
	s := typesystem.Subst{}
	for id, r := range in.subst {
		s[id] = r
	}
	for i, tv := range in.typeVars {
		if !tv.Hint && in.isFixed(i) {
			s[tv.ID] = in.fixed[i].typ
		}
	}
	return t.Apply(s)
}

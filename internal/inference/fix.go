package inference

import (
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// fix chooses the type of variable i from its bounds. On failure the
// variable stays unfixed.
func (in *inferrer) fix(i int) bool {
	debugAssert(!in.isFixed(i), "fixing %s twice", in.typeVars[i])
	hints := in.fixedHints()
	b := in.bounds[i]
	best, ok := in.fixBounds(in.typeVars[i],
		b.applied(Exact, hints), b.applied(Lower, hints), b.applied(Upper, hints))
	if !ok {
		return false
	}
	in.fixed[i] = best
	in.deps.fixed(i)
	in.log.Debug("fixed", "var", in.typeVars[i].String(), "type", best.typ.String(), "fromFunctionType", best.fromFunctionType)
	return true
}

type candidate struct {
	key string
	typ typesystem.TypeWithAnnotation
}

// candidateSet is an insertion-ordered map from a type, compared ignoring
// nullability and tuple names, to its merged annotated form.
type candidateSet struct {
	items []candidate
	conv  Conversions
}

func (c *candidateSet) index(t typesystem.TypeWithAnnotation) int {
	key := typesystem.Key(t.Type, typesystem.IgnoreNullabilityAndTupleNames)
	for i, item := range c.items {
		if item.key == key {
			return i
		}
	}
	return -1
}

func (c *candidateSet) addAll(bounds []typesystem.TypeWithAnnotation, v typesystem.Variance) {
	for _, b := range bounds {
		if !c.conv.IncludeNullability() {
			b = typesystem.EraseNullability(b)
		}
		if k := c.index(b); k >= 0 {
			c.items[k].typ = typesystem.MergeEquivalent(c.items[k].typ, b, v)
			continue
		}
		c.items = append(c.items, candidate{
			key: typesystem.Key(b.Type, typesystem.IgnoreNullabilityAndTupleNames),
			typ: b,
		})
	}
}

func (c *candidateSet) remove(k int) {
	c.items = append(c.items[:k], c.items[k+1:]...)
}

func (c *candidateSet) snapshot() []typesystem.TypeWithAnnotation {
	out := make([]typesystem.TypeWithAnnotation, len(c.items))
	for i, item := range c.items {
		out[i] = item.typ
	}
	return out
}

func (in *inferrer) fixBounds(tv typesystem.TVar, exact, lower, upper []typesystem.TypeWithAnnotation) (fixedResult, bool) {
	lower = dropFunctionTypes(lower, exact, upper)

	cands := &candidateSet{conv: in.conv}
	if len(exact) == 0 {
		cands.addAll(lower, typesystem.Out)
		cands.addAll(upper, typesystem.In)
	} else {
		cands.addAll(exact, typesystem.Invariant)
		if len(cands.items) >= 2 {
			return fixedResult{}, false
		}
	}
	if len(cands.items) == 0 {
		return fixedResult{}, false
	}

	initial := cands.snapshot()
	in.mergeOrRemoveCandidates(cands, lower, initial, typesystem.Out)
	in.mergeOrRemoveCandidates(cands, upper, initial, typesystem.In)

	best, ok := in.bestCandidate(cands)
	if !ok {
		return fixedResult{}, false
	}

	fromFunctionType := false
	if fn, isFn := best.Type.(typesystem.TFunctionType); isFn {
		if fn.Delegate == nil {
			return fixedResult{}, false
		}
		delegate := fn.Delegate
		if in.hasExpressionTypeConstraint(tv) {
			if expr, ok := in.conv.ExpressionTreeOf(delegate); ok {
				delegate = expr
			}
		}
		best = typesystem.TypeWithAnnotation{Type: delegate, Nullability: best.Nullability}
		fromFunctionType = true
	}
	return fixedResult{typ: best, fromFunctionType: fromFunctionType}, true
}

// dropFunctionTypes removes function type placeholders from the lower
// bounds when any real type competes with them, and placeholders with no
// delegate in every case.
func dropFunctionTypes(lower, exact, upper []typesystem.TypeWithAnnotation) []typesystem.TypeWithAnnotation {
	hasPlaceholder := false
	for _, b := range lower {
		if typesystem.IsFunctionType(b.Type) {
			hasPlaceholder = true
			break
		}
	}
	if !hasPlaceholder {
		return lower
	}
	othersPresent := false
	for _, bounds := range [][]typesystem.TypeWithAnnotation{exact, lower, upper} {
		for _, b := range bounds {
			if !typesystem.IsFunctionType(b.Type) {
				othersPresent = true
			}
		}
	}
	out := make([]typesystem.TypeWithAnnotation, 0, len(lower))
	for _, b := range lower {
		if fn, ok := b.Type.(typesystem.TFunctionType); ok && (othersPresent || fn.Delegate == nil) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// mergeOrRemoveCandidates drops every candidate a bound does not convert
// to (lower) or from (upper), and merges annotations of bounds equal to a
// candidate.
func (in *inferrer) mergeOrRemoveCandidates(cands *candidateSet, bounds, initial []typesystem.TypeWithAnnotation, v typesystem.Variance) {
	cmp := typesystem.IgnoreNullability
	if in.conv.IncludeNullability() {
		cmp = typesystem.ConsiderEverything
	}
	for _, bound := range bounds {
		for _, c := range initial {
			if typesystem.Equal(bound, c, cmp) {
				continue
			}
			var converts bool
			if v == typesystem.Out {
				converts = in.conv.ImplicitConversionExists(bound.Type, c.Type)
			} else {
				converts = in.conv.ImplicitConversionExists(c.Type, bound.Type)
			}
			k := cands.index(c)
			if !converts {
				if k >= 0 {
					cands.remove(k)
				}
				if in.conv.IncludeNullability() {
					if kb := cands.index(bound); kb >= 0 {
						merged := cands.items[kb].typ
						merged.Nullability = merged.Nullability.Merge(c.Nullability, v)
						cands.items[kb].typ = merged
					}
				}
				continue
			}
			if k >= 0 && typesystem.Equal(bound, c, typesystem.IgnoreNullabilityAndTupleNames) {
				cands.items[k].typ = typesystem.MergeEquivalent(cands.items[k].typ, bound, v)
			}
		}
	}
}

// bestCandidate returns the unique candidate every other candidate
// converts to.
func (in *inferrer) bestCandidate(cands *candidateSet) (typesystem.TypeWithAnnotation, bool) {
	var best typesystem.TypeWithAnnotation
	found := false
	for _, c := range cands.items {
		qualifies := true
		for _, o := range cands.items {
			if typesystem.Equal(c.typ, o.typ, typesystem.ConsiderEverything) {
				continue
			}
			if !in.conv.ImplicitConversionExists(o.typ.Type, c.typ.Type) {
				qualifies = false
				break
			}
		}
		if !qualifies {
			continue
		}
		if found {
			return typesystem.TypeWithAnnotation{}, false
		}
		best, found = c.typ, true
	}
	return best, found
}

// hasExpressionTypeConstraint reports whether a constraint of tv derives
// from the expression tree base class.
func (in *inferrer) hasExpressionTypeConstraint(tv typesystem.TVar) bool {
	for _, c := range tv.Constraints {
		for t, depth := c, 0; t != nil && depth < maxBaseDepth; t, depth = in.conv.BaseType(t), depth+1 {
			if def := typesystem.DefinitionOf(t); def != nil && def.Special == typesystem.SpecialExpression {
				return true
			}
		}
	}
	return false
}

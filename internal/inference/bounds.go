package inference

import (
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/typeinfer/internal/typesystem"
)

// boundSet holds the exact, lower and upper bounds of one variable.
// Bounds that are equal ignoring nullability and tuple names collapse into
// one entry whose annotations are merged by the variance of the kind.
type boundSet struct {
	kinds [3]*set.TreeSet[typesystem.TypeWithAnnotation]
	// nullableLower accumulates the annotations of lower-bound arguments
	// that had no type of their own, such as the null literal.
	nullableLower typesystem.Nullability
}

func compareBounds(a, b typesystem.TypeWithAnnotation) int {
	return strings.Compare(boundKey(a), boundKey(b))
}

func boundKey(t typesystem.TypeWithAnnotation) string {
	return typesystem.Key(t.Type, typesystem.IgnoreNullabilityAndTupleNames)
}

func newBoundSet() *boundSet {
	b := &boundSet{nullableLower: typesystem.NotAnnotated}
	for i := range b.kinds {
		b.kinds[i] = set.NewTreeSet[typesystem.TypeWithAnnotation](compareBounds)
	}
	return b
}

// add inserts t as a bound of the given kind. It reports whether t was
// not already present modulo nullability.
func (b *boundSet) add(kind BoundKind, t typesystem.TypeWithAnnotation) bool {
	s := b.kinds[kind]
	if !s.Contains(t) {
		s.Insert(t)
		return true
	}
	existing, _ := b.find(kind, t)
	merged := typesystem.MergeEquivalent(existing, t, kind.variance())
	if !typesystem.Equal(merged, existing, typesystem.ConsiderEverything) {
		s.Remove(existing)
		s.Insert(merged)
	}
	return false
}

func (b *boundSet) find(kind BoundKind, t typesystem.TypeWithAnnotation) (typesystem.TypeWithAnnotation, bool) {
	key := boundKey(t)
	for _, x := range b.kinds[kind].Slice() {
		if boundKey(x) == key {
			return x, true
		}
	}
	return typesystem.TypeWithAnnotation{}, false
}

func (b *boundSet) bounds(kind BoundKind) []typesystem.TypeWithAnnotation {
	return b.kinds[kind].Slice()
}

func (b *boundSet) hasBound() bool {
	for _, s := range b.kinds {
		if s.Size() > 0 {
			return true
		}
	}
	return false
}

func (b *boundSet) joinNullability(n typesystem.Nullability) {
	b.nullableLower = b.nullableLower.Join(n)
}

// applied returns the bounds of kind with s applied, collapsing bounds
// that became equal.
func (b *boundSet) applied(kind BoundKind, s typesystem.Subst) []typesystem.TypeWithAnnotation {
	src := b.bounds(kind)
	if len(s) == 0 {
		return src
	}
	out := newBoundSet()
	for _, t := range src {
		out.add(kind, t.Apply(s))
	}
	return out.bounds(kind)
}

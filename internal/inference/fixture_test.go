package inference

import (
	"testing"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/symbols"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

func TestMain(m *testing.M) {
	config.IsTestMode = true
	config.DebugAssertions = true
	m.Run()
}

// zoo is a small class hierarchy shared by the tests:
//
//	Animal <- Mammal <- Tiger
//	               \<- Dog
//	List<T> : IList<T>
//	Box<T>, IntBox : Box<Int>
//	Multi : IEnumerable<Int>, IEnumerable<String>
type zoo struct {
	st   *symbols.SymbolTable
	conv symbols.Conversions
}

func newZoo(t testing.TB) *zoo {
	t.Helper()
	st := symbols.NewSymbolTable()
	z := &zoo{st: st, conv: symbols.NewConversions(st, true)}

	object := st.Builtin(config.ObjectTypeName)
	animal := z.define(t, &typesystem.Definition{Name: "Animal", Kind: typesystem.KindClass, Base: object})
	mammal := z.define(t, &typesystem.Definition{Name: "Mammal", Kind: typesystem.KindClass, Base: typesystem.TCon{Def: animal}})
	z.define(t, &typesystem.Definition{Name: "Tiger", Kind: typesystem.KindClass, Base: typesystem.TCon{Def: mammal}})
	z.define(t, &typesystem.Definition{Name: "Dog", Kind: typesystem.KindClass, Base: typesystem.TCon{Def: mammal}})

	listT := typesystem.NewTVar("T")
	z.define(t, &typesystem.Definition{
		Name: "List", Kind: typesystem.KindClass, Base: object,
		Params:     []typesystem.TypeParam{{Var: listT}},
		Interfaces: []typesystem.Type{z.named(t, config.ListIfaceTypeName, typesystem.With(listT))},
	})

	boxT := typesystem.NewTVar("T")
	box := z.define(t, &typesystem.Definition{
		Name: "Box", Kind: typesystem.KindClass, Base: object,
		Params: []typesystem.TypeParam{{Var: boxT}},
	})
	z.define(t, &typesystem.Definition{
		Name: "IntBox", Kind: typesystem.KindClass,
		Base: typesystem.TApp{Def: box, Args: []typesystem.TypeWithAnnotation{typesystem.With(z.named(t, config.IntTypeName))}},
	})
	z.define(t, &typesystem.Definition{
		Name: "Multi", Kind: typesystem.KindClass, Base: object,
		Interfaces: []typesystem.Type{
			z.named(t, config.EnumerableTypeName, typesystem.With(z.named(t, config.IntTypeName))),
			z.named(t, config.EnumerableTypeName, typesystem.With(z.named(t, config.StringTypeName))),
		},
	})
	return z
}

func (z *zoo) define(t testing.TB, def *typesystem.Definition) *typesystem.Definition {
	t.Helper()
	if err := z.st.Define(def); err != nil {
		t.Fatalf("define %s: %v", def.Name, err)
	}
	return def
}

// named instantiates a definition from the table.
func (z *zoo) named(t testing.TB, name string, args ...typesystem.TypeWithAnnotation) typesystem.Type {
	t.Helper()
	def, err := z.st.Resolve(name, len(args))
	if err != nil {
		t.Fatalf("%v", err)
	}
	typ, err := def.Instantiate(args...)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return typ
}

// w is shorthand for an oblivious named type.
func (z *zoo) w(t testing.TB, name string, args ...typesystem.Type) typesystem.TypeWithAnnotation {
	t.Helper()
	wrapped := make([]typesystem.TypeWithAnnotation, len(args))
	for i, a := range args {
		wrapped[i] = typesystem.With(a)
	}
	return typesystem.With(z.named(t, name, wrapped...))
}

func expr(t typesystem.TypeWithAnnotation) Argument {
	return ExprArg{Type: t}
}

func lower(arg Argument, target typesystem.Type) Constraint {
	return Constraint{Source: arg, Target: typesystem.With(target), Kind: Lower}
}

func exact(arg Argument, target typesystem.Type) Constraint {
	return Constraint{Source: arg, Target: typesystem.With(target), Kind: Exact}
}

func upper(arg Argument, target typesystem.Type) Constraint {
	return Constraint{Source: arg, Target: typesystem.With(target), Kind: Upper}
}

func mustInfer(t testing.TB, z *zoo, vars []typesystem.TVar, cs ...Constraint) Result {
	t.Helper()
	res := Infer(vars, cs, z.conv, nil)
	if !res.Success {
		t.Fatalf("inference failed: %v", res.Err("M"))
	}
	return res
}

func inferredName(t testing.TB, res Result, tv typesystem.TVar) string {
	t.Helper()
	typ, ok := res.Lookup(tv)
	if !ok {
		t.Fatalf("%s not inferred", tv)
	}
	return typ.String()
}

package inference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

func TestInfer_BoundCombinations(t *testing.T) {
	tests := []struct {
		name   string
		build  func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint
		want   string
		failed bool
	}{
		{
			name: "single lower bound",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{lower(expr(z.w(t, "Tiger")), tv)}
			},
			want: "Tiger",
		},
		{
			name: "lower bounds widen",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{lower(expr(z.w(t, "Animal")), tv), lower(expr(z.w(t, "Mammal")), tv)}
			},
			want: "Animal",
		},
		{
			name: "exact dominates upper",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{exact(expr(z.w(t, "Mammal")), tv), upper(expr(z.w(t, "Animal")), tv)}
			},
			want: "Mammal",
		},
		{
			name: "upper narrows to exact",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{exact(expr(z.w(t, "Tiger")), tv), upper(expr(z.w(t, "Mammal")), tv)}
			},
			want: "Tiger",
		},
		{
			name: "conflicting exact bounds",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{exact(expr(z.w(t, "Tiger")), tv), exact(expr(z.w(t, "Dog")), tv)}
			},
			failed: true,
		},
		{
			name: "unrelated lower bounds",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{lower(expr(z.w(t, "Tiger")), tv), lower(expr(z.w(t, "Dog")), tv)}
			},
			failed: true,
		},
		{
			name: "lower and upper with no common type",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{lower(expr(z.w(t, "Tiger")), tv), upper(expr(z.w(t, "Dog")), tv)}
			},
			failed: true,
		},
		{
			name: "numeric widening picks the wider type",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{lower(expr(z.w(t, config.IntTypeName)), tv), lower(expr(z.w(t, config.LongTypeName)), tv)}
			},
			want: "Long",
		},
		{
			name: "explicit argument wins over lower bound",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{lower(expr(z.w(t, "Tiger")), tv), exact(HintArg{Type: z.w(t, "Animal")}, tv)}
			},
			want: "Animal",
		},
		{
			name: "explicit argument the lower bound cannot convert to",
			build: func(t *testing.T, z *zoo, tv typesystem.TVar) []Constraint {
				return []Constraint{lower(expr(z.w(t, "Animal")), tv), exact(HintArg{Type: z.w(t, "Tiger")}, tv)}
			},
			failed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := newZoo(t)
			tv := typesystem.NewTVar("T")
			res := Infer([]typesystem.TVar{tv}, tt.build(t, z, tv), z.conv, nil)
			if tt.failed {
				assert.False(t, res.Success)
				_, ok := res.Lookup(tv)
				assert.False(t, ok)
				return
			}
			require.True(t, res.Success, "%v", res.Err("M"))
			assert.Equal(t, tt.want, inferredName(t, res, tv))
		})
	}
}

func TestInfer_NoConstraints(t *testing.T) {
	z := newZoo(t)
	res := Infer([]typesystem.TVar{typesystem.NewTVar("T")}, nil, z.conv, nil)
	assert.False(t, res.Success)
	assert.Empty(t, res.InferredTypes)
}

func TestInfer_FailedFixKeepsOtherVariables(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	conflicting := []Constraint{
		exact(expr(z.w(t, "Tiger")), tT),
		exact(expr(z.w(t, "Dog")), tT),
	}
	independent := lower(expr(z.w(t, config.IntTypeName)), tU)

	tests := []struct {
		name string
		vars []typesystem.TVar
	}{
		{"failing variable first", []typesystem.TVar{tT, tU}},
		{"failing variable last", []typesystem.TVar{tU, tT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := append(append([]Constraint{}, conflicting...), independent)
			res := Infer(tt.vars, cs, z.conv, nil)
			require.False(t, res.Success)

			_, ok := res.Lookup(tT)
			assert.False(t, ok)
			assert.Equal(t, "Int", inferredName(t, res, tU))
			assert.Equal(t, []typesystem.TVar{tT}, res.Unresolved())
			assert.Equal(t, "Int", res.Subst()[tU.ID].String())
		})
	}
}

func TestInfer_FailedFixSkipsDependentPass(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	fn := z.named(t, config.FuncTypeName, typesystem.With(tT), typesystem.With(tU))
	res := Infer([]typesystem.TVar{tT, tU}, []Constraint{
		exact(expr(z.w(t, "Tiger")), tT),
		exact(expr(z.w(t, "Dog")), tT),
		lower(LambdaArg{ParamCount: 1, Body: ParamBody{Index: 0}}, fn),
	}, z.conv, nil)

	require.False(t, res.Success)
	assert.Len(t, res.Unresolved(), 2)
}

func TestInfer_DeepPlaceholderChainTerminates(t *testing.T) {
	z := newZoo(t)
	h1, h2 := typesystem.NewHint(), typesystem.NewHint()
	nested := z.w(t, config.IntTypeName)
	for i := 0; i < 4*maxPropagationDepth; i++ {
		nested = z.w(t, "List", nested.Type)
	}

	var res Result
	require.NotPanics(t, func() {
		res = Infer([]typesystem.TVar{h1, h2}, []Constraint{
			exact(expr(z.w(t, "List", h2)), h1),
			exact(expr(z.w(t, "List", h1)), h2),
			exact(expr(nested), h1),
		}, z.conv, nil)
	})
	assert.Len(t, res.InferredTypes, 2)
	assert.False(t, res.Success)
}

func TestInfer_Arrays(t *testing.T) {
	z := newZoo(t)
	arr := func(elem typesystem.TypeWithAnnotation) typesystem.TypeWithAnnotation {
		return typesystem.With(typesystem.TArray{Elem: elem, Rank: 1})
	}

	t.Run("reference elements are covariant", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		target := arr(typesystem.With(tv)).Type
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(arr(z.w(t, "Tiger"))), target),
			lower(expr(arr(z.w(t, "Mammal"))), target))
		assert.Equal(t, "Mammal", inferredName(t, res, tv))
	})

	t.Run("value elements are exact", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		target := arr(typesystem.With(tv)).Type
		res := Infer([]typesystem.TVar{tv}, []Constraint{
			lower(expr(arr(z.w(t, config.IntTypeName))), target),
			lower(expr(arr(z.w(t, config.LongTypeName))), target),
		}, z.conv, nil)
		assert.False(t, res.Success)
	})

	t.Run("array to enumerable", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(arr(z.w(t, config.IntTypeName))), z.named(t, config.EnumerableTypeName, typesystem.With(tv))))
		assert.Equal(t, "Int", inferredName(t, res, tv))
	})

	t.Run("rank mismatch infers nothing", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := Infer([]typesystem.TVar{tv}, []Constraint{
			lower(expr(typesystem.With(typesystem.TArray{Elem: z.w(t, "Tiger"), Rank: 2})), arr(typesystem.With(tv)).Type),
		}, z.conv, nil)
		assert.False(t, res.Success)
	})
}

func TestInfer_Hierarchy(t *testing.T) {
	z := newZoo(t)

	t.Run("interface through base list", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		list := z.w(t, "List", z.named(t, config.StringTypeName))
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(list), z.named(t, config.EnumerableTypeName, typesystem.With(tv))))
		assert.Equal(t, "String", inferredName(t, res, tv))
	})

	t.Run("ambiguous interface infers nothing", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := Infer([]typesystem.TVar{tv}, []Constraint{
			lower(expr(z.w(t, "Multi")), z.named(t, config.EnumerableTypeName, typesystem.With(tv))),
		}, z.conv, nil)
		assert.False(t, res.Success)
		assert.Equal(t, []typesystem.TVar{tv}, res.Unresolved())
	})

	t.Run("base class", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(z.w(t, "IntBox")), z.named(t, "Box", typesystem.With(tv))))
		assert.Equal(t, "Int", inferredName(t, res, tv))
	})

	t.Run("effective base of a type parameter", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		s := typesystem.NewTVar("S")
		s.Constraints = []typesystem.Type{z.named(t, "IntBox")}
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(typesystem.With(s)), z.named(t, "Box", typesystem.With(tv))))
		assert.Equal(t, "Int", inferredName(t, res, tv))
	})

	t.Run("contravariant delegate argument becomes upper bound", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(z.w(t, config.ActionTypeName, z.named(t, "Animal"))), z.named(t, config.ActionTypeName, typesystem.With(tv))),
			lower(expr(z.w(t, "Tiger")), tv))
		assert.Equal(t, "Animal", inferredName(t, res, tv))
	})

	t.Run("nullable value type", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(typesystem.With(typesystem.TNullable{Elem: z.named(t, config.IntTypeName)})), typesystem.TNullable{Elem: tv}))
		assert.Equal(t, "Int", inferredName(t, res, tv))
	})
}

func TestInfer_LambdaDependencies(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	fn := z.named(t, config.FuncTypeName, typesystem.With(tT), typesystem.With(tU))

	t.Run("return type flows after input is fixed", func(t *testing.T) {
		identity := LambdaArg{ParamCount: 1, Body: ParamBody{Index: 0}}
		res := mustInfer(t, z, []typesystem.TVar{tT, tU},
			lower(expr(z.w(t, config.IntTypeName)), tT),
			lower(identity, fn))
		assert.Equal(t, "Int", inferredName(t, res, tT))
		assert.Equal(t, "Int", inferredName(t, res, tU))
		assert.False(t, res.HasTypeVariableInferredFromFunctionType)
	})

	t.Run("wrapping body", func(t *testing.T) {
		listDef, err := z.st.Resolve("List", 1)
		require.NoError(t, err)
		wrap := LambdaArg{ParamCount: 1, Body: WrapBody{Def: listDef, Inner: ParamBody{Index: 0}}}
		res := mustInfer(t, z, []typesystem.TVar{tT, tU},
			lower(expr(z.w(t, "Tiger")), tT),
			lower(wrap, fn))
		assert.Equal(t, "List<Tiger>", inferredName(t, res, tU))
	})

	t.Run("explicit parameter types", func(t *testing.T) {
		typed := LambdaArg{
			Params:     []typesystem.TypeWithAnnotation{z.w(t, config.StringTypeName)},
			ParamCount: 1,
			Body:       ConstBody{Type: z.w(t, config.BoolTypeName)},
		}
		res := mustInfer(t, z, []typesystem.TVar{tT, tU}, lower(typed, fn))
		assert.Equal(t, "String", inferredName(t, res, tT))
		assert.Equal(t, "Bool", inferredName(t, res, tU))
	})

	t.Run("parameter count mismatch", func(t *testing.T) {
		twoParams := LambdaArg{ParamCount: 2, Body: ParamBody{Index: 0}}
		res := Infer([]typesystem.TVar{tT, tU}, []Constraint{
			lower(expr(z.w(t, config.IntTypeName)), tT),
			lower(twoParams, fn),
		}, z.conv, nil)
		assert.False(t, res.Success)
		typ, ok := res.Lookup(tT)
		require.True(t, ok, "T is reported even though U failed")
		assert.Equal(t, "Int", typ.String())
	})

	t.Run("circular dependency fails", func(t *testing.T) {
		back := z.named(t, config.FuncTypeName, typesystem.With(tU), typesystem.With(tT))
		identity := LambdaArg{ParamCount: 1, Body: ParamBody{Index: 0}}
		res := Infer([]typesystem.TVar{tT, tU}, []Constraint{
			lower(identity, fn),
			lower(identity, back),
		}, z.conv, nil)
		assert.False(t, res.Success)
	})
}

func TestInfer_MethodGroups(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	intT, strT := z.w(t, config.IntTypeName), z.w(t, config.StringTypeName)
	describe := MethodGroupArg{Name: "Describe", Overloads: []Method{
		{Name: "Describe", Params: []typesystem.Param{{Type: intT}}, Return: strT},
		{Name: "Describe", Params: []typesystem.Param{{Type: strT}}, Return: intT},
	}}

	t.Run("delegate target", func(t *testing.T) {
		fn := z.named(t, config.FuncTypeName, typesystem.With(tT), typesystem.With(tU))
		res := mustInfer(t, z, []typesystem.TVar{tT, tU}, lower(expr(intT), tT), lower(describe, fn))
		assert.Equal(t, "String", inferredName(t, res, tU))
	})

	t.Run("no applicable overload", func(t *testing.T) {
		fn := z.named(t, config.FuncTypeName, typesystem.With(tT), typesystem.With(tU))
		res := Infer([]typesystem.TVar{tT, tU}, []Constraint{
			lower(expr(z.w(t, config.BoolTypeName)), tT),
			lower(describe, fn),
		}, z.conv, nil)
		assert.False(t, res.Success)
	})

	t.Run("generic overload", func(t *testing.T) {
		a := typesystem.NewTVar("A")
		identity := MethodGroupArg{Name: "Identity", Overloads: []Method{{
			Name: "Identity", TypeParams: []typesystem.TVar{a},
			Params: []typesystem.Param{{Type: typesystem.With(a)}}, Return: typesystem.With(a),
		}}}
		fn := z.named(t, config.FuncTypeName, typesystem.With(tT), typesystem.With(tU))
		res := mustInfer(t, z, []typesystem.TVar{tT, tU}, lower(expr(z.w(t, "Tiger")), tT), lower(identity, fn))
		assert.Equal(t, "Tiger", inferredName(t, res, tU))
	})

	t.Run("address-of to function pointer", func(t *testing.T) {
		fp := typesystem.TFunc{Params: []typesystem.Param{{Type: typesystem.With(tT)}}, Return: typesystem.With(tU)}
		addr := describe
		addr.AddressOf = true
		res := mustInfer(t, z, []typesystem.TVar{tT, tU}, lower(expr(intT), tT), lower(addr, fp))
		assert.Equal(t, "String", inferredName(t, res, tU))
	})

	t.Run("plain group does not convert to function pointer", func(t *testing.T) {
		fp := typesystem.TFunc{Params: []typesystem.Param{{Type: typesystem.With(tT)}}, Return: typesystem.With(tU)}
		res := Infer([]typesystem.TVar{tT, tU}, []Constraint{lower(expr(intT), tT), lower(describe, fp)}, z.conv, nil)
		assert.False(t, res.Success)
	})
}

func TestInfer_FunctionPointerVariance(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	src := typesystem.TFunc{Params: []typesystem.Param{{Type: z.w(t, "Tiger")}}, Return: z.w(t, "Dog")}
	dst := typesystem.TFunc{Params: []typesystem.Param{{Type: typesystem.With(tT)}}, Return: typesystem.With(tU)}

	res := mustInfer(t, z, []typesystem.TVar{tT, tU}, lower(expr(typesystem.With(src)), dst))
	assert.Equal(t, "Tiger", inferredName(t, res, tT))
	assert.Equal(t, "Dog", inferredName(t, res, tU))

	// The parameter is an upper bound, so a wider lower bound conflicts.
	res = Infer([]typesystem.TVar{tT, tU}, []Constraint{
		lower(expr(typesystem.With(src)), dst),
		lower(expr(z.w(t, "Mammal")), tT),
	}, z.conv, nil)
	assert.False(t, res.Success)

	cc := dst
	cc.CallingConvention = config.UnmanagedCallingConv
	res = Infer([]typesystem.TVar{tT, tU}, []Constraint{lower(expr(typesystem.With(src)), cc)}, z.conv, nil)
	assert.False(t, res.Success, "calling conventions must match")
}

func TestInfer_Nullability(t *testing.T) {
	z := newZoo(t)
	str := z.named(t, config.StringTypeName)

	t.Run("annotated lower bound wins", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(expr(typesystem.MaybeNull(str)), tv),
			lower(expr(typesystem.NotNull(str)), tv))
		typ, _ := res.Lookup(tv)
		assert.Equal(t, typesystem.Annotated, typ.Nullability)
		assert.Equal(t, "String?", typ.String())
	})

	t.Run("null literal", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		null := ExprArg{Type: typesystem.TypeWithAnnotation{Nullability: typesystem.Annotated}}
		res := mustInfer(t, z, []typesystem.TVar{tv}, lower(expr(typesystem.NotNull(str)), tv), lower(null, tv))
		assert.Equal(t, "String?", inferredName(t, res, tv))
	})

	t.Run("tracking disabled", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := Infer([]typesystem.TVar{tv}, []Constraint{
			lower(expr(typesystem.MaybeNull(str)), tv),
			lower(expr(typesystem.NotNull(str)), tv),
		}, z.conv.WithNullability(false), nil)
		require.True(t, res.Success)
		typ, _ := res.Lookup(tv)
		assert.Equal(t, typesystem.Oblivious, typ.Nullability)
	})

	t.Run("both sides annotated strip the annotation", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv}, Constraint{
			Source: expr(typesystem.MaybeNull(str)), Target: typesystem.MaybeNull(tv), Kind: Lower,
		})
		typ, _ := res.Lookup(tv)
		assert.Equal(t, typesystem.NotAnnotated, typ.Nullability)
	})
}

func TestInfer_FunctionTypes(t *testing.T) {
	z := newZoo(t)
	funcOfInt := z.named(t, config.FuncTypeName, typesystem.With(z.named(t, config.IntTypeName)))
	lambda := LambdaArg{ParamCount: 0, Body: ConstBody{Type: z.w(t, config.IntTypeName)}, NaturalType: typesystem.TFunctionType{Delegate: funcOfInt}}

	t.Run("placeholder becomes its delegate", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv}, lower(lambda, tv))
		assert.Equal(t, "Func<Int>", inferredName(t, res, tv))
		assert.True(t, res.HasTypeVariableInferredFromFunctionType)
	})

	t.Run("expression constraint wraps the delegate", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		tv.Constraints = []typesystem.Type{z.named(t, config.LambdaExprTypeName)}
		res := mustInfer(t, z, []typesystem.TVar{tv}, lower(lambda, tv))
		assert.Equal(t, "Expression<Func<Int>>", inferredName(t, res, tv))
	})

	t.Run("concrete bound outranks placeholder", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		res := mustInfer(t, z, []typesystem.TVar{tv},
			lower(lambda, tv),
			lower(expr(z.w(t, config.DelegateTypeName)), tv))
		assert.Equal(t, "Delegate", inferredName(t, res, tv))
		assert.False(t, res.HasTypeVariableInferredFromFunctionType)
	})

	t.Run("placeholder without delegate", func(t *testing.T) {
		tv := typesystem.NewTVar("T")
		bare := LambdaArg{ParamCount: 1, NaturalType: typesystem.TFunctionType{}}
		res := Infer([]typesystem.TVar{tv}, []Constraint{lower(bare, tv)}, z.conv, nil)
		assert.False(t, res.Success)
	})
}

func TestInfer_Tuples(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	target := typesystem.TTuple{Elements: []typesystem.TypeWithAnnotation{typesystem.With(tT), typesystem.With(tU)}}

	literal := TupleArg{Elements: []Argument{
		expr(z.w(t, config.IntTypeName)),
		LambdaArg{ParamCount: 0, NaturalType: typesystem.TFunctionType{
			Delegate: z.named(t, config.FuncTypeName, typesystem.With(z.named(t, config.StringTypeName))),
		}},
	}}
	res := mustInfer(t, z, []typesystem.TVar{tT, tU}, lower(literal, target))
	assert.Equal(t, "Int", inferredName(t, res, tT))
	assert.Equal(t, "Func<String>", inferredName(t, res, tU))

	typed := typesystem.TTuple{Elements: []typesystem.TypeWithAnnotation{z.w(t, "Tiger"), z.w(t, "Dog")}}
	res = mustInfer(t, z, []typesystem.TVar{tT, tU}, exact(expr(typesystem.With(typed)), target))
	assert.Equal(t, "Tiger", inferredName(t, res, tT))
	assert.Equal(t, "Dog", inferredName(t, res, tU))
}

func TestInfer_Placeholders(t *testing.T) {
	z := newZoo(t)
	tv := typesystem.NewTVar("T")
	hint := typesystem.NewHint()
	typeArgs := []typesystem.TypeWithAnnotation{z.w(t, "List", hint)}
	params := []typesystem.Param{{Type: typesystem.With(tv)}}
	args := []Argument{expr(z.w(t, "List", z.named(t, config.IntTypeName)))}

	vars := MakeTypeVariables([]typesystem.TVar{tv}, typeArgs)
	require.Len(t, vars, 2)
	assert.True(t, vars[1].Hint)

	res := mustInfer(t, z, vars, MakeConstraints(params, args, []typesystem.TVar{tv}, typeArgs)...)
	assert.Equal(t, "List<Int>", inferredName(t, res, tv))
	assert.Equal(t, "Int", inferredName(t, res, hint))

	bare := []typesystem.TypeWithAnnotation{typesystem.With(hint)}
	res = mustInfer(t, z, MakeTypeVariables([]typesystem.TVar{tv}, bare),
		MakeConstraints(params, []Argument{expr(z.w(t, "Tiger"))}, []typesystem.TVar{tv}, bare)...)
	assert.Equal(t, "Tiger", inferredName(t, res, tv))
}

func TestMakeConstraints_RefAndPointerAreExact(t *testing.T) {
	z := newZoo(t)
	tv := typesystem.NewTVar("T")
	params := []typesystem.Param{
		{Type: typesystem.With(tv), RefKind: typesystem.RefRef},
		{Type: typesystem.With(tv)},
		{Type: typesystem.With(tv)},
		{Type: typesystem.With(tv)},
	}
	ptr := typesystem.With(typesystem.TPointer{Elem: z.w(t, config.IntTypeName)})
	args := []Argument{expr(z.w(t, "Tiger")), expr(ptr), expr(z.w(t, "Dog"))}

	cs := MakeConstraints(params, args, nil, nil)
	require.Len(t, cs, 3, "extra parameters are ignored")
	assert.Equal(t, Exact, cs[0].Kind)
	assert.Equal(t, Exact, cs[1].Kind)
	assert.Equal(t, Lower, cs[2].Kind)
}

func TestInferredTypeArguments(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	res := Infer([]typesystem.TVar{tT, tU}, []Constraint{lower(expr(z.w(t, "Tiger")), tT)}, z.conv, nil)
	require.False(t, res.Success)

	got := InferredTypeArguments([]typesystem.TVar{tT, tU}, res)
	require.Len(t, got, 2)
	assert.Equal(t, "Tiger", got[0].String())
	assert.Equal(t, typesystem.TUninferred{Param: "U"}, got[1].Type)

	err := res.Err("Pair")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCannotInfer))
	var ie *InferenceError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, []typesystem.TVar{tU}, ie.Unresolved)
	assert.Contains(t, err.Error(), "Pair")
}

func TestInfer_Deterministic(t *testing.T) {
	z := newZoo(t)
	tT, tU := typesystem.NewTVar("T"), typesystem.NewTVar("U")
	fn := z.named(t, config.FuncTypeName, typesystem.With(tT), typesystem.With(tU))
	cs := []Constraint{
		lower(expr(z.w(t, "Tiger")), tT),
		lower(expr(z.w(t, "Dog")), tT),
		lower(expr(z.w(t, "Mammal")), tT),
		lower(LambdaArg{ParamCount: 1, Body: ParamBody{Index: 0}}, fn),
	}
	first := Infer([]typesystem.TVar{tT, tU}, cs, z.conv, nil)
	require.True(t, first.Success)
	for i := 0; i < 20; i++ {
		again := Infer([]typesystem.TVar{tT, tU}, cs, z.conv, nil)
		assert.Equal(t, first, again)
	}
}

func TestFixBounds_Idempotent(t *testing.T) {
	z := newZoo(t)
	in := &inferrer{conv: z.conv}
	tv := typesystem.NewTVar("T")
	lowerBounds := []typesystem.TypeWithAnnotation{z.w(t, "Tiger"), z.w(t, "Mammal")}
	upperBounds := []typesystem.TypeWithAnnotation{z.w(t, "Animal")}

	first, ok := in.fixBounds(tv, nil, lowerBounds, upperBounds)
	require.True(t, ok)
	second, ok := in.fixBounds(tv, nil, lowerBounds, upperBounds)
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, "Animal", first.typ.String())
}

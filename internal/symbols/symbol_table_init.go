package symbols

import (
	"strconv"
	"sync"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// Singleton prelude table containing all built-in types
var (
	preludeTable *SymbolTable
	preludeOnce  sync.Once
)

// GetPrelude returns the singleton prelude SymbolTable containing all built-in types.
// This table is shared across all scenarios.
func GetPrelude() *SymbolTable {
	preludeOnce.Do(func() {
		preludeTable = NewEmptySymbolTable()
		preludeTable.scopeType = ScopePrelude
		preludeTable.InitBuiltins()
	})
	return preludeTable
}

// NewSymbolTable creates a new symbol table.
// It inherits from Prelude.
func NewSymbolTable() *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = GetPrelude()
	st.scopeType = ScopeGlobal
	return st
}

// ResetPrelude resets the prelude singleton (for testing only).
func ResetPrelude() {
	preludeOnce = sync.Once{}
	preludeTable = nil
}

func (st *SymbolTable) InitBuiltins() {
	object := st.mustDefine(&typesystem.Definition{
		Name: config.ObjectTypeName, Kind: typesystem.KindClass, Special: typesystem.SpecialObject,
	})
	objectType := typesystem.TCon{Def: object}

	valueType := st.mustDefine(&typesystem.Definition{
		Name: config.ValueTypeName, Kind: typesystem.KindClass, Base: objectType,
	})

	enumerable := st.mustDefine(genericDef(config.EnumerableTypeName, typesystem.KindInterface, typesystem.Out))
	enumerable.ArrayInterface = true
	collection := st.mustDefine(genericDef(config.CollectionTypeName, typesystem.KindInterface, typesystem.Invariant))
	collection.ArrayInterface = true
	collection.Interfaces = []typesystem.Type{selfApplied(enumerable, collection)}
	list := st.mustDefine(genericDef(config.ListIfaceTypeName, typesystem.KindInterface, typesystem.Invariant))
	list.ArrayInterface = true
	list.Interfaces = []typesystem.Type{selfApplied(collection, list), selfApplied(enumerable, list)}
	readOnly := st.mustDefine(genericDef(config.ReadOnlyListName, typesystem.KindInterface, typesystem.Out))
	readOnly.ArrayInterface = true
	readOnly.Interfaces = []typesystem.Type{selfApplied(enumerable, readOnly)}
	comparable := st.mustDefine(genericDef(config.ComparableTypeName, typesystem.KindInterface, typesystem.In))

	comparableOf := func(def *typesystem.Definition) typesystem.Type {
		return typesystem.TApp{Def: comparable, Args: []typesystem.TypeWithAnnotation{typesystem.NotNull(typesystem.TCon{Def: def})}}
	}

	numerics := []string{
		config.ByteTypeName, config.ShortTypeName, config.IntTypeName,
		config.LongTypeName, config.FloatTypeName, config.DoubleTypeName,
	}
	for i, name := range numerics {
		def := st.mustDefine(&typesystem.Definition{
			Name: name, Kind: typesystem.KindStruct, Base: typesystem.TCon{Def: valueType},
			Special: typesystem.SpecialNumeric, NumericRank: i + 1,
		})
		def.Interfaces = []typesystem.Type{comparableOf(def)}
	}
	for _, name := range []string{config.BoolTypeName, config.CharTypeName} {
		def := st.mustDefine(&typesystem.Definition{
			Name: name, Kind: typesystem.KindStruct, Base: typesystem.TCon{Def: valueType},
		})
		def.Interfaces = []typesystem.Type{comparableOf(def)}
	}
	st.mustDefine(&typesystem.Definition{
		Name: config.VoidTypeName, Kind: typesystem.KindStruct, Special: typesystem.SpecialVoid,
	})

	char, _ := st.Lookup(config.CharTypeName, 0)
	str := st.mustDefine(&typesystem.Definition{
		Name: config.StringTypeName, Kind: typesystem.KindClass, Base: objectType,
	})
	str.Interfaces = []typesystem.Type{
		typesystem.TApp{Def: enumerable, Args: []typesystem.TypeWithAnnotation{typesystem.NotNull(typesystem.TCon{Def: char})}},
		comparableOf(str),
	}

	delegate := st.mustDefine(&typesystem.Definition{
		Name: config.DelegateTypeName, Kind: typesystem.KindClass, Base: objectType,
	})
	void := typesystem.TCon{Def: st.defs[config.VoidTypeName]}
	for n := 0; n <= config.MaxDelegateArity; n++ {
		st.mustDefine(delegateFamily(config.FuncTypeName, n, true, delegate, void))
		st.mustDefine(delegateFamily(config.ActionTypeName, n, false, delegate, void))
	}

	expression := st.mustDefine(&typesystem.Definition{
		Name: config.ExpressionTypeName, Kind: typesystem.KindClass, Base: objectType,
	})
	lambda := st.mustDefine(&typesystem.Definition{
		Name: config.LambdaExprTypeName, Kind: typesystem.KindClass,
		Base: typesystem.TCon{Def: expression}, Special: typesystem.SpecialExpression,
	})
	exprOfT := genericDef(config.ExpressionTypeName, typesystem.KindClass, typesystem.Invariant)
	exprOfT.Base = typesystem.TCon{Def: lambda}
	exprOfT.Special = typesystem.SpecialExpression
	st.mustDefine(exprOfT)
}

func (st *SymbolTable) mustDefine(def *typesystem.Definition) *typesystem.Definition {
	if err := st.Define(def); err != nil {
		panic(err)
	}
	return def
}

func genericDef(name string, kind typesystem.TypeKind, variances ...typesystem.Variance) *typesystem.Definition {
	params := make([]typesystem.TypeParam, len(variances))
	for i, v := range variances {
		pname := "T"
		if len(variances) > 1 {
			pname += strconv.Itoa(i + 1)
		}
		params[i] = typesystem.TypeParam{Var: typesystem.NewTVar(pname), Variance: v}
	}
	return &typesystem.Definition{Name: name, Kind: kind, Params: params}
}

// selfApplied instantiates base with the single parameter of def.
func selfApplied(base, def *typesystem.Definition) typesystem.Type {
	return typesystem.TApp{Def: base, Args: []typesystem.TypeWithAnnotation{typesystem.With(def.Params[0].Var)}}
}

// delegateFamily builds Func<in T1.., out TResult> or Action<in T1..>.
func delegateFamily(name string, n int, returns bool, base *typesystem.Definition, void typesystem.Type) *typesystem.Definition {
	def := &typesystem.Definition{Name: name, Kind: typesystem.KindDelegate, Base: typesystem.TCon{Def: base}}
	invoke := &typesystem.TFunc{Return: typesystem.With(void)}
	for i := 0; i < n; i++ {
		tv := typesystem.NewTVar("T" + strconv.Itoa(i+1))
		def.Params = append(def.Params, typesystem.TypeParam{Var: tv, Variance: typesystem.In})
		invoke.Params = append(invoke.Params, typesystem.Param{Type: typesystem.With(tv)})
	}
	if returns {
		tv := typesystem.NewTVar("TResult")
		def.Params = append(def.Params, typesystem.TypeParam{Var: tv, Variance: typesystem.Out})
		invoke.Return = typesystem.With(tv)
	}
	def.Invoke = invoke
	return def
}

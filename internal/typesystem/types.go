package typesystem

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-set/v3"
	gfn "github.com/panyam/goutils/fn"

	"github.com/funvibe/typeinfer/internal/config"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
	Kind() TypeKind
}

// TypeWithAnnotation pairs a type with its top-level nullability.
// A zero value has no type.
type TypeWithAnnotation struct {
	Type        Type
	Nullability Nullability
}

// With wraps t with an oblivious annotation.
func With(t Type) TypeWithAnnotation {
	return TypeWithAnnotation{Type: t}
}

// NotNull wraps t as explicitly not annotated.
func NotNull(t Type) TypeWithAnnotation {
	return TypeWithAnnotation{Type: t, Nullability: NotAnnotated}
}

// MaybeNull wraps t as annotated.
func MaybeNull(t Type) TypeWithAnnotation {
	return TypeWithAnnotation{Type: t, Nullability: Annotated}
}

func (t TypeWithAnnotation) HasType() bool { return t.Type != nil }

func (t TypeWithAnnotation) String() string {
	if t.Type == nil {
		return "<none>"
	}
	if t.Nullability == Annotated && IsReferenceType(t.Type) {
		return t.Type.String() + "?"
	}
	return t.Type.String()
}

// AsAnnotated returns a copy marked as annotated.
func (t TypeWithAnnotation) AsAnnotated() TypeWithAnnotation {
	return TypeWithAnnotation{Type: t.Type, Nullability: Annotated}
}

// AsNotAnnotated returns a copy marked as not annotated.
func (t TypeWithAnnotation) AsNotAnnotated() TypeWithAnnotation {
	return TypeWithAnnotation{Type: t.Type, Nullability: NotAnnotated}
}

// WithoutNullability forgets the top-level annotation.
func (t TypeWithAnnotation) WithoutNullability() TypeWithAnnotation {
	return TypeWithAnnotation{Type: t.Type}
}

// Apply substitutes type variables. A variable in an annotated position
// keeps the annotation; otherwise the replacement's annotation wins.
func (t TypeWithAnnotation) Apply(s Subst) TypeWithAnnotation {
	if t.Type == nil || len(s) == 0 {
		return t
	}
	if tv, ok := t.Type.(TVar); ok {
		r, ok := s[tv.ID]
		if !ok || r.Type == nil {
			return t
		}
		return TypeWithAnnotation{Type: r.Type, Nullability: substitutedNullability(t.Nullability, r)}
	}
	return TypeWithAnnotation{Type: t.Type.Apply(s), Nullability: t.Nullability}
}

func substitutedNullability(position Nullability, r TypeWithAnnotation) Nullability {
	if !IsReferenceType(r.Type) {
		return r.Nullability
	}
	switch position {
	case Annotated:
		return Annotated
	case NotAnnotated:
		return r.Nullability
	default:
		if r.Nullability == Annotated {
			return Annotated
		}
		return Oblivious
	}
}

// Subst maps type variable IDs to their replacement.
type Subst map[int]TypeWithAnnotation

// Compose returns a substitution that applies s2 first, then s.
func (s Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s)+len(s2))
	for k, v := range s2 {
		out[k] = v.Apply(s)
	}
	for k, v := range s {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

var nextVarID atomic.Int64

// NewTVar allocates a type variable with a fresh identity.
func NewTVar(name string) TVar {
	return TVar{Name: name, ID: int(nextVarID.Add(1))}
}

// NewHint allocates a placeholder variable written as "_" in a type argument.
func NewHint() TVar {
	tv := NewTVar(config.WildcardName)
	tv.Hint = true
	return tv
}

// TVar is a type parameter. Identity is the ID; the name is only for display.
type TVar struct {
	Name string
	ID   int
	Hint bool

	// Constraints are the declared base class and interfaces.
	Constraints []Type
	// IsReference and IsValue record class and struct constraints.
	IsReference bool
	IsValue     bool
}

func (t TVar) String() string {
	if t.Hint {
		return config.WildcardName
	}
	if config.IsTestMode && t.Name == "" {
		return "t" + strconv.Itoa(t.ID)
	}
	return t.Name
}

func (t TVar) Kind() TypeKind { return KindTypeParameter }

func (t TVar) Apply(s Subst) Type {
	if r, ok := s[t.ID]; ok && r.Type != nil {
		return r.Type
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// Same reports whether both refer to the same type variable.
func (t TVar) Same(other TVar) bool {
	return t.ID == other.ID
}

// Special marks definitions the conversion rules know about.
type Special int

const (
	SpecialNone Special = iota
	SpecialObject
	SpecialVoid
	SpecialNumeric
	SpecialExpression
)

// TypeParam is one declared type parameter of a generic definition.
type TypeParam struct {
	Var      TVar
	Variance Variance
}

// Definition is a named type declaration. Base, Interfaces and Invoke are
// written in terms of the definition's own parameters.
type Definition struct {
	Name       string
	Kind       TypeKind
	Params     []TypeParam
	Base       Type
	Interfaces []Type
	Invoke     *TFunc
	Special    Special

	// ArrayInterface marks generic interfaces that single-dimensional
	// arrays implement for their element type.
	ArrayInterface bool
	// NumericRank orders implicit numeric widening; zero means not numeric.
	NumericRank int
}

// Arity is the number of type parameters.
func (d *Definition) Arity() int {
	return len(d.Params)
}

// Key identifies the definition inside one symbol table.
func (d *Definition) Key() string {
	if len(d.Params) == 0 {
		return d.Name
	}
	return d.Name + "`" + strconv.Itoa(len(d.Params))
}

// Instantiate builds the named type for the given arguments.
func (d *Definition) Instantiate(args ...TypeWithAnnotation) (Type, error) {
	if len(args) != len(d.Params) {
		return nil, NewArityError(d.Name, len(d.Params), len(args))
	}
	if len(args) == 0 {
		return TCon{Def: d}, nil
	}
	return TApp{Def: d, Args: args}, nil
}

// Subst maps the definition's parameters onto args.
func (d *Definition) Subst(args []TypeWithAnnotation) Subst {
	s := make(Subst, len(d.Params))
	for i, p := range d.Params {
		if i < len(args) {
			s[p.Var.ID] = args[i]
		}
	}
	return s
}

// TCon is a non-generic named type (e.g. Int, String).
type TCon struct {
	Def *Definition
}

func (t TCon) String() string   { return t.Def.Name }
func (t TCon) Kind() TypeKind   { return t.Def.Kind }
func (t TCon) Apply(Subst) Type { return t }

func (t TCon) FreeTypeVariables() []TVar {
	return []TVar{}
}

// TApp is a constructed generic type (e.g. List<Int>).
type TApp struct {
	Def  *Definition
	Args []TypeWithAnnotation
}

func (t TApp) Kind() TypeKind { return t.Def.Kind }

func (t TApp) String() string {
	args := gfn.Map(t.Args, func(a TypeWithAnnotation) string { return a.String() })
	return fmt.Sprintf("%s<%s>", t.Def.Name, strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return TApp{Def: t.Def, Args: applyAll(t.Args, s)}
}

func (t TApp) FreeTypeVariables() []TVar {
	return freeInAll(t.Args)
}

// TArray is an array type. Rank 1 is a single-dimensional array.
type TArray struct {
	Elem TypeWithAnnotation
	Rank int
}

func (t TArray) Kind() TypeKind { return KindArray }

func (t TArray) String() string {
	rank := t.Rank
	if rank < 1 {
		rank = 1
	}
	return t.Elem.String() + "[" + strings.Repeat(",", rank-1) + "]"
}

func (t TArray) Apply(s Subst) Type {
	return TArray{Elem: t.Elem.Apply(s), Rank: t.Rank}
}

func (t TArray) FreeTypeVariables() []TVar {
	return freeInAll([]TypeWithAnnotation{t.Elem})
}

// SameShape reports whether both arrays have the same rank.
func (t TArray) SameShape(other TArray) bool {
	return t.normalizedRank() == other.normalizedRank()
}

// IsSingleDimensional reports whether this is a rank-1 array.
func (t TArray) IsSingleDimensional() bool {
	return t.normalizedRank() == 1
}

func (t TArray) normalizedRank() int {
	if t.Rank < 1 {
		return 1
	}
	return t.Rank
}

// TTuple represents a tuple type (e.g. (Int, Bool)). Names are optional
// and ignored by inference.
type TTuple struct {
	Elements []TypeWithAnnotation
	Names    []string
}

func (t TTuple) Kind() TypeKind { return KindTuple }

func (t TTuple) String() string {
	args := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		args[i] = el.String()
		if i < len(t.Names) && t.Names[i] != "" {
			args[i] += " " + t.Names[i]
		}
	}
	return fmt.Sprintf("(%s)", strings.Join(args, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	return TTuple{Elements: applyAll(t.Elements, s), Names: t.Names}
}

func (t TTuple) FreeTypeVariables() []TVar {
	return freeInAll(t.Elements)
}

// TNullable is a nullable value type (e.g. Int?).
type TNullable struct {
	Elem Type
}

func (t TNullable) Kind() TypeKind { return KindNullable }
func (t TNullable) String() string { return t.Elem.String() + "?" }

func (t TNullable) Apply(s Subst) Type {
	return TNullable{Elem: t.Elem.Apply(s)}
}

func (t TNullable) FreeTypeVariables() []TVar {
	return t.Elem.FreeTypeVariables()
}

// TPointer is an unmanaged pointer type.
type TPointer struct {
	Elem TypeWithAnnotation
}

func (t TPointer) Kind() TypeKind { return KindPointer }
func (t TPointer) String() string { return "*" + t.Elem.String() }

func (t TPointer) Apply(s Subst) Type {
	return TPointer{Elem: t.Elem.Apply(s)}
}

func (t TPointer) FreeTypeVariables() []TVar {
	return freeInAll([]TypeWithAnnotation{t.Elem})
}

// Param is one parameter of a callable signature.
type Param struct {
	Type    TypeWithAnnotation
	RefKind RefKind
}

// TFunc is a callable signature. As a standalone type it is a function
// pointer; delegates carry one as their Invoke signature.
type TFunc struct {
	Params            []Param
	Return            TypeWithAnnotation
	ReturnRefKind     RefKind
	CallingConvention string
}

func (t TFunc) Kind() TypeKind { return KindFunctionPointer }

func (t TFunc) String() string {
	params := gfn.Map(t.Params, func(p Param) string {
		if p.RefKind != RefNone {
			return p.RefKind.String() + " " + p.Type.String()
		}
		return p.Type.String()
	})
	ret := t.Return.String()
	if t.ReturnRefKind != RefNone {
		ret = t.ReturnRefKind.String() + " " + ret
	}
	prefix := "func"
	if t.CallingConvention != "" {
		prefix += "[" + t.CallingConvention + "]"
	}
	return fmt.Sprintf("%s(%s) -> %s", prefix, strings.Join(params, ", "), ret)
}

func (t TFunc) Apply(s Subst) Type {
	params := make([]Param, len(t.Params))
	for i, p := range t.Params {
		params[i] = Param{Type: p.Type.Apply(s), RefKind: p.RefKind}
	}
	return TFunc{
		Params:            params,
		Return:            t.Return.Apply(s),
		ReturnRefKind:     t.ReturnRefKind,
		CallingConvention: t.CallingConvention,
	}
}

func (t TFunc) FreeTypeVariables() []TVar {
	all := make([]TypeWithAnnotation, 0, len(t.Params)+1)
	for _, p := range t.Params {
		all = append(all, p.Type)
	}
	all = append(all, t.Return)
	return freeInAll(all)
}

// ParamTypes lists the parameter types in order.
func (t TFunc) ParamTypes() []TypeWithAnnotation {
	return gfn.Map(t.Params, func(p Param) TypeWithAnnotation { return p.Type })
}

// TFunctionType is the natural type of a lambda or method group. Delegate
// is the delegate it would become, or nil when none can be formed.
type TFunctionType struct {
	Delegate Type
}

func (t TFunctionType) Kind() TypeKind { return KindFunctionType }

func (t TFunctionType) String() string {
	if t.Delegate == nil {
		return "fn<?>"
	}
	return "fn<" + t.Delegate.String() + ">"
}

func (t TFunctionType) Apply(s Subst) Type {
	if t.Delegate == nil {
		return t
	}
	return TFunctionType{Delegate: t.Delegate.Apply(s)}
}

func (t TFunctionType) FreeTypeVariables() []TVar {
	if t.Delegate == nil {
		return []TVar{}
	}
	return t.Delegate.FreeTypeVariables()
}

// TError is a type that failed to resolve. An empty name marks an
// anonymous error that carries no information.
type TError struct {
	Name string
}

func (t TError) Kind() TypeKind   { return KindError }
func (t TError) Apply(Subst) Type { return t }

func (t TError) String() string {
	if t.Name == "" {
		return "<error>"
	}
	return "<error " + t.Name + ">"
}

func (t TError) FreeTypeVariables() []TVar {
	return []TVar{}
}

// TUninferred stands in for a type parameter inference could not resolve.
type TUninferred struct {
	Param string
}

func (t TUninferred) Kind() TypeKind   { return KindError }
func (t TUninferred) String() string   { return "?" + t.Param }
func (t TUninferred) Apply(Subst) Type { return t }

func (t TUninferred) FreeTypeVariables() []TVar {
	return []TVar{}
}

func applyAll(ts []TypeWithAnnotation, s Subst) []TypeWithAnnotation {
	out := make([]TypeWithAnnotation, len(ts))
	for i, t := range ts {
		out[i] = t.Apply(s)
	}
	return out
}

func freeInAll(ts []TypeWithAnnotation) []TVar {
	vars := []TVar{}
	for _, t := range ts {
		if t.Type != nil {
			vars = append(vars, t.Type.FreeTypeVariables()...)
		}
	}
	return uniqueTVars(vars)
}

func uniqueTVars(vars []TVar) []TVar {
	seen := set.New[int](len(vars))
	out := make([]TVar, 0, len(vars))
	for _, v := range vars {
		if seen.Insert(v.ID) {
			out = append(out, v)
		}
	}
	return out
}

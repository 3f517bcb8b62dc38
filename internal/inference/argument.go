package inference

import (
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"

	"github.com/funvibe/typeinfer/internal/typesystem"
)

// Argument is what a call site passes for one parameter. The set of
// variants is closed.
type Argument interface {
	isArgument()
	String() string
}

// ExprArg is an ordinary expression with a known type. A nil Type with an
// Annotated nullability stands for the null literal.
type ExprArg struct {
	Type typesystem.TypeWithAnnotation
}

// LambdaArg is an anonymous function.
type LambdaArg struct {
	// Params holds the explicit parameter types; nil when the lambda
	// declares none or leaves them implicit.
	Params []typesystem.TypeWithAnnotation
	// ParamCount is the number of declared parameters. -1 means the
	// lambda has no parameter list at all.
	ParamCount int
	// Return is an explicitly declared return type.
	Return *typesystem.TypeWithAnnotation
	Body   LambdaBody
	// NaturalType is the function type placeholder, or nil.
	NaturalType typesystem.Type
}

// HasExplicitParams reports whether every parameter type is written out.
func (l LambdaArg) HasExplicitParams() bool {
	return l.Params != nil
}

// HasSignature reports whether the lambda declares a parameter list.
func (l LambdaArg) HasSignature() bool {
	return l.ParamCount >= 0
}

// MethodGroupArg names a set of overloads. AddressOf marks &M, which
// converts to function pointers instead of delegates.
type MethodGroupArg struct {
	Name        string
	Overloads   []Method
	AddressOf   bool
	NaturalType typesystem.Type
}

// TupleArg is a tuple literal. Type is its natural type when every element
// has one, otherwise nil.
type TupleArg struct {
	Elements []Argument
	Type     typesystem.Type
}

// HintArg carries an explicit type argument that contains "_" placeholders.
type HintArg struct {
	Type typesystem.TypeWithAnnotation
}

func (ExprArg) isArgument()        {}
func (LambdaArg) isArgument()      {}
func (MethodGroupArg) isArgument() {}
func (TupleArg) isArgument()       {}
func (HintArg) isArgument()        {}

func (a ExprArg) String() string {
	if !a.Type.HasType() {
		return "null"
	}
	return a.Type.String()
}

func (l LambdaArg) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	switch {
	case l.HasExplicitParams():
		sb.WriteString(strings.Join(gfn.Map(l.Params, typesystem.TypeWithAnnotation.String), ", "))
	case l.ParamCount > 0:
		names := make([]string, l.ParamCount)
		for i := range names {
			names[i] = "p" + strconv.Itoa(i)
		}
		sb.WriteString(strings.Join(names, ", "))
	}
	sb.WriteString(") => ")
	if l.Body != nil {
		sb.WriteString(l.Body.String())
	} else {
		sb.WriteString("{}")
	}
	return sb.String()
}

func (m MethodGroupArg) String() string {
	if m.AddressOf {
		return "&" + m.Name
	}
	return m.Name
}

func (t TupleArg) String() string {
	return "(" + strings.Join(gfn.Map(t.Elements, Argument.String), ", ") + ")"
}

func (h HintArg) String() string {
	return h.Type.String()
}

// LambdaBody produces the return type of a lambda once its parameter
// types are known. The second result is true when the returned type is
// itself a function type placeholder.
type LambdaBody interface {
	InferReturnType(params []typesystem.TypeWithAnnotation) (typesystem.TypeWithAnnotation, bool)
	String() string
}

// ConstBody returns a fixed type regardless of the parameters.
type ConstBody struct {
	Type typesystem.TypeWithAnnotation
}

func (b ConstBody) InferReturnType([]typesystem.TypeWithAnnotation) (typesystem.TypeWithAnnotation, bool) {
	return b.Type, typesystem.IsFunctionType(b.Type.Type)
}

func (b ConstBody) String() string { return b.Type.String() }

// ParamBody returns one of the lambda's parameters, as in x => x.
type ParamBody struct {
	Index int
}

func (b ParamBody) InferReturnType(params []typesystem.TypeWithAnnotation) (typesystem.TypeWithAnnotation, bool) {
	if b.Index < 0 || b.Index >= len(params) {
		return typesystem.TypeWithAnnotation{}, false
	}
	return params[b.Index], false
}

func (b ParamBody) String() string { return "p" + strconv.Itoa(b.Index) }

// WrapBody constructs a generic type around the result of another body,
// as in x => new List<T>(x).
type WrapBody struct {
	Def   *typesystem.Definition
	Inner LambdaBody
}

func (b WrapBody) InferReturnType(params []typesystem.TypeWithAnnotation) (typesystem.TypeWithAnnotation, bool) {
	inner, fromFn := b.Inner.InferReturnType(params)
	if !inner.HasType() || fromFn {
		return typesystem.TypeWithAnnotation{}, false
	}
	t, err := b.Def.Instantiate(inner)
	if err != nil {
		return typesystem.TypeWithAnnotation{}, false
	}
	return typesystem.NotNull(t), false
}

func (b WrapBody) String() string {
	return b.Def.Name + "<" + b.Inner.String() + ">"
}

// Method is one overload of a method group.
type Method struct {
	Name       string
	TypeParams []typesystem.TVar
	Params     []typesystem.Param
	Return     typesystem.TypeWithAnnotation
	// CallingConvention only matters when the group is converted to a
	// function pointer.
	CallingConvention string
}

// Signature is the method viewed as a function pointer type.
func (m Method) Signature() typesystem.TFunc {
	return typesystem.TFunc{Params: m.Params, Return: m.Return, CallingConvention: m.CallingConvention}
}

func (m Method) String() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	if len(m.TypeParams) > 0 {
		sb.WriteString("<")
		sb.WriteString(strings.Join(gfn.Map(m.TypeParams, typesystem.TVar.String), ", "))
		sb.WriteString(">")
	}
	sb.WriteString(strings.TrimPrefix(m.Signature().String(), "func"))
	return sb.String()
}

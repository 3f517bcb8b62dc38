package ast

import (
	"github.com/funvibe/typeinfer/internal/token"
)

// --- Type expression nodes ---

// Type represents a type node in the AST.
// E.g., Int, List<T>, T[], (Int, String), func(ref T) -> U
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
}

// NamedType represents a named type like 'Int' or 'Dictionary<K, V>'.
// A name with no matching declaration may be a type parameter in scope.
type NamedType struct {
	Token token.Token // The IDENT token
	Name  string
	Args  []Type
}

func (nt *NamedType) Accept(v Visitor)      { v.VisitNamedType(nt) }
func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// WildcardType is '_', a type argument left to inference.
type WildcardType struct {
	Token token.Token
}

func (wt *WildcardType) Accept(v Visitor)      { v.VisitWildcardType(wt) }
func (wt *WildcardType) typeNode()             {}
func (wt *WildcardType) TokenLiteral() string  { return wt.Token.Lexeme }
func (wt *WildcardType) GetToken() token.Token { return wt.Token }

// ArrayType is T[] or, with Rank > 1, T[,].
type ArrayType struct {
	Token token.Token // The '[' token
	Elem  Type
	Rank  int
}

func (at *ArrayType) Accept(v Visitor)      { v.VisitArrayType(at) }
func (at *ArrayType) typeNode()             {}
func (at *ArrayType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token { return at.Token }

// NullableType is T?. For value types it is the nullable wrapper; for
// reference types it is an annotation.
type NullableType struct {
	Token token.Token // The '?' token
	Elem  Type
}

func (nt *NullableType) Accept(v Visitor)      { v.VisitNullableType(nt) }
func (nt *NullableType) typeNode()             {}
func (nt *NullableType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NullableType) GetToken() token.Token { return nt.Token }

// TupleType represents a tuple type, e.g. (Int, Bool). Names holds the
// optional element names; an empty string means unnamed.
type TupleType struct {
	Token token.Token // The '(' token
	Types []Type
	Names []string
}

func (tt *TupleType) Accept(v Visitor)      { v.VisitTupleType(tt) }
func (tt *TupleType) typeNode()             {}
func (tt *TupleType) TokenLiteral() string  { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token { return tt.Token }

// PointerType is *T.
type PointerType struct {
	Token token.Token // The '*' token
	Elem  Type
}

func (pt *PointerType) Accept(v Visitor)      { v.VisitPointerType(pt) }
func (pt *PointerType) typeNode()             {}
func (pt *PointerType) TokenLiteral() string  { return pt.Token.Lexeme }
func (pt *PointerType) GetToken() token.Token { return pt.Token }

// Parameter is one parameter of a function type, with its passing mode
// ("", "ref", "out" or "in").
type Parameter struct {
	Mode string
	Type Type
}

// FunctionType represents a function pointer type,
// e.g. func(Int, ref T) -> Bool or func[unmanaged](T) -> ref U.
type FunctionType struct {
	Token             token.Token // The 'func' token
	CallingConvention string
	Parameters        []Parameter
	ReturnMode        string
	ReturnType        Type
}

func (ft *FunctionType) Accept(v Visitor)      { v.VisitFunctionType(ft) }
func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }

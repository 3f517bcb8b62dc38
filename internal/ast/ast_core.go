package ast

import (
	"github.com/funvibe/typeinfer/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Visitor walks type expressions. Each node calls the method for its own
// type; visitors recurse into children themselves.
type Visitor interface {
	VisitNamedType(n *NamedType)
	VisitWildcardType(n *WildcardType)
	VisitArrayType(n *ArrayType)
	VisitNullableType(n *NullableType)
	VisitTupleType(n *TupleType)
	VisitPointerType(n *PointerType)
	VisitFunctionType(n *FunctionType)
}

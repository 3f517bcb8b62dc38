package parser

import (
	"fmt"

	"github.com/funvibe/typeinfer/internal/token"
)

// Error codes
const (
	ErrP001 = "P001" // unexpected token
	ErrP002 = "P002" // trailing input
	ErrP003 = "P003" // illegal character
	ErrP004 = "P004" // malformed function type
)

// ParseError is a syntax error at a position in a type expression.
type ParseError struct {
	Code    string
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Code, e.Message)
}

func (p *Parser) addError(code string, tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

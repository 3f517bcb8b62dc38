package parser

import (
	"github.com/funvibe/typeinfer/internal/ast"
	"github.com/funvibe/typeinfer/internal/lexer"
	"github.com/funvibe/typeinfer/internal/token"
)

// Parser is a recursive-descent parser for type expressions.
type Parser struct {
	l      *lexer.Lexer
	errors []*ParseError

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// ParseType parses input as one complete type expression.
func ParseType(input string) (ast.Type, error) {
	p := New(lexer.New(input))
	t := p.ParseTypeExpression()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return t, nil
}

// ParseTypeExpression parses a type and requires the input to end after it.
func (p *Parser) ParseTypeExpression() ast.Type {
	t := p.parseType()
	if t == nil {
		return nil
	}
	if !p.peekTokenIs(token.EOF) {
		p.addError(ErrP002, p.peekToken, "unexpected %q after type", p.peekToken.Lexeme)
		return nil
	}
	return t
}

// Errors returns every error collected so far.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	got := p.peekToken.Lexeme
	if p.peekToken.Type == token.EOF {
		got = "end of input"
	}
	p.addError(ErrP001, p.peekToken, "expected %q, got %q", string(t), got)
}

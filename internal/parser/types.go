package parser

import (
	"github.com/funvibe/typeinfer/internal/ast"
	"github.com/funvibe/typeinfer/internal/token"
)

// parseType parses a prefix form followed by any number of [] and ?
// suffixes. On return curToken is the last token of the type.
func (p *Parser) parseType() ast.Type {
	t := p.parsePrimaryType()
	if t == nil {
		return nil
	}

	for {
		switch {
		case p.peekTokenIs(token.LBRACKET):
			p.nextToken() // move to '['
			tok := p.curToken
			rank := 1
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				rank++
			}
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
			t = &ast.ArrayType{Token: tok, Elem: t, Rank: rank}
		case p.peekTokenIs(token.QUESTION):
			p.nextToken() // move to '?'
			t = &ast.NullableType{Token: p.curToken, Elem: t}
		default:
			return t
		}
	}
}

func (p *Parser) parsePrimaryType() ast.Type {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseNamedType()
	case token.UNDERSCORE:
		return &ast.WildcardType{Token: p.curToken}
	case token.ASTERISK:
		tok := p.curToken
		p.nextToken() // consume '*'
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return &ast.PointerType{Token: tok, Elem: elem}
	case token.LPAREN:
		return p.parseTupleType()
	case token.FUNC:
		return p.parseFunctionType()
	case token.ILLEGAL:
		p.addError(ErrP003, p.curToken, "illegal character %q", p.curToken.Lexeme)
		return nil
	case token.EOF:
		p.addError(ErrP001, p.curToken, "expected a type, got end of input")
		return nil
	default:
		p.addError(ErrP001, p.curToken, "expected a type, got %q", p.curToken.Lexeme)
		return nil
	}
}

func (p *Parser) parseNamedType() ast.Type {
	nt := &ast.NamedType{Token: p.curToken, Name: p.curToken.Lexeme}
	if !p.peekTokenIs(token.LT) {
		return nt
	}
	p.nextToken() // move to '<'

	for {
		p.nextToken() // move to argument
		arg := p.parseType()
		if arg == nil {
			return nil
		}
		nt.Args = append(nt.Args, arg)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
		return nt
	}
}

// parseTupleType parses (A, B name, ...). A single parenthesized type
// without a name is just grouping.
func (p *Parser) parseTupleType() ast.Type {
	tt := &ast.TupleType{Token: p.curToken}
	named := false

	for {
		p.nextToken() // move to element
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		name := ""
		if p.peekTokenIs(token.IDENT) {
			p.nextToken()
			name = p.curToken.Lexeme
			named = true
		}
		tt.Types = append(tt.Types, elem)
		tt.Names = append(tt.Names, name)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		break
	}

	if len(tt.Types) == 1 && !named {
		return tt.Types[0]
	}
	if !named {
		tt.Names = nil
	}
	return tt
}

// parseFunctionType parses func[conv](mode A, ...) -> mode R.
func (p *Parser) parseFunctionType() ast.Type {
	ft := &ast.FunctionType{Token: p.curToken}

	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken() // move to '['
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ft.CallingConvention = p.curToken.Lexeme
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken() // move to parameter
			mode := p.parseMode()
			param := p.parseType()
			if param == nil {
				return nil
			}
			ft.Parameters = append(ft.Parameters, ast.Parameter{Mode: mode, Type: param})

			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			break
		}
	}

	if !p.peekTokenIs(token.ARROW) {
		p.addError(ErrP004, p.peekToken, "function type needs a return type after '->'")
		return nil
	}
	p.nextToken() // move to '->'
	p.nextToken() // move to return type
	ft.ReturnMode = p.parseMode()
	ft.ReturnType = p.parseType()
	if ft.ReturnType == nil {
		return nil
	}
	return ft
}

// parseMode consumes an optional ref, out or in keyword.
func (p *Parser) parseMode() string {
	switch p.curToken.Type {
	case token.REF, token.OUT, token.IN:
		mode := p.curToken.Lexeme
		p.nextToken()
		return mode
	}
	return ""
}

package token

type TokenType string

// Token is one lexeme of a type expression.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT      TokenType = "IDENT"
	UNDERSCORE TokenType = "_"

	LT       TokenType = "<"
	GT       TokenType = ">"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	COMMA    TokenType = ","
	QUESTION TokenType = "?"
	ASTERISK TokenType = "*"
	ARROW    TokenType = "->"

	// Keywords
	FUNC TokenType = "FUNC"
	REF  TokenType = "REF"
	OUT  TokenType = "OUT"
	IN   TokenType = "IN"
)

var keywords = map[string]TokenType{
	"func": FUNC,
	"ref":  REF,
	"out":  OUT,
	"in":   IN,
}

// LookupIdent returns the keyword type of ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident == "_" {
		return UNDERSCORE
	}
	return IDENT
}

package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT   TokenType = "IDENT"
	KEYWORD TokenType = "KEYWORD" // ident followed by ':'
	NUMBER  TokenType = "NUMBER"
	STRING  TokenType = "STRING"
	TRUE    TokenType = "TRUE"
	FALSE   TokenType = "FALSE"

	// Delimiters
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	ASSIGN   TokenType = "="
	ARROW    TokenType = "=>"
	COMMA    TokenType = ","
	DOT      TokenType = "." // field access, glued to the following identifier
	PERIOD   TokenType = "PERIOD"
)

// Token is a lexical unit with its source position. Literal holds the decoded
// value for NUMBER (float64), STRING (string) and KEYWORD (name without ':').
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent classifies a bare word.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

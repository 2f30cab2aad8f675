package lexer

import "github.com/funvibe/corvus/internal/token"

// TokenStream is a fully buffered token sequence ending in EOF.
type TokenStream struct {
	tokens []token.Token
	pos    int
}

func NewTokenStream(l *Lexer) *TokenStream {
	s := &TokenStream{}
	for {
		tok := l.NextToken()
		s.tokens = append(s.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return s
}

// NextToken returns the next token; EOF repeats once reached.
func (s *TokenStream) NextToken() token.Token {
	tok := s.Peek(0)
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

// Peek looks n tokens ahead without consuming.
func (s *TokenStream) Peek(n int) token.Token {
	i := s.pos + n
	if i >= len(s.tokens) {
		i = len(s.tokens) - 1
	}
	return s.tokens[i]
}

// Tokens returns every token, EOF included.
func (s *TokenStream) Tokens() []token.Token {
	return s.tokens
}

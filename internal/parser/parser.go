package parser

import (
	"fmt"

	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 500

type (
	prefixParseFn func() ast.Expression
)

type Parser struct {
	stream pipeline.TokenStream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn

	depth int
	// nesting counts open brackets up to curToken.
	nesting int
	// recovering suppresses follow-up errors until the next statement.
	recovering bool
}

func New(stream pipeline.TokenStream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.KEYWORD:  p.parseSendExpression,
		token.LBRACE:   p.parseBlockLiteral,
		token.LBRACKET: p.parseBracketLiteral,
		token.LPAREN:   p.parseGroupedExpression,
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.NextToken()

	switch p.curToken.Type {
	case token.LBRACE, token.LBRACKET, token.LPAREN:
		p.nesting++
	case token.RBRACE, token.RBRACKET, token.RPAREN:
		p.nesting--
	}
}

// lookAhead returns the token n positions after curToken.
func (p *Parser) lookAhead(n int) token.Token {
	switch n {
	case 0:
		return p.curToken
	case 1:
		return p.peekToken
	}
	return p.stream.Peek(n - 2)
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType, what string) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected(p.peekToken, "expected "+what)
	return false
}

func (p *Parser) addError(tok token.Token, format string, args ...interface{}) {
	if p.recovering {
		return
	}
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(diagnostics.ErrP001, tok, format, args...))
	p.recovering = true
}

// unexpected reports tok in a position where it cannot appear.
func (p *Parser) unexpected(tok token.Token, expected string) {
	switch tok.Type {
	case token.ILLEGAL:
		p.addError(tok, "%v", tok.Literal)
	case token.EOF:
		p.addError(tok, "%s, got end of input", expected)
	default:
		p.addError(tok, "%s, got %s", expected, describe(tok))
	}
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.KEYWORD:
		return fmt.Sprintf("keyword '%s'", tok.Lexeme)
	case token.IDENT:
		return fmt.Sprintf("name '%s'", tok.Lexeme)
	case token.NUMBER, token.STRING:
		return tok.Lexeme
	case token.PERIOD:
		return "'.'"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// skipToStatementBoundary advances to the next top-level '.' or the end.
func (p *Parser) skipToStatementBoundary() {
	for !p.curTokenIs(token.EOF) && !(p.curTokenIs(token.PERIOD) && p.nesting <= 0) {
		p.nextToken()
	}
}

// ParseProgram parses statements separated by '.'.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.PERIOD) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if !p.recovering {
			if stmt != nil {
				program.Statements = append(program.Statements, stmt)
			}
			if p.peekTokenIs(token.PERIOD) || p.peekTokenIs(token.EOF) {
				p.nextToken()
				continue
			}
			p.statementEndError("expected '.' or end of input")
		}
		p.skipToStatementBoundary()
		p.recovering = false
	}
	return program
}

// statementEndError reports the token following a complete statement.
// A name directly followed by a value most likely lacks its colon.
func (p *Parser) statementEndError(expected string) {
	if p.curTokenIs(token.IDENT) {
		switch p.peekToken.Type {
		case token.NUMBER, token.STRING, token.IDENT, token.KEYWORD, token.LBRACE, token.LBRACKET, token.TRUE, token.FALSE:
			p.addError(p.curToken, "missing ':' after '%s'", p.curToken.Lexeme)
			return
		}
	}
	p.unexpected(p.peekToken, expected)
}

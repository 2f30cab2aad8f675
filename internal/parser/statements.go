package parser

import (
	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
		return p.parseLetStatement()
	}
	tok := p.curToken
	exp := p.parseExpression()
	if exp == nil {
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: exp}
}

// parseLetStatement parses name = expression.
func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	p.nextToken() // =
	if _, ok := p.prefixParseFns[p.peekToken.Type]; !ok {
		p.unexpected(p.peekToken, "expected a value after '='")
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

// parseStatementList parses a block body up to the closing '}'. On return
// curToken is the '}'.
func (p *Parser) parseStatementList(open token.Token) []ast.Statement {
	stmts := []ast.Statement{}
	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.EOF:
			p.addError(open, "unterminated block: missing '}'")
			return nil
		case token.PERIOD:
			p.nextToken()
			continue
		}

		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)

		switch {
		case p.peekTokenIs(token.PERIOD):
			p.nextToken()
			p.nextToken()
		case p.peekTokenIs(token.RBRACE):
			p.nextToken()
		case p.peekTokenIs(token.EOF):
			p.addError(open, "unterminated block: missing '}'")
			return nil
		default:
			p.statementEndError("expected '.' or '}'")
			return nil
		}
	}
	return stmts
}

package parser

import (
	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/token"
)

// parseExpression parses one expression starting at curToken and leaves
// curToken on its last token.
func (p *Parser) parseExpression() ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(p.curToken, "expression too complex: nesting depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.unexpected(p.curToken, "expected an expression")
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && p.peekTokenIs(token.DOT) {
		p.nextToken()
		leftExp = p.parseMemberExpression(leftExp)
	}
	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.NumberLiteral{Token: p.curToken, Value: p.curToken.Literal.(float64)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parseSendExpression parses kw1: e1 kw2: e2 ... A value that is itself a
// send takes every following keyword, so keywords always continue the
// innermost open send.
func (p *Parser) parseSendExpression() ast.Expression {
	send := &ast.SendExpression{Token: p.curToken}
	for {
		kw := p.curToken
		if _, ok := p.prefixParseFns[p.peekToken.Type]; !ok {
			p.unexpected(p.peekToken, "expected a value after '"+kw.Lexeme+"'")
			return nil
		}
		p.nextToken()
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		send.Arguments = append(send.Arguments, ast.KeywordArgument{Keyword: kw, Value: value})
		if !p.peekTokenIs(token.KEYWORD) {
			return send
		}
		p.nextToken()
	}
}

// parseMemberExpression parses .field after left; curToken is the '.'.
func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	exp := &ast.MemberExpression{Token: p.curToken, Left: left}
	if !p.expectPeek(token.IDENT, "a field name after '.'") {
		return nil
	}
	exp.Field = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return exp
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	open := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.addError(p.peekToken, "empty parentheses")
		return nil
	}
	p.nextToken()
	exp := p.parseExpression()
	if exp == nil {
		return nil
	}
	if p.peekTokenIs(token.EOF) {
		p.addError(open, "unterminated '(': missing ')'")
		return nil
	}
	if !p.expectPeek(token.RPAREN, "')'") {
		return nil
	}
	return exp
}

// parseBlockLiteral parses { p, q => body } or { body }.
func (p *Parser) parseBlockLiteral() ast.Expression {
	block := &ast.BlockLiteral{Token: p.curToken, Parameters: []*ast.Identifier{}}

	if p.hasBlockParameters() {
		seen := make(map[string]bool)
		for !p.peekTokenIs(token.ARROW) {
			p.nextToken()
			if p.curTokenIs(token.COMMA) {
				continue
			}
			name := p.curToken.Lexeme
			if seen[name] {
				p.addError(p.curToken, "duplicate parameter '%s'", name)
				return nil
			}
			seen[name] = true
			block.Parameters = append(block.Parameters, &ast.Identifier{Token: p.curToken, Value: name})
		}
		p.nextToken() // =>
	}

	p.nextToken()
	body := p.parseStatementList(block.Token)
	if body == nil {
		return nil
	}
	block.Body = body
	return block
}

// hasBlockParameters looks for "name, name =>" right after '{'.
func (p *Parser) hasBlockParameters() bool {
	for i := 1; ; i++ {
		switch p.lookAhead(i).Type {
		case token.IDENT, token.COMMA:
			continue
		case token.ARROW:
			return true
		default:
			return false
		}
	}
}

// parseBracketLiteral parses a list [e1 e2] or a record [k = e ...].
func (p *Parser) parseBracketLiteral() ast.Expression {
	if p.peekTokenIs(token.RBRACKET) {
		lit := &ast.ListLiteral{Token: p.curToken, Elements: []ast.Expression{}}
		p.nextToken()
		return lit
	}
	if p.peekTokenIs(token.IDENT) && p.lookAhead(2).Type == token.ASSIGN {
		return p.parseRecordLiteral()
	}
	return p.parseListLiteral()
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken, Elements: []ast.Expression{}}
	for {
		p.nextToken()
		elem := p.parseExpression()
		if elem == nil {
			return nil
		}
		list.Elements = append(list.Elements, elem)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		switch p.peekToken.Type {
		case token.RBRACKET:
			p.nextToken()
			return list
		case token.EOF:
			p.addError(list.Token, "unterminated list: missing ']'")
			return nil
		}
		if _, ok := p.prefixParseFns[p.peekToken.Type]; !ok {
			p.unexpected(p.peekToken, "expected a list element or ']'")
			return nil
		}
	}
}

func (p *Parser) parseRecordLiteral() ast.Expression {
	rec := &ast.RecordLiteral{Token: p.curToken}
	seen := make(map[string]bool)
	for {
		p.nextToken() // field name
		name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		if seen[name.Value] {
			p.addError(p.curToken, "duplicate field '%s'", name.Value)
			return nil
		}
		seen[name.Value] = true
		p.nextToken() // =
		if _, ok := p.prefixParseFns[p.peekToken.Type]; !ok {
			p.unexpected(p.peekToken, "expected a value for field '"+name.Value+"'")
			return nil
		}
		p.nextToken()
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		rec.Fields = append(rec.Fields, ast.RecordField{Name: name, Value: value})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		switch {
		case p.peekTokenIs(token.RBRACKET):
			p.nextToken()
			return rec
		case p.peekTokenIs(token.EOF):
			p.addError(rec.Token, "unterminated record: missing ']'")
			return nil
		case p.peekTokenIs(token.IDENT) && p.lookAhead(2).Type == token.ASSIGN:
			continue
		}
		p.unexpected(p.peekToken, "expected 'name = value' or ']'")
		return nil
	}
}

package ast

import "github.com/funvibe/corvus/internal/token"

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

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Visitor walks the tree. Each node calls the method for its own type.
type Visitor interface {
	VisitProgram(p *Program)
	VisitLetStatement(ls *LetStatement)
	VisitExpressionStatement(es *ExpressionStatement)
	VisitIdentifier(i *Identifier)
	VisitNumberLiteral(n *NumberLiteral)
	VisitStringLiteral(s *StringLiteral)
	VisitBooleanLiteral(b *BooleanLiteral)
	VisitListLiteral(l *ListLiteral)
	VisitRecordLiteral(r *RecordLiteral)
	VisitBlockLiteral(b *BlockLiteral)
	VisitSendExpression(s *SendExpression)
	VisitMemberExpression(m *MemberExpression)
}

// Program is the root node of every AST our parser produces. Its value is
// the value of its last statement.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// LetStatement binds a name for the rest of the enclosing sequence.
// total = calc: a plus: b
type LetStatement struct {
	Token token.Token // the name token
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) Accept(v Visitor)      { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()        {}
func (ls *LetStatement) TokenLiteral() string  { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token { return ls.Token }

// ExpressionStatement is an expression used as a statement.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

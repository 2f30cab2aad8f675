package ast

import (
	"strings"

	"github.com/funvibe/corvus/internal/token"
)

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) Accept(v Visitor)      { v.VisitNumberLiteral(n) }
func (n *NumberLiteral) expressionNode()       {}
func (n *NumberLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NumberLiteral) GetToken() token.Token { return n.Token }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(s) }
func (s *StringLiteral) expressionNode()       {}
func (s *StringLiteral) TokenLiteral() string  { return s.Token.Lexeme }
func (s *StringLiteral) GetToken() token.Token { return s.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(b) }
func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }

// ListLiteral is [e1 e2 ...].
type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (l *ListLiteral) Accept(v Visitor)      { v.VisitListLiteral(l) }
func (l *ListLiteral) expressionNode()       {}
func (l *ListLiteral) TokenLiteral() string  { return l.Token.Lexeme }
func (l *ListLiteral) GetToken() token.Token { return l.Token }

// RecordField is one name = value pair of a record literal.
type RecordField struct {
	Name  *Identifier
	Value Expression
}

// RecordLiteral is [name = e1 other = e2].
type RecordLiteral struct {
	Token  token.Token // the '[' token
	Fields []RecordField
}

func (r *RecordLiteral) Accept(v Visitor)      { v.VisitRecordLiteral(r) }
func (r *RecordLiteral) expressionNode()       {}
func (r *RecordLiteral) TokenLiteral() string  { return r.Token.Lexeme }
func (r *RecordLiteral) GetToken() token.Token { return r.Token }

// BlockLiteral is { p, q => body }. A block without parameters omits the arrow.
type BlockLiteral struct {
	Token      token.Token // the '{' token
	Parameters []*Identifier
	Body       []Statement
}

func (b *BlockLiteral) Accept(v Visitor)      { v.VisitBlockLiteral(b) }
func (b *BlockLiteral) expressionNode()       {}
func (b *BlockLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BlockLiteral) GetToken() token.Token { return b.Token }

// KeywordArgument is one "keyword: value" part of a send.
type KeywordArgument struct {
	Keyword token.Token
	Value   Expression
}

// Name is the keyword without the colon.
func (k KeywordArgument) Name() string {
	if s, ok := k.Keyword.Literal.(string); ok {
		return s
	}
	return strings.TrimSuffix(k.Keyword.Lexeme, ":")
}

// SendExpression is a keyword message: kw1: e1 kw2: e2 ...
type SendExpression struct {
	Token     token.Token // the first keyword
	Arguments []KeywordArgument
}

func (s *SendExpression) Accept(v Visitor)      { v.VisitSendExpression(s) }
func (s *SendExpression) expressionNode()       {}
func (s *SendExpression) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SendExpression) GetToken() token.Token { return s.Token }

// Keywords is the selector: the ordered keyword names.
func (s *SendExpression) Keywords() []string {
	out := make([]string, len(s.Arguments))
	for i, a := range s.Arguments {
		out[i] = a.Name()
	}
	return out
}

// Selector renders the keywords as "calc:plus:".
func (s *SendExpression) Selector() string {
	var sb strings.Builder
	for _, a := range s.Arguments {
		sb.WriteString(a.Name())
		sb.WriteByte(':')
	}
	return sb.String()
}

// MemberExpression is a field access: left.field
type MemberExpression struct {
	Token token.Token // the '.' token
	Left  Expression
	Field *Identifier
}

func (m *MemberExpression) Accept(v Visitor)      { v.VisitMemberExpression(m) }
func (m *MemberExpression) expressionNode()       {}
func (m *MemberExpression) TokenLiteral() string  { return m.Token.Lexeme }
func (m *MemberExpression) GetToken() token.Token { return m.Token }

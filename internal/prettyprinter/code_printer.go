package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/corvus/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Format renders a node as canonical source.
func Format(n ast.Node) string {
	p := NewCodePrinter()
	n.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints an expression, adding parentheses only if needed. A send
// must be parenthesized when more keywords follow it in the enclosing send,
// or when a field is read from it.
func (p *CodePrinter) printExpr(expr ast.Expression, needsClosing bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	if _, isSend := expr.(*ast.SendExpression); isSend && needsClosing {
		p.write("(")
		expr.Accept(p)
		p.write(")")
		return
	}
	expr.Accept(p)
}

func (p *CodePrinter) printStatements(stmts []ast.Statement, sep func()) {
	for i, stmt := range stmts {
		if i > 0 {
			sep()
		}
		if stmt == nil {
			p.write("<???>")
			continue
		}
		stmt.Accept(p)
	}
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for i, stmt := range n.Statements {
		if stmt != nil {
			stmt.Accept(p)
		} else {
			p.write("<???>")
		}
		if i < len(n.Statements)-1 {
			p.write(".")
		}
		p.write("\n")
	}
}

func (p *CodePrinter) VisitLetStatement(n *ast.LetStatement) {
	p.write(n.Name.Value)
	p.write(" = ")
	p.printExpr(n.Value, false)
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, false)
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitNumberLiteral(n *ast.NumberLiteral) {
	p.write(strconv.FormatFloat(n.Value, 'f', -1, 64))
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(`"` + stringEscaper.Replace(n.Value) + `"`)
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.write("[")
	for i, e := range n.Elements {
		if i > 0 {
			p.write(" ")
		}
		p.printExpr(e, false)
	}
	p.write("]")
}

func (p *CodePrinter) VisitRecordLiteral(n *ast.RecordLiteral) {
	p.write("[")
	for i, f := range n.Fields {
		if i > 0 {
			p.write(" ")
		}
		p.write(f.Name.Value + " = ")
		p.printExpr(f.Value, false)
	}
	p.write("]")
}

func (p *CodePrinter) VisitBlockLiteral(n *ast.BlockLiteral) {
	if len(n.Body) == 0 && len(n.Parameters) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	if len(n.Parameters) > 0 {
		names := make([]string, len(n.Parameters))
		for i, param := range n.Parameters {
			names[i] = param.Value
		}
		p.write(" " + strings.Join(names, ", ") + " =>")
	}
	if len(n.Body) <= 1 {
		p.write(" ")
		p.printStatements(n.Body, nil)
		if len(n.Body) == 1 {
			p.write(" ")
		}
		p.write("}")
		return
	}
	p.indent++
	p.writeln()
	p.printStatements(n.Body, func() {
		p.write(".")
		p.writeln()
	})
	p.indent--
	p.writeln()
	p.write("}")
}

func (p *CodePrinter) VisitSendExpression(n *ast.SendExpression) {
	for i, arg := range n.Arguments {
		if i > 0 {
			p.write(" ")
		}
		p.write(arg.Name() + ": ")
		p.printExpr(arg.Value, i < len(n.Arguments)-1)
	}
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.printExpr(n.Left, true)
	p.write("." + n.Field.Value)
}

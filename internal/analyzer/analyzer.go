// Package analyzer resolves sends against a namespace, checks argument
// types, infers the types of free inputs and lowers the AST into the
// resolved arena both backends execute.
package analyzer

import (
	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/symbols"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
)

// Analyzer performs semantic analysis of one program.
type Analyzer struct {
	ns     *namespace.Namespace
	tree   *resolved.Tree
	scope  *symbols.SymbolTable
	inputs map[string]int
	errors []*diagnostics.DiagnosticError
}

func New(ns *namespace.Namespace) *Analyzer {
	return &Analyzer{ns: ns}
}

// Analyze lowers prog into a resolved tree. The tree is only usable when
// no errors are returned.
func (a *Analyzer) Analyze(prog *ast.Program) (*resolved.Tree, []*diagnostics.DiagnosticError) {
	a.tree = &resolved.Tree{}
	a.scope = symbols.NewSymbolTable()
	a.inputs = make(map[string]int)
	a.errors = nil

	body, result := a.analyzeBody(prog.Statements, typesystem.Any)
	a.tree.Root = a.tree.Add(resolved.Node{
		Kind:     resolved.Block,
		Type:     typesystem.Block(result),
		Children: body,
		Locals:   a.scope.Slots(),
	})
	a.tree.Return = result

	// Input types may have been narrowed after a node was created.
	for i := range a.tree.Nodes {
		if n := &a.tree.Nodes[i]; n.Kind == resolved.Input {
			n.Type = a.tree.Inputs[n.Slot].Type
		}
	}
	return a.tree, a.errors
}

// analyzeBody analyzes a statement sequence. Its type is the type of the
// last statement; an empty sequence yields an empty list.
func (a *Analyzer) analyzeBody(stmts []ast.Statement, expected typesystem.Type) ([]resolved.NodeID, typesystem.Type) {
	if len(stmts) == 0 {
		return nil, typesystem.List(typesystem.Any)
	}
	ids := make([]resolved.NodeID, 0, len(stmts))
	var last typesystem.Type
	for i, stmt := range stmts {
		want := typesystem.Type(typesystem.Any)
		if i == len(stmts)-1 {
			want = expected
		}
		id, t := a.analyzeStatement(stmt, want)
		ids = append(ids, id)
		last = t
	}
	return ids, last
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement, expected typesystem.Type) (resolved.NodeID, typesystem.Type) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		// The name becomes visible after its value, so a let never refers
		// to itself.
		value, t := a.analyzeExpr(s.Value, expected)
		sym := a.scope.Define(s.Name.Value, t)
		return a.tree.Add(resolved.Node{
			Kind:     resolved.Let,
			Token:    s.Token,
			Type:     t,
			Children: []resolved.NodeID{value},
			Names:    []string{s.Name.Value},
			Slot:     sym.Slot,
		}), t
	case *ast.ExpressionStatement:
		return a.analyzeExpr(s.Expression, expected)
	}
	a.errorf(diagnostics.ErrA002, stmt.GetToken(), "unsupported statement %T", stmt)
	return a.constant(stmt.GetToken(), nil), typesystem.Any
}

func (a *Analyzer) analyzeExpr(expr ast.Expression, expected typesystem.Type) (resolved.NodeID, typesystem.Type) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return a.literal(e.Token, e.Value)
	case *ast.StringLiteral:
		return a.literal(e.Token, e.Value)
	case *ast.BooleanLiteral:
		return a.literal(e.Token, e.Value)
	case *ast.Identifier:
		return a.analyzeIdentifier(e, expected)
	case *ast.ListLiteral:
		return a.analyzeList(e, expected)
	case *ast.RecordLiteral:
		return a.analyzeRecord(e, expected)
	case *ast.MemberExpression:
		return a.analyzeMember(e)
	case *ast.BlockLiteral:
		return a.analyzeBlock(e, expected)
	case *ast.SendExpression:
		return a.analyzeSend(e)
	}
	a.errorf(diagnostics.ErrA002, expr.GetToken(), "unsupported expression %T", expr)
	return a.constant(expr.GetToken(), nil), typesystem.Any
}

func (a *Analyzer) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	a.errors = append(a.errors, diagnostics.NewError(code, tok, format, args...))
}

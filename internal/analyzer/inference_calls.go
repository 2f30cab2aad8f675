package analyzer

import (
	"errors"

	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/symbols"
	"github.com/funvibe/corvus/internal/typesystem"
)

// analyzeSend resolves the selector and checks each argument against its
// formal type. Block arguments are typed from the formal block type, or
// from the signature's Typer when it has one.
func (a *Analyzer) analyzeSend(s *ast.SendExpression) (resolved.NodeID, typesystem.Type) {
	keywords := s.Keywords()
	sig, slots, err := a.ns.Resolve(keywords)
	if err != nil {
		var diag *diagnostics.DiagnosticError
		if errors.As(err, &diag) {
			diag.Token = s.Token
			diag.Message = "no function matches '" + s.Selector() + "'"
			a.errors = append(a.errors, diag)
		} else {
			a.errorf(diagnostics.ErrA001, s.Token, "%v", err)
		}
		// Keep going so inputs and nested errors are still reported.
		children := make([]resolved.NodeID, len(s.Arguments))
		for i, arg := range s.Arguments {
			children[i], _ = a.analyzeExpr(arg.Value, typesystem.Any)
		}
		return a.tree.Add(resolved.Node{Kind: resolved.Send, Token: s.Token, Type: typesystem.Any, Children: children, Slot: -1}), typesystem.Any
	}

	children := make([]resolved.NodeID, len(s.Arguments))
	known := make(map[string]typesystem.Type, len(s.Arguments))
	for i, arg := range s.Arguments {
		formal := sig.Args[slots[i]]
		expected := a.expectedArgType(sig, formal, known)

		id, actual := a.analyzeExpr(arg.Value, expected)
		children[i] = id
		if !typesystem.Compatible(expected, actual) {
			a.errorf(diagnostics.ErrA002, arg.Value.GetToken(),
				"%s argument %d ('%s') expects %s, found %s", sig.Name(), i+1, formal.Name, expected, actual)
			actual = expected
		}
		if formal.Variadic {
			prev, ok := known[formal.Name].(typesystem.TList)
			if ok {
				actual = typesystem.List(typesystem.Join(prev.Elem, actual))
			} else {
				actual = typesystem.List(actual)
			}
		}
		known[formal.Name] = actual
	}

	result := sig.Return
	if sig.Typer != nil {
		if t := sig.Typer.ReturnType(known); t != nil {
			result = t
		}
	}
	site := a.tree.AddSite(resolved.CallSite{Sig: sig, Slots: slots, Keywords: keywords, Token: s.Token})
	return a.tree.Add(resolved.Node{Kind: resolved.Send, Token: s.Token, Type: result, Children: children, Slot: site}), result
}

// expectedArgType is the formal type of an argument, with block parameter
// types refined by the Typer.
func (a *Analyzer) expectedArgType(sig *namespace.Signature, formal namespace.Arg, known map[string]typesystem.Type) typesystem.Type {
	if sig.Typer == nil {
		return formal.Type
	}
	params := sig.Typer.BlockParams(formal.Name, known)
	if params == nil {
		return formal.Type
	}
	var result typesystem.Type = typesystem.Any
	if b, ok := formal.Type.(typesystem.TBlock); ok {
		result = b.Result
	}
	return typesystem.Block(result, params...)
}

// analyzeBlock opens a new frame for the block body. Parameter types come
// from the expected block type when the arity agrees, otherwise Any.
func (a *Analyzer) analyzeBlock(b *ast.BlockLiteral, expected typesystem.Type) (resolved.NodeID, typesystem.Type) {
	params := make([]typesystem.Type, len(b.Parameters))
	var result typesystem.Type = typesystem.Any
	formal, isBlock := expected.(typesystem.TBlock)
	for i := range params {
		params[i] = typesystem.Any
		if isBlock && len(formal.Params) == len(params) {
			params[i] = formal.Params[i]
		}
	}
	if isBlock {
		result = formal.Result
	}

	outer := a.scope
	a.scope = symbols.NewEnclosedSymbolTable(outer)
	for i, p := range b.Parameters {
		a.scope.Define(p.Value, params[i])
	}
	body, bodyType := a.analyzeBody(b.Body, result)
	inner := a.scope
	a.scope = outer

	t := typesystem.Block(bodyType, params...)
	return a.tree.Add(resolved.Node{
		Kind:     resolved.Block,
		Token:    b.Token,
		Type:     t,
		Children: body,
		Arity:    len(b.Parameters),
		Locals:   inner.Slots(),
		Captures: inner.Captures(),
	}), t
}

package analyzer

import (
	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/symbols"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
)

func (a *Analyzer) literal(tok token.Token, v interface{}) (resolved.NodeID, typesystem.Type) {
	id := a.constant(tok, v)
	return id, a.tree.Nodes[id].Type
}

func (a *Analyzer) constant(tok token.Token, v interface{}) resolved.NodeID {
	var obj object.Object = object.NIL
	var t typesystem.Type = typesystem.Any
	switch v := v.(type) {
	case float64:
		obj, t = &object.Number{Value: v}, typesystem.Number
	case string:
		obj, t = &object.String{Value: v}, typesystem.String
	case bool:
		obj, t = object.NativeBool(v), typesystem.Bool
	}
	return a.tree.Add(resolved.Node{Kind: resolved.Const, Token: tok, Type: t, Value: obj})
}

// analyzeIdentifier resolves a name to a local, a captured value or a free
// input. A free input takes the expected type of its first use; later uses
// must unify with it.
func (a *Analyzer) analyzeIdentifier(id *ast.Identifier, expected typesystem.Type) (resolved.NodeID, typesystem.Type) {
	if sym, ok := a.scope.Find(id.Value); ok {
		kind := resolved.Local
		if sym.Kind == symbols.UpvalueSymbol {
			kind = resolved.Upvalue
		}
		return a.tree.Add(resolved.Node{Kind: kind, Token: id.Token, Type: sym.Type, Slot: sym.Slot, Names: []string{id.Value}}), sym.Type
	}

	if expected == nil {
		expected = typesystem.Any
	}
	slot, seen := a.inputs[id.Value]
	if !seen {
		a.tree.Inputs = append(a.tree.Inputs, resolved.InputDecl{Name: id.Value, Type: expected, Token: id.Token})
		slot = len(a.tree.Inputs) - 1
		a.inputs[id.Value] = slot
	} else {
		decl := &a.tree.Inputs[slot]
		unified, ok := typesystem.Unify(decl.Type, expected)
		if !ok {
			a.errorf(diagnostics.ErrA003, id.Token, "input '%s' is used as %s here but as %s before",
				id.Value, expected, decl.Type)
			// Reported once; the caller must not add a TypeMismatch on top.
			unified = expected
		} else {
			decl.Type = unified
		}
		expected = unified
	}
	return a.tree.Add(resolved.Node{Kind: resolved.Input, Token: id.Token, Type: expected, Slot: slot, Names: []string{id.Value}}), expected
}

func (a *Analyzer) analyzeList(l *ast.ListLiteral, expected typesystem.Type) (resolved.NodeID, typesystem.Type) {
	var want typesystem.Type = typesystem.Any
	if lt, ok := expected.(typesystem.TList); ok {
		want = lt.Elem
	}
	children := make([]resolved.NodeID, len(l.Elements))
	var elem typesystem.Type
	for i, e := range l.Elements {
		id, t := a.analyzeExpr(e, want)
		children[i] = id
		if i == 0 {
			elem = t
		} else {
			elem = typesystem.Join(elem, t)
		}
	}
	if elem == nil {
		elem = typesystem.Any
	}
	t := typesystem.List(elem)
	return a.tree.Add(resolved.Node{Kind: resolved.ListLit, Token: l.Token, Type: t, Children: children}), t
}

func (a *Analyzer) analyzeRecord(r *ast.RecordLiteral, expected typesystem.Type) (resolved.NodeID, typesystem.Type) {
	rec, _ := expected.(typesystem.TRecord)
	children := make([]resolved.NodeID, len(r.Fields))
	names := make([]string, len(r.Fields))
	fields := make([]typesystem.Field, len(r.Fields))
	for i, f := range r.Fields {
		var want typesystem.Type = typesystem.Any
		if formal, ok := rec.Field(f.Name.Value); ok {
			want = formal.Type
		}
		id, t := a.analyzeExpr(f.Value, want)
		children[i] = id
		names[i] = f.Name.Value
		fields[i] = typesystem.Field{Name: f.Name.Value, Type: t}
	}
	t := typesystem.Record(fields...)
	return a.tree.Add(resolved.Node{Kind: resolved.RecordLit, Token: r.Token, Type: t, Children: children, Names: names}), t
}

// analyzeMember types a field read. Reading from an input does not narrow
// it: the path contributes nothing to inference.
func (a *Analyzer) analyzeMember(m *ast.MemberExpression) (resolved.NodeID, typesystem.Type) {
	left, lt := a.analyzeExpr(m.Left, typesystem.Any)
	name := m.Field.Value

	var t typesystem.Type = typesystem.Any
	switch rec := lt.(type) {
	case typesystem.TRecord:
		f, ok := rec.Field(name)
		if !ok {
			a.errorf(diagnostics.ErrA002, m.Field.Token, "%s has no field '%s'", rec, name)
			break
		}
		t = f.Type
	default:
		if !typesystem.IsAny(lt) {
			a.errorf(diagnostics.ErrA002, m.Field.Token, "cannot read field '%s' of %s", name, lt)
		}
	}
	return a.tree.Add(resolved.Node{
		Kind:     resolved.Field,
		Token:    m.Field.Token,
		Type:     t,
		Children: []resolved.NodeID{left},
		Names:    []string{name},
	}), t
}

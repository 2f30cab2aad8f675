package schema

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
)

// Declaration is a parsed named type, ready for a registry.
type Declaration struct {
	Name string
	Ref  typesystem.TypeRef
	Pos  lexer.Position
}

// Parse reads declarations from src. filename is used in error positions.
func Parse(filename, src string) ([]Declaration, error) {
	file, err := parser.ParseString(filename, src)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			d := diagnostics.NewError(diagnostics.ErrP001, tokenAt(perr.Position()), "%s", perr.Message())
			d.File = filename
			return nil, d
		}
		return nil, diagnostics.Wrap(diagnostics.ErrP001, token.Token{}, err, "%v", err)
	}

	decls := make([]Declaration, len(file.Decls))
	for i, d := range file.Decls {
		decls[i] = Declaration{Name: d.Name, Ref: d.Type.ref(), Pos: d.Pos}
	}
	return decls, nil
}

func (t *TypeExpr) ref() typesystem.TypeRef {
	switch {
	case t.List != nil:
		return typesystem.ListOf{Elem: t.List.ref()}
	case t.Record != nil:
		fields := make(typesystem.Inline, len(t.Record.Fields))
		for i, f := range t.Record.Fields {
			fields[i] = typesystem.FieldSpec{Name: f.Name, Ref: f.Type.ref(), Optional: f.Optional}
		}
		return fields
	}
	return typesystem.Named(t.Name)
}

// Apply defines decls in order and stops at the first registry error.
func Apply(reg *typesystem.Registry, decls []Declaration) error {
	for _, d := range decls {
		if _, err := reg.Define(d.Name, d.Ref); err != nil {
			var diag *diagnostics.DiagnosticError
			if errors.As(err, &diag) && diag.Token.Line == 0 {
				diag.Token = tokenAt(d.Pos)
				diag.File = d.Pos.Filename
			}
			return err
		}
	}
	return nil
}

// Load parses src and applies it to reg.
func Load(reg *typesystem.Registry, filename, src string) error {
	decls, err := Parse(filename, src)
	if err != nil {
		return err
	}
	return Apply(reg, decls)
}

func tokenAt(pos lexer.Position) token.Token {
	return token.Token{Line: pos.Line, Column: pos.Column}
}

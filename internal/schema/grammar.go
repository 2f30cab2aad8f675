// Package schema parses the type declaration language:
//
//	type Person = { name: string, age: number, nickname?: string }
//	type Salon = { location: Location, people: [Person] }
package schema

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a sequence of declarations.
type File struct {
	Pos   lexer.Position
	Decls []*Decl `parser:"@@*"`
}

// Decl is one "type Name = T" declaration.
type Decl struct {
	Pos  lexer.Position
	Name string    `parser:"'type' @Ident '='"`
	Type *TypeExpr `parser:"@@"`
}

// TypeExpr is a list, a record or a type name.
type TypeExpr struct {
	Pos    lexer.Position
	List   *TypeExpr   `parser:"  '[' @@ ']'"`
	Record *RecordExpr `parser:"| @@"`
	Name   string      `parser:"| @Ident"`
}

type RecordExpr struct {
	Pos    lexer.Position
	Fields []*FieldExpr `parser:"'{' ( @@ ( ',' @@ )* ','? )? '}'"`
}

type FieldExpr struct {
	Pos      lexer.Position
	Name     string    `parser:"@Ident"`
	Optional bool      `parser:"@'?'? ':'"`
	Type     *TypeExpr `parser:"@@"`
}

var schemaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[\[\]{}=:,?]`},
})

var parser = participle.MustBuild[File](
	participle.Lexer(schemaLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

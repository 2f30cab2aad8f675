package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/schema"
	ts "github.com/funvibe/corvus/internal/typesystem"
)

const salon = `
# people and places
type Person = { name: string, age: number, nickname?: string }
type Location = { name: string, lat: number, lon: number }
type Salon = {
    location: Location,
    people: [Person],
}
`

func TestParseDeclarations(t *testing.T) {
	decls, err := schema.Parse("salon.types", salon)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.Equal(t, "Person", decls[0].Name)
	assert.Equal(t, 3, decls[0].Pos.Line)
	assert.Equal(t, ts.Inline{
		ts.F("name", ts.Named("string")),
		ts.F("age", ts.Named("number")),
		ts.Opt("nickname", ts.Named("string")),
	}, decls[0].Ref)
	assert.Equal(t, ts.Inline{
		ts.F("location", ts.Named("Location")),
		ts.F("people", ts.ListOf{Elem: ts.Named("Person")}),
	}, decls[2].Ref)
}

func TestLoadResolvesNestedFields(t *testing.T) {
	reg := ts.NewRegistry()
	require.NoError(t, schema.Load(reg, "salon.types", salon))

	salonType, ok := reg.Lookup("Salon")
	require.True(t, ok)
	lat, ok := ts.FieldType(salonType, "location", "lat")
	require.True(t, ok)
	assert.Equal(t, ts.Number, lat)

	people, ok := ts.FieldType(salonType, "people")
	require.True(t, ok)
	person, _ := reg.Lookup("Person")
	assert.True(t, ts.Equal(ts.List(person), people))
}

func TestAliases(t *testing.T) {
	reg := ts.NewRegistry()
	require.NoError(t, schema.Load(reg, "", "type Names = [string]\ntype Flag = bool"))
	names, _ := reg.Lookup("Names")
	assert.Equal(t, ts.List(ts.String), names)
	flag, _ := reg.Lookup("Flag")
	assert.Equal(t, ts.Bool, flag)
}

func TestSyntaxError(t *testing.T) {
	_, err := schema.Parse("bad.types", "type A = { name string }")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostics.ErrSyntax))

	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, "bad.types", diag.File)
	assert.Equal(t, 1, diag.Token.Line)
	assert.Equal(t, 17, diag.Token.Column)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
		line int
	}{
		{"duplicate", "type A = number\ntype A = string", diagnostics.ErrDuplicateTypeName, 2},
		{"reserved", "type string = number", diagnostics.ErrDuplicateTypeName, 1},
		{"unknown", "type A = { b: B }", diagnostics.ErrUnknownTypeName, 1},
		{"duplicate field", "type A = { b: number, b: string }", diagnostics.ErrUnresolvableTypeReference, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := ts.NewRegistry()
			err := schema.Load(reg, "x.types", tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)

			var diag *diagnostics.DiagnosticError
			require.True(t, errors.As(err, &diag))
			assert.Equal(t, tt.line, diag.Token.Line)
		})
	}
}

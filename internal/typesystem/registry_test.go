package typesystem_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/corvus/internal/diagnostics"
	ts "github.com/funvibe/corvus/internal/typesystem"
)

func salonRegistry(t *testing.T) *ts.Registry {
	t.Helper()
	r := ts.NewRegistry()
	_, err := r.Define("Person", ts.Inline{
		ts.F("name", ts.Named("string")),
		ts.F("age", ts.Named("number")),
		ts.Opt("nickname", ts.Named("string")),
	})
	require.NoError(t, err)
	_, err = r.Define("Location", ts.Inline{
		ts.F("name", ts.Named("string")),
		ts.F("lat", ts.Named("number")),
		ts.F("lon", ts.Named("num")),
	})
	require.NoError(t, err)
	_, err = r.Define("Salon", ts.Inline{
		ts.F("location", ts.Named("Location")),
		ts.F("people", ts.Of(ts.Named("Person"))),
	})
	require.NoError(t, err)
	return r
}

func TestNestedFieldResolution(t *testing.T) {
	r := salonRegistry(t)

	salon, err := r.Resolve(ts.Named("Salon"))
	require.NoError(t, err)

	rec, ok := salon.(ts.TRecord)
	require.True(t, ok)
	loc, ok := rec.Field("location")
	require.True(t, ok)
	lat, ok := loc.Type.(ts.TRecord).Field("lat")
	require.True(t, ok)
	assert.Equal(t, ts.Number, lat.Type)

	people, ok := ts.FieldType(salon, "people")
	require.True(t, ok)
	assert.True(t, ts.Equal(people, ts.List(mustResolve(t, r, ts.Named("Person")))))
}

func mustResolve(t *testing.T, r *ts.Registry, ref ts.TypeRef) ts.Type {
	t.Helper()
	typ, err := r.Resolve(ref)
	require.NoError(t, err)
	return typ
}

func TestEqualityLaw(t *testing.T) {
	r := ts.NewRegistry()
	a := mustResolve(t, r, ts.Inline{ts.F("x", ts.Named("number")), ts.Opt("y", ts.Named("string"))})
	b := mustResolve(t, r, ts.Inline{ts.Opt("y", ts.Named("string")), ts.F("x", ts.Named("num"))})
	c := mustResolve(t, r, ts.Inline{ts.F("x", ts.Named("number")), ts.F("y", ts.Named("string"))})

	assert.True(t, ts.Equal(a, b), "field order must not matter")
	assert.False(t, ts.Equal(a, c), "optionality must matter")
	assert.True(t, ts.Equal(mustResolve(t, r, ts.Of(ts.Named("bool"))), mustResolve(t, r, ts.Of(ts.Named("boolean")))))
}

func TestRedefinitionFails(t *testing.T) {
	r := ts.NewRegistry()
	first, err := r.Define("X", ts.Inline{ts.F("a", ts.Named("number"))})
	require.NoError(t, err)

	_, err = r.Define("X", ts.Inline{ts.F("a", ts.Named("string"))})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostics.ErrDuplicateTypeName))

	again, err := r.Resolve(ts.Named("X"))
	require.NoError(t, err)
	assert.True(t, ts.Equal(first, again))
}

func TestBuiltinNamesAreReserved(t *testing.T) {
	r := ts.NewRegistry()
	for _, name := range []string{"any", "bool", "boolean", "number", "num", "string", "time"} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Define(name, ts.Named("string"))
			assert.True(t, errors.Is(err, diagnostics.ErrDuplicateTypeName))
		})
	}
}

func TestResolveErrors(t *testing.T) {
	r := ts.NewRegistry()
	tests := []struct {
		name string
		ref  ts.TypeRef
		code diagnostics.ErrorCode
		msg  string
	}{
		{"unknown name", ts.Named("Nope"), diagnostics.ErrUnknownTypeName, "unknown type 'Nope'"},
		{"unknown in field", ts.Inline{ts.F("who", ts.Named("Nope"))}, diagnostics.ErrUnknownTypeName, "field 'who'"},
		{"unknown list elem", ts.Of(ts.Named("Nope")), diagnostics.ErrUnknownTypeName, "Nope"},
		{"nil ref", nil, diagnostics.ErrUnresolvableTypeReference, "nil"},
		{"nil field ref", ts.Inline{ts.F("a", nil)}, diagnostics.ErrUnresolvableTypeReference, "field 'a'"},
		{"nil resolved", ts.Resolved{}, diagnostics.ErrUnresolvableTypeReference, "Resolved(nil)"},
		{"duplicate field", ts.Inline{ts.F("a", ts.Named("num")), ts.F("a", ts.Named("num"))}, diagnostics.ErrUnresolvableTypeReference, "duplicate field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestResolvedPassesThrough(t *testing.T) {
	r := ts.NewRegistry()
	in := ts.List(ts.Time)
	out := mustResolve(t, r, ts.Ref(in))
	assert.Equal(t, ts.Type(in), out)
}

func TestNamesKeepOrder(t *testing.T) {
	r := salonRegistry(t)
	assert.Equal(t, []string{"Person", "Location", "Salon"}, r.Names())
}

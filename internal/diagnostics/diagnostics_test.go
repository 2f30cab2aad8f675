package diagnostics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/token"
)

func TestErrorMatchesCode(t *testing.T) {
	err := error(diagnostics.NewError(diagnostics.ErrA002, token.Token{Line: 2, Column: 7}, "expected %s, found %s", "Number", "String"))

	assert.True(t, errors.Is(err, diagnostics.ErrTypeMismatch))
	assert.False(t, errors.Is(err, diagnostics.ErrNoMatchingFunction))
	assert.Equal(t, "2:7: TypeMismatch [A002]: expected Number, found String", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("host exploded")
	err := error(diagnostics.Wrap(diagnostics.ErrR002, token.Token{}, cause, "fetch:"))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, diagnostics.ErrCallbackFailure))

	var d *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &d))
	assert.Equal(t, diagnostics.ErrR002, d.Code)
}

func TestErrorsList(t *testing.T) {
	es := diagnostics.Errors{
		diagnostics.NewError(diagnostics.ErrP001, token.Token{Line: 1, Column: 1}, "unexpected '}'"),
		diagnostics.NewError(diagnostics.ErrA001, token.Token{Line: 3, Column: 1}, "no function"),
	}
	diagnostics.WithFile(es, "a.corvus")

	assert.True(t, errors.Is(es, diagnostics.ErrSyntax))
	assert.True(t, errors.Is(es, diagnostics.ErrNoMatchingFunction))
	assert.Contains(t, es.Error(), "a.corvus:3:1")
	assert.Equal(t, es[0], es.First())
}

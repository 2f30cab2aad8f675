package namespace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/token"
	ts "github.com/funvibe/corvus/internal/typesystem"
)

// goBlock is a block implemented in Go, standing in for a script block.
type goBlock struct {
	arity int
	fn    func(args ...object.Object) (object.Object, error)
}

func (b *goBlock) Type() object.ObjectType { return object.BLOCK_OBJ }
func (b *goBlock) Inspect() string         { return "<block>" }
func (b *goBlock) RuntimeType() ts.Type    { return ts.Any }
func (b *goBlock) Arity() int              { return b.arity }
func (b *goBlock) Call(_ context.Context, args ...object.Object) (object.Object, error) {
	return b.fn(args...)
}

func call(t *testing.T, ns *namespace.Namespace, keywords []string, values ...object.Object) (object.Object, error) {
	t.Helper()
	sig, slots, err := ns.Resolve(keywords)
	require.NoError(t, err)
	return ns.Dispatch(context.Background(), sig, sig.Bind(slots, values), token.Token{})
}

func n(v float64) object.Object { return &object.Number{Value: v} }

func TestArithmetic(t *testing.T) {
	ns := newNamespace(config.RedefinitionOverride)
	tests := []struct {
		op   string
		want float64
	}{
		{"plus", 8}, {"minus", 4}, {"subtract", 4}, {"times", 12}, {"dividedBy", 3},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, err := call(t, ns, []string{"calc", tt.op}, n(6), n(2))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.(*object.Number).Value)
		})
	}

	_, err := call(t, ns, []string{"calc", "dividedBy"}, n(1), n(0))
	assert.True(t, errors.Is(err, diagnostics.ErrRuntime))

	_, err = call(t, ns, []string{"calc", "plus"}, n(1), &object.String{Value: "2"})
	assert.True(t, errors.Is(err, diagnostics.ErrRuntime))
}

func TestCountFrom(t *testing.T) {
	ns := newNamespace(config.RedefinitionOverride)

	got, err := call(t, ns, []string{"countFrom", "to"}, n(1), n(3))
	require.NoError(t, err)
	assert.Equal(t, "[1 2 3]", got.Inspect())

	got, err = call(t, ns, []string{"countFrom", "to"}, n(1), n(0))
	require.NoError(t, err)
	assert.Empty(t, got.(*object.List).Elements)

	o := config.Default()
	o.Runtime.MaxIterations = 10
	limited := namespace.New(ts.NewRegistry(), o)
	_, err = call(t, limited, []string{"countFrom", "to"}, n(1), n(11))
	assert.True(t, errors.Is(err, diagnostics.ErrRuntime))
	assert.Contains(t, err.Error(), "range of 11 exceeds max_iterations 10")

	// Spans past what an int or a slice can hold fail instead of panicking.
	for _, to := range []float64{1e12, 1e19, 1e300} {
		_, err = call(t, ns, []string{"countFrom", "to"}, n(0), n(to))
		require.Error(t, err)
		assert.True(t, errors.Is(err, diagnostics.ErrRuntime))
		assert.Contains(t, err.Error(), "countFrom: range too large")

		_, err = call(t, limited, []string{"countFrom", "to"}, n(0), n(to))
		assert.True(t, errors.Is(err, diagnostics.ErrRuntime))
		assert.Contains(t, err.Error(), "exceeds max_iterations 10")
	}
}

func TestEachAndIf(t *testing.T) {
	ns := newNamespace(config.RedefinitionOverride)
	double := &goBlock{arity: 1, fn: func(args ...object.Object) (object.Object, error) {
		return n(args[0].(*object.Number).Value * 2), nil
	}}
	list := &object.List{Elements: []object.Object{n(1), n(2)}}

	got, err := call(t, ns, []string{"each", "do"}, list, double)
	require.NoError(t, err)
	assert.Equal(t, "[2 4]", got.Inspect())

	source := &goBlock{fn: func(...object.Object) (object.Object, error) { return list, nil }}
	got, err = call(t, ns, []string{"each", "do"}, source, double)
	require.NoError(t, err)
	assert.Equal(t, "[2 4]", got.Inspect())

	yes := &goBlock{fn: func(...object.Object) (object.Object, error) { return &object.String{Value: "yes"}, nil }}
	no := &goBlock{fn: func(...object.Object) (object.Object, error) { return &object.String{Value: "no"}, nil }}
	got, err = call(t, ns, []string{"if", "then", "else"}, object.FALSE, yes, no)
	require.NoError(t, err)
	assert.Equal(t, `"no"`, got.Inspect())
}

func TestSmallBuiltins(t *testing.T) {
	ns := newNamespace(config.RedefinitionOverride)
	s := func(v string) object.Object { return &object.String{Value: v} }
	tests := []struct {
		name     string
		keywords []string
		args     []object.Object
		want     string
	}{
		{"stringify number", []string{"stringify"}, []object.Object{n(2.5)}, `"2.5"`},
		{"stringify string", []string{"stringify"}, []object.Object{s("hi")}, `"hi"`},
		{"not", []string{"not"}, []object.Object{object.TRUE}, "false"},
		{"both", []string{"both", "and"}, []object.Object{object.TRUE, object.FALSE}, "false"},
		{"either", []string{"either", "or"}, []object.Object{object.TRUE, object.FALSE}, "true"},
		{"equals", []string{"compare", "equals"}, []object.Object{s("a"), s("a")}, "true"},
		{"lessThan", []string{"compare", "lessThan"}, []object.Object{n(1), n(2)}, "true"},
		{"concat", []string{"concat", "with"}, []object.Object{s("a"), s("b")}, `"ab"`},
		{"length list", []string{"length"}, []object.Object{&object.List{Elements: []object.Object{n(1)}}}, "1"},
		{"length string", []string{"length"}, []object.Object{s("héllo")}, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, ns, tt.keywords, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Inspect())
		})
	}
}

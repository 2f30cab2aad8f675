package corvus

import (
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
)

// FunctionBuilder collects the parts of one host function. Type references
// are resolved as they are given; the first failure is kept and returned
// by IntoParts.
type FunctionBuilder struct {
	types *typesystem.Registry
	args  []namespace.Arg
	ret   typesystem.Type
	total bool
	cb    namespace.Callback
	typer namespace.Typer
	err   error
}

// ArgOption modifies an argument declared with Arg.
type ArgOption func(*namespace.Arg)

// Optional lets call sites omit the argument.
func Optional() ArgOption {
	return func(a *namespace.Arg) { a.Optional = true }
}

// Variadic lets the keyword repeat; the callback sees a list.
func Variadic() ArgOption {
	return func(a *namespace.Arg) { a.Variadic = true }
}

func newFunctionBuilder(types *typesystem.Registry) *FunctionBuilder {
	return &FunctionBuilder{types: types}
}

// Arg appends an argument. Its name is the keyword at call sites.
func (b *FunctionBuilder) Arg(name string, ref typesystem.TypeRef, opts ...ArgOption) *FunctionBuilder {
	t, err := b.types.Resolve(ref)
	if err != nil {
		b.fail(err)
		t = typesystem.Any
	}
	a := namespace.Arg{Name: name, Type: t}
	for _, opt := range opts {
		opt(&a)
	}
	b.args = append(b.args, a)
	return b
}

func (b *FunctionBuilder) Returns(ref typesystem.TypeRef) *FunctionBuilder {
	t, err := b.types.Resolve(ref)
	if err != nil {
		b.fail(err)
		return b
	}
	b.ret = t
	return b
}

func (b *FunctionBuilder) Callback(fn namespace.Callback) *FunctionBuilder {
	b.cb = fn
	return b
}

// Typer sets argument-dependent typing, as the builtin each:do: uses.
func (b *FunctionBuilder) Typer(t namespace.Typer) *FunctionBuilder {
	b.typer = t
	return b
}

// Total declares that the callback returns a value for every well-typed
// call. A total function returning nothing is a runtime error.
func (b *FunctionBuilder) Total() *FunctionBuilder {
	b.total = true
	return b
}

// Partial is the default.
func (b *FunctionBuilder) Partial() *FunctionBuilder {
	b.total = false
	return b
}

func (b *FunctionBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// IntoParts finalizes the builder. An unset return type is Any.
func (b *FunctionBuilder) IntoParts() ([]namespace.Arg, typesystem.Type, bool, namespace.Callback, error) {
	if b.err != nil {
		return nil, nil, false, nil, b.err
	}
	if len(b.args) == 0 {
		return nil, nil, false, nil, diagnostics.NewError(diagnostics.ErrS001, token.Token{},
			"a function needs at least one argument")
	}
	ret := b.ret
	if ret == nil {
		ret = typesystem.Any
	}
	args := make([]namespace.Arg, len(b.args))
	copy(args, b.args)
	return args, ret, b.total, b.cb, nil
}

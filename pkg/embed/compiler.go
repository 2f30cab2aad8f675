// Package corvus embeds the Corvus expression language in Go programs.
//
// A Compiler owns a type registry and a namespace of host functions.
// Compile turns source into a Script, which is immutable and can be called
// concurrently with different input bindings on either the compiled or the
// interpreted path.
package corvus

import (
	"context"
	"fmt"
	"os"

	"github.com/funvibe/corvus/internal/analyzer"
	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/lexer"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/parser"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/schema"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
	"github.com/funvibe/corvus/internal/vm"
	"github.com/google/uuid"
)

// Compiler holds the types and functions scripts are compiled against.
type Compiler struct {
	opts       config.Options
	types      *typesystem.Registry
	ns         *namespace.Namespace
	marshaller *Marshaller
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithOptions uses o instead of config.Default(). Type declarations in o
// are not applied until ApplyConfigTypes is called.
func WithOptions(o config.Options) Option {
	return func(c *Compiler) { c.opts = o }
}

// WithRegistry shares an existing type registry.
func WithRegistry(reg *typesystem.Registry) Option {
	return func(c *Compiler) { c.types = reg }
}

// New creates a compiler with the prelude registered.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		opts:       config.Default(),
		marshaller: NewMarshaller(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.types == nil {
		c.types = typesystem.NewRegistry()
	}
	c.ns = namespace.New(c.types, c.opts)
	return c
}

// NewFromConfig loads a corvus.yaml file and returns a compiler with its
// type declarations applied.
func NewFromConfig(path string) (*Compiler, error) {
	opts, err := config.Load(path)
	if err != nil {
		return nil, diagnostics.Wrap(diagnostics.ErrC001, token.Token{}, err, "%v", err)
	}
	c := New(WithOptions(opts))
	if err := c.ApplyConfigTypes(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compiler) Types() *typesystem.Registry { return c.types }

func (c *Compiler) Namespace() *namespace.Namespace { return c.ns }

func (c *Compiler) Options() config.Options { return c.opts }

// ApplyConfigTypes defines the types: section of the options, in order.
func (c *Compiler) ApplyConfigTypes() error {
	return c.opts.ApplyTypes(c.types)
}

// DefineType registers a named type.
func (c *Compiler) DefineType(name string, ref typesystem.TypeRef) (typesystem.Type, error) {
	return c.types.Define(name, ref)
}

// LoadTypes defines every declaration of a type declaration file.
func (c *Compiler) LoadTypes(filename, src string) error {
	return schema.Load(c.types, filename, src)
}

// LoadTypesFile reads and loads a type declaration file.
func (c *Compiler) LoadTypesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.LoadTypes(path, string(data))
}

// Define registers a function described by build.
//
//	err := c.Define(func(f *corvus.FunctionBuilder) {
//		f.Arg("greet", typesystem.Named("string")).
//			Returns(typesystem.Named("string")).
//			Total().
//			Callback(greet)
//	})
func (c *Compiler) Define(build func(*FunctionBuilder)) error {
	b := newFunctionBuilder(c.types)
	build(b)
	args, ret, total, cb, err := b.IntoParts()
	if err != nil {
		return err
	}
	sig, err := namespace.NewSignature(args, ret, total, cb)
	if err != nil {
		return err
	}
	sig.Typer = b.typer
	return c.ns.Register(sig)
}

// Compile parses, type-checks and compiles src.
func (c *Compiler) Compile(src string) (*Script, error) {
	return c.compile(src, "")
}

// CompileFile compiles the script at path. Diagnostics carry the path.
func (c *Compiler) CompileFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.compile(string(data), path)
}

func (c *Compiler) compile(src, file string) (*Script, error) {
	ctx := pipeline.NewContext(src)
	ctx.FilePath = file
	ctx.Namespace = c.ns

	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{},
	).Run(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	program, err := vm.Compile(ctx.Tree)
	if err != nil {
		return nil, err
	}
	return &Script{
		id:         uuid.New(),
		source:     src,
		file:       file,
		tree:       ctx.Tree,
		program:    program,
		marshaller: c.marshaller,
	}, nil
}

// CorvusCall invokes a registered function directly. Arguments alternate
// keyword and value:
//
//	c.CorvusCall(ctx, "countFrom", 1, "to", 3)
//
// Values go through the Marshaller in both directions.
func (c *Compiler) CorvusCall(ctx context.Context, pairs ...interface{}) (interface{}, error) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return nil, fmt.Errorf("corvus call needs keyword/value pairs, got %d values", len(pairs))
	}
	keywords := make([]string, 0, len(pairs)/2)
	values := make([]object.Object, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		kw, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("corvus call: keyword %d is %T, not a string", i/2+1, pairs[i])
		}
		v, err := c.marshaller.ToValue(pairs[i+1])
		if err != nil {
			return nil, fmt.Errorf("corvus call: %s: %w", kw, err)
		}
		keywords = append(keywords, kw)
		values = append(values, v)
	}

	sig, slots, err := c.ns.Resolve(keywords)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		a := sig.Args[slots[i]]
		if !object.Conforms(v, a.Type) {
			return nil, diagnostics.NewError(diagnostics.ErrA002, token.Token{},
				"%s argument %d ('%s') expects %s, found %s", sig.Name(), i+1, a.Name, a.Type, v.RuntimeType())
		}
	}

	result, err := namespace.Dispatch(ctx, sig, sig.Bind(slots, values), token.Token{})
	if err != nil {
		return nil, err
	}
	return c.marshaller.FromValue(result)
}

package namespace

import (
	"context"
	"math"

	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/object"
	ts "github.com/funvibe/corvus/internal/typesystem"
)

type builtin struct {
	args  []Arg
	ret   ts.Type
	fn    Callback
	typer Typer
}

func arg(name string, t ts.Type) Arg { return Arg{Name: name, Type: t} }

var (
	unaryBlock = ts.Block(ts.Any, ts.Any)
	thunk      = ts.Block(ts.Any)
)

func registerPrelude(ns *Namespace, rt config.RuntimeOptions) {
	for _, b := range preludeBuiltins(rt) {
		sig, err := NewSignature(b.args, b.ret, true, b.fn)
		if err != nil {
			panic("prelude: " + err.Error())
		}
		sig.Typer = b.typer
		if err := ns.Register(sig); err != nil {
			panic("prelude: " + err.Error())
		}
	}
}

func preludeBuiltins(rt config.RuntimeOptions) []builtin {
	return []builtin{
		arith(config.PlusKeyword, func(a, b float64) (float64, error) { return a + b, nil }),
		arith(config.MinusKeyword, func(a, b float64) (float64, error) { return a - b, nil }),
		arith(config.SubtractKeyword, func(a, b float64) (float64, error) { return a - b, nil }),
		arith(config.TimesKeyword, func(a, b float64) (float64, error) { return a * b, nil }),
		arith(config.DividedByKeyword, func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, runtimeError("division by zero")
			}
			return a / b, nil
		}),
		{
			args: []Arg{arg(config.CountFromKeyword, ts.Number), arg(config.ToKeyword, ts.Number)},
			ret:  ts.List(ts.Number),
			fn:   countFrom(rt.MaxIterations),
		},
		{
			args:  []Arg{arg(config.EachKeyword, ts.Any), arg(config.DoKeyword, unaryBlock)},
			ret:   ts.List(ts.Any),
			fn:    each,
			typer: eachTyper{},
		},
		{
			args: []Arg{arg(config.StringifyKeyword, ts.Any)},
			ret:  ts.String,
			fn: func(_ context.Context, args Args) (object.Object, error) {
				return &object.String{Value: Stringify(args.Get(config.StringifyKeyword))}, nil
			},
		},
		{
			args:  []Arg{arg(config.IfKeyword, ts.Bool), arg(config.ThenKeyword, thunk), arg(config.ElseKeyword, thunk)},
			ret:   ts.Any,
			fn:    ifThenElse,
			typer: branchTyper{},
		},
		{
			args: []Arg{arg(config.NotKeyword, ts.Bool)},
			ret:  ts.Bool,
			fn: func(_ context.Context, args Args) (object.Object, error) {
				v, err := args.Bool(config.NotKeyword)
				if err != nil {
					return nil, err
				}
				return object.NativeBool(!v), nil
			},
		},
		logic(config.BothKeyword, config.AndKeyword, func(a, b bool) bool { return a && b }),
		logic(config.EitherKeyword, config.OrKeyword, func(a, b bool) bool { return a || b }),
		{
			args: []Arg{arg(config.CompareKeyword, ts.Any), arg(config.EqualsKeyword, ts.Any)},
			ret:  ts.Bool,
			fn: func(_ context.Context, args Args) (object.Object, error) {
				return object.NativeBool(object.Equal(args.Get(config.CompareKeyword), args.Get(config.EqualsKeyword))), nil
			},
		},
		{
			args: []Arg{arg(config.CompareKeyword, ts.Number), arg(config.LessThanKeyword, ts.Number)},
			ret:  ts.Bool,
			fn: func(_ context.Context, args Args) (object.Object, error) {
				a, err := args.Number(config.CompareKeyword)
				if err != nil {
					return nil, err
				}
				b, err := args.Number(config.LessThanKeyword)
				if err != nil {
					return nil, err
				}
				return object.NativeBool(a < b), nil
			},
		},
		{
			args: []Arg{arg(config.ConcatKeyword, ts.String), arg(config.WithKeyword, ts.String)},
			ret:  ts.String,
			fn: func(_ context.Context, args Args) (object.Object, error) {
				a, err := args.String(config.ConcatKeyword)
				if err != nil {
					return nil, err
				}
				b, err := args.String(config.WithKeyword)
				if err != nil {
					return nil, err
				}
				return &object.String{Value: a + b}, nil
			},
		},
		{
			args: []Arg{arg(config.LengthKeyword, ts.Any)},
			ret:  ts.Number,
			fn: func(_ context.Context, args Args) (object.Object, error) {
				switch v := args.Get(config.LengthKeyword).(type) {
				case *object.List:
					return &object.Number{Value: float64(len(v.Elements))}, nil
				case *object.String:
					return &object.Number{Value: float64(len([]rune(v.Value)))}, nil
				}
				return nil, runtimeError("length: needs a list or a string")
			},
		},
	}
}

func arith(op string, f func(a, b float64) (float64, error)) builtin {
	return builtin{
		args: []Arg{arg(config.CalcKeyword, ts.Number), arg(op, ts.Number)},
		ret:  ts.Number,
		fn: func(_ context.Context, args Args) (object.Object, error) {
			a, err := args.Number(config.CalcKeyword)
			if err != nil {
				return nil, err
			}
			b, err := args.Number(op)
			if err != nil {
				return nil, err
			}
			r, err := f(a, b)
			if err != nil {
				return nil, err
			}
			return &object.Number{Value: r}, nil
		},
	}
}

func logic(first, second string, f func(a, b bool) bool) builtin {
	return builtin{
		args: []Arg{arg(first, ts.Bool), arg(second, ts.Bool)},
		ret:  ts.Bool,
		fn: func(_ context.Context, args Args) (object.Object, error) {
			a, err := args.Bool(first)
			if err != nil {
				return nil, err
			}
			b, err := args.Bool(second)
			if err != nil {
				return nil, err
			}
			return object.NativeBool(f(a, b)), nil
		},
	}
}

// countFrom builds the inclusive range [from, to]; empty when to < from.
func countFrom(max int) Callback {
	return func(_ context.Context, args Args) (object.Object, error) {
		from, err := args.Number(config.CountFromKeyword)
		if err != nil {
			return nil, err
		}
		to, err := args.Number(config.ToKeyword)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) {
			return nil, runtimeError("countFrom: bounds must be finite")
		}
		if to < from {
			return &object.List{Elements: []object.Object{}}, nil
		}
		span := math.Floor(to-from) + 1
		if max > 0 && span > float64(max) {
			return nil, runtimeError("countFrom: range of %s exceeds max_iterations %d", object.FormatNumber(span), max)
		}
		if span > config.MaxRangeLength {
			return nil, runtimeError("countFrom: range too large")
		}
		n := int(span)
		out := make([]object.Object, n)
		for i := 0; i < n; i++ {
			out[i] = &object.Number{Value: from + float64(i)}
		}
		return &object.List{Elements: out}, nil
	}
}

func each(ctx context.Context, args Args) (object.Object, error) {
	items, err := iterable(ctx, args.Get(config.EachKeyword))
	if err != nil {
		return nil, err
	}
	body, err := args.Block(config.DoKeyword)
	if err != nil {
		return nil, err
	}
	out := make([]object.Object, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := body.Call(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return &object.List{Elements: out}, nil
}

// iterable accepts a list or a zero-parameter block producing one.
func iterable(ctx context.Context, v object.Object) ([]object.Object, error) {
	if b, ok := v.(object.Block); ok && b.Arity() == 0 {
		r, err := b.Call(ctx)
		if err != nil {
			return nil, err
		}
		v = r
	}
	l, ok := v.(*object.List)
	if !ok {
		return nil, runtimeError("each: needs a list, got %s", v.Inspect())
	}
	return l.Elements, nil
}

func ifThenElse(ctx context.Context, args Args) (object.Object, error) {
	cond, err := args.Bool(config.IfKeyword)
	if err != nil {
		return nil, err
	}
	branch := config.ElseKeyword
	if cond {
		branch = config.ThenKeyword
	}
	b, err := args.Block(branch)
	if err != nil {
		return nil, err
	}
	return b.Call(ctx)
}

// Stringify renders a value for display. Strings are returned bare.
func Stringify(v object.Object) string {
	if s, ok := v.(*object.String); ok {
		return s.Value
	}
	return v.Inspect()
}

// eachTyper types the block parameter as the element type of the iterated
// list, and the result as a list of the block result.
type eachTyper struct{}

func (eachTyper) BlockParams(arg string, known map[string]ts.Type) []ts.Type {
	if arg != config.DoKeyword {
		return nil
	}
	return []ts.Type{elementType(known[config.EachKeyword])}
}

func (eachTyper) ReturnType(args map[string]ts.Type) ts.Type {
	if b, ok := args[config.DoKeyword].(ts.TBlock); ok {
		return ts.List(b.Result)
	}
	return nil
}

func elementType(t ts.Type) ts.Type {
	switch t := t.(type) {
	case ts.TList:
		return t.Elem
	case ts.TBlock:
		if len(t.Params) == 0 {
			return elementType(t.Result)
		}
	}
	return ts.Any
}

// branchTyper types if:then:else: as the common type of both branches.
type branchTyper struct{}

func (branchTyper) BlockParams(string, map[string]ts.Type) []ts.Type { return nil }

func (branchTyper) ReturnType(args map[string]ts.Type) ts.Type {
	then, ok1 := args[config.ThenKeyword].(ts.TBlock)
	els, ok2 := args[config.ElseKeyword].(ts.TBlock)
	if !ok1 || !ok2 {
		return nil
	}
	return ts.Join(then.Result, els.Result)
}

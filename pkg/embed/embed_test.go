package corvus_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	ts "github.com/funvibe/corvus/internal/typesystem"
	corvus "github.com/funvibe/corvus/pkg/embed"
)

type person struct {
	Name     string `corvus:"name"`
	Age      int    `corvus:"age"`
	internal string
}

// callBoth calls the script on both paths and requires the same outcome.
func callBoth(t *testing.T, s *corvus.Script, bindings map[string]interface{}) (interface{}, error) {
	t.Helper()
	compiled, cErr := s.Call(bindings)
	interpreted, iErr := s.CallInterpreted(bindings)
	if cErr != nil || iErr != nil {
		require.Error(t, cErr)
		require.Error(t, iErr)
		var cd, id *corvus.Diagnostic
		require.True(t, errors.As(cErr, &cd))
		require.True(t, errors.As(iErr, &id))
		assert.Equal(t, id.Code, cd.Code)
		assert.Equal(t, id.Message, cd.Message)
		return nil, cErr
	}
	assert.Equal(t, interpreted, compiled)
	return compiled, nil
}

func definePerson(t *testing.T, c *corvus.Compiler) {
	t.Helper()
	_, err := c.DefineType("Person", corvus.Inline{corvus.F("name", corvus.Named("string")), corvus.F("age", corvus.Named("number"))})
	require.NoError(t, err)
	require.NoError(t, c.Define(func(f *corvus.FunctionBuilder) {
		f.Arg("ageOf", corvus.Named("Person")).
			Returns(corvus.Named("number")).
			Total().
			Callback(func(_ context.Context, args namespace.Args) (object.Object, error) {
				rec := args.Get("ageOf").(*object.Record)
				age, _ := rec.Get("age")
				return age, nil
			})
	}))
}

func TestRoundTrip(t *testing.T) {
	s, err := corvus.New().Compile("calc: 1 plus: 3")
	require.NoError(t, err)

	result, err := callBoth(t, s, nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, result)
}

func TestNestedIterationEquivalence(t *testing.T) {
	s, err := corvus.New().Compile(`each: {countFrom:1 to:n} do:{i => each:{countFrom:1 to:i} do:{j => stringify: calc: i times: j}}`)
	require.NoError(t, err)
	assert.Equal(t, "Number", s.InputTypes()["n"].String())

	for _, n := range []int{0, 1, 10} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			result, err := callBoth(t, s, map[string]interface{}{"n": n})
			require.NoError(t, err)
			rows := result.([]interface{})
			require.Len(t, rows, n)
			if n == 10 {
				last := rows[9].([]interface{})
				assert.Len(t, last, 10)
				assert.Equal(t, "100", last[9])
				assert.Equal(t, []interface{}{"3", "6", "9"}, rows[2])
			}
		})
	}
}

func TestEmptyRange(t *testing.T) {
	s, err := corvus.New().Compile("countFrom: 1 to: 0")
	require.NoError(t, err)

	result, err := callBoth(t, s, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, result)
}

func TestInputTypesAndReturnType(t *testing.T) {
	c := corvus.New()
	definePerson(t, c)

	s, err := c.Compile("calc: (ageOf: p) plus: n")
	require.NoError(t, err)

	types := s.InputTypes()
	require.Len(t, types, 2)
	assert.Equal(t, "{ name: String, age: Number }", types["p"].String())
	assert.Equal(t, "Number", types["n"].String())
	assert.Equal(t, "Number", s.ReturnType().String())
	assert.Equal(t, []string{"p", "n"}, s.Inputs())

	result, err := callBoth(t, s, map[string]interface{}{
		"p": person{Name: "Ann", Age: 41, internal: "x"},
		"n": 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 42.0, result)
}

func TestBindingErrors(t *testing.T) {
	s, err := corvus.New().Compile("calc: x plus: 1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		bindings map[string]interface{}
		want     error
		message  string
	}{
		{"missing", nil, corvus.ErrMissingInput, "missing input 'x' of type Number"},
		{"nil value", map[string]interface{}{"x": nil}, corvus.ErrMissingInput, "missing input 'x' of type Number"},
		{"wrong type", map[string]interface{}{"x": "one"}, corvus.ErrTypeMismatch, "input 'x' expects Number, got String"},
		{"unconvertible", map[string]interface{}{"x": make(chan int)}, corvus.ErrTypeMismatch, "input 'x': cannot convert Go chan int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callBoth(t, s, tt.bindings)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestExtraBindingsAreIgnored(t *testing.T) {
	s, err := corvus.New().Compile("calc: x plus: 1")
	require.NoError(t, err)

	result, err := callBoth(t, s, map[string]interface{}{
		"x":       2,
		"handler": func() {},
		"ch":      make(chan int),
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result)
}

func TestCallbackFailurePropagates(t *testing.T) {
	hostErr := errors.New("database unavailable")
	c := corvus.New()
	require.NoError(t, c.Define(func(f *corvus.FunctionBuilder) {
		f.Arg("lookup", corvus.Named("string")).
			Returns(corvus.Named("number")).
			Callback(func(context.Context, namespace.Args) (object.Object, error) { return nil, hostErr })
	}))

	s, err := c.Compile(`calc: (lookup: "k") plus: 1`)
	require.NoError(t, err)

	_, err = callBoth(t, s, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, corvus.ErrCallbackFailure))
	assert.True(t, errors.Is(err, hostErr))
	assert.Contains(t, err.Error(), "lookup:")
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown function", "frobnicate: 1", corvus.ErrNoMatchingFunction},
		{"conflicting input", "both: x and: (compare: (calc: x plus: 1) equals: 2)", corvus.ErrConflictingInputType},
		{"argument type", `calc: "a" plus: 1`, corvus.ErrTypeMismatch},
		{"syntax", "calc: 1 plus:", corvus.ErrSyntax},
		{"unterminated block", "each: x do: { i => i", corvus.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := corvus.New().Compile(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	c := corvus.New()

	err := c.Define(func(f *corvus.FunctionBuilder) { f.Returns(corvus.Named("number")) })
	assert.True(t, errors.Is(err, corvus.ErrEmptySignature), "got %v", err)

	err = c.Define(func(f *corvus.FunctionBuilder) {
		f.Arg("greet", corvus.Named("Ghost")).Arg("also", corvus.Named("Phantom"))
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, corvus.ErrUnknownTypeName))
	assert.Contains(t, err.Error(), "Ghost")

	_, ok := c.Namespace().Lookup("greet:also:")
	assert.False(t, ok)
}

func TestOptionalAndVariadicArguments(t *testing.T) {
	c := corvus.New()
	require.NoError(t, c.Define(func(f *corvus.FunctionBuilder) {
		f.Arg("sum", corvus.Named("number"), corvus.Variadic()).
			Returns(corvus.Named("number")).
			Total().
			Callback(func(_ context.Context, args namespace.Args) (object.Object, error) {
				values, err := args.List("sum")
				if err != nil {
					return nil, err
				}
				total := 0.0
				for _, v := range values {
					total += v.(*object.Number).Value
				}
				return &object.Number{Value: total}, nil
			})
	}))
	require.NoError(t, c.Define(func(f *corvus.FunctionBuilder) {
		f.Arg("greet", corvus.Named("string")).
			Arg("loudly", corvus.Named("boolean"), corvus.Optional()).
			Returns(corvus.Named("string")).
			Callback(func(_ context.Context, args namespace.Args) (object.Object, error) {
				name, err := args.String("greet")
				if err != nil {
					return nil, err
				}
				if args.Has("loudly") {
					if loud, _ := args.Bool("loudly"); loud {
						name = strings.ToUpper(name)
					}
				}
				return &object.String{Value: "hello " + name}, nil
			})
	}))

	tests := []struct {
		src  string
		want interface{}
	}{
		{"sum: 1 sum: 2 sum: 3", 6.0},
		{"sum: 5", 5.0},
		{`greet: "ann"`, "hello ann"},
		{`greet: "ann" loudly: true`, "hello ANN"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s, err := c.Compile(tt.src)
			require.NoError(t, err)
			result, err := callBoth(t, s, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestCorvusCall(t *testing.T) {
	c := corvus.New()
	ctx := context.Background()

	result, err := c.CorvusCall(ctx, "countFrom", 1, "to", 3)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, result)

	result, err = c.CorvusCall(ctx, "calc", 2.5, "times", 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)

	_, err = c.CorvusCall(ctx, "calc", 1, "plus", "x")
	assert.True(t, errors.Is(err, corvus.ErrTypeMismatch), "got %v", err)

	_, err = c.CorvusCall(ctx, "nothing", 1)
	assert.True(t, errors.Is(err, corvus.ErrNoMatchingFunction), "got %v", err)

	_, err = c.CorvusCall(ctx, "countFrom", 1, "to")
	assert.Error(t, err)
}

func TestBindingsFromJSON(t *testing.T) {
	c := corvus.New()
	definePerson(t, c)
	s, err := c.Compile("calc: (ageOf: p) plus: n")
	require.NoError(t, err)

	bindings, err := corvus.BindingsFromJSON(`{"p": {"name": "Ann", "age": 41, "city": "Oslo"}, "n": 1, "unused": true}`, s.InputTypes())
	require.NoError(t, err)
	assert.NotContains(t, bindings, "unused")

	result, err := callBoth(t, s, bindings)
	require.NoError(t, err)
	assert.Equal(t, 42.0, result)

	_, err = corvus.BindingsFromJSON(`{"n": "one"}`, s.InputTypes())
	assert.True(t, errors.Is(err, corvus.ErrTypeMismatch), "got %v", err)
	assert.Contains(t, err.Error(), "input 'n' expects Number, got JSON String")

	_, err = corvus.BindingsFromJSON(`[1, 2]`, s.InputTypes())
	assert.Error(t, err)
	_, err = corvus.BindingsFromJSON(`{"n": `, s.InputTypes())
	assert.Error(t, err)
}

func TestBindingsFromJSONTime(t *testing.T) {
	types := map[string]corvus.Type{"at": corvus.Time, "tags": ts.List(ts.String)}
	bindings, err := corvus.BindingsFromJSON(`{"at": "2024-03-01T10:00:00Z", "tags": ["a", "b"]}`, types)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), bindings["at"])
	assert.Equal(t, []interface{}{"a", "b"}, bindings["tags"])

	_, err = corvus.BindingsFromJSON(`{"at": "yesterday"}`, types)
	assert.True(t, errors.Is(err, corvus.ErrTypeMismatch))
}

func TestMarshaller(t *testing.T) {
	m := corvus.NewMarshaller()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	obj, err := m.ToValue(map[string]interface{}{
		"people": []person{{Name: "Ann", Age: 41}},
		"at":     at,
		"ok":     true,
		"score":  float32(1.5),
		"none":   (*person)(nil),
	})
	require.NoError(t, err)
	rec := obj.(*object.Record)
	assert.Equal(t, []string{"at", "none", "ok", "people", "score"}, rec.Keys)
	assert.Equal(t, `[[name = "Ann" age = 41]]`, inspectField(rec, "people"))

	back, err := m.FromValue(obj)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"people": []interface{}{map[string]interface{}{"name": "Ann", "age": 41.0}},
		"at":     at,
		"ok":     true,
		"score":  1.5,
		"none":   nil,
	}, back)

	_, err = m.ToValue(map[int]string{1: "a"})
	assert.Error(t, err)
}

func inspectField(rec *object.Record, name string) string {
	v, _ := rec.Get(name)
	return v.Inspect()
}

func TestConcurrentCalls(t *testing.T) {
	s, err := corvus.New().Compile(`each: {countFrom: 1 to: n} do: {i => calc: i times: n}`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for _, call := range []func(map[string]interface{}) (interface{}, error){s.Call, s.CallInterpreted} {
				result, err := call(map[string]interface{}{"n": n})
				if err != nil {
					errs <- err
					return
				}
				rows := result.([]interface{})
				if len(rows) != n || (n > 0 && rows[n-1] != float64(n*n)) {
					errs <- fmt.Errorf("n=%d: got %v", n, rows)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestCancellation(t *testing.T) {
	s, err := corvus.New().Compile(`each: {countFrom: 1 to: 1000} do: {i => calc: i plus: 1}`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.CallContext(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	_, err = s.CallInterpretedContext(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestScriptMetadata(t *testing.T) {
	c := corvus.New()
	a, err := c.Compile("stringify: 1")
	require.NoError(t, err)
	b, err := c.Compile("stringify: 1")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "stringify: 1", a.Source())
	assert.True(t, strings.HasPrefix(a.Disassemble(), "== main (arity 0"))
	assert.Equal(t, "String", a.ReturnType().String())
}

func TestLoadTypes(t *testing.T) {
	c := corvus.New()
	require.NoError(t, c.LoadTypes("salon.types", `
type Person = { name: string, age: number, nickname?: string }
type Salon = { people: [Person] }
`))
	salon, ok := c.Types().Lookup("Salon")
	require.True(t, ok)
	assert.Equal(t, "{ people: [{ name: String, age: Number, nickname?: String }] }", salon.String())

	err := c.LoadTypes("again.types", "type Person = { name: string }")
	assert.True(t, errors.Is(err, corvus.ErrDuplicateTypeName))
}

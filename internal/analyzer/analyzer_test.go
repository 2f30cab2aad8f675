package analyzer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/corvus/internal/analyzer"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/lexer"
	"github.com/funvibe/corvus/internal/parser"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/resolved"
	ts "github.com/funvibe/corvus/internal/typesystem"
)

func analyze(src string) *pipeline.PipelineContext {
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{},
	).Run(pipeline.NewContext(src))
}

func mustAnalyze(t *testing.T, src string) *resolved.Tree {
	t.Helper()
	ctx := analyze(src)
	require.NoError(t, ctx.Err(), "source: %s", src)
	require.NotNil(t, ctx.Tree)
	return ctx.Tree
}

func TestInference(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		inputs map[string]ts.Type
		ret    ts.Type
	}{
		{"literals", "calc: 1 plus: 3", map[string]ts.Type{}, ts.Number},
		{"binary inputs", "calc: x plus: y", map[string]ts.Type{"x": ts.Number, "y": ts.Number}, ts.Number},
		{"any position", "stringify: x", map[string]ts.Type{"x": ts.Any}, ts.String},
		{"narrowed later", "stringify: x. calc: x times: 2", map[string]ts.Type{"x": ts.Number}, ts.Number},
		{"field path stays any", "stringify: p.name", map[string]ts.Type{"p": ts.Any}, ts.String},
		{"bool input", "if: ok then: { 1 } else: { 2 }", map[string]ts.Type{"ok": ts.Bool}, ts.Number},
		{"branches differ", "if: ok then: { 1 } else: { \"a\" }", map[string]ts.Type{"ok": ts.Bool}, ts.Any},
		{"let is local", "a = 2. calc: a plus: 1", map[string]ts.Type{}, ts.Number},
		{"empty script", "", map[string]ts.Type{}, ts.List(ts.Any)},
		{"record literal", "[name = \"Ann\" age = 3]",
			map[string]ts.Type{},
			ts.Record(ts.Field{Name: "name", Type: ts.String}, ts.Field{Name: "age", Type: ts.Number})},
		{"record field", "r = [a = 1]. r.a", map[string]ts.Type{}, ts.Number},
		{"each over range",
			"each: (countFrom: 1 to: n) do: { i => calc: i times: 2 }",
			map[string]ts.Type{"n": ts.Number}, ts.List(ts.Number)},
		{"each over thunk",
			"each: { countFrom: 1 to: n } do: { i => stringify: i }",
			map[string]ts.Type{"n": ts.Number}, ts.List(ts.String)},
		{"list literal", "[1 2 x]", map[string]ts.Type{"x": ts.Any}, ts.List(ts.Number)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustAnalyze(t, tt.src)
			assert.Equal(t, tt.inputs, tree.InputTypes())
			assert.True(t, ts.Equal(tt.ret, tree.Return), "return type: want %s, got %s", tt.ret, tree.Return)
		})
	}
}

func TestInputOrderAndNodes(t *testing.T) {
	tree := mustAnalyze(t, "calc: y plus: x")
	require.Len(t, tree.Inputs, 2)
	assert.Equal(t, "y", tree.Inputs[0].Name)
	assert.Equal(t, "x", tree.Inputs[1].Name)

	root := tree.Node(tree.Root)
	assert.Equal(t, resolved.Block, root.Kind)
	require.Len(t, root.Children, 1)
	send := tree.Node(root.Children[0])
	assert.Equal(t, resolved.Send, send.Kind)
	assert.Equal(t, "calc:plus:", tree.Sites[send.Slot].Sig.Key())
	assert.Equal(t, []int{0, 1}, tree.Sites[send.Slot].Slots)
}

func TestNarrowedInputNodesAreRetyped(t *testing.T) {
	tree := mustAnalyze(t, "stringify: x. calc: x plus: 1")
	for _, n := range tree.Nodes {
		if n.Kind == resolved.Input {
			assert.Equal(t, ts.Number, n.Type)
		}
	}
}

func TestNestedBlocksCapture(t *testing.T) {
	tree := mustAnalyze(t, "each: xs do: { i => each: ys do: { j => calc: i plus: j } }")

	var blocks []resolved.Node
	for _, n := range tree.Nodes {
		if n.Kind == resolved.Block && n.Arity == 1 {
			blocks = append(blocks, n)
		}
	}
	require.Len(t, blocks, 2)
	// The inner block is added first and captures i from the outer frame.
	inner, outer := blocks[0], blocks[1]
	assert.Equal(t, []resolved.Capture{{Local: true, Index: 0}}, inner.Captures)
	assert.Empty(t, outer.Captures)
	assert.Equal(t, 1, outer.Locals)
}

func TestAnalyzerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
		msg  string
		line int
		col  int
	}{
		{"unknown function", "frobnicate: 1", diagnostics.ErrNoMatchingFunction,
			"no function matches 'frobnicate:'", 1, 1},
		{"chained calc", "calc: 1 plus: 2 times: 3", diagnostics.ErrNoMatchingFunction,
			"no function matches 'calc:plus:times:'", 1, 1},
		{"argument type", "calc: \"a\" plus: 1", diagnostics.ErrTypeMismatch,
			"calc:plus: argument 1 ('calc') expects Number, found String", 1, 7},
		{"conflicting input", "concat: x with: \"a\". calc: x plus: 1", diagnostics.ErrConflictingInputType,
			"input 'x' is used as Number here but as String before", 1, 28},
		{"unknown field", "r = [a = 1]. r.b", diagnostics.ErrTypeMismatch,
			"{ a: Number } has no field 'b'", 1, 16},
		{"field of number", "n = 1. n.b", diagnostics.ErrTypeMismatch,
			"cannot read field 'b' of Number", 1, 10},
		{"block arity", "each: xs do: { 1 }", diagnostics.ErrTypeMismatch,
			"each:do: argument 2 ('do') expects { Any => Any }, found { Number }", 1, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := analyze(tt.src)
			require.NotEmpty(t, ctx.Errors)
			err := ctx.Errors[0]
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			assert.Equal(t, tt.msg, err.Message)
			assert.Equal(t, tt.line, err.Token.Line)
			assert.Equal(t, tt.col, err.Token.Column)
		})
	}
}

func TestAnalysisContinuesAfterUnknownFunction(t *testing.T) {
	ctx := analyze("frobnicate: (calc: \"a\" plus: 1)")
	require.Len(t, ctx.Errors, 2)
	assert.True(t, errors.Is(ctx.Errors[0], diagnostics.ErrNoMatchingFunction))
	assert.True(t, errors.Is(ctx.Errors[1], diagnostics.ErrTypeMismatch))
}

package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/lexer"
	"github.com/funvibe/corvus/internal/parser"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/prettyprinter"
)

func parse(input string) (*ast.Program, []*diagnostics.DiagnosticError) {
	ctx := pipeline.NewContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	prog, _ := ctx.AstRoot.(*ast.Program)
	return prog, ctx.Errors
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, errs := parse(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	return prog
}

func TestSendStructure(t *testing.T) {
	prog := mustParse(t, "calc: 1 plus: 3")
	require.Len(t, prog.Statements, 1)

	send, ok := prog.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.SendExpression)
	require.True(t, ok)
	assert.Equal(t, []string{"calc", "plus"}, send.Keywords())
	assert.Equal(t, "calc:plus:", send.Selector())
	assert.Equal(t, 1.0, send.Arguments[0].Value.(*ast.NumberLiteral).Value)
	assert.Equal(t, 3.0, send.Arguments[1].Value.(*ast.NumberLiteral).Value)
}

func TestKeywordsJoinInnermostSend(t *testing.T) {
	prog := mustParse(t, "stringify: calc: i times: j")
	outer := prog.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.SendExpression)
	assert.Equal(t, []string{"stringify"}, outer.Keywords())

	inner, ok := outer.Arguments[0].Value.(*ast.SendExpression)
	require.True(t, ok)
	assert.Equal(t, []string{"calc", "times"}, inner.Keywords())
}

func TestBlockParameters(t *testing.T) {
	prog := mustParse(t, "each: xs do: { i, j => i }")
	send := prog.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.SendExpression)
	block, ok := send.Arguments[1].Value.(*ast.BlockLiteral)
	require.True(t, ok)
	require.Len(t, block.Parameters, 2)
	assert.Equal(t, "i", block.Parameters[0].Value)
	assert.Equal(t, "j", block.Parameters[1].Value)
	require.Len(t, block.Body, 1)
}

// TestCanonicalForm parses and prints back, checking the canonical layout.
func TestCanonicalForm(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"calc: 1 plus: 3", "calc: 1 plus: 3\n"},
		{"calc:1 plus:3.50", "calc: 1 plus: 3.5\n"},
		{"calc: (calc: 1 plus: 2) times: 3", "calc: (calc: 1 plus: 2) times: 3\n"},
		{"calc: 1 plus: (calc: 2 times: 3)", "calc: 1 plus: calc: 2 times: 3\n"},
		{
			"each: {countFrom:1 to:n} do:{i => each:{countFrom:1 to:i} do:{j => stringify: calc: i times: j}}",
			"each: { countFrom: 1 to: n } do: { i => each: { countFrom: 1 to: i } do: { j => stringify: calc: i times: j } }\n",
		},
		{"x = 2. y = calc: x times: x. y", "x = 2.\ny = calc: x times: x.\ny\n"},
		{`[name = "Ada" tags = ["a" "b"]]`, "[name = \"Ada\" tags = [\"a\" \"b\"]]\n"},
		{"[1, 2, 3]", "[1 2 3]\n"},
		{"[]", "[]\n"},
		{"salon.location.lat", "salon.location.lat\n"},
		{"(calc: a plus: b).x", "(calc: a plus: b).x\n"},
		{"{}", "{}\n"},
		{"{ x => }", "{ x => }\n"},
		{"if: ok then: { 1 } else: { 2 }", "if: ok then: { 1 } else: { 2 }\n"},
		{"{ x => y = calc: x plus: 1. calc: y times: 2 }", "{ x =>\n    y = calc: x plus: 1.\n    calc: y times: 2\n}\n"},
		{`"say \"hi\"\n"`, `"say \"hi\"\n"` + "\n"},
		{"# comment\ncalc: 1 # trailing\n  plus: 2.", "calc: 1 plus: 2\n"},
		{"calc: -1 plus: true", "calc: -1 plus: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)
			assert.Equal(t, tt.expected, prettyprinter.Format(prog))
		})
	}
}

func TestCanonicalFormReparses(t *testing.T) {
	inputs := []string{
		"calc: (calc: 1 plus: 2) times: (calc: 3 minus: 4)",
		"each: [1 2] do: { i => [v = i w = (calc: i plus: 1)] }",
		"a = [x = 1]. a.x",
	}
	for _, in := range inputs {
		first := prettyprinter.Format(mustParse(t, in))
		second := prettyprinter.Format(mustParse(t, first))
		assert.Equal(t, first, second)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input  string
		msg    string
		line   int
		column int
	}{
		{"each: xs do: { i => i", "unterminated block", 1, 14},
		{"calc 1 plus: 3", "missing ':' after 'calc'", 1, 1},
		{"calc: 1 plus:", "expected a value after 'plus:'", 1, 14},
		{"calc: 1 }", "expected '.' or end of input, got '}'", 1, 9},
		{`stringify: "open`, "unterminated string", 1, 12},
		{"[1 2", "unterminated list", 1, 1},
		{"[a = 1 a = 2]", "duplicate field 'a'", 1, 8},
		{"{ i, i => i }", "duplicate parameter 'i'", 1, 6},
		{"x = ", "expected a value after '='", 1, 5},
		{"a.b: 1", "expected a field name after '.'", 1, 3},
		{"calc : 1", "':' must follow a keyword name", 1, 6},
		{"(calc: 1 plus: 2", "unterminated '('", 1, 1},
		{"()", "empty parentheses", 1, 2},
		{"\n\n  { x => calc x }", "missing ':' after 'calc'", 3, 10},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, errs := parse(tt.input)
			require.NotEmpty(t, errs)
			err := errs[0]
			assert.True(t, errors.Is(err, diagnostics.ErrSyntax))
			assert.Contains(t, err.Message, tt.msg)
			assert.Equal(t, tt.line, err.Token.Line, "line")
			assert.Equal(t, tt.column, err.Token.Column, "column")
		})
	}
}

func TestRecoveryReportsLaterStatements(t *testing.T) {
	_, errs := parse("each: x do: { i => calc i. 3 }. calc 2 plus: 1. ok")
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Message, "missing ':' after 'calc'")
	assert.Contains(t, errs[1].Message, "missing ':' after 'calc'")
}

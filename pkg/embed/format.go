package corvus

import (
	"github.com/funvibe/corvus/internal/lexer"
	"github.com/funvibe/corvus/internal/parser"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/prettyprinter"
)

// Format parses src and prints it in canonical form. It does not resolve
// functions, so scripts using unregistered functions still format.
func Format(src string) (string, error) {
	ctx := pipeline.NewContext(src)
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return prettyprinter.Format(ctx.AstRoot), nil
}

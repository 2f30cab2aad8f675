package parser

import (
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	parser := New(ctx.TokenStream, ctx)
	prog := parser.ParseProgram()
	prog.File = ctx.FilePath
	ctx.AstRoot = prog

	diagnostics.WithFile(ctx.Errors, ctx.FilePath)
	return ctx
}

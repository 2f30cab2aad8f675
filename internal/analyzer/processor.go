package analyzer

import (
	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
)

type AnalyzerProcessor struct{}

func (ap *AnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		err := diagnostics.NewError(diagnostics.ErrA002, token.Token{}, "analyzer: no program to analyze")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	if ctx.Namespace == nil {
		ctx.Namespace = namespace.New(typesystem.NewRegistry(), config.Default())
	}

	tree, errs := New(ctx.Namespace).Analyze(program)
	ctx.Tree = tree
	ctx.Errors = append(ctx.Errors, diagnostics.WithFile(errs, ctx.FilePath)...)
	return ctx
}

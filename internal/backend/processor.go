package backend

import (
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/pipeline"
)

// ExecutionProcessor is the pipeline stage that runs a Backend and stores
// its value in ctx.Result.
type ExecutionProcessor struct {
	Backend Backend
}

func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tree == nil || len(ctx.Errors) > 0 {
		return ctx
	}
	result, err := p.Backend.Run(ctx)
	if err != nil {
		d := diagnostics.From(err)
		ctx.Errors = append(ctx.Errors, diagnostics.WithFile([]*diagnostics.DiagnosticError{d}, ctx.FilePath)...)
		return ctx
	}
	ctx.Result = result
	return ctx
}

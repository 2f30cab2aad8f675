package pipeline

import (
	"context"

	"github.com/funvibe/corvus/internal/ast"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/token"
)

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream feeds the parser.
type TokenStream interface {
	NextToken() token.Token
	Peek(n int) token.Token
}

// PipelineContext carries the state of one compilation (and optionally one
// execution) through the stages.
type PipelineContext struct {
	Context    context.Context
	SourceCode string
	FilePath   string

	TokenStream TokenStream
	AstRoot     ast.Node

	Namespace *namespace.Namespace
	Tree      *resolved.Tree

	// Bindings and Result are used when the pipeline also runs the script.
	Bindings map[string]object.Object
	Result   object.Object

	Errors []*diagnostics.DiagnosticError
}

func NewContext(source string) *PipelineContext {
	return &PipelineContext{Context: context.Background(), SourceCode: source}
}

// Err returns the collected diagnostics as one error, or nil. A single
// diagnostic is returned as is.
func (c *PipelineContext) Err() error {
	switch len(c.Errors) {
	case 0:
		return nil
	case 1:
		return c.Errors[0]
	}
	return diagnostics.Errors(c.Errors)
}

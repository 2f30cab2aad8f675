package backend

import (
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/evaluator"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/token"
)

// TreeWalkBackend wraps the tree-walk interpreter
type TreeWalkBackend struct{}

func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{}
}

func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (object.Object, error) {
	if ctx.Tree == nil {
		return nil, diagnostics.NewError(diagnostics.ErrR003, token.Token{}, "no program to execute")
	}
	return evaluator.Evaluate(ctx.Context, ctx.Tree, ctx.Bindings)
}

func (b *TreeWalkBackend) Name() string { return "treewalk" }

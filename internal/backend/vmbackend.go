package backend

import (
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/pipeline"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/vm"
)

// VMBackend compiles the resolved tree to bytecode and runs it.
type VMBackend struct{}

func NewVM() *VMBackend {
	return &VMBackend{}
}

func (b *VMBackend) Run(ctx *pipeline.PipelineContext) (object.Object, error) {
	if ctx.Tree == nil {
		return nil, diagnostics.NewError(diagnostics.ErrR003, token.Token{}, "no program to compile")
	}
	program, err := vm.Compile(ctx.Tree)
	if err != nil {
		return nil, err
	}
	return vm.Run(ctx.Context, program, ctx.Bindings)
}

func (b *VMBackend) Name() string { return "vm" }

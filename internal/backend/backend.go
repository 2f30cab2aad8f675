// Package backend provides an interface for different execution backends.
// This allows switching between the tree-walk interpreter and the VM.
package backend

import (
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/pipeline"
)

// Backend runs the resolved tree of a pipeline context with its bindings.
type Backend interface {
	Run(ctx *pipeline.PipelineContext) (object.Object, error)

	// Name returns the backend name for display
	Name() string
}

// ByName returns the backend called name ("vm" or "treewalk").
func ByName(name string) (Backend, bool) {
	switch name {
	case "vm":
		return NewVM(), true
	case "treewalk":
		return NewTreeWalk(), true
	}
	return nil, false
}

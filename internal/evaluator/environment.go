package evaluator

import (
	"context"
	"fmt"

	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/typesystem"
)

// Environment is the frame of one block invocation.
type Environment struct {
	locals   []object.Object
	captures []object.Object
}

func NewEnvironment(locals int, captures []object.Object) *Environment {
	return &Environment{locals: make([]object.Object, locals), captures: captures}
}

// Closure is a block value: a Block node plus the values it captured when
// it was created. Calls share the nesting depth of the evaluation that
// created the closure, so a closure must not be called from several
// goroutines at once.
type Closure struct {
	eval     *Evaluator
	node     resolved.NodeID
	captures []object.Object
}

func (c *Closure) Type() object.ObjectType { return object.BLOCK_OBJ }

func (c *Closure) Inspect() string {
	return fmt.Sprintf("<block/%d>", c.Arity())
}

func (c *Closure) RuntimeType() typesystem.Type {
	return c.eval.tree.Node(c.node).Type
}

func (c *Closure) Arity() int { return c.eval.tree.Node(c.node).Arity }

// Call runs the block body in a fresh environment. The value is the last
// statement's; an empty body yields an empty list.
func (c *Closure) Call(ctx context.Context, args ...object.Object) (object.Object, error) {
	node := c.eval.tree.Node(c.node)
	if len(args) != node.Arity {
		return nil, diagnostics.NewError(diagnostics.ErrR003, node.Token,
			"block takes %d arguments, got %d", node.Arity, len(args))
	}
	if c.eval.depth >= config.MaxFrameCount {
		return nil, diagnostics.NewError(diagnostics.ErrR003, node.Token, "stack overflow: more than %d nested calls", config.MaxFrameCount)
	}
	c.eval.depth++
	defer func() { c.eval.depth-- }()

	env := NewEnvironment(node.Locals, c.captures)
	copy(env.locals, args)

	var result object.Object = &object.List{}
	for _, id := range node.Children {
		v, err := c.eval.eval(ctx, id, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Package evaluator executes a resolved tree by walking its nodes. It is
// the reference backend the compiled path is checked against.
package evaluator

import (
	"context"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
)

// Evaluator holds the state of one call. The tree is shared and never
// written; inputs and environments belong to the call.
type Evaluator struct {
	tree   *resolved.Tree
	inputs []object.Object
	depth  int
}

// Evaluate checks bindings and runs the tree once.
func Evaluate(ctx context.Context, tree *resolved.Tree, bindings map[string]object.Object) (object.Object, error) {
	inputs, err := tree.BindInputs(bindings)
	if err != nil {
		return nil, err
	}
	e := &Evaluator{tree: tree, inputs: inputs}
	root := &Closure{eval: e, node: tree.Root}
	return root.Call(ctx)
}

func (e *Evaluator) eval(ctx context.Context, id resolved.NodeID, env *Environment) (object.Object, error) {
	node := e.tree.Node(id)
	switch node.Kind {
	case resolved.Const:
		return node.Value, nil

	case resolved.Local:
		return env.locals[node.Slot], nil

	case resolved.Upvalue:
		return env.captures[node.Slot], nil

	case resolved.Input:
		return e.inputs[node.Slot], nil

	case resolved.ListLit:
		elems, err := e.evalChildren(ctx, node.Children, env)
		if err != nil {
			return nil, err
		}
		return &object.List{Elements: elems}, nil

	case resolved.RecordLit:
		values, err := e.evalChildren(ctx, node.Children, env)
		if err != nil {
			return nil, err
		}
		rec := object.NewRecord()
		for i, name := range node.Names {
			rec.Set(name, values[i])
		}
		return rec, nil

	case resolved.Field:
		left, err := e.eval(ctx, node.Children[0], env)
		if err != nil {
			return nil, err
		}
		return resolved.ReadField(left, node.Names[0], node.Token)

	case resolved.Let:
		v, err := e.eval(ctx, node.Children[0], env)
		if err != nil {
			return nil, err
		}
		env.locals[node.Slot] = v
		return v, nil

	case resolved.Block:
		captures := make([]object.Object, len(node.Captures))
		for i, c := range node.Captures {
			if c.Local {
				captures[i] = env.locals[c.Index]
			} else {
				captures[i] = env.captures[c.Index]
			}
		}
		return &Closure{eval: e, node: id, captures: captures}, nil

	case resolved.Send:
		return e.evalSend(ctx, node, env)
	}
	return nil, diagnostics.NewError(diagnostics.ErrR003, node.Token, "cannot evaluate %s node", node.Kind)
}

func (e *Evaluator) evalChildren(ctx context.Context, ids []resolved.NodeID, env *Environment) ([]object.Object, error) {
	out := make([]object.Object, len(ids))
	for i, id := range ids {
		v, err := e.eval(ctx, id, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalSend(ctx context.Context, node *resolved.Node, env *Environment) (object.Object, error) {
	if node.Slot < 0 {
		return nil, diagnostics.NewError(diagnostics.ErrA001, node.Token, "unresolved send")
	}
	values, err := e.evalChildren(ctx, node.Children, env)
	if err != nil {
		return nil, err
	}
	site := &e.tree.Sites[node.Slot]
	return namespace.Dispatch(ctx, site.Sig, site.Sig.Bind(site.Slots, values), site.Token)
}

package vm

import (
	"fmt"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/token"
)

// Compiler lowers a resolved tree to bytecode.
type Compiler struct {
	tree     *resolved.Tree
	function *CompiledFunction
	blocks   int
}

func NewCompiler(tree *resolved.Tree) *Compiler {
	return &Compiler{tree: tree}
}

// Compile compiles the whole tree. The root block becomes the main
// function.
func Compile(tree *resolved.Tree) (*Program, error) {
	c := NewCompiler(tree)
	main, err := c.compileFunction(tree.Root, "main")
	if err != nil {
		return nil, err
	}
	return &Program{Main: main, Sites: tree.Sites, tree: tree}, nil
}

func (c *Compiler) compileFunction(id resolved.NodeID, name string) (*CompiledFunction, error) {
	node := c.tree.Node(id)
	fn := &CompiledFunction{
		Arity:        node.Arity,
		LocalCount:   node.Locals,
		CaptureCount: len(node.Captures),
		Chunk:        NewChunk(),
		Name:         name,
		TypeInfo:     node.Type,
	}
	enclosing := c.function
	c.function = fn
	defer func() { c.function = enclosing }()

	line, col := pos(node.Token)
	if len(node.Children) == 0 {
		c.emit(OP_MAKE_LIST, line, col)
		c.chunk().WriteOperand(0, line, col)
	}
	for i, child := range node.Children {
		if err := c.compileNode(child); err != nil {
			return nil, err
		}
		if i < len(node.Children)-1 {
			c.emit(OP_POP, line, col)
		}
	}
	c.emit(OP_RETURN, line, col)
	return fn, nil
}

func (c *Compiler) compileNode(id resolved.NodeID) error {
	node := c.tree.Node(id)
	line, col := pos(node.Token)

	switch node.Kind {
	case resolved.Const:
		c.chunk().WriteConstant(node.Value, line, col)

	case resolved.Local:
		c.emitOperand(OP_GET_LOCAL, node.Slot, line, col)

	case resolved.Upvalue:
		c.emitOperand(OP_GET_UPVALUE, node.Slot, line, col)

	case resolved.Input:
		c.emitOperand(OP_GET_INPUT, node.Slot, line, col)

	case resolved.ListLit:
		if err := c.compileNodes(node.Children); err != nil {
			return err
		}
		c.emitOperand(OP_MAKE_LIST, len(node.Children), line, col)

	case resolved.RecordLit:
		for i, child := range node.Children {
			c.chunk().WriteConstant(&object.String{Value: node.Names[i]}, line, col)
			if err := c.compileNode(child); err != nil {
				return err
			}
		}
		c.emitOperand(OP_MAKE_RECORD, len(node.Children), line, col)

	case resolved.Field:
		if err := c.compileNode(node.Children[0]); err != nil {
			return err
		}
		idx := c.chunk().AddConstant(&object.String{Value: node.Names[0]})
		c.emitOperand(OP_GET_FIELD, idx, line, col)

	case resolved.Let:
		if err := c.compileNode(node.Children[0]); err != nil {
			return err
		}
		c.emitOperand(OP_SET_LOCAL, node.Slot, line, col)

	case resolved.Send:
		if node.Slot < 0 {
			return diagnostics.NewError(diagnostics.ErrA001, node.Token, "unresolved send")
		}
		if err := c.compileNodes(node.Children); err != nil {
			return err
		}
		c.emitOperand(OP_SEND, node.Slot, line, col)

	case resolved.Block:
		c.blocks++
		fn, err := c.compileFunction(id, fmt.Sprintf("block%d", c.blocks))
		if err != nil {
			return err
		}
		idx := c.chunk().AddConstant(fn)
		c.emitOperand(OP_CLOSURE, idx, line, col)
		for _, capture := range node.Captures {
			local := byte(0)
			if capture.Local {
				local = 1
			}
			c.chunk().Write(local, line, col)
			c.chunk().WriteOperand(capture.Index, line, col)
		}

	default:
		return diagnostics.NewError(diagnostics.ErrR003, node.Token, "cannot compile %s node", node.Kind)
	}
	return nil
}

func (c *Compiler) compileNodes(ids []resolved.NodeID) error {
	for _, id := range ids {
		if err := c.compileNode(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) chunk() *Chunk {
	return c.function.Chunk
}

func (c *Compiler) emit(op Opcode, line, col int) {
	c.chunk().WriteOp(op, line, col)
}

func (c *Compiler) emitOperand(op Opcode, operand int, line, col int) {
	c.chunk().WriteOp(op, line, col)
	c.chunk().WriteOperand(operand, line, col)
}

func pos(tok token.Token) (int, int) {
	return tok.Line, tok.Column
}

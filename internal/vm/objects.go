package vm

import (
	"context"
	"fmt"

	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/typesystem"
)

// CompiledFunction is a block body compiled to bytecode. Functions of
// nested blocks live in the constant pool of the enclosing chunk.
type CompiledFunction struct {
	Arity        int
	LocalCount   int
	CaptureCount int
	Chunk        *Chunk
	Name         string
	TypeInfo     typesystem.Type
}

func (f *CompiledFunction) Type() object.ObjectType { return "COMPILED_FUNCTION" }
func (f *CompiledFunction) Inspect() string         { return fmt.Sprintf("<fn %s>", f.Name) }
func (f *CompiledFunction) RuntimeType() typesystem.Type {
	if f.TypeInfo != nil {
		return f.TypeInfo
	}
	return typesystem.Any
}

// ObjClosure is a block value of the compiled path. Captured values are
// copied when the closure is created. Calls run on the VM that created the
// closure, so a closure must not be called from several goroutines at once.
type ObjClosure struct {
	Function *CompiledFunction
	Captures []object.Object
	vm       *VM
}

func (c *ObjClosure) Type() object.ObjectType { return object.BLOCK_OBJ }
func (c *ObjClosure) Inspect() string         { return fmt.Sprintf("<block/%d>", c.Function.Arity) }
func (c *ObjClosure) RuntimeType() typesystem.Type {
	return c.Function.RuntimeType()
}

func (c *ObjClosure) Arity() int { return c.Function.Arity }

func (c *ObjClosure) Call(ctx context.Context, args ...object.Object) (object.Object, error) {
	return c.vm.callClosure(ctx, c, args)
}

// Program is the compiled form of a resolved tree. Sites holds the
// dispatch slot of every send.
type Program struct {
	Main  *CompiledFunction
	Sites []resolved.CallSite
	tree  *resolved.Tree
}

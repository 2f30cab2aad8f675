package vm

import (
	"context"

	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/token"
)

// CallFrame represents a single ongoing block call
type CallFrame struct {
	closure *ObjClosure
	ip      int
	base    int // where this frame's locals start in the stack
}

// VM executes one call of a Program. Block calls made by builtins re-enter
// the same VM on top of the current frames.
type VM struct {
	program *Program
	inputs  []object.Object

	stack []object.Object
	sp    int

	frames     []CallFrame
	frameCount int
}

func New(program *Program, inputs []object.Object) *VM {
	return &VM{
		program: program,
		inputs:  inputs,
		stack:   make([]object.Object, config.InitialStackSize),
		frames:  make([]CallFrame, 0, 16),
	}
}

// Run checks bindings and executes the program once on a fresh VM.
func Run(ctx context.Context, program *Program, bindings map[string]object.Object) (object.Object, error) {
	inputs, err := program.tree.BindInputs(bindings)
	if err != nil {
		return nil, err
	}
	machine := New(program, inputs)
	main := &ObjClosure{Function: program.Main, vm: machine}
	return machine.callClosure(ctx, main, nil)
}

// callClosure pushes a frame for c and runs until that frame returns.
func (vm *VM) callClosure(ctx context.Context, c *ObjClosure, args []object.Object) (object.Object, error) {
	fn := c.Function
	if len(args) != fn.Arity {
		return nil, diagnostics.NewError(diagnostics.ErrR003, vm.position(),
			"block takes %d arguments, got %d", fn.Arity, len(args))
	}
	if vm.frameCount >= config.MaxFrameCount {
		return nil, diagnostics.NewError(diagnostics.ErrR003, vm.position(), "stack overflow: more than %d nested calls", config.MaxFrameCount)
	}

	entrySP, entryFrames := vm.sp, vm.frameCount
	vm.reserve(fn.LocalCount)
	for i := vm.sp; i < vm.sp+fn.LocalCount; i++ {
		vm.stack[i] = nil
	}
	copy(vm.stack[vm.sp:], args)
	frame := CallFrame{closure: c, base: vm.sp}
	vm.sp += fn.LocalCount
	if vm.frameCount < len(vm.frames) {
		vm.frames[vm.frameCount] = frame
	} else {
		vm.frames = append(vm.frames, frame)
	}
	vm.frameCount++

	result, err := vm.run(ctx)
	if err != nil {
		vm.sp, vm.frameCount = entrySP, entryFrames
		return nil, err
	}
	return result, nil
}

// run executes the top frame until it returns.
func (vm *VM) run(ctx context.Context) (object.Object, error) {
	frame := &vm.frames[vm.frameCount-1]
	chunk := frame.closure.Function.Chunk

	for {
		op := Opcode(chunk.Code[frame.ip])
		at := frame.ip
		frame.ip++

		switch op {
		case OP_CONST:
			vm.push(chunk.Constants[vm.readOperand(frame, chunk)])

		case OP_POP:
			vm.sp--

		case OP_GET_LOCAL:
			vm.push(vm.stack[frame.base+vm.readOperand(frame, chunk)])

		case OP_SET_LOCAL:
			vm.stack[frame.base+vm.readOperand(frame, chunk)] = vm.peek(0)

		case OP_GET_UPVALUE:
			vm.push(frame.closure.Captures[vm.readOperand(frame, chunk)])

		case OP_GET_INPUT:
			vm.push(vm.inputs[vm.readOperand(frame, chunk)])

		case OP_GET_FIELD:
			name := chunk.Constants[vm.readOperand(frame, chunk)].(*object.String).Value
			v, err := resolved.ReadField(vm.peek(0), name, tokenAt(chunk, at))
			if err != nil {
				return nil, err
			}
			vm.stack[vm.sp-1] = v

		case OP_MAKE_LIST:
			n := vm.readOperand(frame, chunk)
			elems := make([]object.Object, n)
			copy(elems, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n
			vm.push(&object.List{Elements: elems})

		case OP_MAKE_RECORD:
			n := vm.readOperand(frame, chunk)
			rec := object.NewRecord()
			start := vm.sp - 2*n
			for i := 0; i < n; i++ {
				name := vm.stack[start+2*i].(*object.String).Value
				rec.Set(name, vm.stack[start+2*i+1])
			}
			vm.sp = start
			vm.push(rec)

		case OP_CLOSURE:
			fn := chunk.Constants[vm.readOperand(frame, chunk)].(*CompiledFunction)
			captures := make([]object.Object, fn.CaptureCount)
			for i := range captures {
				local := chunk.Code[frame.ip] == 1
				frame.ip++
				index := vm.readOperand(frame, chunk)
				if local {
					captures[i] = vm.stack[frame.base+index]
				} else {
					captures[i] = frame.closure.Captures[index]
				}
			}
			vm.push(&ObjClosure{Function: fn, Captures: captures, vm: vm})

		case OP_SEND:
			site := &vm.program.Sites[vm.readOperand(frame, chunk)]
			n := len(site.Slots)
			values := make([]object.Object, n)
			copy(values, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n
			result, err := namespace.Dispatch(ctx, site.Sig, site.Sig.Bind(site.Slots, values), site.Token)
			if err != nil {
				return nil, err
			}
			// A callback may have re-entered the VM and grown the frame list.
			frame = &vm.frames[vm.frameCount-1]
			vm.push(result)

		case OP_RETURN:
			result := vm.stack[vm.sp-1]
			vm.frameCount--
			vm.sp = frame.base
			return result, nil

		default:
			return nil, diagnostics.NewError(diagnostics.ErrR003, tokenAt(chunk, at), "unknown opcode %d", op)
		}
	}
}

func (vm *VM) readOperand(frame *CallFrame, chunk *Chunk) int {
	v := chunk.ReadOperand(frame.ip)
	frame.ip += OperandWidth
	return v
}

func (vm *VM) push(obj object.Object) {
	vm.reserve(1)
	vm.stack[vm.sp] = obj
	vm.sp++
}

func (vm *VM) peek(distance int) object.Object {
	return vm.stack[vm.sp-1-distance]
}

// reserve makes room for n more values. The stack has no fixed cap; nesting
// is bounded by config.MaxFrameCount.
func (vm *VM) reserve(n int) {
	need := vm.sp + n
	if need <= len(vm.stack) {
		return
	}
	size := 2 * len(vm.stack)
	for size < need {
		size *= 2
	}
	grown := make([]object.Object, size)
	copy(grown, vm.stack[:vm.sp])
	vm.stack = grown
}

// position is the source position of the instruction being executed.
func (vm *VM) position() token.Token {
	if vm.frameCount == 0 {
		return token.Token{}
	}
	frame := &vm.frames[vm.frameCount-1]
	if frame.ip == 0 {
		return token.Token{}
	}
	return tokenAt(frame.closure.Function.Chunk, frame.ip-1)
}

func tokenAt(chunk *Chunk, offset int) token.Token {
	if offset < 0 || offset >= len(chunk.Lines) {
		return token.Token{}
	}
	return token.Token{Line: chunk.Lines[offset], Column: chunk.Columns[offset]}
}

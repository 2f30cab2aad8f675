package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a function and of every
// block function in its constant pool.
func Disassemble(fn *CompiledFunction) string {
	var sb strings.Builder
	disassembleFunction(&sb, fn)
	return sb.String()
}

func disassembleFunction(sb *strings.Builder, fn *CompiledFunction) {
	chunk := fn.Chunk
	sb.WriteString(fmt.Sprintf("== %s (arity %d, locals %d, captures %d) ==\n",
		fn.Name, fn.Arity, fn.LocalCount, fn.CaptureCount))

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(sb, chunk, offset)
	}

	for _, c := range chunk.Constants {
		if nested, ok := c.(*CompiledFunction); ok {
			sb.WriteByte('\n')
			disassembleFunction(sb, nested)
		}
	}
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", chunk.Lines[offset]))
	}

	op := Opcode(chunk.Code[offset])
	switch op {
	case OP_POP, OP_RETURN:
		sb.WriteString(op.String() + "\n")
		return offset + 1

	case OP_CONST, OP_GET_FIELD:
		idx := chunk.ReadOperand(offset + 1)
		sb.WriteString(fmt.Sprintf("%-12s %4d '%s'\n", op, idx, chunk.Constants[idx].Inspect()))
		return offset + 1 + OperandWidth

	case OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_UPVALUE, OP_GET_INPUT, OP_MAKE_LIST, OP_MAKE_RECORD, OP_SEND:
		sb.WriteString(fmt.Sprintf("%-12s %4d\n", op, chunk.ReadOperand(offset+1)))
		return offset + 1 + OperandWidth

	case OP_CLOSURE:
		idx := chunk.ReadOperand(offset + 1)
		fn := chunk.Constants[idx].(*CompiledFunction)
		sb.WriteString(fmt.Sprintf("%-12s %4d %s\n", op, idx, fn.Inspect()))
		offset += 1 + OperandWidth
		for i := 0; i < fn.CaptureCount; i++ {
			kind := "upvalue"
			if chunk.Code[offset] == 1 {
				kind = "local"
			}
			sb.WriteString(fmt.Sprintf("%04d    |                     %s %d\n", offset, kind, chunk.ReadOperand(offset+1)))
			offset += 1 + OperandWidth
		}
		return offset
	}

	sb.WriteString(fmt.Sprintf("unknown opcode %d\n", op))
	return offset + 1
}

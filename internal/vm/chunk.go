package vm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/funvibe/corvus/internal/object"
)

// Chunk represents a sequence of bytecode instructions
type Chunk struct {
	Code      []byte
	Constants []object.Object
	// Lines and Columns map each byte offset to its source position.
	Lines   []int
	Columns []int
}

func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 64),
		Constants: make([]object.Object, 0, 16),
		Lines:     make([]int, 0, 64),
		Columns:   make([]int, 0, 64),
	}
}

// Write adds a byte with its source position.
func (c *Chunk) Write(b byte, line, col int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	c.Columns = append(c.Columns, col)
}

func (c *Chunk) WriteOp(op Opcode, line, col int) {
	c.Write(byte(op), line, col)
}

// OperandWidth is the size in bytes of every instruction operand.
const OperandWidth = 4

// WriteOperand writes a 4-byte big-endian operand. Constant pools, list
// lengths and slot indices never outgrow it for a source that fits in memory.
func (c *Chunk) WriteOperand(v int, line, col int) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		panic(fmt.Sprintf("operand %d out of range", v))
	}
	c.Write(byte(v>>24), line, col)
	c.Write(byte(v>>16), line, col)
	c.Write(byte(v>>8), line, col)
	c.Write(byte(v), line, col)
}

// AddConstant adds a constant to the pool and returns its index
func (c *Chunk) AddConstant(value object.Object) int {
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

// WriteConstant writes OP_CONST followed by the constant index
func (c *Chunk) WriteConstant(value object.Object, line, col int) {
	idx := c.AddConstant(value)
	c.WriteOp(OP_CONST, line, col)
	c.WriteOperand(idx, line, col)
}

// ReadOperand reads the operand at offset.
func (c *Chunk) ReadOperand(offset int) int {
	return int(binary.BigEndian.Uint32(c.Code[offset : offset+OperandWidth]))
}

func (c *Chunk) Len() int {
	return len(c.Code)
}

// Package vm compiles a resolved tree to bytecode and runs it on a stack
// machine. Every send is bound to its signature at compile time.
package vm

// Opcode represents a single VM instruction
type Opcode byte

// Operands are OperandWidth bytes, big endian, unless noted.
const (
	OP_CONST       Opcode = iota // Push constant [idx]
	OP_POP                       // Discard top of stack
	OP_GET_LOCAL                 // Push frame slot [slot]
	OP_SET_LOCAL                 // Store top of stack in frame slot [slot], keep it on the stack
	OP_GET_UPVALUE               // Push captured value [idx]
	OP_GET_INPUT                 // Push script input [idx]
	OP_GET_FIELD                 // Replace a record with its field named by constant [idx]
	OP_MAKE_LIST                 // Pop [n] values, push a list
	OP_MAKE_RECORD               // Pop [n] name/value pairs, push a record
	OP_CLOSURE                   // Push a closure of function constant [idx]; then per capture: 1 byte isLocal, [index]
	OP_SEND                      // Pop the arguments of call site [site], dispatch, push the result
	OP_RETURN                    // Return top of stack from the current frame
)

var opcodeNames = map[Opcode]string{
	OP_CONST:       "CONST",
	OP_POP:         "POP",
	OP_GET_LOCAL:   "GET_LOCAL",
	OP_SET_LOCAL:   "SET_LOCAL",
	OP_GET_UPVALUE: "GET_UPVALUE",
	OP_GET_INPUT:   "GET_INPUT",
	OP_GET_FIELD:   "GET_FIELD",
	OP_MAKE_LIST:   "MAKE_LIST",
	OP_MAKE_RECORD: "MAKE_RECORD",
	OP_CLOSURE:     "CLOSURE",
	OP_SEND:        "SEND",
	OP_RETURN:      "RETURN",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Package resolved holds the analyzed program: an immutable arena of
// indexed nodes that both execution backends walk.
package resolved

import (
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
)

// NodeID indexes Tree.Nodes.
type NodeID int

// Kind selects how a node is evaluated.
type Kind uint8

const (
	// Const holds a literal in Value.
	Const Kind = iota
	// ListLit builds a list from Children.
	ListLit
	// RecordLit builds a record; Names[i] labels Children[i].
	RecordLit
	// Local reads frame slot Slot.
	Local
	// Upvalue reads captured value Slot of the running block.
	Upvalue
	// Input reads script input Slot.
	Input
	// Field reads field Names[0] of Children[0].
	Field
	// Send calls site Slot of Tree.Sites with Children as argument values.
	Send
	// Block creates a closure. Children is the body; the last value is the
	// result and an empty body yields an empty list.
	Block
	// Let stores Children[0] into frame slot Slot and yields it.
	Let
)

var kindNames = [...]string{
	Const:     "Const",
	ListLit:   "List",
	RecordLit: "Record",
	Local:     "Local",
	Upvalue:   "Upvalue",
	Input:     "Input",
	Field:     "Field",
	Send:      "Send",
	Block:     "Block",
	Let:       "Let",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind?"
}

// Capture tells a new closure where to copy one captured value from: a
// local slot of the creating frame, or one of the creating block's own
// captures.
type Capture struct {
	Local bool
	Index int
}

type Node struct {
	Kind     Kind
	Token    token.Token
	Type     typesystem.Type
	Value    object.Object
	Children []NodeID
	Names    []string
	Slot     int

	// Block only.
	Arity    int
	Locals   int
	Captures []Capture
}

// CallSite is a send whose function was fixed during analysis. Slots maps
// each argument value to its formal argument.
type CallSite struct {
	Sig      *namespace.Signature
	Slots    []int
	Keywords []string
	Token    token.Token
}

// InputDecl is an inferred free variable.
type InputDecl struct {
	Name  string
	Type  typesystem.Type
	Token token.Token
}

// Tree is the analyzed program. Root is a Block node of arity zero.
type Tree struct {
	Nodes  []Node
	Root   NodeID
	Sites  []CallSite
	Inputs []InputDecl
	Return typesystem.Type
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node { return &t.Nodes[id] }

// Add appends a node and returns its id.
func (t *Tree) Add(n Node) NodeID {
	t.Nodes = append(t.Nodes, n)
	return NodeID(len(t.Nodes) - 1)
}

// AddSite registers a call site and returns its index.
func (t *Tree) AddSite(site CallSite) int {
	t.Sites = append(t.Sites, site)
	return len(t.Sites) - 1
}

// InputTypes returns a fresh name to type map of the inputs.
func (t *Tree) InputTypes() map[string]typesystem.Type {
	out := make(map[string]typesystem.Type, len(t.Inputs))
	for _, in := range t.Inputs {
		out[in.Name] = in.Type
	}
	return out
}

// InputIndex returns the slot of a named input.
func (t *Tree) InputIndex(name string) (int, bool) {
	for i, in := range t.Inputs {
		if in.Name == name {
			return i, true
		}
	}
	return -1, false
}

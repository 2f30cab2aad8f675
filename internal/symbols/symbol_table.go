// Package symbols tracks lexical scopes during analysis: which names are
// frame locals, which are captured from enclosing blocks, and the slot each
// one occupies.
package symbols

import (
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/typesystem"
)

type SymbolKind int

const (
	// LocalSymbol lives in a slot of the current frame.
	LocalSymbol SymbolKind = iota
	// UpvalueSymbol is captured from an enclosing block.
	UpvalueSymbol
)

type Symbol struct {
	Name string
	Type typesystem.Type
	Kind SymbolKind
	Slot int // frame slot or capture index, depending on Kind
}

// SymbolTable is the scope of one block. Every block owns a frame; a let
// or parameter always takes a fresh slot so earlier captures keep the value
// they saw.
type SymbolTable struct {
	store    map[string]Symbol
	outer    *SymbolTable
	slots    int
	captures []resolved.Capture
	capIndex map[resolved.Capture]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		store:    make(map[string]Symbol),
		capIndex: make(map[resolved.Capture]int),
	}
}

// NewEnclosedSymbolTable opens the scope of a nested block.
func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	return st
}

// Outer returns the enclosing scope, nil at the script level.
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// Define binds name to a new slot of this frame, shadowing any earlier
// binding of the same name.
func (s *SymbolTable) Define(name string, t typesystem.Type) Symbol {
	sym := Symbol{Name: name, Type: t, Kind: LocalSymbol, Slot: s.slots}
	s.slots++
	s.store[name] = sym
	return sym
}

// Find resolves name from this scope outward. A name bound in an enclosing
// frame is turned into a capture of every frame in between.
func (s *SymbolTable) Find(name string) (Symbol, bool) {
	if sym, ok := s.store[name]; ok {
		return sym, true
	}
	if s.outer == nil {
		return Symbol{}, false
	}
	outerSym, ok := s.outer.Find(name)
	if !ok {
		return Symbol{}, false
	}
	c := resolved.Capture{Local: outerSym.Kind == LocalSymbol, Index: outerSym.Slot}
	sym := Symbol{Name: name, Type: outerSym.Type, Kind: UpvalueSymbol, Slot: s.addCapture(c)}
	s.store[name] = sym
	return sym, true
}

func (s *SymbolTable) addCapture(c resolved.Capture) int {
	if i, ok := s.capIndex[c]; ok {
		return i
	}
	s.captures = append(s.captures, c)
	s.capIndex[c] = len(s.captures) - 1
	return len(s.captures) - 1
}

// IsDefined reports whether name resolves without creating captures.
func (s *SymbolTable) IsDefined(name string) bool {
	if _, ok := s.store[name]; ok {
		return true
	}
	return s.outer != nil && s.outer.IsDefined(name)
}

// Slots is the number of frame slots used so far.
func (s *SymbolTable) Slots() int { return s.slots }

// Captures lists the capture descriptors of this block in index order.
func (s *SymbolTable) Captures() []resolved.Capture { return s.captures }

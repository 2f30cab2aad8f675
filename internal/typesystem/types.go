package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system.
// Types are immutable values and compare structurally through Equal.
type Type interface {
	String() string
	isType()
}

// TCon is a primitive type constructor (Any, Bool, Number, String, Time).
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }
func (TCon) isType()          {}

var (
	Any    = TCon{Name: "Any"}
	Bool   = TCon{Name: "Bool"}
	Number = TCon{Name: "Number"}
	String = TCon{Name: "String"}
	Time   = TCon{Name: "Time"}
)

// Field is one record member.
type Field struct {
	Name     string
	Type     Type
	Optional bool
}

// TRecord is a structural record. Field order is declaration order and is
// kept for display only; equality ignores it.
type TRecord struct {
	Fields []Field
}

func (TRecord) isType() {}

func (t TRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		name := f.Name
		if f.Optional {
			name += "?"
		}
		parts[i] = fmt.Sprintf("%s: %s", name, typeString(f.Type))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Field returns the named field.
func (t TRecord) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns field names in declaration order.
func (t TRecord) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// TList is a homogeneous list.
type TList struct {
	Elem Type
}

func (TList) isType() {}

func (t TList) String() string { return "[" + typeString(t.Elem) + "]" }

// TBlock is the type of a block literal. It is produced by the analyzer and
// by builtin signatures; hosts cannot name it.
type TBlock struct {
	Params []Type
	Result Type
}

func (TBlock) isType() {}

func (t TBlock) String() string {
	if len(t.Params) == 0 {
		return "{ " + typeString(t.Result) + " }"
	}
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = typeString(p)
	}
	return fmt.Sprintf("{ %s => %s }", strings.Join(params, ", "), typeString(t.Result))
}

func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// Record builds a record type from fields in order.
func Record(fields ...Field) TRecord {
	return TRecord{Fields: fields}
}

// List builds a list type.
func List(elem Type) TList {
	return TList{Elem: elem}
}

// Block builds a block type.
func Block(result Type, params ...Type) TBlock {
	return TBlock{Params: params, Result: result}
}

// IsAny reports whether t is the Any wildcard (a nil type counts as Any).
func IsAny(t Type) bool {
	if t == nil {
		return true
	}
	c, ok := t.(TCon)
	return ok && c.Name == Any.Name
}

// FieldType follows a path of field names through nested records.
func FieldType(t Type, path ...string) (Type, bool) {
	for _, name := range path {
		rec, ok := t.(TRecord)
		if !ok {
			return nil, false
		}
		f, ok := rec.Field(name)
		if !ok {
			return nil, false
		}
		t = f.Type
	}
	return t, true
}

package object

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/funvibe/corvus/internal/typesystem"
)

type ObjectType string

const (
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"
	BOOLEAN_OBJ = "BOOLEAN"
	TIME_OBJ    = "TIME"
	LIST_OBJ    = "LIST"
	RECORD_OBJ  = "RECORD"
	BLOCK_OBJ   = "BLOCK"
	NIL_OBJ     = "NIL"
)

// Object is a runtime value shared by both backends.
type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() typesystem.Type
}

// Block is a callable block value. Each backend provides its own
// implementation; builtins only see this interface.
type Block interface {
	Object
	Arity() int
	Call(ctx context.Context, args ...Object) (Object, error)
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType             { return NUMBER_OBJ }
func (n *Number) Inspect() string              { return FormatNumber(n.Value) }
func (n *Number) RuntimeType() typesystem.Type { return typesystem.Number }

// FormatNumber renders a float the shortest way that round-trips.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType             { return STRING_OBJ }
func (s *String) Inspect() string              { return strconv.Quote(s.Value) }
func (s *String) RuntimeType() typesystem.Type { return typesystem.String }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType             { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string              { return strconv.FormatBool(b.Value) }
func (b *Boolean) RuntimeType() typesystem.Type { return typesystem.Bool }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NIL   = &Nil{}
)

// NativeBool returns the shared Boolean for v.
func NativeBool(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

type Time struct {
	Value time.Time
}

func (t *Time) Type() ObjectType             { return TIME_OBJ }
func (t *Time) Inspect() string              { return t.Value.Format(time.RFC3339) }
func (t *Time) RuntimeType() typesystem.Type { return typesystem.Time }

type Nil struct{}

func (n *Nil) Type() ObjectType             { return NIL_OBJ }
func (n *Nil) Inspect() string              { return "nil" }
func (n *Nil) RuntimeType() typesystem.Type { return typesystem.Any }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }

func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// RuntimeType is the element type when all elements agree, Any otherwise.
func (l *List) RuntimeType() typesystem.Type {
	var elem typesystem.Type = typesystem.Any
	for i, e := range l.Elements {
		if i == 0 {
			elem = e.RuntimeType()
			continue
		}
		elem = typesystem.Join(elem, e.RuntimeType())
	}
	return typesystem.List(elem)
}

// Record is an ordered set of named values.
type Record struct {
	Keys   []string
	Fields map[string]Object
}

func NewRecord() *Record {
	return &Record{Fields: make(map[string]Object)}
}

// Set adds or replaces a field, keeping first insertion order.
func (r *Record) Set(name string, value Object) {
	if _, ok := r.Fields[name]; !ok {
		r.Keys = append(r.Keys, name)
	}
	r.Fields[name] = value
}

func (r *Record) Get(name string) (Object, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }

func (r *Record) Inspect() string {
	parts := make([]string, len(r.Keys))
	for i, k := range r.Keys {
		parts[i] = k + " = " + r.Fields[k].Inspect()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (r *Record) RuntimeType() typesystem.Type {
	fields := make([]typesystem.Field, len(r.Keys))
	for i, k := range r.Keys {
		fields[i] = typesystem.Field{Name: k, Type: r.Fields[k].RuntimeType()}
	}
	return typesystem.Record(fields...)
}

package namespace

import (
	"fmt"

	"github.com/funvibe/corvus/internal/object"
)

// Args is the name to value mapping handed to a callback. A variadic
// argument is a List of every captured value; an absent optional is nil.
type Args struct {
	values map[string]object.Object
}

// Bind builds Args from call-site values. slots maps each value to the
// index of the formal argument it fills (see Signature.Match).
func (s *Signature) Bind(slots []int, values []object.Object) Args {
	m := make(map[string]object.Object, len(s.Args))
	for i, v := range values {
		a := s.Args[slots[i]]
		if a.Variadic {
			l, _ := m[a.Name].(*object.List)
			if l == nil {
				l = &object.List{}
				m[a.Name] = l
			}
			l.Elements = append(l.Elements, v)
			continue
		}
		m[a.Name] = v
	}
	for _, a := range s.Args {
		if _, ok := m[a.Name]; !ok && a.Variadic {
			m[a.Name] = &object.List{}
		}
	}
	return Args{values: m}
}

// NewArgs wraps a ready mapping. Used by hosts calling functions directly.
func NewArgs(values map[string]object.Object) Args {
	return Args{values: values}
}

// Has reports whether a value was supplied for name.
func (a Args) Has(name string) bool {
	v, ok := a.values[name]
	if !ok {
		return false
	}
	_, isNil := v.(*object.Nil)
	return !isNil
}

// Get returns the value of name, or nil when absent.
func (a Args) Get(name string) object.Object {
	if v, ok := a.values[name]; ok && v != nil {
		return v
	}
	return object.NIL
}

// Names lists the supplied argument names.
func (a Args) Names() []string {
	out := make([]string, 0, len(a.values))
	for k := range a.values {
		out = append(out, k)
	}
	return out
}

func (a Args) Number(name string) (float64, error) {
	v, ok := a.Get(name).(*object.Number)
	if !ok {
		return 0, a.wrongType(name, "a number")
	}
	return v.Value, nil
}

func (a Args) String(name string) (string, error) {
	v, ok := a.Get(name).(*object.String)
	if !ok {
		return "", a.wrongType(name, "a string")
	}
	return v.Value, nil
}

func (a Args) Bool(name string) (bool, error) {
	v, ok := a.Get(name).(*object.Boolean)
	if !ok {
		return false, a.wrongType(name, "a boolean")
	}
	return v.Value, nil
}

func (a Args) List(name string) ([]object.Object, error) {
	v, ok := a.Get(name).(*object.List)
	if !ok {
		return nil, a.wrongType(name, "a list")
	}
	return v.Elements, nil
}

func (a Args) Block(name string) (object.Block, error) {
	v, ok := a.Get(name).(object.Block)
	if !ok {
		return nil, a.wrongType(name, "a block")
	}
	return v, nil
}

func (a Args) wrongType(name, want string) error {
	return runtimeError("argument '%s' must be %s, got %s", name, want, a.Get(name).Inspect())
}

// runtimeError is a primitive violation raised inside a callback; Dispatch
// passes it through without wrapping.
func runtimeError(format string, args ...interface{}) error {
	return &primitiveError{msg: fmt.Sprintf(format, args...)}
}

type primitiveError struct {
	msg string
}

func (e *primitiveError) Error() string { return e.msg }

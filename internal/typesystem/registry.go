package typesystem

import (
	"fmt"
	"sync"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/token"
)

// builtins are the reserved primitive names, always resolvable.
var builtins = map[string]Type{
	"any":     Any,
	"bool":    Bool,
	"boolean": Bool,
	"number":  Number,
	"num":     Number,
	"string":  String,
	"time":    Time,
}

// IsBuiltinName reports whether name is a reserved primitive type name.
func IsBuiltinName(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Registry holds named type definitions. A name, once defined, never
// changes. Resolution is not memoized: each call yields a fresh value that
// compares structurally equal to earlier ones.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
	order []string
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Define resolves ref and stores it under name.
func (r *Registry) Define(name string, ref TypeRef) (Type, error) {
	if name == "" {
		return nil, diagnostics.NewError(diagnostics.ErrT003, token.Token{}, "type name must not be empty")
	}
	if err := r.checkFree(name); err != nil {
		return nil, err
	}
	t, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return nil, duplicate(name)
	}
	r.types[name] = t
	r.order = append(r.order, name)
	return t, nil
}

func (r *Registry) checkFree(name string) error {
	if IsBuiltinName(name) {
		return diagnostics.NewError(diagnostics.ErrT001, token.Token{}, "type '%s' is a builtin and cannot be redefined", name)
	}
	r.mu.RLock()
	_, exists := r.types[name]
	r.mu.RUnlock()
	if exists {
		return duplicate(name)
	}
	return nil
}

func duplicate(name string) error {
	return diagnostics.NewError(diagnostics.ErrT001, token.Token{}, "type '%s' is already defined", name)
}

// Lookup returns a named type without resolving anything else.
func (r *Registry) Lookup(name string) (Type, bool) {
	if t, ok := builtins[name]; ok {
		return t, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names lists user-defined names in definition order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve turns a reference into a Type.
func (r *Registry) Resolve(ref TypeRef) (Type, error) {
	switch ref := ref.(type) {
	case Resolved:
		if ref.Type == nil {
			return nil, unresolvable("Resolved(nil)")
		}
		return ref.Type, nil

	case Named:
		t, ok := r.Lookup(string(ref))
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrT002, token.Token{}, "unknown type '%s'", string(ref))
		}
		return t, nil

	case Inline:
		fields := make([]Field, 0, len(ref))
		seen := make(map[string]bool, len(ref))
		for _, spec := range ref {
			if spec.Name == "" {
				return nil, unresolvable("field with empty name")
			}
			if seen[spec.Name] {
				return nil, unresolvable(fmt.Sprintf("record with duplicate field '%s'", spec.Name))
			}
			seen[spec.Name] = true
			ft, err := r.Resolve(spec.Ref)
			if err != nil {
				return nil, inField(spec.Name, err)
			}
			fields = append(fields, Field{Name: spec.Name, Type: ft, Optional: spec.Optional})
		}
		return TRecord{Fields: fields}, nil

	case ListOf:
		elem, err := r.Resolve(ref.Elem)
		if err != nil {
			return nil, err
		}
		return TList{Elem: elem}, nil

	case nil:
		return nil, unresolvable("nil")
	}
	return nil, unresolvable(fmt.Sprintf("%T", ref))
}

func unresolvable(shape string) error {
	return diagnostics.NewError(diagnostics.ErrT003, token.Token{}, "cannot resolve type reference of shape %s", shape)
}

// inField prefixes the error message with the field name, keeping the code.
func inField(name string, err error) error {
	if d, ok := err.(*diagnostics.DiagnosticError); ok {
		out := *d
		out.Message = fmt.Sprintf("field '%s': %s", name, d.Message)
		return &out
	}
	return fmt.Errorf("field '%s': %w", name, err)
}

package resolved

import (
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/token"
)

// BindInputs checks bindings against the inferred input types and returns
// the values in input slot order. Both backends call it before running, so
// they reject the same bindings the same way. Extra bindings are ignored.
func (t *Tree) BindInputs(bindings map[string]object.Object) ([]object.Object, error) {
	values := make([]object.Object, len(t.Inputs))
	for i, in := range t.Inputs {
		v, ok := bindings[in.Name]
		if !ok || v == nil {
			return nil, diagnostics.NewError(diagnostics.ErrR001, in.Token,
				"missing input '%s' of type %s", in.Name, in.Type)
		}
		if !object.Conforms(v, in.Type) {
			return nil, diagnostics.NewError(diagnostics.ErrA002, in.Token,
				"input '%s' expects %s, got %s", in.Name, in.Type, v.RuntimeType())
		}
		values[i] = v
	}
	return values, nil
}

// ReadField reads a field of a record value. An absent field reads as nil;
// anything but a record is a runtime error.
func ReadField(v object.Object, name string, tok token.Token) (object.Object, error) {
	rec, ok := v.(*object.Record)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrR003, tok, "cannot read field '%s' of %s", name, v.Inspect())
	}
	if f, ok := rec.Get(name); ok {
		return f, nil
	}
	return object.NIL, nil
}

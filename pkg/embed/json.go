package corvus

import (
	"fmt"
	"time"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
	"github.com/tidwall/gjson"
)

// BindingsFromJSON reads input bindings from a JSON object, converting each
// member by the type inferred for that input. Members that are not inputs
// are ignored; inputs absent from the document are left for the call to
// report as missing.
func BindingsFromJSON(doc string, inputTypes map[string]typesystem.Type) (map[string]interface{}, error) {
	if !gjson.Valid(doc) {
		return nil, diagnostics.NewError(diagnostics.ErrA002, token.Token{}, "bindings are not valid JSON")
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return nil, diagnostics.NewError(diagnostics.ErrA002, token.Token{}, "bindings must be a JSON object, got %s", root.Type)
	}

	out := make(map[string]interface{}, len(inputTypes))
	var failure error
	root.ForEach(func(key, value gjson.Result) bool {
		t, ok := inputTypes[key.String()]
		if !ok {
			return true
		}
		v, err := fromJSON(value, t)
		if err != nil {
			failure = diagnostics.NewError(diagnostics.ErrA002, token.Token{}, "input '%s' %v", key.String(), err)
			return false
		}
		out[key.String()] = v
		return true
	})
	if failure != nil {
		return nil, failure
	}
	return out, nil
}

func fromJSON(r gjson.Result, t typesystem.Type) (interface{}, error) {
	if r.Type == gjson.Null {
		return nil, nil
	}
	if typesystem.IsAny(t) {
		return anyFromJSON(r), nil
	}

	switch t := t.(type) {
	case typesystem.TCon:
		switch t.Name {
		case typesystem.Number.Name:
			if r.Type == gjson.Number {
				return r.Float(), nil
			}
		case typesystem.String.Name:
			if r.Type == gjson.String {
				return r.String(), nil
			}
		case typesystem.Bool.Name:
			if r.IsBool() {
				return r.Bool(), nil
			}
		case typesystem.Time.Name:
			if r.Type == gjson.String {
				ts, err := time.Parse(time.RFC3339, r.String())
				if err != nil {
					return nil, fmt.Errorf("expects an RFC 3339 time, got %q", r.String())
				}
				return ts, nil
			}
		}
	case typesystem.TList:
		if r.IsArray() {
			elems := r.Array()
			out := make([]interface{}, len(elems))
			for i, e := range elems {
				v, err := fromJSON(e, t.Elem)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				out[i] = v
			}
			return out, nil
		}
	case typesystem.TRecord:
		if r.IsObject() {
			return recordFromJSON(r, t)
		}
	case typesystem.TBlock:
		return nil, fmt.Errorf("expects %s, which JSON cannot express", t)
	}
	return nil, fmt.Errorf("expects %s, got JSON %s", t, r.Type)
}

func recordFromJSON(r gjson.Result, t typesystem.TRecord) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	var failure error
	r.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		ft := typesystem.Type(typesystem.Any)
		if f, ok := t.Field(name); ok {
			ft = f.Type
		}
		v, err := fromJSON(value, ft)
		if err != nil {
			failure = fmt.Errorf("field '%s': %w", name, err)
			return false
		}
		out[name] = v
		return true
	})
	return out, failure
}

// anyFromJSON keeps numbers as float64 and objects as maps, which is what
// the Marshaller expects.
func anyFromJSON(r gjson.Result) interface{} {
	switch {
	case r.IsArray():
		elems := r.Array()
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			out[i] = anyFromJSON(e)
		}
		return out
	case r.IsObject():
		out := make(map[string]interface{})
		r.ForEach(func(key, value gjson.Result) bool {
			out[key.String()] = anyFromJSON(value)
			return true
		})
		return out
	}
	return r.Value()
}

package typesystem

// Equal reports structural equality. Any only equals Any.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case TCon:
		y, ok := b.(TCon)
		return ok && x.Name == y.Name
	case TList:
		y, ok := b.(TList)
		return ok && Equal(x.Elem, y.Elem)
	case TRecord:
		y, ok := b.(TRecord)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for _, f := range x.Fields {
			g, ok := y.Field(f.Name)
			if !ok || f.Optional != g.Optional || !Equal(f.Type, g.Type) {
				return false
			}
		}
		return true
	case TBlock:
		y, ok := b.(TBlock)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equal(x.Result, y.Result)
	}
	return false
}

// Compatible reports whether a value of type actual may be passed where
// formal is expected. Any matches everything in both directions, at any
// depth; otherwise the shapes must agree structurally.
func Compatible(formal, actual Type) bool {
	_, ok := Unify(formal, actual)
	return ok
}

// Unify merges two compatible types into the most specific one, replacing
// Any with the concrete side wherever they differ.
func Unify(a, b Type) (Type, bool) {
	if IsAny(a) {
		if b == nil {
			return Any, true
		}
		return b, true
	}
	if IsAny(b) {
		return a, true
	}
	switch x := a.(type) {
	case TCon:
		y, ok := b.(TCon)
		if !ok || x.Name != y.Name {
			return nil, false
		}
		return x, true
	case TList:
		y, ok := b.(TList)
		if !ok {
			return nil, false
		}
		elem, ok := Unify(x.Elem, y.Elem)
		if !ok {
			return nil, false
		}
		return TList{Elem: elem}, true
	case TRecord:
		y, ok := b.(TRecord)
		if !ok || len(x.Fields) != len(y.Fields) {
			return nil, false
		}
		fields := make([]Field, len(x.Fields))
		for i, f := range x.Fields {
			g, ok := y.Field(f.Name)
			if !ok || f.Optional != g.Optional {
				return nil, false
			}
			ft, ok := Unify(f.Type, g.Type)
			if !ok {
				return nil, false
			}
			fields[i] = Field{Name: f.Name, Type: ft, Optional: f.Optional}
		}
		return TRecord{Fields: fields}, true
	case TBlock:
		y, ok := b.(TBlock)
		if !ok || len(x.Params) != len(y.Params) {
			return nil, false
		}
		params := make([]Type, len(x.Params))
		for i := range x.Params {
			p, ok := Unify(x.Params[i], y.Params[i])
			if !ok {
				return nil, false
			}
			params[i] = p
		}
		res, ok := Unify(x.Result, y.Result)
		if !ok {
			return nil, false
		}
		return TBlock{Params: params, Result: res}, true
	}
	return nil, false
}

// Join returns the common type of two branches: their unification when
// compatible, Any otherwise.
func Join(a, b Type) Type {
	if t, ok := Unify(a, b); ok {
		return t
	}
	return Any
}

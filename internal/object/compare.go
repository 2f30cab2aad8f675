package object

import "github.com/funvibe/corvus/internal/typesystem"

// Equal is deep value equality. Blocks are equal only to themselves.
func Equal(a, b Object) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Time:
		y, ok := b.(*Time)
		return ok && x.Value.Equal(y.Value)
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Record:
		y, ok := b.(*Record)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for k, v := range x.Fields {
			w, ok := y.Fields[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Conforms reports whether obj is a valid value of type t. Records may
// carry extra fields; an optional field may be absent or nil.
func Conforms(obj Object, t typesystem.Type) bool {
	if typesystem.IsAny(t) {
		return obj != nil
	}
	switch t := t.(type) {
	case typesystem.TCon:
		switch t.Name {
		case typesystem.Bool.Name:
			_, ok := obj.(*Boolean)
			return ok
		case typesystem.Number.Name:
			_, ok := obj.(*Number)
			return ok
		case typesystem.String.Name:
			_, ok := obj.(*String)
			return ok
		case typesystem.Time.Name:
			_, ok := obj.(*Time)
			return ok
		}
	case typesystem.TList:
		l, ok := obj.(*List)
		if !ok {
			return false
		}
		for _, e := range l.Elements {
			if !Conforms(e, t.Elem) {
				return false
			}
		}
		return true
	case typesystem.TRecord:
		r, ok := obj.(*Record)
		if !ok {
			return false
		}
		for _, f := range t.Fields {
			v, present := r.Fields[f.Name]
			if _, isNil := v.(*Nil); !present || isNil {
				if f.Optional {
					continue
				}
				return false
			}
			if !Conforms(v, f.Type) {
				return false
			}
		}
		return true
	case typesystem.TBlock:
		b, ok := obj.(Block)
		return ok && b.Arity() == len(t.Params)
	}
	return false
}

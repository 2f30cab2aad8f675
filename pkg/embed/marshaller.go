package corvus

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/funvibe/corvus/internal/object"
)

// Marshaller converts between Go values and script values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

var timeType = reflect.TypeOf(time.Time{})

// ToValue converts a Go value to a script value.
//
// Numbers of any Go kind become Number, strings String, bools Boolean,
// time.Time Time. Slices and arrays become List. Maps with string keys and
// structs become Record; map keys are sorted, struct fields keep their
// declaration order and may be renamed with a `corvus:"name"` tag. Pointers
// are followed; a nil pointer is nil. Values that already are script
// objects pass through.
func (m *Marshaller) ToValue(val interface{}) (object.Object, error) {
	if val == nil {
		return object.NIL, nil
	}
	if obj, ok := val.(object.Object); ok {
		return obj, nil
	}
	return m.toValue(reflect.ValueOf(val))
}

func (m *Marshaller) toValue(v reflect.Value) (object.Object, error) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return object.NIL, nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return object.NIL, nil
	}
	if v.CanInterface() {
		if obj, ok := v.Interface().(object.Object); ok {
			return obj, nil
		}
	}
	if v.Type() == timeType {
		return &object.Time{Value: v.Interface().(time.Time)}, nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &object.Number{Value: float64(v.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &object.Number{Value: float64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &object.Number{Value: v.Float()}, nil
	case reflect.Bool:
		return object.NativeBool(v.Bool()), nil
	case reflect.String:
		return &object.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		return m.sliceToList(v)
	case reflect.Map:
		return m.mapToRecord(v)
	case reflect.Struct:
		return m.structToRecord(v)
	default:
		return nil, fmt.Errorf("cannot convert Go %s to a corvus value", v.Type())
	}
}

func (m *Marshaller) sliceToList(v reflect.Value) (*object.List, error) {
	elements := make([]object.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.toValue(v.Index(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	return &object.List{Elements: elements}, nil
}

func (m *Marshaller) mapToRecord(v reflect.Value) (*object.Record, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("cannot convert Go %s to a record: keys must be strings", v.Type())
	}
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	rec := object.NewRecord()
	for _, k := range keys {
		val, err := m.toValue(v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())))
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", k, err)
		}
		rec.Set(k, val)
	}
	return rec, nil
}

func (m *Marshaller) structToRecord(v reflect.Value) (*object.Record, error) {
	rec := object.NewRecord()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // Skip unexported fields
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("corvus"); ok {
			tag = strings.Split(tag, ",")[0]
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		val, err := m.toValue(v.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", name, err)
		}
		rec.Set(name, val)
	}
	return rec, nil
}

// FromValue converts a script value to a Go value: Number to float64,
// String to string, Boolean to bool, Time to time.Time, List to []any,
// Record to map[string]any and nil to nil. Blocks are returned as
// object.Block so the host can call them.
func (m *Marshaller) FromValue(obj object.Object) (interface{}, error) {
	switch o := obj.(type) {
	case nil:
		return nil, nil
	case *object.Nil:
		return nil, nil
	case *object.Number:
		return o.Value, nil
	case *object.String:
		return o.Value, nil
	case *object.Boolean:
		return o.Value, nil
	case *object.Time:
		return o.Value, nil
	case *object.List:
		out := make([]interface{}, len(o.Elements))
		for i, e := range o.Elements {
			v, err := m.FromValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *object.Record:
		out := make(map[string]interface{}, len(o.Keys))
		for _, k := range o.Keys {
			v, err := m.FromValue(o.Fields[k])
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case object.Block:
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", o.Type())
	}
}

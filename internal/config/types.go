package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/corvus/internal/typesystem"
)

// TypeDecl is one named type from the types section.
type TypeDecl struct {
	Name string
	Ref  typesystem.TypeRef
	Line int
}

// TypeDecls converts the types section into references, in file order.
//
//	types:
//	  - name: Person
//	    fields: { name: string, nickname?: string, tags: [string] }
//	  - name: People
//	    type: [Person]
func (o Options) TypeDecls() ([]TypeDecl, error) {
	if o.Types.Kind == 0 {
		return nil, nil
	}
	var decls []TypeDecl
	for i, entry := range o.Types.Content {
		if entry.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: types[%d]: must be a mapping", o.path, i)
		}
		var (
			name string
			ref  typesystem.TypeRef
		)
		for j := 0; j+1 < len(entry.Content); j += 2 {
			key, val := entry.Content[j], entry.Content[j+1]
			var err error
			switch key.Value {
			case "name":
				name = val.Value
			case "fields":
				if val.Kind != yaml.MappingNode {
					return nil, fmt.Errorf("%s: types[%d].fields: must be a mapping (line %d)", o.path, i, val.Line)
				}
				ref, err = refFromNode(val)
			case "type":
				ref, err = refFromNode(val)
			default:
				return nil, fmt.Errorf("%s: types[%d]: unknown key %q (line %d)", o.path, i, key.Value, key.Line)
			}
			if err != nil {
				return nil, fmt.Errorf("%s: types[%d]: %w", o.path, i, err)
			}
		}
		if name == "" {
			return nil, fmt.Errorf("%s: types[%d]: name is required", o.path, i)
		}
		if ref == nil {
			return nil, fmt.Errorf("%s: types[%d]: one of fields or type is required", o.path, i)
		}
		decls = append(decls, TypeDecl{Name: name, Ref: ref, Line: entry.Line})
	}
	return decls, nil
}

// ApplyTypes defines every declared type in order.
func (o Options) ApplyTypes(reg *typesystem.Registry) error {
	decls, err := o.TypeDecls()
	if err != nil {
		return err
	}
	for _, d := range decls {
		if _, err := reg.Define(d.Name, d.Ref); err != nil {
			return fmt.Errorf("%s:%d: type %s: %w", o.path, d.Line, d.Name, err)
		}
	}
	return nil
}

func refFromNode(n *yaml.Node) (typesystem.TypeRef, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil, fmt.Errorf("line %d: empty type name", n.Line)
		}
		return typesystem.Named(n.Value), nil

	case yaml.SequenceNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("line %d: a list type has exactly one element type", n.Line)
		}
		elem, err := refFromNode(n.Content[0])
		if err != nil {
			return nil, err
		}
		return typesystem.ListOf{Elem: elem}, nil

	case yaml.MappingNode:
		var fields typesystem.Inline
		for j := 0; j+1 < len(n.Content); j += 2 {
			key, val := n.Content[j], n.Content[j+1]
			spec := typesystem.FieldSpec{Name: key.Value}
			if strings.HasSuffix(spec.Name, "?") {
				spec.Name = strings.TrimSuffix(spec.Name, "?")
				spec.Optional = true
			}
			inner, optional, ok, err := explicitPair(val)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", spec.Name, err)
			}
			if ok {
				ref, err := refFromNode(inner)
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", spec.Name, err)
				}
				spec.Ref = ref
				spec.Optional = spec.Optional || optional
			} else {
				ref, err := refFromNode(val)
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", spec.Name, err)
				}
				spec.Ref = ref
			}
			fields = append(fields, spec)
		}
		return fields, nil
	}
	return nil, fmt.Errorf("line %d: unsupported type shape", n.Line)
}

// explicitPair recognizes {type: T} and {type: T, optional: bool}. A
// mapping with any other key is an inline record.
func explicitPair(n *yaml.Node) (*yaml.Node, bool, bool, error) {
	if n.Kind != yaml.MappingNode || (len(n.Content) != 2 && len(n.Content) != 4) {
		return nil, false, false, nil
	}
	var typ, opt *yaml.Node
	for j := 0; j+1 < len(n.Content); j += 2 {
		switch n.Content[j].Value {
		case "type":
			typ = n.Content[j+1]
		case "optional":
			opt = n.Content[j+1]
		default:
			return nil, false, false, nil
		}
	}
	if typ == nil {
		return nil, false, false, nil
	}
	var optional bool
	if opt != nil {
		if err := opt.Decode(&optional); err != nil {
			return nil, false, false, fmt.Errorf("line %d: optional must be true or false", opt.Line)
		}
	}
	return typ, optional, true, nil
}

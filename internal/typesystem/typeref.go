package typesystem

// TypeRef is a reference to a type, resolved by a Registry. It is one of
// Named, Inline, ListOf or Resolved.
type TypeRef interface {
	typeRef()
}

// Named refers to a builtin or registered type by name.
type Named string

// Inline is a structural record literal.
type Inline []FieldSpec

// FieldSpec is one Inline member. A bare reference is a FieldSpec with
// Optional false.
type FieldSpec struct {
	Name     string
	Ref      TypeRef
	Optional bool
}

// ListOf declares a list of Elem.
type ListOf struct {
	Elem TypeRef
}

// Resolved wraps an already resolved Type.
type Resolved struct {
	Type Type
}

func (Named) typeRef()    {}
func (Inline) typeRef()   {}
func (ListOf) typeRef()   {}
func (Resolved) typeRef() {}

// Ref wraps t as a TypeRef.
func Ref(t Type) TypeRef { return Resolved{Type: t} }

// Of builds a ListOf reference.
func Of(elem TypeRef) TypeRef { return ListOf{Elem: elem} }

// F builds a required field spec.
func F(name string, ref TypeRef) FieldSpec { return FieldSpec{Name: name, Ref: ref} }

// Opt builds an optional field spec.
func Opt(name string, ref TypeRef) FieldSpec { return FieldSpec{Name: name, Ref: ref, Optional: true} }

package namespace

import (
	"context"
	"strings"

	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/typesystem"
)

// Arg is one formal argument of a signature. Its name is the keyword used
// at call sites.
type Arg struct {
	Name     string
	Type     typesystem.Type
	Optional bool
	Variadic bool
}

// Callback is host logic invoked for a call.
type Callback func(ctx context.Context, args Args) (object.Object, error)

// Typer computes argument-dependent types for generic builtins. The
// analyzer consults it when present.
type Typer interface {
	// BlockParams returns the parameter types of the block passed as arg,
	// given the types of arguments already analyzed. Nil means use the
	// formal block type.
	BlockParams(arg string, known map[string]typesystem.Type) []typesystem.Type
	// ReturnType computes the result type from all argument types. Nil
	// means use the declared return type.
	ReturnType(args map[string]typesystem.Type) typesystem.Type
}

// Signature is an immutable registered function.
type Signature struct {
	Args     []Arg
	Return   typesystem.Type
	Total    bool
	Callback Callback
	Typer    Typer
	key      string
}

// NewSignature validates and freezes the parts of a function.
func NewSignature(args []Arg, ret typesystem.Type, total bool, cb Callback) (*Signature, error) {
	if len(args) == 0 {
		return nil, emptySignature("a function needs at least one argument")
	}
	seen := make(map[string]bool, len(args))
	own := make([]Arg, len(args))
	for i, a := range args {
		if a.Name == "" {
			return nil, emptySignature("argument %d has no name", i+1)
		}
		if seen[a.Name] {
			return nil, emptySignature("argument '%s' appears twice", a.Name)
		}
		seen[a.Name] = true
		if a.Type == nil {
			a.Type = typesystem.Any
		}
		own[i] = a
	}
	if ret == nil {
		ret = typesystem.Any
	}
	return &Signature{Args: own, Return: ret, Total: total, Callback: cb, key: KeyOf(argNames(own))}, nil
}

func argNames(args []Arg) []string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return names
}

// KeyOf builds the registry key of a keyword sequence, e.g. "calc:plus:".
func KeyOf(keywords []string) string {
	var sb strings.Builder
	for _, k := range keywords {
		sb.WriteString(k)
		sb.WriteByte(':')
	}
	return sb.String()
}

// Key is the ordered keyword sequence of all arguments.
func (s *Signature) Key() string { return s.key }

// Name is the display name used in diagnostics.
func (s *Signature) Name() string { return s.key }

// Arg returns the formal argument by name.
func (s *Signature) Arg(name string) (Arg, bool) {
	for _, a := range s.Args {
		if a.Name == name {
			return a, true
		}
	}
	return Arg{}, false
}

// Match maps each call-site keyword to the index of the argument it fills.
// Optional arguments may be skipped, variadic ones may repeat.
func (s *Signature) Match(keywords []string) ([]int, bool) {
	out := make([]int, 0, len(keywords))
	k := 0
	for i, a := range s.Args {
		n := 0
		for k < len(keywords) && keywords[k] == a.Name && (n == 0 || a.Variadic) {
			out = append(out, i)
			k++
			n++
		}
		if n == 0 && !a.Optional {
			return nil, false
		}
	}
	if k != len(keywords) {
		return nil, false
	}
	return out, true
}

func (s *Signature) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		p := a.Name + ": " + a.Type.String()
		if a.Optional {
			p = "[" + p + "]"
		}
		if a.Variadic {
			p += "..."
		}
		parts[i] = p
	}
	return strings.Join(parts, " ") + " -> " + s.Return.String()
}

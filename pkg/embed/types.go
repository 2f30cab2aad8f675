package corvus

import (
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/namespace"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/typesystem"
)

// Aliases so hosts outside this module can name the types of the public
// surface.
type (
	Type      = typesystem.Type
	TypeRef   = typesystem.TypeRef
	Named     = typesystem.Named
	Inline    = typesystem.Inline
	ListOf    = typesystem.ListOf
	FieldSpec = typesystem.FieldSpec

	Object   = object.Object
	Block    = object.Block
	Args     = namespace.Args
	Callback = namespace.Callback
	Typer    = namespace.Typer

	Diagnostic = diagnostics.DiagnosticError
)

// Builtin types.
var (
	Any    = typesystem.Any
	Bool   = typesystem.Bool
	Number = typesystem.Number
	String = typesystem.String
	Time   = typesystem.Time
)

// Ref wraps an already resolved type.
func Ref(t Type) TypeRef { return typesystem.Ref(t) }

// Of is ListOf(elem).
func Of(elem TypeRef) TypeRef { return typesystem.Of(elem) }

// F is a required record field.
func F(name string, ref TypeRef) FieldSpec { return typesystem.F(name, ref) }

// Opt is an optional record field.
func Opt(name string, ref TypeRef) FieldSpec { return typesystem.Opt(name, ref) }

// Failure kinds, for errors.Is.
var (
	ErrDuplicateTypeName         = diagnostics.ErrDuplicateTypeName
	ErrUnknownTypeName           = diagnostics.ErrUnknownTypeName
	ErrUnresolvableTypeReference = diagnostics.ErrUnresolvableTypeReference
	ErrEmptySignature            = diagnostics.ErrEmptySignature
	ErrSyntax                    = diagnostics.ErrSyntax
	ErrNoMatchingFunction        = diagnostics.ErrNoMatchingFunction
	ErrTypeMismatch              = diagnostics.ErrTypeMismatch
	ErrConflictingInputType      = diagnostics.ErrConflictingInputType
	ErrDuplicateFunction         = diagnostics.ErrDuplicateFunction
	ErrMissingInput              = diagnostics.ErrMissingInput
	ErrCallbackFailure           = diagnostics.ErrCallbackFailure
	ErrRuntime                   = diagnostics.ErrRuntime
	ErrConfig                    = diagnostics.ErrConfig
)

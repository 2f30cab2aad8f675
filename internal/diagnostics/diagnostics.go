package diagnostics

import (
	"errors"
	"fmt"

	"github.com/funvibe/corvus/internal/token"
)

// ErrorCode identifies a failure kind. Codes are themselves errors, so
// errors.Is(err, diagnostics.ErrTypeMismatch) matches any DiagnosticError
// carrying that code.
type ErrorCode string

const (
	// Type registry
	ErrT001 ErrorCode = "T001"
	ErrT002 ErrorCode = "T002"
	ErrT003 ErrorCode = "T003"

	// Signatures
	ErrS001 ErrorCode = "S001"

	// Parser
	ErrP001 ErrorCode = "P001"

	// Analyzer
	ErrA001 ErrorCode = "A001"
	ErrA002 ErrorCode = "A002"
	ErrA003 ErrorCode = "A003"
	ErrA004 ErrorCode = "A004"

	// Runtime
	ErrR001 ErrorCode = "R001"
	ErrR002 ErrorCode = "R002"
	ErrR003 ErrorCode = "R003"

	// Configuration
	ErrC001 ErrorCode = "C001"
)

var (
	ErrDuplicateTypeName         = ErrT001
	ErrUnknownTypeName           = ErrT002
	ErrUnresolvableTypeReference = ErrT003
	ErrEmptySignature            = ErrS001
	ErrSyntax                    = ErrP001
	ErrNoMatchingFunction        = ErrA001
	ErrTypeMismatch              = ErrA002
	ErrConflictingInputType      = ErrA003
	ErrDuplicateFunction         = ErrA004
	ErrMissingInput              = ErrR001
	ErrCallbackFailure           = ErrR002
	ErrRuntime                   = ErrR003
	ErrConfig                    = ErrC001
)

var names = map[ErrorCode]string{
	ErrT001: "DuplicateTypeName",
	ErrT002: "UnknownTypeName",
	ErrT003: "UnresolvableTypeReference",
	ErrS001: "EmptySignature",
	ErrP001: "SyntaxError",
	ErrA001: "NoMatchingFunction",
	ErrA002: "TypeMismatch",
	ErrA003: "ConflictingInputType",
	ErrA004: "DuplicateFunction",
	ErrR001: "MissingInput",
	ErrR002: "CallbackFailure",
	ErrR003: "RuntimeError",
	ErrC001: "ConfigError",
}

// Name returns the human name of the code, e.g. "TypeMismatch".
func (c ErrorCode) Name() string {
	if n, ok := names[c]; ok {
		return n
	}
	return string(c)
}

func (c ErrorCode) Error() string {
	return c.Name()
}

// DiagnosticError is the single error type produced by every layer.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	// Err is the underlying cause, e.g. the host error of a CallbackFailure.
	Err error
}

func (e *DiagnosticError) Error() string {
	loc := ""
	if e.File != "" {
		loc = e.File + ":"
	}
	if e.Token.Line > 0 {
		loc += fmt.Sprintf("%d:%d: ", e.Token.Line, e.Token.Column)
	} else if loc != "" {
		loc += " "
	}
	return fmt.Sprintf("%s%s [%s]: %s", loc, e.Code.Name(), e.Code, e.Message)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// Is matches against an ErrorCode sentinel.
func (e *DiagnosticError) Is(target error) bool {
	if code, ok := target.(ErrorCode); ok {
		return code == e.Code
	}
	return false
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// Wrap creates a diagnostic that keeps cause reachable through errors.Unwrap.
func Wrap(code ErrorCode, tok token.Token, cause error, format string, args ...interface{}) *DiagnosticError {
	d := NewError(code, tok, format, args...)
	d.Err = cause
	return d
}

// WithFile sets the file on every error that has none.
func WithFile(errs []*DiagnosticError, file string) []*DiagnosticError {
	for _, e := range errs {
		if e.File == "" {
			e.File = file
		}
	}
	return errs
}

// Errors is a list of diagnostics returned as a single error.
type Errors []*DiagnosticError

func (es Errors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	s := fmt.Sprintf("%d errors:", len(es))
	for _, e := range es {
		s += "\n  " + e.Error()
	}
	return s
}

// Unwrap exposes each diagnostic to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// First returns the earliest diagnostic, or nil.
func (es Errors) First() *DiagnosticError {
	if len(es) == 0 {
		return nil
	}
	return es[0]
}

// From returns err as a DiagnosticError, wrapping foreign errors as
// runtime errors.
func From(err error) *DiagnosticError {
	var diag *DiagnosticError
	if errors.As(err, &diag) {
		return diag
	}
	return Wrap(ErrR003, token.Token{}, err, "%v", err)
}

package corvus

import (
	"context"

	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/evaluator"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/resolved"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
	"github.com/funvibe/corvus/internal/vm"
	"github.com/google/uuid"
)

// Mode selects the execution path of a call.
type Mode int

const (
	// Compiled runs the bytecode on a fresh VM.
	Compiled Mode = iota
	// Interpreted walks the resolved tree.
	Interpreted
)

func (m Mode) String() string {
	if m == Interpreted {
		return "interpreted"
	}
	return "compiled"
}

// Script is the result of one compilation. It is never modified after
// Compile returns and may be called from several goroutines at once. A
// block value returned by a call belongs to that call on either path and
// must not be called from several goroutines at once.
type Script struct {
	id         uuid.UUID
	source     string
	file       string
	tree       *resolved.Tree
	program    *vm.Program
	marshaller *Marshaller
}

// ID identifies this compilation.
func (s *Script) ID() uuid.UUID { return s.id }

func (s *Script) Source() string { return s.source }

// File is the path given to CompileFile, or empty.
func (s *Script) File() string { return s.file }

// InputTypes maps each free variable to the type inferred for it.
func (s *Script) InputTypes() map[string]typesystem.Type { return s.tree.InputTypes() }

// Inputs lists the free variables in order of first use.
func (s *Script) Inputs() []string {
	names := make([]string, len(s.tree.Inputs))
	for i, in := range s.tree.Inputs {
		names[i] = in.Name
	}
	return names
}

func (s *Script) ReturnType() typesystem.Type { return s.tree.Return }

// Disassemble lists the bytecode of the compiled path.
func (s *Script) Disassemble() string { return vm.Disassemble(s.program.Main) }

// Call runs the compiled path with Go bindings.
func (s *Script) Call(bindings map[string]interface{}) (interface{}, error) {
	return s.CallContext(context.Background(), bindings)
}

// CallInterpreted runs the interpreted path with Go bindings.
func (s *Script) CallInterpreted(bindings map[string]interface{}) (interface{}, error) {
	return s.CallInterpretedContext(context.Background(), bindings)
}

func (s *Script) CallContext(ctx context.Context, bindings map[string]interface{}) (interface{}, error) {
	return s.call(ctx, bindings, Compiled)
}

func (s *Script) CallInterpretedContext(ctx context.Context, bindings map[string]interface{}) (interface{}, error) {
	return s.call(ctx, bindings, Interpreted)
}

func (s *Script) call(ctx context.Context, bindings map[string]interface{}, mode Mode) (interface{}, error) {
	objs := make(map[string]object.Object, len(s.tree.Inputs))
	for name, v := range bindings {
		if _, ok := s.tree.InputIndex(name); !ok {
			continue
		}
		obj, err := s.marshaller.ToValue(v)
		if err != nil {
			return nil, s.withFile(diagnostics.Wrap(diagnostics.ErrA002, s.inputToken(name), err,
				"input '%s': %v", name, err))
		}
		objs[name] = obj
	}
	result, err := s.Run(ctx, objs, mode)
	if err != nil {
		return nil, err
	}
	return s.marshaller.FromValue(result)
}

// Run executes the script with bindings that already are script values.
func (s *Script) Run(ctx context.Context, bindings map[string]object.Object, mode Mode) (object.Object, error) {
	var (
		result object.Object
		err    error
	)
	switch mode {
	case Interpreted:
		result, err = evaluator.Evaluate(ctx, s.tree, bindings)
	default:
		result, err = vm.Run(ctx, s.program, bindings)
	}
	if err != nil {
		return nil, s.withFile(diagnostics.From(err))
	}
	return result, nil
}

func (s *Script) inputToken(name string) token.Token {
	if i, ok := s.tree.InputIndex(name); ok {
		return s.tree.Inputs[i].Token
	}
	return token.Token{}
}

func (s *Script) withFile(d *diagnostics.DiagnosticError) *diagnostics.DiagnosticError {
	if d.File != "" || s.file == "" {
		return d
	}
	c := *d
	c.File = s.file
	return &c
}

package namespace

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/funvibe/corvus/internal/config"
	"github.com/funvibe/corvus/internal/diagnostics"
	"github.com/funvibe/corvus/internal/object"
	"github.com/funvibe/corvus/internal/token"
	"github.com/funvibe/corvus/internal/typesystem"
)

// Namespace maps keyword sequences to signatures. The root namespace
// returned by New already holds the prelude.
type Namespace struct {
	mu     sync.RWMutex
	types  *typesystem.Registry
	policy config.RedefinitionPolicy
	sigs   map[string]*Signature
	order  []*Signature
}

// New builds a root namespace over types, with the prelude registered.
func New(types *typesystem.Registry, opts config.Options) *Namespace {
	ns := Empty(types, opts.Namespace.Redefinition)
	registerPrelude(ns, opts.Runtime)
	return ns
}

// Empty builds a namespace without builtins.
func Empty(types *typesystem.Registry, policy config.RedefinitionPolicy) *Namespace {
	if policy == "" {
		policy = config.RedefinitionOverride
	}
	return &Namespace{
		types:  types,
		policy: policy,
		sigs:   make(map[string]*Signature),
	}
}

func (ns *Namespace) Types() *typesystem.Registry { return ns.types }

// Define registers one function.
func (ns *Namespace) Define(args []Arg, ret typesystem.Type, total bool, cb Callback) error {
	sig, err := NewSignature(args, ret, total, cb)
	if err != nil {
		return err
	}
	return ns.Register(sig)
}

// Register adds a finished signature, honoring the redefinition policy.
// An overriding definition keeps the lookup position of the one it replaces.
func (ns *Namespace) Register(sig *Signature) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if old, exists := ns.sigs[sig.key]; exists {
		if ns.policy == config.RedefinitionReject {
			return diagnostics.NewError(diagnostics.ErrA004, token.Token{}, "function '%s' is already defined", sig.key)
		}
		for i, s := range ns.order {
			if s == old {
				ns.order[i] = sig
			}
		}
		ns.sigs[sig.key] = sig
		return nil
	}
	ns.sigs[sig.key] = sig
	ns.order = append(ns.order, sig)
	return nil
}

// Lookup finds a signature by exact key.
func (ns *Namespace) Lookup(key string) (*Signature, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	s, ok := ns.sigs[key]
	return s, ok
}

// Signatures lists registered functions in definition order.
func (ns *Namespace) Signatures() []*Signature {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make([]*Signature, len(ns.order))
	copy(out, ns.order)
	return out
}

// Resolve finds the signature accepting the keyword sequence and returns it
// with the argument slot of each keyword.
func (ns *Namespace) Resolve(keywords []string) (*Signature, []int, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	if sig, ok := ns.sigs[KeyOf(keywords)]; ok {
		if slots, ok := sig.Match(keywords); ok {
			return sig, slots, nil
		}
	}
	for _, sig := range ns.order {
		if slots, ok := sig.Match(keywords); ok {
			return sig, slots, nil
		}
	}
	return nil, nil, diagnostics.NewError(diagnostics.ErrA001, token.Token{}, "no function matches '%s'", KeyOf(keywords))
}

// Dispatch invokes the callback of sig. Host failures become CallbackFailure
// wrapping the original error; diagnostics raised deeper (for instance by a
// block called from the callback) pass through unchanged.
func (ns *Namespace) Dispatch(ctx context.Context, sig *Signature, args Args, site token.Token) (object.Object, error) {
	return Dispatch(ctx, sig, args, site)
}

// Dispatch is Namespace.Dispatch without a receiver; backends hold
// signatures directly.
func Dispatch(ctx context.Context, sig *Signature, args Args, site token.Token) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, diagnostics.Wrap(diagnostics.ErrR003, site, err, "%s: %v", sig.Name(), err)
	}
	if sig.Callback == nil {
		return nil, diagnostics.NewError(diagnostics.ErrR002, site, "%s: function has no callback", sig.Name())
	}

	result, err := sig.Callback(ctx, args)
	if err != nil {
		var diag *diagnostics.DiagnosticError
		var prim *primitiveError
		switch {
		case errors.As(err, &diag):
			return nil, err
		case errors.As(err, &prim):
			return nil, diagnostics.NewError(diagnostics.ErrR003, site, "%s: %s", sig.Name(), prim.msg)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, diagnostics.Wrap(diagnostics.ErrR003, site, err, "%s: %v", sig.Name(), err)
		}
		return nil, diagnostics.Wrap(diagnostics.ErrR002, site, err, "%s failed: %v", sig.Name(), err)
	}

	if result == nil {
		if sig.Total {
			return nil, diagnostics.NewError(diagnostics.ErrR003, site, "%s: total function returned no value", sig.Name())
		}
		return object.NIL, nil
	}
	if _, isNil := result.(*object.Nil); !isNil && !object.Conforms(result, sig.Return) {
		return nil, diagnostics.NewError(diagnostics.ErrR003, site, "%s: returned %s, declared %s",
			sig.Name(), result.RuntimeType(), sig.Return)
	}
	return result, nil
}

func emptySignature(format string, args ...interface{}) error {
	return diagnostics.NewError(diagnostics.ErrS001, token.Token{}, format, args...)
}

// Describe renders every signature, one per line.
func (ns *Namespace) Describe() string {
	var sb strings.Builder
	for _, s := range ns.Signatures() {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

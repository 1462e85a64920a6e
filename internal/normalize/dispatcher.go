package normalize

import (
	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/ir"
)

// Resolver resolves a child node back through the dispatcher.
// Handlers receive one explicitly; it is the only way they recurse.
type Resolver interface {
	Resolve(n ast.Node) (ir.Value, error)
}

// Handler transforms exactly one node kind into IR.
type Handler func(r Resolver, n ast.Node) (ir.Value, error)

// Dispatcher maps node kinds to handlers and drives the recursive descent.
//
// Thread-safety: a Dispatcher is immutable after New and holds no per-call
// state, so one instance may be shared by any number of goroutines.
type Dispatcher struct {
	handlers map[ast.Kind]Handler
	maxDepth int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxDepth bounds the nesting depth of a single parse. The root node is
// depth 1. Zero (the default) means unbounded.
func WithMaxDepth(n int) Option {
	return func(d *Dispatcher) {
		if n < 0 {
			n = 0
		}
		d.maxDepth = n
	}
}

// New creates a Dispatcher wired with the handler for every supported kind.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: map[ast.Kind]Handler{
			ast.KindIdentifier:       resolveIdentifier,
			ast.KindStringLiteral:    resolveString,
			ast.KindNumericLiteral:   resolveNumber,
			ast.KindBooleanLiteral:   resolveBool,
			ast.KindArrayExpression:  resolveArray,
			ast.KindObjectExpression: resolveObject,
			ast.KindMemberExpression: resolveMember,
			ast.KindCallExpression:   resolveCall,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxDepth returns the configured depth bound (0 = unbounded).
func (d *Dispatcher) MaxDepth() int {
	return d.maxDepth
}

// Resolve converts an AST into IR. It fails with an *Error on the first
// violation and never returns a partial tree.
func (d *Dispatcher) Resolve(n ast.Node) (ir.Value, error) {
	if d == nil || d.handlers == nil {
		e := newError(ErrMissingDispatcherWiring, kindOf(n), "dispatcher has no handler table; construct it with normalize.New")
		e.Location = "$"
		return nil, e
	}
	v, err := pass{d: d}.Resolve(n)
	if err != nil {
		return nil, at(err, "$")
	}
	return v, nil
}

// ResolveCall is Resolve for hosts that only accept a call expression at the
// top level.
func (d *Dispatcher) ResolveCall(n ast.Node) (*ir.Call, error) {
	if _, ok := n.(*ast.CallExpression); !ok {
		e := newError(ErrUnsupportedRootKind, kindOf(n), "expected CallExpression at the root, got %s", describeKind(kindOf(n)))
		e.Location = "$"
		return nil, e
	}
	v, err := d.Resolve(n)
	if err != nil {
		return nil, err
	}
	return v.(*ir.Call), nil
}

// pass carries the current depth of one parse. It is a value type: each
// level gets its own copy, so nothing is shared between siblings or calls.
type pass struct {
	d     *Dispatcher
	depth int
}

func (p pass) Resolve(n ast.Node) (ir.Value, error) {
	if n == nil {
		return nil, newError(ErrUnsupportedNodeKind, "", "missing node")
	}
	if p.d.maxDepth > 0 && p.depth >= p.d.maxDepth {
		return nil, newError(ErrDepthExceeded, n.Kind(), "nesting exceeds max depth %d", p.d.maxDepth)
	}
	h, ok := p.d.handlers[n.Kind()]
	if !ok {
		return nil, newError(ErrUnsupportedNodeKind, n.Kind(), "unsupported node kind %s", describeKind(n.Kind()))
	}
	return h(pass{d: p.d, depth: p.depth + 1}, n)
}

func describeKind(k ast.Kind) string {
	if k == "" {
		return "<nil>"
	}
	return string(k)
}

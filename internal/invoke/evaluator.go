package invoke

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/callir/internal/ir"
)

// Evaluator walks an IR tree and invokes every call against a Registry,
// depth-first with arguments evaluated before their call.
//
// An Evaluator holds no per-evaluation state apart from its Clock, which is
// atomic, so it may be shared between goroutines.
type Evaluator struct {
	registry Registry
	clock    *Clock
	maxCalls int
	bindings map[string]any
	logger   *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock stamps invocations from c instead of a private clock.
func WithClock(c *Clock) Option {
	return func(e *Evaluator) {
		e.clock = c
	}
}

// WithMaxCalls limits the number of invocations per Evaluate. Zero means
// unlimited.
func WithMaxCalls(n int) Option {
	return func(e *Evaluator) {
		if n < 0 {
			n = 0
		}
		e.maxCalls = n
	}
}

// WithBindings sets the values identifiers and paths resolve to when they
// appear as arguments.
func WithBindings(bindings map[string]any) Option {
	return func(e *Evaluator) {
		e.bindings = bindings
	}
}

// WithLogger sets the logger for invocation records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// NewEvaluator creates an Evaluator over registry.
func NewEvaluator(registry Registry, opts ...Option) *Evaluator {
	e := &Evaluator{
		registry: registry,
		clock:    NewClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invocation records one function call made during an evaluation.
type Invocation struct {
	Seq    int64  `json:"seq"`
	Func   string `json:"func"`
	Depth  int    `json:"depth"`
	Args   []any  `json:"args"`
	Result any    `json:"result"`
}

// Trace lists invocations in the order they were made. Because arguments
// run first, a nested call always precedes the call that consumed it.
type Trace []Invocation

// Funcs returns the callee names in invocation order.
func (t Trace) Funcs() []string {
	out := make([]string, len(t))
	for i, inv := range t {
		out[i] = inv.Func
	}
	return out
}

// Result is the outcome of a successful evaluation.
type Result struct {
	Value any
	Trace Trace
}

// Evaluate evaluates v. Literals become Go values, arrays and objects are
// evaluated element-wise, and calls are invoked after their arguments.
// The first error aborts the evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, v ir.Value) (*Result, error) {
	run := &evaluation{
		Evaluator: e,
		quota:     NewQuotaEnforcer(e.maxCalls),
	}
	out, err := run.eval(ctx, v, 0)
	if err != nil {
		return nil, err
	}
	return &Result{Value: out, Trace: run.trace}, nil
}

type evaluation struct {
	*Evaluator
	quota *QuotaEnforcer
	trace Trace
}

func (run *evaluation) eval(ctx context.Context, v ir.Value, depth int) (any, error) {
	switch val := v.(type) {
	case ir.String:
		return string(val), nil
	case ir.Number:
		return float64(val), nil
	case ir.Bool:
		return bool(val), nil
	case ir.Identifier:
		if bound, ok := run.bindings[string(val)]; ok {
			return bound, nil
		}
		return string(val), nil
	case ir.Path:
		return run.lookupPath(val)
	case ir.Array:
		out := make([]any, len(val))
		for i, elem := range val {
			x, err := run.eval(ctx, elem, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case *ir.Object:
		out := make(map[string]any, val.Len())
		for _, p := range val.Pairs() {
			x, err := run.eval(ctx, p.Value, depth+1)
			if err != nil {
				return nil, err
			}
			out[p.Key] = x
		}
		return out, nil
	case *ir.Call:
		return run.call(ctx, val, depth)
	default:
		return nil, fmt.Errorf("cannot evaluate IR value of type %T", v)
	}
}

func (run *evaluation) call(ctx context.Context, c *ir.Call, depth int) (any, error) {
	name := c.FuncName()

	// Arguments resolve before the callee is looked up.
	args := make([]any, len(c.Args))
	for i, arg := range c.Args {
		x, err := run.eval(ctx, arg, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = x
	}

	fn, ok := run.registry.Lookup(name)
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("before call %s: %w", name, err)
	}
	if err := run.quota.Check(name); err != nil {
		return nil, err
	}

	seq := run.clock.Next()
	run.logger.Debug("invoking function", "func", name, "seq", seq, "depth", depth, "args", len(args))

	result, err := fn(ctx, args)
	if err != nil {
		return nil, &CallError{Func: name, Seq: seq, Err: err}
	}
	run.trace = append(run.trace, Invocation{
		Seq:    seq,
		Func:   name,
		Depth:  depth,
		Args:   args,
		Result: result,
	})
	return result, nil
}

func (run *evaluation) lookupPath(p ir.Path) (any, error) {
	var cur any = run.bindings
	for _, seg := range p {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, &UnresolvedPathError{Path: p.String(), Missing: seg}
		}
		next, ok := m[seg]
		if !ok {
			return nil, &UnresolvedPathError{Path: p.String(), Missing: seg}
		}
		cur = next
	}
	return cur, nil
}

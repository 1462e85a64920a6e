package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/invoke"
	"github.com/roach88/callir/internal/ir"
	"github.com/roach88/callir/internal/normalize"
)

// Result is the outcome of running a scenario.
type Result struct {
	Scenario string       `json:"scenario"`
	Pass     bool         `json:"pass"`
	Cases    []CaseResult `json:"cases"`
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`

	// IR is set when normalization succeeded.
	IR ir.Value `json:"ir,omitempty"`

	// Err is set when normalization failed.
	Err *normalize.Error `json:"error,omitempty"`

	// Trace is set when the case was evaluated.
	Trace invoke.Trace `json:"trace,omitempty"`

	// Failures lists unmet expectations. Empty if Pass is true.
	Failures []string `json:"failures,omitempty"`
}

func (c *CaseResult) fail(err error) {
	c.Failures = append(c.Failures, err.Error())
	c.Pass = false
}

// Failed returns the cases that did not pass.
func (r *Result) Failed() []CaseResult {
	var out []CaseResult
	for _, c := range r.Cases {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}

// Run executes every case of a scenario.
//
// A case fails (without aborting the run) when its AST cannot be decoded or
// when any expectation is unmet. Run returns an error only for problems
// with the harness itself.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("nil scenario")
	}

	d := normalize.New(normalize.WithMaxDepth(s.MaxDepth))
	result := &Result{Scenario: s.Name, Pass: true, Cases: make([]CaseResult, 0, len(s.Cases))}

	for _, c := range s.Cases {
		cr := runCase(ctx, d, s.RequireCallRoot, c)
		slog.Debug("scenario case", "scenario", s.Name, "case", c.Name, "pass", cr.Pass)
		if !cr.Pass {
			result.Pass = false
		}
		result.Cases = append(result.Cases, cr)
	}
	return result, nil
}

func runCase(ctx context.Context, d *normalize.Dispatcher, requireCall bool, c Case) CaseResult {
	cr := CaseResult{Name: c.Name, Pass: true}

	node, err := ast.DecodeNode(&c.AST)
	if err != nil {
		cr.fail(fmt.Errorf("decode ast: %w", err))
		return cr
	}

	var v ir.Value
	if requireCall {
		var call *ir.Call
		call, err = d.ResolveCall(node)
		if call != nil {
			v = call
		}
	} else {
		v, err = d.Resolve(node)
	}

	if err != nil {
		ne, ok := normalize.AsError(err)
		if !ok {
			cr.fail(fmt.Errorf("normalize: %w", err))
			return cr
		}
		cr.Err = ne
		if aerr := assertError(c.Expect, ne); aerr != nil {
			cr.fail(aerr)
		}
		return cr
	}

	cr.IR = v
	for _, aerr := range assertValue(c.Expect, v) {
		cr.fail(aerr)
	}

	if c.Expect.Eval != nil {
		res, evalErr := invoke.NewEvaluator(invoke.Builtins()).Evaluate(ctx, v)
		if res != nil {
			cr.Trace = res.Trace
		}
		for _, aerr := range assertEval(*c.Expect.Eval, res, evalErr) {
			cr.fail(aerr)
		}
	}
	return cr
}

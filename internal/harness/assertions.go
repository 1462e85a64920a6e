package harness

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/callir/internal/invoke"
	"github.com/roach88/callir/internal/ir"
	"github.com/roach88/callir/internal/normalize"
)

// AssertionError is one unmet expectation.
type AssertionError struct {
	Field    string // Expectation that failed, e.g. "error", "ir"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// assertError checks a normalization failure against the expectation.
func assertError(e Expect, got *normalize.Error) error {
	if e.Error == "" {
		return &AssertionError{Field: "error", Expected: "success", Actual: got.Error()}
	}
	if string(got.Code) != e.Error {
		return &AssertionError{Field: "error", Expected: e.Error, Actual: got.Error()}
	}
	if e.Position != nil && *e.Position != got.Position {
		return &AssertionError{Field: "position", Expected: fmt.Sprint(*e.Position), Actual: fmt.Sprint(got.Position)}
	}
	if e.Location != "" && e.Location != got.Location {
		return &AssertionError{Field: "location", Expected: e.Location, Actual: got.Location}
	}
	return nil
}

// assertValue checks a successful normalization. All failures are reported.
func assertValue(e Expect, v ir.Value) []error {
	var errs []error
	if e.Error != "" {
		errs = append(errs, &AssertionError{Field: "error", Expected: e.Error, Actual: "success"})
		return errs
	}

	call, isCall := v.(*ir.Call)
	if e.Func != "" {
		switch {
		case !isCall:
			errs = append(errs, &AssertionError{Field: "func", Expected: e.Func, Actual: "non-call " + v.Type()})
		case call.FuncName() != e.Func:
			errs = append(errs, &AssertionError{Field: "func", Expected: e.Func, Actual: call.FuncName()})
		}
	}
	if e.Args != nil {
		switch {
		case !isCall:
			errs = append(errs, &AssertionError{Field: "args", Expected: fmt.Sprintf("%d args", *e.Args), Actual: "non-call " + v.Type()})
		case len(call.Args) != *e.Args:
			errs = append(errs, &AssertionError{Field: "args", Expected: fmt.Sprintf("%d args", *e.Args), Actual: fmt.Sprintf("%d args", len(call.Args))})
		}
	}
	if e.IR.Kind != 0 {
		if err := assertIR(e, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// assertIR compares canonical encodings, so key order in the scenario
// file does not matter.
func assertIR(e Expect, v ir.Value) error {
	var raw any
	if err := e.IR.Decode(&raw); err != nil {
		return &AssertionError{Field: "ir", Expected: "decodable IR", Actual: err.Error()}
	}
	want, err := ir.FromJSON(raw)
	if err != nil {
		return &AssertionError{Field: "ir", Expected: "valid tagged IR", Actual: err.Error()}
	}
	wantJSON, err := ir.Marshal(want)
	if err != nil {
		return &AssertionError{Field: "ir", Expected: "encodable IR", Actual: err.Error()}
	}
	gotJSON, err := ir.Marshal(v)
	if err != nil {
		return &AssertionError{Field: "ir", Expected: string(wantJSON), Actual: err.Error()}
	}
	if !bytes.Equal(wantJSON, gotJSON) {
		return &AssertionError{Field: "ir", Expected: string(wantJSON), Actual: string(gotJSON)}
	}
	return nil
}

// assertEval checks an evaluation outcome.
func assertEval(e EvalExpect, res *invoke.Result, evalErr error) []error {
	if e.Error != "" {
		if evalErr == nil {
			return []error{&AssertionError{Field: "eval.error", Expected: e.Error, Actual: "success"}}
		}
		if !strings.Contains(evalErr.Error(), e.Error) {
			return []error{&AssertionError{Field: "eval.error", Expected: e.Error, Actual: evalErr.Error()}}
		}
		return nil
	}
	if evalErr != nil {
		return []error{&AssertionError{Field: "eval", Expected: "success", Actual: evalErr.Error()}}
	}

	var errs []error
	if e.Result != nil {
		want, err := ir.MarshalCanonical(normalizeYAML(e.Result))
		if err != nil {
			errs = append(errs, &AssertionError{Field: "eval.result", Expected: "encodable result", Actual: err.Error()})
		} else {
			got, err := ir.MarshalCanonical(res.Value)
			switch {
			case err != nil:
				errs = append(errs, &AssertionError{Field: "eval.result", Expected: string(want), Actual: err.Error()})
			case !bytes.Equal(want, got):
				errs = append(errs, &AssertionError{Field: "eval.result", Expected: string(want), Actual: string(got)})
			}
		}
	}
	if e.Calls != nil && !slices.Equal(e.Calls, res.Trace.Funcs()) {
		errs = append(errs, &AssertionError{
			Field:    "eval.calls",
			Expected: strings.Join(e.Calls, ","),
			Actual:   strings.Join(res.Trace.Funcs(), ","),
		})
	}
	return errs
}

// normalizeYAML converts YAML-decoded values to the shapes canonical JSON
// accepts.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeYAML(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalizeYAML(elem)
		}
		return out
	case int:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return v
	}
}

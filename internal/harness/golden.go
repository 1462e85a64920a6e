package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/callir/internal/ir"
)

// Snapshot renders a result as canonical JSON:
//
//	{"cases":[{"ir":{...},"name":"..."},{"error":"...","location":"...","name":"...","position":0}],"scenario":"..."}
//
// Failed cases contribute their error code, location and position (when an
// argument error). Cases that failed to decode contribute their failures.
func Snapshot(r *Result) ([]byte, error) {
	cases := make([]any, len(r.Cases))
	for i, c := range r.Cases {
		entry := map[string]any{"name": c.Name}
		switch {
		case c.IR != nil:
			entry["ir"] = c.IR
		case c.Err != nil:
			entry["error"] = string(c.Err.Code)
			entry["location"] = c.Err.Location
			if c.Err.Position >= 0 {
				entry["position"] = c.Err.Position
			}
		default:
			failures := make([]any, len(c.Failures))
			for j, f := range c.Failures {
				failures[j] = f
			}
			entry["failures"] = failures
		}
		cases[i] = entry
	}
	return ir.MarshalCanonical(map[string]any{
		"scenario": r.Scenario,
		"cases":    cases,
	})
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot run. A mismatch fails t via goldie.
func RunWithGolden(t *testing.T, s *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), s)
	if err != nil {
		return nil, err
	}
	snapshot, err := Snapshot(result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, snapshot)
	return result, nil
}

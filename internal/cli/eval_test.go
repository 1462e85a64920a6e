package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/callir/internal/ir"
)

func TestEval_Bindings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "upper.yaml", upperDoc)

	tests := []struct {
		name     string
		bindings string
		want     string
	}{
		{"unbound identifier evaluates to its name", "{}", `"HI NAME"` + "\n"},
		{"bound identifier", `{"name": "ada"}`, `"HI ADA"` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, buf := testCommand()
			opts := &EvalOptions{RootOptions: testRoot("text"), Bindings: tt.bindings}
			require.NoError(t, runEval(opts, path, cmd))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestEval_JSONTrace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "upper.yaml", upperDoc)

	cmd, buf := testCommand()
	opts := &EvalOptions{RootOptions: testRoot("json"), Bindings: `{"name": "ada"}`}
	require.NoError(t, runEval(opts, path, cmd))

	var resp struct {
		Data struct {
			Result any `json:"result"`
			Trace  []struct {
				Seq   int64  `json:"seq"`
				Func  string `json:"func"`
				Depth int    `json:"depth"`
			} `json:"trace"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "HI ADA", resp.Data.Result)
	require.Len(t, resp.Data.Trace, 2)
	assert.Equal(t, "concat", resp.Data.Trace[0].Func)
	assert.Equal(t, "upper", resp.Data.Trace[1].Func)
	assert.Less(t, resp.Data.Trace[0].Seq, resp.Data.Trace[1].Seq)
	assert.Greater(t, resp.Data.Trace[0].Depth, resp.Data.Trace[1].Depth)
}

func TestEval_FromIR(t *testing.T) {
	data, err := ir.Marshal(ir.NewCall(ir.Identifier("sum"), ir.Array{ir.Number(1), ir.Number(2.5)}))
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "sum.json", string(data))

	cmd, buf := testCommand()
	require.NoError(t, runEval(&EvalOptions{RootOptions: testRoot("text"), Bindings: "{}", FromIR: true}, path, cmd))
	assert.Equal(t, "3.5\n", buf.String())
}

func TestEval_Failures(t *testing.T) {
	dir := t.TempDir()
	unknown := writeFile(t, dir, "unknown.yaml", `{type: CallExpression, callee: {type: Identifier, name: nope}, arguments: []}`)
	arrow := writeFile(t, dir, "arrow.json", arrowDoc)
	good := writeFile(t, dir, "upper.yaml", upperDoc)

	tests := []struct {
		name     string
		path     string
		bindings string
		maxCalls string
		wantExit int
		wantOut  string
	}{
		{"unknown function", unknown, "{}", "", ExitFailure, "unknown function"},
		{"normalization error", arrow, "{}", "", ExitFailure, "UNSUPPORTED_ARGUMENT_KIND"},
		{"bad bindings", good, "[1", "", ExitCommandError, "invalid --bindings JSON"},
		{"call quota", good, "{}", "max_calls: 1\n", ExitFailure, ErrCodeEvalFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testRoot("text")
			if tt.maxCalls != "" {
				root.ConfigPath = writeFile(t, t.TempDir(), "callir.cue", tt.maxCalls)
			}
			cmd, buf := testCommand()
			err := runEval(&EvalOptions{RootOptions: root, Bindings: tt.bindings}, tt.path, cmd)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

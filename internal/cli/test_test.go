package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../../testdata/scenarios"

const passingScenario = `
name: tiny
description: "one passing case"
cases:
  - name: call
    ast:
      type: CallExpression
      callee: { type: Identifier, name: foo }
      arguments: [{ type: NumericLiteral, value: 1 }]
    expect:
      func: foo
      args: 1
`

const failingScenario = `
name: wrong
description: "an expectation that does not hold"
cases:
  - name: call
    ast:
      type: CallExpression
      callee: { type: Identifier, name: foo }
      arguments: []
    expect:
      func: bar
`

func TestTest_RepositoryScenarios(t *testing.T) {
	cmd, buf := testCommand()
	err := runTests(&TestOptions{RootOptions: testRoot("text")}, []string{scenariosDir}, cmd)
	require.NoError(t, err, buf.String())

	out := buf.String()
	assert.Contains(t, out, "\u2713 call_basics")
	assert.Contains(t, out, "\u2713 member_paths")
	assert.Contains(t, out, "\u2713 evaluation")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
}

func TestTest_Filter(t *testing.T) {
	cmd, buf := testCommand()
	err := runTests(&TestOptions{RootOptions: testRoot("json"), Filter: "member_*"}, []string{scenariosDir}, cmd)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "member_paths", resp.Data.Scenarios[0].Name)
}

func TestTest_FailingScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "wrong.yaml", failingScenario)

	cmd, buf := testCommand()
	err := runTests(&TestOptions{RootOptions: testRoot("text")}, []string{path}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "\u2717 wrong")
	assert.Contains(t, buf.String(), "call: func: expected bar, got foo")
}

func TestTest_GoldenUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tiny.yaml", passingScenario)
	goldenPath := filepath.Join(dir, "golden", "tiny.golden")

	cmd, buf := testCommand()
	require.NoError(t, runTests(&TestOptions{RootOptions: testRoot("text"), Update: true}, []string{dir}, cmd))
	assert.Contains(t, buf.String(), "\u2713 tiny (golden updated)")

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t,
		`{"cases":[{"ir":{"args":[{"type":"numeric_literal","value":1}],"funcCall":"foo","type":"call_expression"},"name":"call"}],"scenario":"tiny"}`,
		string(golden))

	cmd, _ = testCommand()
	require.NoError(t, runTests(&TestOptions{RootOptions: testRoot("text")}, []string{path}, cmd))

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"cases":[],"scenario":"tiny"}`), 0644))
	cmd, buf = testCommand()
	err = runTests(&TestOptions{RootOptions: testRoot("text")}, []string{path}, cmd)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "snapshot does not match golden file")
}

func TestTest_CommandErrors(t *testing.T) {
	cmd, _ := testCommand()
	err := runTests(&TestOptions{RootOptions: testRoot("text")}, []string{"/nonexistent/scenarios"}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	cmd, buf := testCommand()
	require.NoError(t, runTests(&TestOptions{RootOptions: testRoot("text")}, []string{t.TempDir()}, cmd))
	assert.Equal(t, "No scenarios found.\n", buf.String())
}

package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, path := range scenarioFiles(t) {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass)
		})
	}
}

func TestSnapshot_FailureShapes(t *testing.T) {
	r := &Result{
		Scenario: "shapes",
		Cases: []CaseResult{
			{Name: "decode", Failures: []string{"decode ast: boom"}},
		},
	}
	data, err := Snapshot(r)
	require.NoError(t, err)
	assert.Equal(t, `{"cases":[{"failures":["decode ast: boom"],"name":"decode"}],"scenario":"shapes"}`, string(data))
}

package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "one call"
cases:
  - name: call
    ast:
      type: CallExpression
      callee: { type: Identifier, name: foo }
      arguments: []
    expect:
      func: foo
      args: 0
`

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Cases, 1)
	assert.Equal(t, "call", s.Cases[0].Name)
	assert.Equal(t, "foo", s.Cases[0].Expect.Func)
	require.NotNil(t, s.Cases[0].Expect.Args)
	assert.Equal(t, 0, *s.Cases[0].Expect.Args)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: x\ncases: [{name: a, ast: {type: Identifier, name: x}}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\ncases: [{name: a, ast: {type: Identifier, name: x}}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no cases",
			yaml:    "name: x\ndescription: y\ncases: []\n",
			wantErr: "cases list is required",
		},
		{
			name:    "negative max depth",
			yaml:    "name: x\ndescription: y\nmax_depth: -1\ncases: [{name: a, ast: {type: Identifier, name: x}}]\n",
			wantErr: "max_depth must be >= 0",
		},
		{
			name:    "case without ast",
			yaml:    "name: x\ndescription: y\ncases: [{name: a}]\n",
			wantErr: "ast is required",
		},
		{
			name:    "duplicate case names",
			yaml:    "name: x\ndescription: y\ncases: [{name: a, ast: {type: Identifier, name: x}}, {name: a, ast: {type: Identifier, name: y}}]\n",
			wantErr: "duplicate case name",
		},
		{
			name:    "unknown error code",
			yaml:    "name: x\ndescription: y\ncases: [{name: a, ast: {type: Identifier, name: x}, expect: {error: NOPE}}]\n",
			wantErr: "unknown error code",
		},
		{
			name:    "error with ir",
			yaml:    "name: x\ndescription: y\ncases: [{name: a, ast: {type: Identifier, name: x}, expect: {error: DEPTH_EXCEEDED, func: f}}]\n",
			wantErr: "error cases cannot also expect",
		},
		{
			name:    "location without error",
			yaml:    "name: x\ndescription: y\ncases: [{name: a, ast: {type: Identifier, name: x}, expect: {location: $}}]\n",
			wantErr: "position and location need an error",
		},
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: y\nmax_dept: 3\ncases: [{name: a, ast: {type: Identifier, name: x}}]\n",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

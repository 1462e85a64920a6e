package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const callDoc = `
type: CallExpression
callee:
  type: MemberExpression
  object: { type: Identifier, name: tools }
  property: { type: Identifier, name: search }
arguments:
  - { type: StringLiteral, value: go }
  - type: ObjectExpression
    properties:
      - type: Property
        key: { type: Identifier, name: limit }
        value: { type: NumericLiteral, value: 10 }
`

const arrowDoc = `{"type": "CallExpression", "callee": {"type": "Identifier", "name": "foo"}, "arguments": [{"type": "ArrowFunctionExpression"}]}`

const upperDoc = `
type: CallExpression
callee: { type: Identifier, name: upper }
arguments:
  - type: CallExpression
    callee: { type: Identifier, name: concat }
    arguments:
      - { type: StringLiteral, value: "hi " }
      - { type: Identifier, name: name }
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testRoot returns root options that defer every setting to the config.
func testRoot(format string) *RootOptions {
	return &RootOptions{Format: format, MaxDepth: -1}
}

// testCommand returns a bare command whose output is captured.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, buf
}

// executeRoot runs the full command tree with args.
func executeRoot(args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

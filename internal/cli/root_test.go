package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/callir/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "callir", cmd.Use)
	assert.Contains(t, cmd.Long, "tagged IR")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"normalize", "check", "compile", "show", "eval", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "", formatFlag.DefValue)

	depthFlag := cmd.PersistentFlags().Lookup("max-depth")
	require.NotNil(t, depthFlag)
	assert.Equal(t, "-1", depthFlag.DefValue)

	for _, name := range []string{"config", "db"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestEvalCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	evalCmd, _, err := cmd.Find([]string{"eval"})
	require.NoError(t, err)

	bindingsFlag := evalCmd.Flags().Lookup("bindings")
	require.NotNil(t, bindingsFlag)
	assert.Equal(t, "{}", bindingsFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := executeRoot("--format", "xml", "check", "x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSettings_Defaults(t *testing.T) {
	cfg, err := testRoot("").Settings()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestSettings_FlagsOverrideConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "callir.cue", `
max_depth: 8
format:    "json"
database:  "from-config.db"
`)

	opts := &RootOptions{ConfigPath: path, MaxDepth: -1}
	cfg, err := opts.Settings()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "from-config.db", cfg.Database)

	opts = &RootOptions{ConfigPath: path, MaxDepth: 0, Format: "text", Database: "flag.db"}
	cfg, err = opts.Settings()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxDepth)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "flag.db", cfg.Database)
}

func TestSettings_BadConfigIsCommandError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "callir.cue", `max_depth: -4`)

	_, err := (&RootOptions{ConfigPath: path, MaxDepth: -1}).Settings()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = (&RootOptions{ConfigPath: "/nonexistent/callir.cue", MaxDepth: -1}).Settings()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

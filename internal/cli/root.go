package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/callir/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"; empty uses the config value
	ConfigPath string
	MaxDepth   int    // negative uses the config value
	Database   string // empty uses the config value

	settings *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the callir CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "callir",
		Short: "callir - call expression normalizer",
		Long: `Normalize JavaScript-like call expression ASTs into a tagged IR of calls,
literals, paths, arrays and objects.

Input documents are ESTree/Babel-shaped ASTs in YAML or JSON, or CUE
directories of named expressions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "" && !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text), overrides config")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a CUE config file")
	cmd.PersistentFlags().IntVar(&opts.MaxDepth, "max-depth", -1, "maximum nesting depth (0 = unbounded), overrides config")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database, overrides config")

	// Add subcommands
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Settings resolves the effective configuration: schema defaults, then the
// --config file, then flags. The result is cached for the command run.
func (o *RootOptions) Settings() (*config.Config, error) {
	if o.settings != nil {
		return o.settings, nil
	}
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}
	o.settings = cfg
	return cfg, nil
}

// apply overlays flag values on cfg and validates the result.
func (o *RootOptions) apply(cfg *config.Config) error {
	if o.Format != "" {
		cfg.Format = o.Format
	}
	if o.MaxDepth >= 0 {
		cfg.MaxDepth = o.MaxDepth
	}
	if o.Database != "" {
		cfg.Database = o.Database
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return nil
}

// setupLogging installs a text slog handler on w: Debug when verbose, Info
// otherwise.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/callir/internal/config"
	"github.com/roach88/callir/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	PersistOptions
	Output   string // output file path
	RootCall bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <expressions-dir>",
		Short: "Compile a CUE directory of expressions to canonical IR",
		Long: `Compile every expression of a CUE package to canonical IR.

Expressions are declared as AST documents under "expression":

  expression: search: {
    type:   "CallExpression"
    callee: {type: "Identifier", name: "search"}
    arguments: [{type: "StringLiteral", value: "go"}]
  }

An optional "config" block in the same package sets max_depth and the
other config fields; command-line flags still take precedence.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.RootCall, "root-call", false, "require a call expression at the root")

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	// Use shared loader with collect-all mode
	loadResult, loadErrors := LoadExpressions(dir, LoadModeCollectAll)

	cfg, err := compileSettings(opts.RootOptions, loadResult)
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg, opts.Verbose)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		code, message := loadErrorCode(loadErrors[0])
		return commandError(formatter, code, message)
	}
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	n := newNormalizer(cfg, opts.RootCall)
	out := NormalizeOutput{Results: make([]NormalizeResult, 0, len(loadResult.Expressions))}
	for _, expr := range loadResult.Expressions {
		formatter.VerboseLog("Compiling expression: %s", expr.Name)
		res, err := n.run(expr.Name, expr.Node)
		if err != nil {
			return commandError(formatter, ErrCodeGeneric, err.Error())
		}
		if res.Error != nil {
			out.Failed++
		}
		out.Results = append(out.Results, res)
	}

	if cfg.Database != "" {
		batchID, err := persist(commandContext(cmd), cfg.Database, opts.PersistOptions, out.Results)
		if err != nil {
			return commandError(formatter, ErrCodeDatabase, err.Error())
		}
		out.BatchID = batchID
	}

	if out.Failed > 0 {
		if err := outputNormalize(formatter, out); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d expression(s) failed to normalize", out.Failed, len(out.Results)))
	}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeIRToFile(out.Results, opts.Output); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, out, opts.Output)
}

// compileSettings layers the directory's config block under the flags. The
// block replaces any --config file.
func compileSettings(opts *RootOptions, res *LoadResult) (*config.Config, error) {
	if res == nil || res.Config == nil {
		return opts.Settings()
	}
	cfg := *res.Config
	if err := opts.apply(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, out NormalizeOutput, outputFile string) error {
	if formatter.JSON() {
		return formatter.Success(out)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "\u2713 Compiled %d expression(s)\n\n", len(out.Results))
	for _, r := range out.Results {
		fmt.Fprintf(formatter.Writer, "  %s: %s %s\n", r.Name, r.ID, describeIR(r.IR))
	}
	fmt.Fprintln(formatter.Writer)

	if out.BatchID != "" {
		fmt.Fprintf(formatter.Writer, "Stored batch %s\n", out.BatchID)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical IR to %s\n", outputFile)
	}
	return nil
}

// describeIR summarizes a tree in one line, e.g. "tools.search(2 args)".
func describeIR(v ir.Value) string {
	call, ok := v.(*ir.Call)
	if !ok {
		return v.Type()
	}
	return fmt.Sprintf("%s(%d args)", call.FuncName(), len(call.Args))
}

// outputCompileErrors outputs multiple load errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.JSON() {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := loadErrorCode(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Load errors are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "\u2717 Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := loadErrorCode(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// writeIRToFile writes results keyed by expression name in canonical JSON.
func writeIRToFile(results []NormalizeResult, filename string) error {
	expressions := make(map[string]any, len(results))
	for _, r := range results {
		expressions[r.Name] = map[string]any{
			"id": r.ID,
			"ir": r.IR,
		}
	}
	data, err := ir.MarshalCanonical(map[string]any{
		"expressions": expressions,
		"ir_version":  ir.IRVersion,
	})
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

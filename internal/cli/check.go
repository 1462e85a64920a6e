package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/normalize"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	RootCall bool
}

// CheckResult lists every grammar violation in one document.
type CheckResult struct {
	Name   string            `json:"name"`
	Errors []normalize.Error `json:"errors"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Report every grammar violation in AST documents",
		Long: `Check AST documents against the call expression grammar.

Unlike normalize, check does not stop at the first problem: every violation
is reported with its location.

Exit codes:
  0 - No violations
  1 - One or more violations
  2 - Command error`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.RootCall, "root-call", false, "require a call expression at the root")

	return cmd
}

func runCheck(opts *CheckOptions, paths []string, cmd *cobra.Command) error {
	cfg, err := opts.Settings()
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg, opts.Verbose)
	d := normalize.New(normalize.WithMaxDepth(cfg.MaxDepth))
	requireCall := opts.RootCall || cfg.RequireCallRoot

	results := make([]CheckResult, 0, len(paths))
	total := 0
	for _, path := range paths {
		node, err := ReadDocument(path)
		if err != nil {
			code, message := loadErrorCode(err)
			return commandError(formatter, code, message)
		}
		formatter.VerboseLog("Checking %s", path)

		errs := d.Check(node)
		if requireCall {
			errs = append(rootErrors(d, node), errs...)
		}
		if errs == nil {
			errs = []normalize.Error{}
		}
		total += len(errs)
		results = append(results, CheckResult{Name: path, Errors: errs})
	}

	if formatter.JSON() {
		if total > 0 {
			_ = formatter.Failure(ErrCodeCheckFailed, fmt.Sprintf("%d violation(s)", total), results)
		} else if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, r := range results {
			if len(r.Errors) == 0 {
				fmt.Fprintf(w, "%s: ok\n", r.Name)
				continue
			}
			for _, e := range r.Errors {
				fmt.Fprintf(w, "%s: %s\n", r.Name, e.Error())
			}
		}
	}

	if total > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s)", total))
	}
	return nil
}

// rootErrors reports a non-call root the way ResolveCall does.
func rootErrors(d *normalize.Dispatcher, node ast.Node) []normalize.Error {
	if _, ok := node.(*ast.CallExpression); ok {
		return nil
	}
	_, err := d.ResolveCall(node)
	if ne, ok := normalize.AsError(err); ok {
		return []normalize.Error{*ne}
	}
	return nil
}

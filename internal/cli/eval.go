package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/callir/internal/invoke"
	"github.com/roach88/callir/internal/ir"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Bindings string // JSON object of path roots
	FromIR   bool   // input is tagged IR rather than an AST
	RootCall bool
}

// EvalOutput is the payload of a successful evaluation.
type EvalOutput struct {
	IR     ir.Value     `json:"ir"`
	Result any          `json:"result"`
	Trace  invoke.Trace `json:"trace"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Normalize a document and evaluate it against the builtins",
		Long: `Normalize an AST document and evaluate the IR against the builtin
function registry (concat, upper, lower, len, sum, join, json).

Arguments are evaluated before the call that consumes them. Paths and bare
identifiers are looked up in --bindings; an unbound identifier evaluates to
its own name.

Example:
  callir eval call.yaml --bindings '{"user":{"name":"ada"}}'
  callir eval --ir compiled.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Bindings, "bindings", "{}", "bindings as a JSON object")
	cmd.Flags().BoolVar(&opts.FromIR, "ir", false, "read tagged IR JSON instead of an AST document")
	cmd.Flags().BoolVar(&opts.RootCall, "root-call", false, "require a call expression at the root")

	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	cfg, err := opts.Settings()
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg, opts.Verbose)

	var bindings map[string]any
	if err := json.Unmarshal([]byte(opts.Bindings), &bindings); err != nil {
		return commandError(formatter, ErrCodeGeneric, fmt.Sprintf("invalid --bindings JSON: %v", err))
	}

	v, err := evalInput(opts, path, formatter)
	if err != nil {
		return err
	}

	evaluator := invoke.NewEvaluator(invoke.Builtins(),
		invoke.WithMaxCalls(cfg.MaxCalls),
		invoke.WithBindings(bindings),
		invoke.WithLogger(slog.Default()),
	)
	res, err := evaluator.Evaluate(commandContext(cmd), v)
	if err != nil {
		_ = formatter.Error(ErrCodeEvalFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}

	if formatter.JSON() {
		return formatter.Success(EvalOutput{IR: v, Result: res.Value, Trace: res.Trace})
	}

	result, err := ir.MarshalCanonical(res.Value)
	if err != nil {
		return err
	}
	fmt.Fprintln(formatter.Writer, string(result))
	for _, inv := range res.Trace {
		formatter.VerboseLog("%4d %*s%s", inv.Seq, inv.Depth*2, "", inv.Func)
	}
	return nil
}

// evalInput produces the IR to evaluate, either by normalizing an AST
// document or by reading tagged IR directly.
func evalInput(opts *EvalOptions, path string, formatter *OutputFormatter) (ir.Value, error) {
	if opts.FromIR {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, commandError(formatter, ErrCodeNotFound, fmt.Sprintf("reading %s: %v", path, err))
		}
		v, err := ir.Unmarshal(data)
		if err != nil {
			return nil, commandError(formatter, ErrCodeDecodeFailed, fmt.Sprintf("%s: %v", path, err))
		}
		return v, nil
	}

	node, err := ReadDocument(path)
	if err != nil {
		code, message := loadErrorCode(err)
		return nil, commandError(formatter, code, message)
	}
	cfg, err := opts.Settings()
	if err != nil {
		return nil, err
	}
	res, err := newNormalizer(cfg, opts.RootCall).run(path, node)
	if err != nil {
		return nil, commandError(formatter, ErrCodeGeneric, err.Error())
	}
	if res.Error != nil {
		_ = formatter.Error(string(res.Error.Code), res.Error.Error(), res.Error)
		return nil, WrapExitError(ExitFailure, "normalization failed", res.Error)
	}
	return res.IR, nil
}

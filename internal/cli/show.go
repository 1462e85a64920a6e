package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/callir/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Batch string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [expression-id]",
		Short: "Show stored expressions and batches",
		Long: `Read results written by normalize --db or compile --db.

With no arguments, lists every batch. With --batch, lists the
normalizations of one batch. With an expression ID, prints the stored IR.

Examples:
  callir show --db ./callir.db
  callir show --db ./callir.db --batch 0190a3c2-...
  callir show --db ./callir.db 3f2a...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Batch, "batch", "", "list the normalizations of one batch")

	return cmd
}

func runShow(opts *ShowOptions, args []string, cmd *cobra.Command) error {
	cfg, err := opts.Settings()
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg, opts.Verbose)

	if cfg.Database == "" {
		return commandError(formatter, ErrCodeDatabase, "no database: pass --db or set database in config")
	}
	if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", cfg.Database))
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := commandContext(cmd)
	switch {
	case len(args) == 1:
		expr, err := st.GetExpression(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("expression %s not found", args[0]), nil)
			return NewExitError(ExitFailure, fmt.Sprintf("expression %s not found", args[0]))
		}
		if err != nil {
			return commandError(formatter, ErrCodeDatabase, err.Error())
		}
		if formatter.JSON() {
			return formatter.Success(expr)
		}
		text, err := indentIR(expr.IR)
		if err != nil {
			return err
		}
		fmt.Fprintf(formatter.Writer, "%s (ir v%s)\n%s\n", expr.ID, expr.IRVersion, text)
		return nil

	case opts.Batch != "":
		norms, err := st.ListNormalizations(ctx, opts.Batch)
		if err != nil {
			return commandError(formatter, ErrCodeDatabase, err.Error())
		}
		if formatter.JSON() {
			return formatter.Success(norms)
		}
		if len(norms) == 0 {
			fmt.Fprintf(formatter.Writer, "No normalizations in batch %s.\n", opts.Batch)
			return nil
		}
		for _, n := range norms {
			if n.Failed() {
				fmt.Fprintf(formatter.Writer, "%6d  \u2717 %s  %s\n", n.Seq, n.Name, n.ErrorKind)
				continue
			}
			fmt.Fprintf(formatter.Writer, "%6d  \u2713 %s  %s\n", n.Seq, n.Name, n.ExpressionID)
		}
		return nil

	default:
		batches, err := st.ListBatches(ctx)
		if err != nil {
			return commandError(formatter, ErrCodeDatabase, err.Error())
		}
		if formatter.JSON() {
			return formatter.Success(batches)
		}
		if len(batches) == 0 {
			fmt.Fprintln(formatter.Writer, "No batches stored.")
			return nil
		}
		for _, b := range batches {
			fmt.Fprintf(formatter.Writer, "%s  %d record(s), %d failed, seq %d-%d\n",
				b.ID, b.Count, b.Failed, b.FirstSeq, b.LastSeq)
		}
		return nil
	}
}

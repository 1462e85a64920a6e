package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/config"
	"github.com/roach88/callir/internal/invoke"
	"github.com/roach88/callir/internal/ir"
	"github.com/roach88/callir/internal/normalize"
	"github.com/roach88/callir/internal/store"
)

// Sequencer stamps stored records with increasing sequence numbers.
// invoke.Clock satisfies it.
type Sequencer interface {
	Next() int64
}

// PersistOptions controls how results are written with --db.
type PersistOptions struct {
	// BatchIDs allows overriding the batch ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	BatchIDs store.BatchIDGenerator

	// Clock allows overriding the sequence source (for testing).
	// If nil, a clock continuing from the database's last seq is used.
	Clock Sequencer
}

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	PersistOptions
	RootCall bool
}

// NormalizeResult is the outcome for one input document or expression.
type NormalizeResult struct {
	Name  string           `json:"name"`
	ID    string           `json:"id,omitempty"`
	IR    ir.Value         `json:"ir,omitempty"`
	Error *normalize.Error `json:"error,omitempty"`
}

// NormalizeOutput is the payload of normalize and compile.
type NormalizeOutput struct {
	BatchID string            `json:"batch_id,omitempty"`
	Results []NormalizeResult `json:"results"`
	Failed  int               `json:"failed"`
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <file>...",
		Short: "Normalize AST documents to IR",
		Long: `Normalize one or more AST documents (YAML or JSON) and print the tagged IR.

With --db, every result is stored under a fresh batch ID: successful trees
by expression ID, failures by error code.

Exit codes:
  0 - All documents normalized
  1 - One or more documents failed to normalize
  2 - Command error (unreadable file, malformed document, bad config)

Examples:
  callir normalize call.yaml
  callir normalize --root-call --db ./callir.db a.json b.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.RootCall, "root-call", false, "require a call expression at the root")

	return cmd
}

func runNormalize(opts *NormalizeOptions, paths []string, cmd *cobra.Command) error {
	cfg, err := opts.Settings()
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg, opts.Verbose)
	n := newNormalizer(cfg, opts.RootCall)

	out := NormalizeOutput{Results: make([]NormalizeResult, 0, len(paths))}
	for _, path := range paths {
		node, err := ReadDocument(path)
		if err != nil {
			code, message := loadErrorCode(err)
			return commandError(formatter, code, message)
		}
		formatter.VerboseLog("Normalizing %s", path)
		res, err := n.run(path, node)
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

	if err := outputNormalize(formatter, out); err != nil {
		return err
	}
	if out.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d document(s) failed to normalize", out.Failed, len(out.Results)))
	}
	return nil
}

// normalizer resolves documents with the settings of one command run.
type normalizer struct {
	d           *normalize.Dispatcher
	requireCall bool
}

func newNormalizer(cfg *config.Config, rootCall bool) normalizer {
	return normalizer{
		d:           normalize.New(normalize.WithMaxDepth(cfg.MaxDepth)),
		requireCall: rootCall || cfg.RequireCallRoot,
	}
}

// run normalizes node. Normalization failures are part of the result; the
// returned error is reserved for failures that are not *normalize.Error.
func (n normalizer) run(name string, node ast.Node) (NormalizeResult, error) {
	res := NormalizeResult{Name: name}

	v, err := n.resolve(node)
	if err != nil {
		ne, ok := normalize.AsError(err)
		if !ok {
			return res, err
		}
		res.Error = ne
		return res, nil
	}

	id, err := ir.ExpressionID(v)
	if err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}
	res.ID = id
	res.IR = v
	return res, nil
}

func (n normalizer) resolve(node ast.Node) (ir.Value, error) {
	if !n.requireCall {
		return n.d.Resolve(node)
	}
	call, err := n.d.ResolveCall(node)
	if err != nil {
		return nil, err
	}
	return call, nil
}

// persist writes results as one batch and returns the batch ID.
func persist(ctx context.Context, dbPath string, opts PersistOptions, results []NormalizeResult) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	seq := opts.Clock
	if seq == nil {
		last, err := st.LastSeq(ctx)
		if err != nil {
			return "", err
		}
		seq = invoke.NewClockAt(last)
	}
	gen := opts.BatchIDs
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}

	records := make([]store.Record, len(results))
	for i, r := range results {
		records[i] = store.Record{Name: r.Name, IR: r.IR, Seq: seq.Next()}
		if r.Error != nil {
			records[i].ErrorKind = string(r.Error.Code)
			records[i].ErrorMessage = r.Error.Error()
		}
	}

	batchID := gen.Generate()
	if _, err := st.WriteBatch(ctx, batchID, records); err != nil {
		return "", err
	}
	slog.Info("batch stored", "batch", batchID, "records", len(records), "db", dbPath)
	return batchID, nil
}

func outputNormalize(formatter *OutputFormatter, out NormalizeOutput) error {
	if formatter.JSON() {
		if out.Failed > 0 {
			return formatter.Failure(ErrCodeNormalizeFailed,
				fmt.Sprintf("%d document(s) failed to normalize", out.Failed), out)
		}
		return formatter.Success(out)
	}

	w := formatter.Writer
	for _, r := range out.Results {
		if r.Error != nil {
			fmt.Fprintf(w, "\u2717 %s\n  %s\n", r.Name, r.Error.Error())
			continue
		}
		text, err := indentIR(r.IR)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\u2713 %s (%s)\n%s\n", r.Name, r.ID, text)
	}
	if out.BatchID != "" {
		fmt.Fprintf(w, "\nStored batch %s (%d record(s), %d failed)\n", out.BatchID, len(out.Results), out.Failed)
	}
	return nil
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/callir/internal/ir"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteExpression stores v under its content ID and returns the ID.
// Uses ON CONFLICT(id) DO NOTHING: writing the same tree twice is a no-op.
func (s *Store) WriteExpression(ctx context.Context, v ir.Value) (string, error) {
	return writeExpression(ctx, s.db, v)
}

func writeExpression(ctx context.Context, db execer, v ir.Value) (string, error) {
	id, err := ir.ExpressionID(v)
	if err != nil {
		return "", fmt.Errorf("write expression: %w", err)
	}
	data, err := marshalIR(v)
	if err != nil {
		return "", fmt.Errorf("write expression: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO expressions (id, ir, ir_version)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, data, ir.IRVersion)
	if err != nil {
		return "", fmt.Errorf("write expression: %w", err)
	}
	return id, nil
}

// WriteNormalization inserts one normalization row and returns its ID.
// A successful row must reference an existing expression (foreign key).
func (s *Store) WriteNormalization(ctx context.Context, n Normalization) (int64, error) {
	return writeNormalization(ctx, s.db, n)
}

func writeNormalization(ctx context.Context, db execer, n Normalization) (int64, error) {
	if (n.ExpressionID == "") == (n.ErrorKind == "") {
		return 0, fmt.Errorf("write normalization %q: exactly one of expression ID and error kind must be set", n.Name)
	}

	var exprID any
	if n.ExpressionID != "" {
		exprID = n.ExpressionID
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO normalizations
		(batch_id, name, expression_id, error_kind, error_message, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		n.BatchID,
		n.Name,
		exprID,
		n.ErrorKind,
		n.ErrorMessage,
		n.Seq,
	)
	if err != nil {
		return 0, fmt.Errorf("write normalization %q: %w", n.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write normalization %q: %w", n.Name, err)
	}
	return id, nil
}

// WriteBatch stores every record under batchID in one transaction. Either
// all rows are written or none are.
func (s *Store) WriteBatch(ctx context.Context, batchID string, records []Record) ([]Normalization, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("write batch: %w", err)
	}
	defer tx.Rollback()

	out := make([]Normalization, 0, len(records))
	for _, r := range records {
		n := Normalization{
			BatchID:      batchID,
			Name:         r.Name,
			ErrorKind:    r.ErrorKind,
			ErrorMessage: r.ErrorMessage,
			Seq:          r.Seq,
		}
		if r.IR != nil {
			if r.ErrorKind != "" {
				return nil, fmt.Errorf("write batch: record %q has both IR and error kind", r.Name)
			}
			n.ExpressionID, err = writeExpression(ctx, tx, r.IR)
			if err != nil {
				return nil, fmt.Errorf("write batch: %w", err)
			}
		}
		n.ID, err = writeNormalization(ctx, tx, n)
		if err != nil {
			return nil, fmt.Errorf("write batch: %w", err)
		}
		out = append(out, n)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("write batch: commit: %w", err)
	}
	slog.Debug("batch written", "batch", batchID, "records", len(out))
	return out, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetExpression returns the expression stored under id.
// Returns an error wrapping ErrNotFound if no such expression exists.
func (s *Store) GetExpression(ctx context.Context, id string) (Expression, error) {
	var (
		data string
		expr Expression
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ir, ir_version FROM expressions WHERE id = ?
	`, id).Scan(&expr.ID, &data, &expr.IRVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return Expression{}, fmt.Errorf("get expression %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Expression{}, fmt.Errorf("get expression %s: %w", id, err)
	}

	expr.IR, err = unmarshalIR(data)
	if err != nil {
		return Expression{}, fmt.Errorf("get expression %s: %w", id, err)
	}
	return expr, nil
}

// ListNormalizations returns the rows of one batch.
// Ordered deterministically: ORDER BY seq ASC, id ASC.
//
// Returns an empty slice (not nil) for an unknown batch.
func (s *Store) ListNormalizations(ctx context.Context, batchID string) ([]Normalization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, name, COALESCE(expression_id, ''), error_kind, error_message, seq
		FROM normalizations
		WHERE batch_id = ?
		ORDER BY seq ASC, id ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query normalizations: %w", err)
	}
	defer rows.Close()

	out := []Normalization{}
	for rows.Next() {
		var n Normalization
		if err := rows.Scan(&n.ID, &n.BatchID, &n.Name, &n.ExpressionID, &n.ErrorKind, &n.ErrorMessage, &n.Seq); err != nil {
			return nil, fmt.Errorf("scan normalization: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate normalizations: %w", err)
	}
	return out, nil
}

// ListBatches summarizes every batch, oldest first (by first seq, then ID).
func (s *Store) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id,
		       COUNT(*),
		       SUM(CASE WHEN error_kind != '' THEN 1 ELSE 0 END),
		       MIN(seq),
		       MAX(seq)
		FROM normalizations
		GROUP BY batch_id
		ORDER BY MIN(seq) ASC, batch_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	out := []Batch{}
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Count, &b.Failed, &b.FirstSeq, &b.LastSeq); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return out, nil
}

// CountExpressions returns the number of distinct stored expressions.
func (s *Store) CountExpressions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expressions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expressions: %w", err)
	}
	return n, nil
}

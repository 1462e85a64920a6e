package store

import "github.com/roach88/callir/internal/ir"

// Expression is a stored, content-addressed IR tree.
type Expression struct {
	ID        string   `json:"id"`
	IR        ir.Value `json:"ir"`
	IRVersion string   `json:"ir_version"`
}

// Normalization records the outcome of normalizing one input document.
// Exactly one of ExpressionID and ErrorKind is set.
type Normalization struct {
	ID           int64  `json:"id"`
	BatchID      string `json:"batch_id"`
	Name         string `json:"name"`
	ExpressionID string `json:"expression_id,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Seq          int64  `json:"seq"`
}

// Failed reports whether the input did not normalize.
func (n Normalization) Failed() bool {
	return n.ErrorKind != ""
}

// Record is one input of a batch write. Set IR on success, ErrorKind and
// ErrorMessage on failure.
type Record struct {
	Name         string
	IR           ir.Value
	ErrorKind    string
	ErrorMessage string
	Seq          int64
}

// Batch summarizes one batch of normalizations.
type Batch struct {
	ID       string `json:"id"`
	Count    int    `json:"count"`
	Failed   int    `json:"failed"`
	FirstSeq int64  `json:"first_seq"`
	LastSeq  int64  `json:"last_seq"`
}

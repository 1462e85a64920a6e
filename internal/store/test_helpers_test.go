package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/callir/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sampleCall builds foo("bar", [1, 2], {k: true}).
func sampleCall() *ir.Call {
	return ir.NewCall(ir.Identifier("foo"),
		ir.String("bar"),
		ir.Array{ir.Number(1), ir.Number(2)},
		ir.NewObject(ir.O("k", ir.Bool(true))),
	)
}

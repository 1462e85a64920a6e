package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator hands out predetermined batch IDs for golden output.
//
//	gen := NewFixedIDGenerator("batch-1", "batch-2")
//	gen.Generate() // "batch-1"
//	gen.Generate() // "batch-2"
//	gen.Generate() // "batch-2" (the last ID repeats)
//
// With no IDs it returns "test-batch-<n>" counting from 1.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewFixedIDGenerator creates a generator over ids.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	if len(g.ids) == 0 {
		return fmt.Sprintf("test-batch-%d", g.n)
	}
	if g.n > len(g.ids) {
		return g.ids[len(g.ids)-1]
	}
	return g.ids[g.n-1]
}

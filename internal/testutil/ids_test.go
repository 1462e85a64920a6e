package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_InOrderThenRepeat(t *testing.T) {
	gen := NewFixedIDGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
}

func TestFixedIDGenerator_DefaultCounter(t *testing.T) {
	gen := NewFixedIDGenerator()
	assert.Equal(t, "test-batch-1", gen.Generate())
	assert.Equal(t, "test-batch-2", gen.Generate())
}

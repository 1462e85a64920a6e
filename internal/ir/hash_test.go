package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressionIDDeterminism(t *testing.T) {
	v := NewCall(Identifier("foo"), String("bar"), Number(2), Bool(true))

	id1, err := ExpressionID(v)
	require.NoError(t, err)
	id2, err := ExpressionID(v)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "ExpressionID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestExpressionIDChangesWithInput(t *testing.T) {
	base := MustExpressionID(NewCall(Identifier("foo"), Number(1)))

	assert.NotEqual(t, base, MustExpressionID(NewCall(Identifier("bar"), Number(1))), "different callee")
	assert.NotEqual(t, base, MustExpressionID(NewCall(Identifier("foo"), Number(2))), "different arg")
	assert.NotEqual(t, base, MustExpressionID(NewCall(Path{"foo"}, Number(1))), "identifier vs path callee")
	assert.NotEqual(t, base, MustExpressionID(NewCall(Identifier("foo"), String("1"))), "number vs string")
}

func TestExpressionIDIgnoresObjectInsertionDetailsOnlyWhenEqual(t *testing.T) {
	a := NewObject(O("x", Number(1)), O("y", Number(2)))
	b := NewObject(O("y", Number(2)), O("x", Number(1)))

	// Declaration order is part of the encoding.
	assert.NotEqual(t, MustExpressionID(a), MustExpressionID(b))

	c := NewObject(O("x", Number(0)), O("y", Number(2)), O("x", Number(1)))
	assert.Equal(t, MustExpressionID(a), MustExpressionID(c), "last write wins, first position kept")
}

func TestExpressionIDDomainSeparation(t *testing.T) {
	v := String("x")
	canonical, err := Marshal(v)
	require.NoError(t, err)

	plain := sha256.Sum256(canonical)
	assert.NotEqual(t, hex.EncodeToString(plain[:]), MustExpressionID(v))

	h := sha256.New()
	h.Write([]byte(DomainExpression))
	h.Write([]byte{0x00})
	h.Write(canonical)
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), MustExpressionID(v))
}

func TestMustExpressionIDPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustExpressionID(Array{nil})
	})
}

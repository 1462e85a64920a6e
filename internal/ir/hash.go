package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainExpression = "callir/expression/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ExpressionID computes the content-addressed ID of a normalized expression.
// Two expressions have the same ID exactly when their canonical encodings match,
// so a quoted and a bare callee ("foo"(1) and foo(1)) share an ID.
func ExpressionID(v Value) (string, error) {
	canonical, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("ExpressionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainExpression, canonical), nil
}

// MustExpressionID is like ExpressionID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustExpressionID(v Value) string {
	id, err := ExpressionID(v)
	if err != nil {
		panic(err)
	}
	return id
}

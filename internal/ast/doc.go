// Package ast defines the syntax tree consumed by the normalizer.
//
// The tree is a closed tagged union: every node implements the sealed Node
// interface and reports one of the Kind constants. Nodes are produced by an
// upstream parser (or decoded from ESTree/Babel-shaped documents with DecodeYAML)
// and are never mutated afterwards.
//
// Supported kinds:
//   - Identifier, StringLiteral, NumericLiteral, BooleanLiteral
//   - ArrayExpression, ObjectExpression
//   - MemberExpression, CallExpression
//
// Anything else the decoder meets is kept as an Unsupported node carrying the
// original type tag, so callers can reject it with a precise diagnostic.
package ast

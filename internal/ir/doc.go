// Package ir provides the normalized intermediate representation produced
// from expression syntax trees.
//
// This package contains value types and their encodings only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Value is sealed: literals, arrays, ordered objects, paths and calls
//   - A Call's funcCall is an Identifier or a Path, nothing else
//   - Values are immutable once built and never shared across parses
//   - MarshalCanonical (RFC 8785) is the only encoding used for identity
package ir

// Package store provides SQLite-backed persistence for normalized expressions.
//
// Two tables:
//   - expressions: IR trees keyed by ir.ExpressionID (content-addressed,
//     so identical trees are stored once)
//   - normalizations: one row per input document per batch, pointing at an
//     expression on success or carrying the error kind on failure
//
// # Ordering
//
// All ordering uses seq INTEGER (logical clock), never timestamps. Every
// list query ends with ORDER BY seq ASC, id ASC so repeated reads return
// identical results.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

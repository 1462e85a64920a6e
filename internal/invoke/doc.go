// Package invoke is a reference downstream resolver for normalized IR.
//
// The normalizer only guarantees shape and ordering. This package does the
// rest: it looks up each call's funcCall in a Registry (paths by their
// dot-joined name), evaluates arguments depth-first before the call that
// consumes them, and invokes the function with the final argument list.
//
// Every invocation is stamped from a logical Clock and recorded in a Trace.
// A per-evaluation quota (WithMaxCalls) bounds the number of invocations,
// and the context is checked before each one.
package invoke

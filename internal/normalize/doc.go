// Package normalize converts expression syntax trees into IR.
//
// A Dispatcher maps each supported ast.Kind to exactly one handler. Handlers
// recurse only through the Resolver they are handed, so every child goes
// back through the same table and the same depth accounting.
//
// GRAMMAR:
//
// The root may be any supported kind (use ResolveCall to require a call).
// A call's callee is an Identifier (quotes stripped by CanonicalName) or a
// static member path. Arguments are limited to literals, identifiers,
// arrays, objects and nested calls. Member chains flatten to ir.Path and
// accept only dotted identifiers or computed string/identifier segments.
//
// ERRORS:
//
// Resolve is fail-fast: the first violation aborts the parse and no partial
// IR is returned. Check walks the whole tree and reports every violation.
// Both return *Error values whose Code matches the sentinels with errors.Is.
//
// Nothing here evaluates, looks up or invokes anything; see package invoke.
package normalize

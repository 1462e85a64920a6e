package invoke

import (
	"errors"
	"fmt"
)

// UnknownFunctionError is returned when a callee is not in the registry.
type UnknownFunctionError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// UnresolvedPathError is returned when a path used as a value does not
// resolve against the evaluator's bindings.
type UnresolvedPathError struct {
	Path    string
	Missing string // First segment that could not be resolved
}

// Error implements the error interface.
func (e *UnresolvedPathError) Error() string {
	return fmt.Sprintf("path %s: no binding for segment %q", e.Path, e.Missing)
}

// CallError wraps an error returned by a registered function.
type CallError struct {
	Func string
	Seq  int64
	Err  error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("call %s (seq=%d): %v", e.Func, e.Seq, e.Err)
}

// Unwrap returns the function's error.
func (e *CallError) Unwrap() error {
	return e.Err
}

// ArgumentError reports a bad argument passed to a builtin.
type ArgumentError struct {
	Func     string
	Position int // -1 when the argument count is wrong
	Message  string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: %s", e.Func, e.Message)
	}
	return fmt.Sprintf("%s: argument %d: %s", e.Func, e.Position, e.Message)
}

// IsUnknownFunctionError returns true if the error is an UnknownFunctionError.
func IsUnknownFunctionError(err error) bool {
	var ue *UnknownFunctionError
	return errors.As(err, &ue)
}

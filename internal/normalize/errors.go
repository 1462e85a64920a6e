package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/callir/internal/ast"
)

// Code categorizes normalization errors. Codes are also sentinel errors:
//
//	errors.Is(err, normalize.ErrUnsupportedArgumentKind)
type Code string

const (
	// ErrUnsupportedNodeKind indicates a node whose kind has no handler.
	ErrUnsupportedNodeKind Code = "UNSUPPORTED_NODE_KIND"

	// ErrUnsupportedCalleeKind indicates a callee that is not an Identifier or MemberExpression.
	ErrUnsupportedCalleeKind Code = "UNSUPPORTED_CALLEE_KIND"

	// ErrUnsupportedArgumentKind indicates a call argument outside the allow-list.
	ErrUnsupportedArgumentKind Code = "UNSUPPORTED_ARGUMENT_KIND"

	// ErrUnsupportedPathSegment indicates a member chain that is not a static path.
	ErrUnsupportedPathSegment Code = "UNSUPPORTED_PATH_SEGMENT"

	// ErrMissingDispatcherWiring indicates a Dispatcher that was not built with New.
	// This is a programming error in the host, not a data problem.
	ErrMissingDispatcherWiring Code = "MISSING_DISPATCHER_WIRING"

	// ErrDepthExceeded indicates nesting deeper than WithMaxDepth allows.
	ErrDepthExceeded Code = "DEPTH_EXCEEDED"

	// ErrUnsupportedRootKind indicates ResolveCall was given something other than a call.
	ErrUnsupportedRootKind Code = "UNSUPPORTED_ROOT_KIND"
)

// Error implements the error interface so a Code can be used as a sentinel.
func (c Code) Error() string { return string(c) }

// IsProgrammingError reports whether the code signals a host construction
// bug rather than invalid input.
func (c Code) IsProgrammingError() bool {
	return c == ErrMissingDispatcherWiring
}

// Error is a normalization failure with enough context for a diagnostic.
type Error struct {
	// Code identifies the error category.
	Code Code `json:"code"`

	// NodeKind is the runtime kind tag of the offending node.
	NodeKind ast.Kind `json:"node_kind,omitempty"`

	// Position is the argument index for ErrUnsupportedArgumentKind, -1 otherwise.
	Position int `json:"position"`

	// Segments holds the path resolved so far for ErrUnsupportedPathSegment.
	Segments []string `json:"segments,omitempty"`

	// Location points at the offending node from the root, e.g. "$.arguments[0].elements[2]".
	Location string `json:"location"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if len(e.Segments) > 0 {
		fmt.Fprintf(&b, " (path so far: %s)", strings.Join(e.Segments, "."))
	}
	if e.Location != "" {
		fmt.Fprintf(&b, " at %s", e.Location)
	}
	return b.String()
}

// Is matches the error against a Code sentinel.
func (e *Error) Is(target error) bool {
	code, ok := target.(Code)
	return ok && e.Code == code
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var ne *Error
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

func newError(code Code, kind ast.Kind, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		NodeKind: kind,
		Position: -1,
		Message:  fmt.Sprintf(format, args...),
	}
}

// at prefixes the error location with the step from a parent to the child
// that failed. Errors are freshly allocated per parse, so updating in place
// is safe.
func at(err error, step string) error {
	if ne, ok := AsError(err); ok {
		ne.Location = step + ne.Location
	}
	return err
}

func kindOf(n ast.Node) ast.Kind {
	if n == nil {
		return ""
	}
	return n.Kind()
}

package invoke

import (
	"errors"
	"fmt"
)

// QuotaEnforcer counts invocations within one evaluation and enforces a
// maximum. Each Evaluate call gets its own enforcer.
//
// The normalizer bounds nesting depth; the quota bounds breadth, e.g. a
// single array holding thousands of calls.
type QuotaEnforcer struct {
	maxCalls int // 0 means unlimited
	current  int
}

// NewQuotaEnforcer creates an enforcer allowing maxCalls invocations.
// Zero disables the limit.
func NewQuotaEnforcer(maxCalls int) *QuotaEnforcer {
	return &QuotaEnforcer{maxCalls: maxCalls}
}

// Check counts one invocation of name and fails once the limit is passed.
func (q *QuotaEnforcer) Check(name string) error {
	q.current++
	if q.maxCalls > 0 && q.current > q.maxCalls {
		return &QuotaExceededError{
			Func:  name,
			Calls: q.current,
			Limit: q.maxCalls,
		}
	}
	return nil
}

// Current returns the number of invocations counted so far.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxCalls returns the configured limit.
func (q *QuotaEnforcer) MaxCalls() int {
	return q.maxCalls
}

// QuotaExceededError is returned when an evaluation makes more calls than
// WithMaxCalls allows. The evaluation stops; no result is returned.
type QuotaExceededError struct {
	Func  string // Callee that would have been invoked
	Calls int    // Number of calls attempted
	Limit int    // Maximum allowed calls
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("call to %s exceeded max calls quota: %d calls > %d limit",
		e.Func, e.Calls, e.Limit)
}

// IsQuotaExceededError returns true if the error is a QuotaExceededError.
// Uses errors.As to handle wrapped errors.
func IsQuotaExceededError(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// Package errors provides the structured error types used across the task
// graph: construction-time rejections, per-task execution failures, and
// propagated dependency failures, each carrying a machine-readable code and
// a cause chain compatible with the standard errors package.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error is the unified error type for graph construction and execution.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// --- Constructors ---

// Cycle creates an Error for a dependency cycle found at construction time.
// The path lists the node descriptions along the offending cycle.
func Cycle(path []string) *Error {
	msg := "dependency cycle detected"
	if len(path) > 0 {
		msg = fmt.Sprintf("dependency cycle detected: %s", strings.Join(path, " -> "))
	}
	return &Error{
		Code: ErrCodeCycle, Message: msg,
		Details: map[string]any{"path": path},
	}
}

// Execution creates an Error for a task whose own action failed.
func Execution(task string, cause error) *Error {
	return &Error{
		Code: ErrCodeExecution, Message: fmt.Sprintf("task %q failed", task),
		Details: map[string]any{"task": task},
		Cause:   cause,
	}
}

// DependencyFailed creates an Error for a task skipped because a transitive
// dependency failed. The origin is the originating execution failure.
func DependencyFailed(task string, origin error) *Error {
	return &Error{
		Code: ErrCodeDependencyFailed, Message: fmt.Sprintf("task %q skipped: dependency failed", task),
		Details: map[string]any{"task": task},
		Cause:   origin,
	}
}

// Inconsistent creates an Error for a scheduler invariant violation.
func Inconsistent(format string, args ...any) *Error {
	return &Error{
		Code: ErrCodeInconsistent, Message: fmt.Sprintf(format, args...),
	}
}

// InvalidInput creates an Error for a malformed expression or option.
func InvalidInput(field, reason string) *Error {
	e := &Error{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
	}
	if field != "" {
		e.Details = map[string]any{"field": field}
	}
	return e
}

// --- Predicates ---

// CodeOf returns the ErrorCode of err if it is (or wraps) an *Error.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func hasCode(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsCycle reports whether err carries ErrCodeCycle anywhere in its chain.
func IsCycle(err error) bool { return hasCode(err, ErrCodeCycle) }

// IsExecution reports whether err carries ErrCodeExecution anywhere in its chain.
func IsExecution(err error) bool { return hasCode(err, ErrCodeExecution) }

// IsDependencyFailed reports whether err carries ErrCodeDependencyFailed
// anywhere in its chain.
func IsDependencyFailed(err error) bool { return hasCode(err, ErrCodeDependencyFailed) }

// IsInconsistent reports whether err carries ErrCodeInconsistent anywhere in
// its chain.
func IsInconsistent(err error) bool { return hasCode(err, ErrCodeInconsistent) }

// RootCause walks the cause chain and returns the innermost error.
func RootCause(err error) error {
	for {
		unwrapped := stderrors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

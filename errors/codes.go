package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors (the graph is rejected before anything executes)
const (
	// ErrCodeCycle indicates the dependency edges are not acyclic.
	ErrCodeCycle ErrorCode = "CYCLE_DETECTED"
	// ErrCodeInvalidInput indicates a malformed expression or option.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Execution errors (a run was attempted)
const (
	// ErrCodeExecution indicates a task's own action returned an error.
	ErrCodeExecution ErrorCode = "EXECUTION_FAILED"
	// ErrCodeDependencyFailed indicates a task was skipped because a
	// transitive dependency failed; its action never ran.
	ErrCodeDependencyFailed ErrorCode = "DEPENDENCY_FAILED"
)

// Internal errors
const (
	// ErrCodeInconsistent indicates a scheduler invariant violation: no task
	// is ready or running while the root remains unresolved.
	ErrCodeInconsistent ErrorCode = "SCHEDULER_INCONSISTENT"
)

// IsTaskOutcomeCode returns true if the code describes the outcome of a
// single task rather than a structural or internal failure.
func IsTaskOutcomeCode(code ErrorCode) bool {
	return code == ErrCodeExecution || code == ErrCodeDependencyFailed
}

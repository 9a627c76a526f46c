package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestCycle(t *testing.T) {
	err := Cycle([]string{"a", "b", "a"})

	if err.Code != ErrCodeCycle {
		t.Errorf("expected code %s, got %s", ErrCodeCycle, err.Code)
	}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("expected cycle path in message, got %q", err.Error())
	}
	if !IsCycle(err) {
		t.Error("expected IsCycle to be true")
	}
}

func TestCycle_EmptyPath(t *testing.T) {
	err := Cycle(nil)
	if !strings.Contains(err.Error(), "dependency cycle detected") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestExecution(t *testing.T) {
	cause := fmt.Errorf("division by zero")
	err := Execution("ratio", cause)

	if err.Code != ErrCodeExecution {
		t.Errorf("expected code %s, got %s", ErrCodeExecution, err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause in error chain")
	}
	if err.Details["task"] != "ratio" {
		t.Errorf("expected task detail, got %v", err.Details)
	}
}

func TestDependencyFailed_ChainsToOrigin(t *testing.T) {
	cause := fmt.Errorf("boom")
	origin := Execution("leaf", cause)
	err := DependencyFailed("root", origin)

	if err.Code != ErrCodeDependencyFailed {
		t.Errorf("expected code %s, got %s", ErrCodeDependencyFailed, err.Code)
	}
	if !IsDependencyFailed(err) {
		t.Error("expected IsDependencyFailed to be true")
	}
	if !IsExecution(err) {
		t.Error("expected originating execution failure in chain")
	}
	if RootCause(err) != cause {
		t.Errorf("expected root cause %v, got %v", cause, RootCause(err))
	}
}

func TestInconsistent(t *testing.T) {
	err := Inconsistent("stuck graph: %d unresolved", 3)
	if !IsInconsistent(err) {
		t.Error("expected IsInconsistent to be true")
	}
	if !strings.Contains(err.Message, "3 unresolved") {
		t.Errorf("unexpected message: %q", err.Message)
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("workers", "must be >= 1")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}
	if err.Details["field"] != "workers" {
		t.Errorf("expected field detail, got %v", err.Details)
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeExecution, "failed").WithDetail("node", 7)
	if err.Details["node"] != 7 {
		t.Errorf("expected detail node=7, got %v", err.Details)
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Execution("x", nil))
	code, ok := CodeOf(wrapped)
	if !ok || code != ErrCodeExecution {
		t.Errorf("expected EXECUTION_FAILED, got %s (ok=%v)", code, ok)
	}

	_, ok = CodeOf(fmt.Errorf("plain"))
	if ok {
		t.Error("expected not ok for plain error")
	}
}

func TestIsTaskOutcomeCode(t *testing.T) {
	if !IsTaskOutcomeCode(ErrCodeExecution) || !IsTaskOutcomeCode(ErrCodeDependencyFailed) {
		t.Error("expected task outcome codes")
	}
	if IsTaskOutcomeCode(ErrCodeCycle) || IsTaskOutcomeCode(ErrCodeInconsistent) {
		t.Error("expected non-outcome codes")
	}
}

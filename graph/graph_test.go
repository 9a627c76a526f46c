package graph

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/jeremyrcoyle/delayed/errors"
)

func nopAction(_ context.Context, _ []any) (any, error) { return nil, nil }

// diamondNodes builds nodes for root -> {left, right} -> leaf.
func diamondNodes() []*Node {
	return []*Node{
		{ID: 0, Name: "leaf", Action: nopAction},
		{ID: 1, Name: "left", Action: nopAction, Bindings: []Binding{ReferenceBinding(0)}},
		{ID: 2, Name: "right", Action: nopAction, Bindings: []Binding{ReferenceBinding(0)}},
		{ID: 3, Name: "root", Action: nopAction, Bindings: []Binding{ReferenceBinding(1), ReferenceBinding(2)}},
	}
}

func TestNew_DerivesEdgesAndStatuses(t *testing.T) {
	g, err := New(diamondNodes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leaf := g.Node(0)
	if leaf.Status != Ready || leaf.PendingDeps != 0 {
		t.Errorf("expected leaf Ready with 0 pending, got %s/%d", leaf.Status, leaf.PendingDeps)
	}
	if len(leaf.Dependents) != 2 || leaf.Dependents[0] != 1 || leaf.Dependents[1] != 2 {
		t.Errorf("expected leaf dependents [1 2], got %v", leaf.Dependents)
	}

	root := g.Node(3)
	if root.Status != Waiting || root.PendingDeps != 2 {
		t.Errorf("expected root Waiting with 2 pending, got %s/%d", root.Status, root.PendingDeps)
	}
}

func TestNew_EmptyGraph(t *testing.T) {
	_, err := New(nil, 0)
	if err == nil {
		t.Fatal("expected error for empty graph")
	}
}

func TestNew_RootOutOfRange(t *testing.T) {
	nodes := []*Node{{ID: 0, Name: "a", Action: nopAction}}
	_, err := New(nodes, 5)
	if err == nil {
		t.Fatal("expected error for out-of-range root")
	}
}

func TestNew_IDPositionMismatch(t *testing.T) {
	nodes := []*Node{{ID: 1, Name: "a", Action: nopAction}}
	_, err := New(nodes, 0)
	if err == nil {
		t.Fatal("expected error for id mismatch")
	}
}

func TestNew_SelfLoop(t *testing.T) {
	nodes := []*Node{
		{ID: 0, Name: "ouroboros", Action: nopAction, Bindings: []Binding{ReferenceBinding(0)}},
	}
	_, err := New(nodes, 0)
	if !errors.IsCycle(err) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestNew_CycleRejected(t *testing.T) {
	nodes := []*Node{
		{ID: 0, Name: "a", Action: nopAction, Bindings: []Binding{ReferenceBinding(1)}},
		{ID: 1, Name: "b", Action: nopAction, Bindings: []Binding{ReferenceBinding(0)}},
		{ID: 2, Name: "c", Action: nopAction},
	}
	_, err := New(nodes, 0)
	if !errors.IsCycle(err) {
		t.Fatalf("expected cycle error, got %v", err)
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatal("expected structured error")
	}
	path, _ := e.Details["path"].([]string)
	if len(path) != 2 {
		t.Fatalf("expected both cycle members named, got %v", path)
	}
}

func TestTransition_Monotone(t *testing.T) {
	g, err := New(diamondNodes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.Transition(0, Running); err != nil {
		t.Fatalf("Ready -> Running should be allowed: %v", err)
	}
	if err := g.Transition(0, Ready); err == nil {
		t.Fatal("expected error re-entering earlier status")
	}
	if err := g.Transition(3, Running); err == nil {
		t.Fatal("expected error dispatching a Waiting node")
	}
	// Dependency failure may hit nodes that never ran.
	if err := g.Transition(3, Failed); err != nil {
		t.Fatalf("Waiting -> Failed should be allowed: %v", err)
	}
	if err := g.Transition(3, Ready); err == nil {
		t.Fatal("expected error leaving a terminal status")
	}
}

func TestResolve_UnlocksDependents(t *testing.T) {
	g, err := New(diamondNodes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.Transition(0, Running); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unlocked, err := g.Resolve(0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unlocked) != 2 || unlocked[0] != 1 || unlocked[1] != 2 {
		t.Fatalf("expected [1 2] unlocked, got %v", unlocked)
	}
	if g.Node(1).Status != Ready || g.Node(2).Status != Ready {
		t.Error("expected dependents promoted to Ready")
	}
	if g.Node(3).Status != Waiting || g.Node(3).PendingDeps != 2 {
		t.Error("expected root untouched")
	}
	if g.Node(0).Value != 10 {
		t.Errorf("expected value 10, got %v", g.Node(0).Value)
	}
}

func TestFail_RecordsFailure(t *testing.T) {
	g, err := New(diamondNodes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cause := errors.Execution("leaf", nil)
	if err := g.Transition(0, Running); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Fail(0, cause); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Node(0).Status != Failed || g.Node(0).Failure != cause {
		t.Error("expected failure recorded")
	}
}

func TestBoundArgs(t *testing.T) {
	nodes := []*Node{
		{ID: 0, Name: "leaf", Action: nopAction},
		{ID: 1, Name: "sum", Action: nopAction, Bindings: []Binding{
			ReferenceBinding(0),
			LiteralBinding(4),
		}},
	}
	g, err := New(nodes, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unresolved dependency must be an internal error, never a zero value.
	if _, err := g.BoundArgs(1); !errors.IsInconsistent(err) {
		t.Fatalf("expected inconsistency error, got %v", err)
	}

	if err := g.Transition(0, Running); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.Resolve(0, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	args, err := g.BoundArgs(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(args) != 2 || args[0] != 3 || args[1] != 4 {
		t.Fatalf("expected [3 4], got %v", args)
	}
}

func TestExport(t *testing.T) {
	g, err := New(diamondNodes(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	topo := g.Export()
	if len(topo.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(topo.Nodes))
	}
	if topo.Root != 3 {
		t.Errorf("expected root 3, got %d", topo.Root)
	}
	if len(topo.Edges) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(topo.Edges))
	}
	// Edge direction: To depends on From.
	found := false
	for _, e := range topo.Edges {
		if e.From == 0 && e.To == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected edge leaf -> left")
	}
}

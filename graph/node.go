package graph

import "context"

// NodeID addresses a node within its graph's arena. IDs are assigned in
// creation order starting at zero and are stable for the node's lifetime.
type NodeID int

// Status is the runtime execution state of a node.
type Status int

const (
	// Waiting means at least one dependency is not yet resolved.
	Waiting Status = iota
	// Ready means all dependencies are resolved and the node is eligible
	// for dispatch.
	Ready
	// Running means the node's action has been submitted to a worker.
	Running
	// Resolved means the node's action completed and its value is set.
	Resolved
	// Failed means the node's own action failed, or a transitive dependency
	// failed and the action never ran.
	Failed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Resolved:
		return "Resolved"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == Resolved || s == Failed
}

// Action is the unit of work a node executes once its dependencies are
// resolved. Arguments arrive in binding order with references substituted
// by the referenced nodes' resolved values.
type Action func(ctx context.Context, args []any) (any, error)

// Binding is one argument slot of a node: either a literal value, already
// available, or a reference to another node whose value it awaits.
type Binding struct {
	ref     NodeID
	literal any
	isRef   bool
}

// LiteralBinding creates a binding holding an immediate value.
func LiteralBinding(v any) Binding {
	return Binding{literal: v}
}

// ReferenceBinding creates a binding referencing another node's value.
func ReferenceBinding(id NodeID) Binding {
	return Binding{ref: id, isRef: true}
}

// IsReference reports whether the binding references another node.
func (b Binding) IsReference() bool { return b.isRef }

// Reference returns the referenced node id. Valid only when IsReference.
func (b Binding) Reference() NodeID { return b.ref }

// Literal returns the literal value. Valid only when !IsReference.
func (b Binding) Literal() any { return b.literal }

// Node is a single deferred unit of work.
//
// Structural fields (ID, Name, Action, Bindings, Dependents) are fixed at
// construction. Runtime fields (Status, PendingDeps, Value, Failure) are
// mutated only by the scheduler, through the graph's validated transitions.
type Node struct {
	ID       NodeID
	Name     string
	Action   Action
	Bindings []Binding

	// Dependents lists ids of nodes that reference this node, ascending.
	Dependents []NodeID
	// PendingDeps counts distinct dependencies not yet Resolved.
	PendingDeps int

	Status  Status
	Value   any
	Failure error
}

// IsReady reports whether the node is eligible for dispatch: all
// dependencies resolved and not yet submitted.
func (n *Node) IsReady() bool {
	return n.Status == Ready && n.PendingDeps == 0
}

// Dependencies returns the distinct referenced node ids in first-reference
// order.
func (n *Node) Dependencies() []NodeID {
	seen := make(map[NodeID]bool, len(n.Bindings))
	deps := make([]NodeID, 0, len(n.Bindings))
	for _, b := range n.Bindings {
		if b.IsReference() && !seen[b.Reference()] {
			seen[b.Reference()] = true
			deps = append(deps, b.Reference())
		}
	}
	return deps
}

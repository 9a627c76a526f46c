package graph

import (
	"fmt"
	"sort"

	"github.com/jeremyrcoyle/delayed/errors"
)

// Graph is an arena of task nodes covering the transitive dependency closure
// of a single root. Structure is static once built; the scheduler mutates
// only runtime state, through the validated transition methods below.
type Graph struct {
	nodes []*Node
	root  NodeID
}

// New assembles and validates a graph from pre-built nodes.
//
// Node ids must match their positions in the slice. New derives the reverse
// edges and pending dependency counts, initializes every node's status
// (Ready when it has no dependencies, Waiting otherwise), and rejects the
// graph when the dependency edges admit no topological order.
func New(nodes []*Node, root NodeID) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, errors.InvalidInput("nodes", "graph has no nodes")
	}
	if int(root) < 0 || int(root) >= len(nodes) {
		return nil, errors.InvalidInput("root", fmt.Sprintf("root id %d out of range", root))
	}

	for i, n := range nodes {
		if n == nil {
			return nil, errors.InvalidInput("nodes", fmt.Sprintf("node %d is nil", i))
		}
		if n.ID != NodeID(i) {
			return nil, errors.InvalidInput("nodes", fmt.Sprintf("node at position %d has id %d", i, n.ID))
		}
		for _, b := range n.Bindings {
			if !b.IsReference() {
				continue
			}
			ref := b.Reference()
			if int(ref) < 0 || int(ref) >= len(nodes) {
				return nil, errors.InvalidInput("bindings", fmt.Sprintf("node %d references unknown node %d", n.ID, ref))
			}
			if ref == n.ID {
				return nil, errors.Cycle([]string{n.Name, n.Name})
			}
		}
	}

	g := &Graph{nodes: nodes, root: root}
	g.deriveEdges()

	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}

	for _, n := range g.nodes {
		if n.PendingDeps == 0 {
			n.Status = Ready
		} else {
			n.Status = Waiting
		}
		n.Value = nil
		n.Failure = nil
	}

	return g, nil
}

// deriveEdges populates Dependents and PendingDeps from the bindings.
func (g *Graph) deriveEdges() {
	for _, n := range g.nodes {
		n.Dependents = nil
		n.PendingDeps = 0
	}
	for _, n := range g.nodes {
		deps := n.Dependencies()
		n.PendingDeps = len(deps)
		for _, dep := range deps {
			g.nodes[dep].Dependents = append(g.nodes[dep].Dependents, n.ID)
		}
	}
	for _, n := range g.nodes {
		sort.Slice(n.Dependents, func(i, j int) bool { return n.Dependents[i] < n.Dependents[j] })
	}
}

// checkAcyclic runs Kahn's algorithm over the dependency edges. If any node
// survives, the leftovers form or depend on a cycle and the graph is rejected
// naming them.
func (g *Graph) checkAcyclic() error {
	inDegree := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		inDegree[i] = len(n.Dependencies())
	}

	var queue []NodeID
	for i, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, NodeID(i))
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range g.nodes[id].Dependents {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if visited == len(g.nodes) {
		return nil
	}

	var leftover []string
	for i, deg := range inDegree {
		if deg > 0 {
			leftover = append(leftover, g.nodes[i].Name)
		}
	}
	return errors.Cycle(leftover)
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// Root returns the root node's id.
func (g *Graph) Root() NodeID { return g.root }

// RootNode returns the root node.
func (g *Graph) RootNode() *Node { return g.nodes[g.root] }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// --- validated runtime transitions ---

// allowedTransition encodes the monotone status machine. A node may fail
// from Waiting or Ready when a dependency fails, without ever running.
func allowedTransition(from, to Status) bool {
	switch from {
	case Waiting:
		return to == Ready || to == Failed
	case Ready:
		return to == Running || to == Failed
	case Running:
		return to == Resolved || to == Failed
	default:
		return false
	}
}

// Transition moves a node to the given status, validating monotonicity.
func (g *Graph) Transition(id NodeID, to Status) error {
	n := g.nodes[id]
	if !allowedTransition(n.Status, to) {
		return errors.Inconsistent("disallowed transition for %q: %s -> %s", n.Name, n.Status, to)
	}
	n.Status = to
	return nil
}

// Resolve records a successful result and returns the dependents whose
// pending count reached zero, in ascending id order. Those nodes are
// promoted Waiting -> Ready.
func (g *Graph) Resolve(id NodeID, value any) ([]NodeID, error) {
	if err := g.Transition(id, Resolved); err != nil {
		return nil, err
	}
	n := g.nodes[id]
	n.Value = value

	var unlocked []NodeID
	for _, depID := range n.Dependents {
		dep := g.nodes[depID]
		dep.PendingDeps--
		if dep.PendingDeps < 0 {
			return nil, errors.Inconsistent("pending count of %q went negative", dep.Name)
		}
		if dep.PendingDeps == 0 && dep.Status == Waiting {
			if err := g.Transition(depID, Ready); err != nil {
				return nil, err
			}
			unlocked = append(unlocked, depID)
		}
	}
	return unlocked, nil
}

// Fail records a failure on a node.
func (g *Graph) Fail(id NodeID, failure error) error {
	if err := g.Transition(id, Failed); err != nil {
		return err
	}
	g.nodes[id].Failure = failure
	return nil
}

// BoundArgs substitutes resolved dependency values into the node's bindings,
// in binding order.
func (g *Graph) BoundArgs(id NodeID) ([]any, error) {
	n := g.nodes[id]
	args := make([]any, len(n.Bindings))
	for i, b := range n.Bindings {
		if !b.IsReference() {
			args[i] = b.Literal()
			continue
		}
		dep := g.nodes[b.Reference()]
		if dep.Status != Resolved {
			return nil, errors.Inconsistent("argument %d of %q references unresolved node %q", i, n.Name, dep.Name)
		}
		args[i] = dep.Value
	}
	return args, nil
}

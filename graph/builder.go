package graph

import (
	"github.com/jeremyrcoyle/delayed/errors"
)

// Expr is a deferred expression the builder can compile: a callable plus
// argument expressions, recursively. The public API in the root package
// implements it; any type with pointer identity works, since the builder
// dedupes by interface identity.
type Expr interface {
	// TaskName returns a human-readable label for the task.
	TaskName() string
	// TaskAction returns the unit of work to run once arguments resolve.
	TaskAction() Action
	// TaskArgs returns the argument list. Elements implementing Expr become
	// dependency references; everything else becomes a literal binding.
	TaskArgs() []any
}

// Build compiles a nested expression into a graph rooted at expr.
//
// The same Expr value encountered at multiple positions maps to a single
// node, so diamond dependencies execute once and every referencing node
// observes the same result. Node ids follow depth-first creation order,
// dependencies before dependents.
func Build(expr Expr) (*Graph, error) {
	b := &builder{ids: make(map[Expr]NodeID)}
	rootID, err := b.visit(expr, nil)
	if err != nil {
		return nil, err
	}
	return New(b.nodes, rootID)
}

type builder struct {
	nodes []*Node
	// ids is the identity side-table from expression reference to node id.
	ids map[Expr]NodeID
	// visiting guards against self-referential expressions during the walk.
	visiting map[Expr]bool
}

func (b *builder) visit(expr Expr, path []string) (NodeID, error) {
	if expr == nil {
		return 0, errors.InvalidInput("expression", "nil expression")
	}
	if id, ok := b.ids[expr]; ok {
		return id, nil
	}
	if b.visiting == nil {
		b.visiting = make(map[Expr]bool)
	}
	if b.visiting[expr] {
		return 0, errors.Cycle(append(path, expr.TaskName()))
	}
	b.visiting[expr] = true
	defer delete(b.visiting, expr)

	args := expr.TaskArgs()
	bindings := make([]Binding, 0, len(args))
	for _, arg := range args {
		if child, ok := arg.(Expr); ok {
			childID, err := b.visit(child, append(path, expr.TaskName()))
			if err != nil {
				return 0, err
			}
			bindings = append(bindings, ReferenceBinding(childID))
			continue
		}
		bindings = append(bindings, LiteralBinding(arg))
	}

	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, &Node{
		ID:       id,
		Name:     expr.TaskName(),
		Action:   expr.TaskAction(),
		Bindings: bindings,
	})
	b.ids[expr] = id
	return id, nil
}

package delayed

import (
	"context"
	"fmt"

	"github.com/jeremyrcoyle/delayed/graph"
)

// Delayed is a deferred value: one task-to-be in the graph. Its identity
// matters — passing the same *Delayed to two call sites produces a single
// shared task, not two copies.
type Delayed struct {
	name   string
	action graph.Action
	args   []any
}

var _ graph.Expr = (*Delayed)(nil)

// TaskName implements graph.Expr.
func (d *Delayed) TaskName() string { return d.name }

// TaskAction implements graph.Expr.
func (d *Delayed) TaskAction() graph.Action { return d.action }

// TaskArgs implements graph.Expr.
func (d *Delayed) TaskArgs() []any { return d.args }

// Named sets a human-readable label used in logs, traces, and errors, and
// returns the receiver.
func (d *Delayed) Named(name string) *Delayed {
	d.name = name
	return d
}

// Delay marks a literal value as a deferred zero-argument leaf.
func Delay(v any) *Delayed {
	return &Delayed{
		name: fmt.Sprintf("delay(%v)", v),
		action: func(_ context.Context, _ []any) (any, error) {
			return v, nil
		},
	}
}

// DelayFunc defers a zero-argument thunk; the function runs when the task
// is dispatched, not when the value is declared.
func DelayFunc(name string, fn func(ctx context.Context) (any, error)) *Delayed {
	return &Delayed{
		name: name,
		action: func(ctx context.Context, _ []any) (any, error) {
			return fn(ctx)
		},
	}
}

// Func is a wrapped callable whose invocations build graph nodes instead of
// executing.
type Func struct {
	name string
	impl graph.Action
}

// Wrap wraps a callable for deferred invocation.
func Wrap(name string, impl func(ctx context.Context, args []any) (any, error)) *Func {
	return &Func{name: name, impl: impl}
}

// Call yields a deferred invocation of the wrapped callable. Arguments may
// mix *Delayed values (dependencies) and ordinary values (literals); they
// are delivered to the callable in call order once dependencies resolve.
func (f *Func) Call(args ...any) *Delayed {
	return &Delayed{
		name:   f.name,
		action: f.impl,
		args:   args,
	}
}

// BuildGraph compiles the expression into its dependency graph without
// running it. Useful for inspection and visualization via Export.
func BuildGraph(d *Delayed) (*graph.Graph, error) {
	return graph.Build(d)
}

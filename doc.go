// Package delayed expresses a computation as a graph of lazily-created
// tasks and evaluates it on a bounded set of workers. Wrapped functions
// called with a mix of deferred and literal arguments yield new deferred
// values instead of executing; Compute compiles the resulting expression
// into a dependency graph and runs independent tasks concurrently while
// dependent tasks wait for their inputs.
//
//	add := delayed.Wrap("add", func(_ context.Context, args []any) (any, error) {
//		return args[0].(int) + args[1].(int), nil
//	})
//	sum := add.Call(delayed.Delay(3), delayed.Delay(4))
//	v, err := delayed.Compute(ctx, sum, delayed.WithWorkers(2))
//	// v == 7
//
// A deferred value used at multiple call sites becomes a single task that
// executes at most once; every referencing task observes the same result.
package delayed

// Package worker provides the execution substrate for the scheduler: a pool
// accepts submitted jobs, runs them on its own goroutines, and reports each
// outcome on a completion channel. Workers never touch graph state; results
// flow back to the coordinator purely through completions.
//
// Two implementations ship: NewPool runs jobs on n goroutines, and Inline
// executes each job during Submit for deterministic single-threaded runs.
package worker

// Package graph models a computation as a directed acyclic graph of deferred
// tasks. Nodes hold an action plus ordered argument bindings, where each
// binding is either a literal value or a reference to another node. The
// builder compiles a nested expression into a deduplicated arena of nodes,
// sharing a single node for any expression referenced from multiple call
// sites, and rejects cyclic structures before anything executes.
//
// The graph is structurally immutable after construction; only runtime state
// (status, value, failure, pending dependency counts) changes, and every
// status change goes through validated monotone transitions.
package graph

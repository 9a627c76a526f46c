// Package scheduler drives a task graph to completion on a bounded worker
// pool. A single coordinating loop owns all graph mutation: it seeds a
// priority-ordered ready queue, fills worker capacity, blocks on the pool's
// completion channel, and applies each result — promoting dependents whose
// last dependency resolved, or marking the transitive dependents of a failed
// task as failed without ever submitting them.
//
// Status-transition observations stream to registered observers (logging,
// tracing, metrics); observers are a side channel and never influence
// scheduling.
package scheduler

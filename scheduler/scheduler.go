package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jeremyrcoyle/delayed/errors"
	"github.com/jeremyrcoyle/delayed/graph"
	"github.com/jeremyrcoyle/delayed/logger"
	"github.com/jeremyrcoyle/delayed/worker"
)

// Scheduler owns a graph's runtime state for the duration of one Run call.
// It promotes tasks through the status machine, dispatches ready tasks to
// the worker pool up to its capacity, and propagates values and failures
// across the graph until the root resolves.
//
// All graph mutation happens on the goroutine calling Run; workers report
// results only through the pool's completion channel.
type Scheduler struct {
	graph     *graph.Graph
	pool      worker.Pool
	capacity  int
	observers []Observer
	log       *logger.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCapacity bounds the number of concurrently running tasks. Values
// below 1 are clamped to 1.
func WithCapacity(n int) Option {
	return func(s *Scheduler) {
		if n < 1 {
			n = 1
		}
		s.capacity = n
	}
}

// WithObserver registers a status-transition observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observers = append(s.observers, o)
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// New creates a scheduler for one run over g, dispatching to pool.
func New(g *graph.Graph, pool worker.Pool, opts ...Option) *Scheduler {
	s := &Scheduler{
		graph:    g,
		pool:     pool,
		capacity: 1,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the graph to completion and returns the root's resolved value,
// or the failure marked on the root. Tasks running in branches irrelevant
// to a failure are left to finish; their results are discarded when Run
// returns.
func (s *Scheduler) Run(ctx context.Context) (any, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.WithComponent("scheduler").WithFields(map[string]interface{}{
		logger.FieldRunID: runID,
	})
	log.Debug("run started", logger.Fields(
		"tasks", s.graph.Len(),
		logger.FieldWorkers, s.capacity,
	))

	queue := newReadyQueue()
	for i := 0; i < s.graph.Len(); i++ {
		n := s.graph.Node(graph.NodeID(i))
		if n.IsReady() {
			queue.Add(n.ID, s.priority(n.ID))
		}
	}

	running := make(map[worker.Handle]graph.NodeID)

	for {
		root := s.graph.RootNode()
		if root.Status == graph.Resolved {
			log.Debug("run resolved", logger.DurationFields(root.Name, time.Since(start)))
			return root.Value, nil
		}
		if root.Status == graph.Failed {
			fields := logger.ErrorFields(root.Name, root.Failure)
			fields[logger.FieldDuration] = time.Since(start).Milliseconds()
			log.Debug("run failed", fields)
			return nil, root.Failure
		}

		for len(running) < s.capacity && queue.Len() > 0 {
			id := queue.Next()
			if err := s.dispatch(ctx, id, running); err != nil {
				return nil, err
			}
		}

		if len(running) == 0 {
			// A correctly built acyclic graph always has ready work while
			// the root is unresolved; surface instead of hanging.
			return nil, errors.Inconsistent(
				"stuck graph: root %q unresolved with no ready or running tasks", root.Name)
		}

		completion, err := s.pool.AwaitAny(ctx)
		if err != nil {
			return nil, err
		}
		id, ok := running[completion.Handle]
		if !ok {
			return nil, errors.Inconsistent("completion for unknown handle %d", completion.Handle)
		}
		delete(running, completion.Handle)

		if completion.Err != nil {
			if err := s.failNode(ctx, id, completion.Err, queue); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.resolveNode(ctx, id, completion.Value, queue); err != nil {
			return nil, err
		}
	}
}

// dispatch substitutes dependency values, marks the node Running, and
// submits its action to the pool.
func (s *Scheduler) dispatch(ctx context.Context, id graph.NodeID, running map[worker.Handle]graph.NodeID) error {
	n := s.graph.Node(id)
	args, err := s.graph.BoundArgs(id)
	if err != nil {
		return err
	}
	if err := s.graph.Transition(id, graph.Running); err != nil {
		return err
	}
	s.notify(ctx, Transition{NodeID: id, Description: n.Name, From: graph.Ready, To: graph.Running})

	action := n.Action
	handle := s.pool.Submit(ctx, func(jobCtx context.Context) (any, error) {
		return action(jobCtx, args)
	})
	running[handle] = id
	return nil
}

// resolveNode applies a success, promoting dependents whose last dependency
// just resolved.
func (s *Scheduler) resolveNode(ctx context.Context, id graph.NodeID, value any, queue *readyQueue) error {
	n := s.graph.Node(id)
	unlocked, err := s.graph.Resolve(id, value)
	if err != nil {
		return err
	}
	s.notify(ctx, Transition{NodeID: id, Description: n.Name, From: graph.Running, To: graph.Resolved})

	for _, depID := range unlocked {
		dep := s.graph.Node(depID)
		s.notify(ctx, Transition{NodeID: depID, Description: dep.Name, From: graph.Waiting, To: graph.Ready})
		queue.Add(depID, s.priority(depID))
	}
	return nil
}

// failNode applies a task's own failure and marks every transitive
// dependent failed without submitting it. The traversal visits dependents
// in ascending id order for determinism.
func (s *Scheduler) failNode(ctx context.Context, id graph.NodeID, cause error, queue *readyQueue) error {
	n := s.graph.Node(id)
	failure := errors.Execution(n.Name, cause)
	if err := s.graph.Fail(id, failure); err != nil {
		return err
	}
	s.notify(ctx, Transition{NodeID: id, Description: n.Name, From: graph.Running, To: graph.Failed, Failure: failure})

	visited := make(map[graph.NodeID]bool)
	frontier := append([]graph.NodeID(nil), n.Dependents...)
	for len(frontier) > 0 {
		depID := frontier[0]
		frontier = frontier[1:]
		if visited[depID] {
			continue
		}
		visited[depID] = true

		dep := s.graph.Node(depID)
		switch dep.Status {
		case graph.Running:
			// A dependent cannot be running before its dependency resolves.
			return errors.Inconsistent("dependent %q running during failure propagation", dep.Name)
		case graph.Resolved, graph.Failed:
			continue
		}

		from := dep.Status
		depFailure := errors.DependencyFailed(dep.Name, failure)
		if err := s.graph.Fail(depID, depFailure); err != nil {
			return err
		}
		queue.Remove(depID)
		s.notify(ctx, Transition{NodeID: depID, Description: dep.Name, From: from, To: graph.Failed, Failure: depFailure})

		frontier = append(frontier, dep.Dependents...)
	}
	return nil
}

// priority of a ready node: its direct dependent count, so tasks likely to
// unlock the most work dispatch first. Ties break by creation order inside
// the queue.
func (s *Scheduler) priority(id graph.NodeID) int {
	return len(s.graph.Node(id).Dependents)
}

func (s *Scheduler) notify(ctx context.Context, t Transition) {
	for _, o := range s.observers {
		o.ObserveTransition(ctx, t)
	}
}

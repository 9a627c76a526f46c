package worker

import (
	"context"
	"sync"
)

// Job is a unit of work. The context is the run's context; jobs should
// honor cancellation on blocking operations.
type Job func(ctx context.Context) (any, error)

// Handle identifies a submitted job within its pool.
type Handle int

// Completion carries a finished job's outcome back to the coordinator.
type Completion struct {
	Handle Handle
	Value  any
	Err    error
}

// Pool executes submitted jobs and reports completions asynchronously.
// Implementations must deliver exactly one Completion per Submit.
type Pool interface {
	// Submit enqueues a job for execution and returns its handle.
	Submit(ctx context.Context, job Job) Handle
	// AwaitAny blocks until any outstanding job completes, or the context
	// is cancelled.
	AwaitAny(ctx context.Context) (Completion, error)
	// Close stops accepting work and waits for in-flight jobs to finish.
	Close() error
}

type submission struct {
	ctx    context.Context
	handle Handle
	job    Job
}

// goroutinePool runs jobs on a fixed set of goroutines.
type goroutinePool struct {
	jobs        chan submission
	completions chan Completion
	wg          sync.WaitGroup

	mu     sync.Mutex
	next   Handle
	closed bool
}

// NewPool creates a pool running jobs on n goroutines. n must be >= 1.
// The pool can hold up to 2n submissions beyond the ones running; the
// scheduler's capacity admission keeps outstanding work below that.
func NewPool(n int) Pool {
	if n < 1 {
		n = 1
	}
	p := &goroutinePool{
		jobs:        make(chan submission, 2*n),
		completions: make(chan Completion, 4*n),
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *goroutinePool) work() {
	defer p.wg.Done()
	for s := range p.jobs {
		value, err := s.job(s.ctx)
		p.completions <- Completion{Handle: s.handle, Value: value, Err: err}
	}
}

func (p *goroutinePool) Submit(ctx context.Context, job Job) Handle {
	p.mu.Lock()
	h := p.next
	p.next++
	p.mu.Unlock()

	p.jobs <- submission{ctx: ctx, handle: h, job: job}
	return h
}

func (p *goroutinePool) AwaitAny(ctx context.Context) (Completion, error) {
	select {
	case c := <-p.completions:
		return c, nil
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	}
}

func (p *goroutinePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	return nil
}

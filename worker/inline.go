package worker

import (
	"context"

	"github.com/jeremyrcoyle/delayed/errors"
)

// inlinePool executes each job synchronously during Submit and queues the
// completion for the next AwaitAny. It is the no-parallelism mode: runs are
// fully deterministic and single-threaded.
type inlinePool struct {
	next    Handle
	pending []Completion
}

// Inline creates a pool that runs jobs inline on the submitting goroutine.
func Inline() Pool {
	return &inlinePool{}
}

func (p *inlinePool) Submit(ctx context.Context, job Job) Handle {
	h := p.next
	p.next++

	value, err := job(ctx)
	p.pending = append(p.pending, Completion{Handle: h, Value: value, Err: err})
	return h
}

func (p *inlinePool) AwaitAny(ctx context.Context) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}
	if len(p.pending) == 0 {
		return Completion{}, errors.Inconsistent("await with no outstanding jobs")
	}
	c := p.pending[0]
	p.pending = p.pending[1:]
	return c, nil
}

func (p *inlinePool) Close() error {
	p.pending = nil
	return nil
}

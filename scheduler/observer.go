package scheduler

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jeremyrcoyle/delayed/graph"
	"github.com/jeremyrcoyle/delayed/logger"
	"github.com/jeremyrcoyle/delayed/observability"
)

// Transition is a status-change observation emitted by the scheduler. It is
// a side channel for progress display and instrumentation; observers must
// not affect scheduling decisions.
type Transition struct {
	NodeID      graph.NodeID
	Description string
	From        graph.Status
	To          graph.Status
	// Failure is set when To is Failed.
	Failure error
}

// Observer receives status-change observations.
type Observer interface {
	ObserveTransition(ctx context.Context, t Transition)
}

// --- logging observer ---

// LogObserver writes one debug line per status transition. It backs the
// driver's verbose mode.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates a logging observer.
func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log.WithComponent("scheduler")}
}

func (o *LogObserver) ObserveTransition(_ context.Context, t Transition) {
	if t.Failure != nil {
		fields := logger.ErrorFields(t.Description, t.Failure)
		fields[logger.FieldTaskID] = int(t.NodeID)
		fields[logger.FieldFrom] = t.From.String()
		fields[logger.FieldTo] = t.To.String()
		o.log.Error("task transition", fields)
		return
	}
	o.log.Debug("task transition", logger.Fields(
		logger.FieldTaskID, int(t.NodeID),
		logger.FieldTask, t.Description,
		logger.FieldFrom, t.From.String(),
		logger.FieldTo, t.To.String(),
	))
}

// --- tracing observer ---

// TraceObserver opens a span per task execution: started when the task
// begins running, ended at its terminal status, with failures recorded on
// the span. Tasks failed without ever running produce no span.
type TraceObserver struct {
	prefix string

	mu    sync.Mutex
	spans map[graph.NodeID]trace.Span
}

// NewTraceObserver creates a tracing observer. Span names are
// "{prefix}.{task}".
func NewTraceObserver(prefix string) *TraceObserver {
	return &TraceObserver{
		prefix: prefix,
		spans:  make(map[graph.NodeID]trace.Span),
	}
}

func (o *TraceObserver) ObserveTransition(ctx context.Context, t Transition) {
	switch {
	case t.To == graph.Running:
		spanCtx, span := observability.StartSpan(ctx, o.prefix+"."+t.Description)
		observability.SetSpanAttribute(spanCtx, "task.id", int(t.NodeID))
		o.mu.Lock()
		o.spans[t.NodeID] = span
		o.mu.Unlock()

	case t.To.Terminal():
		o.mu.Lock()
		span, ok := o.spans[t.NodeID]
		delete(o.spans, t.NodeID)
		o.mu.Unlock()
		if !ok {
			return
		}
		if t.To == graph.Failed && t.Failure != nil {
			span.RecordError(t.Failure)
		}
		span.End()
	}
}

// --- metrics observer ---

// MetricsObserver records per-task operation counts, durations, and errors.
type MetricsObserver struct {
	metrics *observability.Metrics

	mu      sync.Mutex
	started map[graph.NodeID]time.Time
}

// NewMetricsObserver creates a metrics observer.
func NewMetricsObserver(metrics *observability.Metrics) *MetricsObserver {
	return &MetricsObserver{
		metrics: metrics,
		started: make(map[graph.NodeID]time.Time),
	}
}

func (o *MetricsObserver) ObserveTransition(ctx context.Context, t Transition) {
	switch t.To {
	case graph.Running:
		o.mu.Lock()
		o.started[t.NodeID] = time.Now()
		o.mu.Unlock()

	case graph.Resolved, graph.Failed:
		o.mu.Lock()
		start, ran := o.started[t.NodeID]
		delete(o.started, t.NodeID)
		o.mu.Unlock()

		if t.To == graph.Failed {
			o.metrics.RecordError(ctx, "task", t.Description)
		}
		if !ran {
			// Skipped via dependency failure; no duration to record.
			return
		}
		status := "ok"
		if t.To == graph.Failed {
			status = "error"
		}
		o.metrics.RecordTask(ctx, t.Description, status, time.Since(start))
	}
}

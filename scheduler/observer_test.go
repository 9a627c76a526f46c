package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jeremyrcoyle/delayed/graph"
	"github.com/jeremyrcoyle/delayed/logger"
	"github.com/jeremyrcoyle/delayed/observability"
)

func TestLogObserver(t *testing.T) {
	obs := NewLogObserver(logger.Nop())
	ctx := context.Background()

	// Must not panic on either the progress path or the failure path.
	obs.ObserveTransition(ctx, Transition{NodeID: 0, Description: "sum", From: graph.Ready, To: graph.Running})
	obs.ObserveTransition(ctx, Transition{
		NodeID: 0, Description: "sum", From: graph.Running, To: graph.Failed,
		Failure: fmt.Errorf("boom"),
	})
}

func TestTraceObserver_SpanPerExecution(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	obs := NewTraceObserver("delayed.task")
	ctx := context.Background()

	obs.ObserveTransition(ctx, Transition{NodeID: 0, Description: "sum", From: graph.Ready, To: graph.Running})
	obs.ObserveTransition(ctx, Transition{NodeID: 0, Description: "sum", From: graph.Running, To: graph.Resolved})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "delayed.task.sum" {
		t.Errorf("expected span name 'delayed.task.sum', got %s", spans[0].Name)
	}
}

func TestTraceObserver_FailureRecordedOnSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	obs := NewTraceObserver("delayed.task")
	ctx := context.Background()

	obs.ObserveTransition(ctx, Transition{NodeID: 1, Description: "ratio", From: graph.Ready, To: graph.Running})
	obs.ObserveTransition(ctx, Transition{
		NodeID: 1, Description: "ratio", From: graph.Running, To: graph.Failed,
		Failure: fmt.Errorf("division by zero"),
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected 1 error event on span, got %d", len(spans[0].Events))
	}
}

func TestTraceObserver_SkippedTaskProducesNoSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	obs := NewTraceObserver("delayed.task")

	// Failed straight from Waiting: the task never ran.
	obs.ObserveTransition(context.Background(), Transition{
		NodeID: 2, Description: "root", From: graph.Waiting, To: graph.Failed,
		Failure: fmt.Errorf("dependency failed"),
	})

	if spans := exporter.GetSpans(); len(spans) != 0 {
		t.Fatalf("expected no spans for a task that never ran, got %d", len(spans))
	}
}

func TestMetricsObserver(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := observability.NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	obs := NewMetricsObserver(metrics)
	ctx := context.Background()

	obs.ObserveTransition(ctx, Transition{NodeID: 0, Description: "sum", To: graph.Running})
	time.Sleep(time.Millisecond)
	obs.ObserveTransition(ctx, Transition{NodeID: 0, Description: "sum", To: graph.Resolved})

	obs.ObserveTransition(ctx, Transition{NodeID: 1, Description: "ratio", To: graph.Running})
	obs.ObserveTransition(ctx, Transition{
		NodeID: 1, Description: "ratio", To: graph.Failed, Failure: fmt.Errorf("boom"),
	})

	// Skipped without running: error only, no duration sample.
	obs.ObserveTransition(ctx, Transition{
		NodeID: 2, Description: "root", To: graph.Failed, Failure: fmt.Errorf("dependency failed"),
	})

	if len(obs.started) != 0 {
		t.Errorf("expected started map drained, got %d entries", len(obs.started))
	}
}

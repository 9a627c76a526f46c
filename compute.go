package delayed

import (
	"context"

	"github.com/jeremyrcoyle/delayed/config"
	"github.com/jeremyrcoyle/delayed/graph"
	"github.com/jeremyrcoyle/delayed/logger"
	"github.com/jeremyrcoyle/delayed/observability"
	"github.com/jeremyrcoyle/delayed/scheduler"
	"github.com/jeremyrcoyle/delayed/worker"
)

// options holds the resolved Compute configuration.
type options struct {
	workers   int
	verbose   bool
	log       *logger.Logger
	pool      worker.Pool
	observers []scheduler.Observer
}

// Option configures Compute.
type Option func(*options)

// WithWorkers sets the number of concurrently running tasks. Values below 1
// are clamped to 1. With one worker, tasks execute inline in deterministic
// priority order.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithVerbose enables per-transition progress logging.
func WithVerbose(v bool) Option {
	return func(o *options) { o.verbose = v }
}

// WithLogger sets the logger used by the run.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithPool supplies an external worker pool. The caller keeps ownership;
// Compute will not close it.
func WithPool(p worker.Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithObserver registers a status-transition observer for the run.
func WithObserver(obs scheduler.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// OptionsFromConfig converts loaded configuration into Compute options.
// When telemetry is enabled it appends the trace and metrics observers;
// call InitTelemetry beforehand so their records are exported.
func OptionsFromConfig(cfg *config.Config) []Option {
	log := logger.New(&cfg.Logging, "delayed")
	opts := []Option{
		WithWorkers(cfg.Workers),
		WithVerbose(cfg.Verbose),
		WithLogger(log),
	}
	if cfg.Telemetry.Enabled {
		opts = append(opts, WithObserver(scheduler.NewTraceObserver("delayed.task")))
		metrics, err := observability.NewMetrics(observability.Meter(instrumentationName))
		if err != nil {
			log.Warn("metrics instruments unavailable", logger.Fields(logger.FieldError, err.Error()))
		} else {
			opts = append(opts, WithObserver(scheduler.NewMetricsObserver(metrics)))
		}
	}
	return opts
}

const instrumentationName = "github.com/jeremyrcoyle/delayed"

// InitTelemetry installs the OTLP trace and metric providers described by
// cfg.Telemetry. It returns a shutdown function that flushes both providers;
// call it once the last Compute using telemetry observers has returned.
func InitTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	tracerCfg := observability.DefaultTracerConfig("delayed")
	tracerCfg.Endpoint = cfg.Telemetry.Endpoint
	tracerCfg.SampleRate = cfg.Telemetry.SampleRate
	tp, err := observability.InitTracer(ctx, tracerCfg)
	if err != nil {
		return nil, err
	}

	meterCfg := observability.DefaultMeterConfig("delayed")
	meterCfg.Endpoint = cfg.Telemetry.Endpoint
	mp, err := observability.InitMeter(ctx, meterCfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		merr := mp.Shutdown(ctx)
		if terr := tp.Shutdown(ctx); terr != nil {
			return terr
		}
		return merr
	}, nil
}

// Compute builds the dependency graph rooted at d and drives it to
// completion, returning the root's resolved value or the first failure on
// the root's ancestor chain.
func Compute(ctx context.Context, d *Delayed, opts ...Option) (any, error) {
	o := &options{workers: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		if o.verbose {
			o.log = logger.New(&logger.Config{Level: "debug", Format: "console", Output: "stderr", Timestamp: true}, "delayed")
		} else {
			o.log = logger.GetGlobalLogger()
		}
	}

	g, err := graph.Build(d)
	if err != nil {
		return nil, err
	}

	pool := o.pool
	if pool == nil {
		if o.workers == 1 {
			pool = worker.Inline()
		} else {
			pool = worker.NewPool(o.workers)
		}
		defer pool.Close()
	}

	schedOpts := []scheduler.Option{
		scheduler.WithCapacity(o.workers),
		scheduler.WithLogger(o.log),
	}
	if o.verbose {
		schedOpts = append(schedOpts, scheduler.WithObserver(scheduler.NewLogObserver(o.log)))
	}
	for _, obs := range o.observers {
		schedOpts = append(schedOpts, scheduler.WithObserver(obs))
	}

	return scheduler.New(g, pool, schedOpts...).Run(ctx)
}

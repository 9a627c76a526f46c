// Package observability provides OpenTelemetry tracing and metrics helpers:
// provider initialization with OTLP HTTP exporters, span convenience
// functions, and a Metrics bundle recording task executions, durations, and
// errors. The scheduler's trace and metrics observers are built on it.
package observability

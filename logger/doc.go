// Package logger wraps zerolog with console/JSON output, leveled methods
// taking optional field maps, and a process-wide default logger.
//
// The scheduler's verbose mode logs one line per task status transition
// through this package; nothing in the core depends on log output.
package logger

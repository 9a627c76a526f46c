package logger

import "time"

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldTask      = "task"
	FieldTaskID    = "task_id"
	FieldFrom      = "from"
	FieldTo        = "to"
	FieldStatus    = "status"
	FieldWorkers   = "workers"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("task", "sum", "workers", 4))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for a task that failed.
func ErrorFields(task string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldTask:  task,
		FieldError: err.Error(),
	}
}

// DurationFields creates fields for a timed task.
func DurationFields(task string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldTask:     task,
		FieldDuration: d.Milliseconds(),
	}
}

package logger

import "time"

// Standard field key constants for structured logging.
const (
	FieldComponent  = "component"
	FieldSessionID  = "session_id"
	FieldSnapshotID = "snapshot_id"
	FieldOperation  = "operation"
	FieldOutcome    = "outcome"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldStart      = "start"
	FieldEnd        = "end"
	FieldFence      = "fence"
	FieldLiveEdge   = "live_edge"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("segment locked", logger.Fields("start", 0.0, "end", 2.0))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// RangeFields creates fields for a segment time range.
func RangeFields(start, end float64) map[string]interface{} {
	return map[string]interface{}{
		FieldStart: start,
		FieldEnd:   end,
	}
}

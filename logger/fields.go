package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent    = "component"
	FieldTraceID      = "trace_id"
	FieldSpanID       = "span_id"
	FieldHandle       = "handle"
	FieldLibrary      = "library"
	FieldURL          = "url"
	FieldMethod       = "method"
	FieldOption       = "option"
	FieldInfo         = "info"
	FieldStatus       = "status"
	FieldResponseCode = "response_code"
	FieldBytes        = "bytes"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Debug("perform done", logger.Fields(logger.FieldURL, u, logger.FieldResponseCode, 200))
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
		"operation": op,
		FieldError:  err.Error(),
	}
}

// TransferFields creates fields for a finished transfer.
func TransferFields(url string, code int64, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldURL:          url,
		FieldResponseCode: code,
		FieldDuration:     d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

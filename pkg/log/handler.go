package log

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// appendFields writes key/value pairs onto a zerolog event. A leading error
// without a key is attached under ErrAttrKey. Errors get their cockroachdb
// stack trace and, when a typed error in the chain can marshal itself, its
// structured fields.
func appendFields(e *zerolog.Event, fields []any) *zerolog.Event {
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			e = appendError(e, ErrAttrKey, err)
			fields = fields[1:]
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		case error:
			e = appendError(e, key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}

func appendError(e *zerolog.Event, key string, err error) *zerolog.Event {
	e = e.AnErr(key, err)
	if stacktrace := extractStacktrace(err); stacktrace != "" {
		e = e.Str(StacktraceAttrKey, stacktrace)
	}
	var detail zerolog.LogObjectMarshaler
	if errors.As(err, &detail) {
		e = e.Object(DetailKey, detail)
	}
	return e
}

// appendContext is appendFields for logger contexts created by With.
func appendContext(c zerolog.Context, fields []any) zerolog.Context {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			c = c.Object(key, v)
		case error:
			c = c.AnErr(key, v)
		default:
			c = c.Interface(key, v)
		}
	}
	return c
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err)
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

package utils

import "context"

type contextKey string

const traceIDKey contextKey = "trace_id"

// TraceIDHeader carries the trace id between the browser, the console and
// the crawler backend.
const TraceIDHeader = "X-Trace-ID"

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

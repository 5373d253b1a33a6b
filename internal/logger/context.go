package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds call-scoped logging context for an RPC in flight.
type LogContext struct {
	TraceID     string    // OpenTelemetry trace ID
	SpanID      string    // OpenTelemetry span ID
	CallID      int32     // RPC call id
	Method      string    // ClientProtocol method name
	Nameservice string    // nameservice being addressed
	Endpoint    string    // namenode rpc-address currently in use
	Path        string    // HDFS path the call concerns, if any
	StartTime   time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a call against the given endpoint.
func NewLogContext(endpoint string) *LogContext {
	return &LogContext{
		Endpoint:  endpoint,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithMethod returns a copy with the method set
func (lc *LogContext) WithMethod(method string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Method = method
	}
	return clone
}

// WithCall returns a copy with the call id and path set
func (lc *LogContext) WithCall(callID int32, path string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.CallID = callID
		clone.Path = path
	}
	return clone
}

// WithNameservice returns a copy with nameservice/endpoint set
func (lc *LogContext) WithNameservice(nameservice, endpoint string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Nameservice = nameservice
		clone.Endpoint = endpoint
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}

package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging across the RPC, HA, listing
// and facade layers. Use these keys consistently so log aggregation and
// querying stays stable across packages.
const (
	// Distributed tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// RPC call identity
	KeyCallID      = "call_id"
	KeyMethod      = "method"
	KeyNameservice = "nameservice"
	KeyEndpoint    = "endpoint"
	KeyClientID    = "client_id"
	KeyRetryCount  = "retry_count"

	// RPC outcome
	KeyStatus         = "status"
	KeyErrorMsg       = "error_msg"
	KeyExceptionClass = "exception_class"
	KeyErrorDetail    = "error_detail"

	// Filesystem operations
	KeyPath     = "path"
	KeySrcPath  = "src_path"
	KeyDstPath  = "dst_path"
	KeyRecurse  = "recursive"
	KeyCreatePa = "create_parent"

	// Listing
	KeyStartAfter = "start_after"
	KeyRemaining  = "remaining_entries"
	KeyPageCount  = "page_count"

	// HA failover
	KeyAttempt    = "attempt"
	KeyMaxRetries = "max_retries"
	KeyDiscarded  = "discarded_endpoint"

	// Operation metadata
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

// CallID returns a slog.Attr for the RPC call id
func CallID(id int32) slog.Attr { return slog.Int(KeyCallID, int(id)) }

// Method returns a slog.Attr for the ClientProtocol method name
func Method(name string) slog.Attr { return slog.String(KeyMethod, name) }

// Nameservice returns a slog.Attr for the nameservice being addressed
func Nameservice(name string) slog.Attr { return slog.String(KeyNameservice, name) }

// Endpoint returns a slog.Attr for the namenode rpc-address in use
func Endpoint(addr string) slog.Attr { return slog.String(KeyEndpoint, addr) }

// ClientID returns a slog.Attr for the connection's client id, hex-encoded
func ClientID(id []byte) slog.Attr { return slog.String(KeyClientID, fmt.Sprintf("%x", id)) }

// RetryCount returns a slog.Attr for the RPC retry-count field
func RetryCount(n int32) slog.Attr { return slog.Int(KeyRetryCount, int(n)) }

// Status returns a slog.Attr for the RPC response status
func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

// ErrorMsg returns a slog.Attr for the RPC response error message
func ErrorMsg(msg string) slog.Attr { return slog.String(KeyErrorMsg, msg) }

// ExceptionClass returns a slog.Attr for the originating exception class name
func ExceptionClass(name string) slog.Attr { return slog.String(KeyExceptionClass, name) }

// Path returns a slog.Attr for a single HDFS path
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// SrcPath returns a slog.Attr for a rename source path
func SrcPath(p string) slog.Attr { return slog.String(KeySrcPath, p) }

// DstPath returns a slog.Attr for a rename destination path
func DstPath(p string) slog.Attr { return slog.String(KeyDstPath, p) }

// StartAfter returns a slog.Attr for a listing cursor
func StartAfter(cursor string) slog.Attr { return slog.String(KeyStartAfter, cursor) }

// Remaining returns a slog.Attr for the server-reported remaining entry count
func Remaining(n uint64) slog.Attr { return slog.Uint64(KeyRemaining, n) }

// PageCount returns a slog.Attr for the number of entries in a fetched page
func PageCount(n int) slog.Attr { return slog.Int(KeyPageCount, n) }

// Attempt returns a slog.Attr for the current HA attempt number
func Attempt(n int) slog.Attr { return slog.Int(KeyAttempt, n) }

// MaxRetries returns a slog.Attr for the HA attempt budget
func MaxRetries(n int) slog.Attr { return slog.Int(KeyMaxRetries, n) }

// Discarded returns a slog.Attr for an endpoint discarded after a standby exception
func Discarded(addr string) slog.Attr { return slog.String(KeyDiscarded, addr) }

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

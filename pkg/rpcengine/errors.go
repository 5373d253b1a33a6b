package rpcengine

import (
	"fmt"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// ErrorKind classifies an RPC failure so callers can branch on it without
// string-matching exception class names themselves.
type ErrorKind int

const (
	// ErrIO covers transport failures: dial, write, read, and frame
	// decode errors. The connection must be discarded.
	ErrIO ErrorKind = iota

	// ErrIncompleteResponse means the response frame ended before the
	// expected number of protobuf messages were read.
	ErrIncompleteResponse

	// ErrKnownError is a non-fatal, structurally recognized server
	// exception (currently: snapshot operations), carried with a
	// dedicated Kind so callers can branch without string matching.
	ErrKnownError

	// ErrResponse is a non-fatal server error (RpcStatus ERROR) that did
	// not match a known exception class. The connection is still usable.
	ErrResponse

	// ErrFatal is a fatal server error (RpcStatus FATAL). The connection
	// must be discarded.
	ErrFatal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrIncompleteResponse:
		return "incomplete_response"
	case ErrKnownError:
		return "known_error"
	case ErrResponse:
		return "response"
	case ErrFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// KnownErrorKind further classifies ErrKnownError by the recognized
// exception class.
type KnownErrorKind int

const (
	KnownErrorSnapshot KnownErrorKind = iota
)

// exceptionClassMap maps a server-reported exception class name to a
// structured KnownErrorKind, mirroring ERROR_CLASS_MAP.
var exceptionClassMap = map[string]KnownErrorKind{
	"org.apache.hadoop.hdfs.protocol.SnapshotException": KnownErrorSnapshot,
}

// standbyException is the exception class that signals a namenode is in
// standby (not active) state and the caller should fail over.
const standbyException = "org.apache.hadoop.ipc.StandbyException"

// RpcError is the error type returned by Conn.Call and Dial. Its Kind
// field lets callers distinguish transport failure from a structured or
// unstructured server-side error without inspecting the message text.
type RpcError struct {
	kind           ErrorKind
	knownKind      KnownErrorKind
	status         rpcpb.RpcStatus
	errorDetail    rpcpb.RpcErrorCode
	exceptionClass string
	errorMsg       string
	cause          error
}

func (e *RpcError) Error() string {
	switch e.kind {
	case ErrIO:
		return fmt.Sprintf("rpcengine: io error: %v", e.cause)
	case ErrIncompleteResponse:
		return "rpcengine: incomplete protobuf record in response"
	case ErrKnownError:
		return fmt.Sprintf("rpcengine: %s: %s", e.exceptionClass, e.errorMsg)
	case ErrResponse:
		return fmt.Sprintf("rpcengine: error response (%s): %s", e.status, e.errorMsg)
	case ErrFatal:
		return fmt.Sprintf("rpcengine: fatal response (%s): %s", e.status, e.errorMsg)
	default:
		return "rpcengine: unknown error"
	}
}

func (e *RpcError) Unwrap() error { return e.cause }

// ErrorKind returns the error's structural classification.
func (e *RpcError) ErrorKind() ErrorKind { return e.kind }

// KnownKind returns the structured exception kind; only meaningful when
// ErrorKind() == ErrKnownError.
func (e *RpcError) KnownKind() KnownErrorKind { return e.knownKind }

// ExceptionClass returns the raw server-reported exception class name,
// or "" for transport errors.
func (e *RpcError) ExceptionClass() string { return e.exceptionClass }

// IsStandbyException reports whether the server rejected the call
// because the target namenode is not the active one.
func (e *RpcError) IsStandbyException() bool {
	return e.kind == ErrResponse && e.exceptionClass == standbyException
}

func newIOError(cause error) *RpcError {
	return &RpcError{kind: ErrIO, cause: cause}
}

func newIncompleteResponseError() *RpcError {
	return &RpcError{kind: ErrIncompleteResponse}
}

func newResponseError(h *rpcpb.RpcResponseHeader) *RpcError {
	base := &RpcError{
		status:         h.Status,
		errorDetail:    h.ErrorDetail,
		exceptionClass: h.ExceptionClassName,
		errorMsg:       h.ErrorMsg,
	}
	if h.Status == rpcpb.StatusFatal {
		base.kind = ErrFatal
		return base
	}
	if kind, ok := exceptionClassMap[h.ExceptionClassName]; ok {
		base.kind = ErrKnownError
		base.knownKind = kind
		return base
	}
	base.kind = ErrResponse
	return base
}

// Package ha implements the high-availability connection manager that
// sits on top of pkg/rpcengine: it rotates across a nameservice's
// configured name-node endpoints, retrying a call against the next
// endpoint only when the current one reports a standby exception, and
// never reorders the endpoint list itself.
package ha

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/gohdfs/internal/logger"
	"github.com/marmos91/gohdfs/pkg/metrics"
	"github.com/marmos91/gohdfs/pkg/rpcengine"
	"github.com/marmos91/gohdfs/pkg/telemetry"
)

// marshaler mirrors rpcengine's request interface so callers don't need
// to import rpcengine directly just to make a call.
type marshaler interface {
	Marshal() []byte
}

// Conn is a high-availability connection to one nameservice. It owns at
// most one underlying rpcengine.Conn at a time and replaces it, rather
// than reordering the endpoint list, whenever the active name-node turns
// out to be in standby.
type Conn struct {
	mu          sync.Mutex
	user        string
	nameservice string
	endpoints   []string // cyclic; index wraps via modulo
	cursor      int      // next endpoint to try
	current     *rpcengine.Conn
	metrics     metrics.RPCMetrics
}

// SetMetrics attaches a metrics sink; nil (the default) disables
// instrumentation entirely.
func (c *Conn) SetMetrics(m metrics.RPCMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
}

// New creates an HA connection for the given nameservice and its
// candidate endpoints. It does not dial immediately; the first Call
// establishes the underlying connection.
func New(nameservice, user string, endpoints []string) (*Conn, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("ha: nameservice %q has no configured namenode endpoints", nameservice)
	}
	return &Conn{
		user:        user,
		nameservice: nameservice,
		endpoints:   append([]string(nil), endpoints...),
	}, nil
}

// SetEndpoints replaces the candidate endpoint list, e.g. on a config
// hot-reload. It does not affect a connection already in use; the new
// list takes effect starting with the next failover or reconnect.
func (c *Conn) SetEndpoints(endpoints []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = append([]string(nil), endpoints...)
	c.cursor = 0
}

// nextEndpoint returns the next candidate in cyclic order without
// mutating the underlying slice's order, advancing the cursor.
func (c *Conn) nextEndpoint() string {
	e := c.endpoints[c.cursor%len(c.endpoints)]
	c.cursor++
	return e
}

// ensureConnection returns the current connection, dialing a fresh one
// against the next candidate endpoint if none is active.
func (c *Conn) ensureConnection(ctx context.Context) (*rpcengine.Conn, error) {
	if c.current != nil {
		return c.current, nil
	}
	addr := c.nextEndpoint()
	logger.DebugCtx(ctx, "ha dialing namenode", logger.Nameservice(c.nameservice), logger.Endpoint(addr))
	conn, err := rpcengine.Dial(ctx, addr, c.user)
	if err != nil {
		logger.WarnCtx(ctx, "ha dial failed", logger.Nameservice(c.nameservice), logger.Endpoint(addr), logger.Err(err))
		return nil, err
	}
	c.current = conn
	return conn, nil
}

// fail discards the current connection without reordering the endpoint
// list, so the next ensureConnection call advances to the next
// candidate in cyclic order.
func (c *Conn) fail(ctx context.Context) {
	if c.current == nil {
		return
	}
	logger.WarnCtx(ctx, "ha discarding connection after standby exception",
		logger.Nameservice(c.nameservice), logger.Discarded(c.current.Endpoint()))
	_ = c.current.Close()
	c.current = nil
}

// Call invokes methodName, retrying against the next endpoint whenever
// the current one responds with a standby exception. The retry budget
// is shared with connection establishment and equals the number of
// configured endpoints: a nameservice where every node reports standby
// (or is unreachable) exhausts the budget and returns the last error.
func (c *Conn) Call(ctx context.Context, methodName string, req marshaler, decodeResp func([]byte) error) error {
	ctx, span := telemetry.StartSpan(ctx, "nnclient."+methodName)
	defer span.End()
	span.SetAttributes(attribute.String("hdfs.nameservice", c.nameservice), attribute.String("hdfs.method", methodName))

	c.mu.Lock()
	defer c.mu.Unlock()

	attemptsLeft := len(c.endpoints)
	var lastErr error
	start := time.Now()

	for attemptsLeft > 0 {
		conn, err := c.ensureConnection(ctx)
		if err != nil {
			lastErr = err
			attemptsLeft--
			continue
		}

		err = conn.Call(ctx, methodName, req, decodeResp)
		if err == nil {
			metrics.ObserveCall(c.metrics, methodName, "success", time.Since(start))
			return nil
		}

		var rpcErr *rpcengine.RpcError
		if asRpcError(err, &rpcErr) && rpcErr.IsStandbyException() {
			logger.InfoCtx(ctx, "failing over after standby exception",
				logger.Nameservice(c.nameservice), logger.Method(methodName), logger.Attempt(len(c.endpoints)-attemptsLeft+1))
			metrics.RecordFailover(c.metrics, c.nameservice, conn.Endpoint())
			c.fail(ctx)
			lastErr = err
			attemptsLeft--
			continue
		}

		// Any other error (including fatal transport errors) is returned
		// directly; non-standby RpcErrors leave the connection usable,
		// but fatal/IO errors must still drop it so the next Call
		// reconnects instead of reusing a dead socket.
		status := "error"
		if asRpcError(err, &rpcErr) {
			if rpcErr.ErrorKind() == rpcengine.ErrFatal {
				status = "fatal"
			}
			switch rpcErr.ErrorKind() {
			case rpcengine.ErrIO, rpcengine.ErrFatal, rpcengine.ErrIncompleteResponse:
				c.fail(ctx)
			}
		} else {
			c.fail(ctx)
		}
		metrics.ObserveCall(c.metrics, methodName, status, time.Since(start))
		telemetry.RecordError(ctx, err)
		return err
	}
	metrics.ObserveCall(c.metrics, methodName, "error", time.Since(start))
	telemetry.RecordError(ctx, lastErr)
	return lastErr
}

func asRpcError(err error, out **rpcengine.RpcError) bool {
	if e, ok := err.(*rpcengine.RpcError); ok {
		*out = e
		return true
	}
	return false
}

// Close shuts down the underlying connection, if any.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	err := c.current.Close()
	c.current = nil
	return err
}

// Package rpcengine speaks the name-node ClientProtocol RPC wire
// protocol over a single TCP connection: the handshake, the per-call
// request/response framing, call-id sequencing, and the resulting error
// taxonomy. It has no notion of high availability or retries; that is
// pkg/ha's job, layered on top of Conn.
package rpcengine

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/marmos91/gohdfs/internal/logger"
	"github.com/marmos91/gohdfs/pkg/wire"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

const (
	rpcVersion        byte   = 9
	serviceClass      byte   = 0x50
	authProtocolNone  byte   = 0
	clientProtocolFQN string = "org.apache.hadoop.hdfs.protocol.ClientProtocol"
	clientProtocolVer uint64 = 1
)

var rpcHeaderMagic = [4]byte{'h', 'r', 'p', 'c'}

// Conn is a single authenticated connection to one name-node endpoint.
// It is not safe for concurrent use by multiple goroutines; pkg/ha
// serializes calls through it.
type Conn struct {
	mu       sync.Mutex
	nc       net.Conn
	endpoint string
	user     string
	clientID []byte
	callSeq  int32 // InfiniteSeq: first Call uses 0
}

// Dial opens a TCP connection to endpoint, performs the ClientProtocol
// handshake (magic, version, service class, auth protocol, and the IPC
// connection context naming user and protocol), and returns a ready Conn.
func Dial(ctx context.Context, endpoint, user string) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return nil, newIOError(err)
	}
	if tc, ok := nc.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	c := &Conn{
		nc:       nc,
		endpoint: endpoint,
		user:     user,
		clientID: newClientID(),
		callSeq:  -1,
	}

	if err := c.handshake(); err != nil {
		_ = nc.Close()
		return nil, err
	}
	return c, nil
}

func newClientID() []byte {
	id := uuid.New()
	b := make([]byte, 16)
	copy(b, id[:])
	return b
}

func (c *Conn) handshake() error {
	preamble := make([]byte, 0, 7)
	preamble = append(preamble, rpcHeaderMagic[:]...)
	preamble = append(preamble, rpcVersion, serviceClass, authProtocolNone)
	if _, err := c.nc.Write(preamble); err != nil {
		return newIOError(err)
	}

	hh := &rpcpb.RpcRequestHeader{
		RpcKind:    rpcpb.RpcProtocolBuffer,
		RpcOp:      rpcpb.RpcFinalPacket,
		CallID:     -3, // handshake uses the out-of-band sentinel call id
		ClientID:   c.clientID,
		RetryCount: -1,
	}
	cc := &rpcpb.IpcConnectionContext{
		UserInfo: rpcpb.UserInformation{EffectiveUser: c.user},
		Protocol: clientProtocolFQN,
	}
	if err := wire.WriteGroup(c.nc, hh.Marshal(), cc.Marshal()); err != nil {
		return newIOError(err)
	}
	return nil
}

// Close sends the RPC shutdown group (a header with RpcOp set to
// RpcCloseConnection and the next call id, no body) and then closes the
// underlying TCP connection. A failure to write the shutdown frame is
// not fatal to the close; the name-node will detect the subsequent EOF
// regardless.
func (c *Conn) Close() error {
	c.mu.Lock()
	c.callSeq++
	hh := &rpcpb.RpcRequestHeader{
		RpcKind:    rpcpb.RpcProtocolBuffer,
		RpcOp:      rpcpb.RpcCloseConnection,
		CallID:     c.callSeq,
		ClientID:   c.clientID,
		RetryCount: -1,
	}
	_ = wire.WriteGroup(c.nc, hh.Marshal())
	c.mu.Unlock()

	return c.nc.Close()
}

// Endpoint returns the "host:port" this connection was dialed to.
func (c *Conn) Endpoint() string { return c.endpoint }

// marshaler is implemented by every rpcpb request message.
type marshaler interface {
	Marshal() []byte
}

// Call invokes methodName with req and decodes the response body with
// decodeResp. decodeResp receives the raw response message bytes (the
// second message of the response group, present only on SUCCESS).
//
// On a non-SUCCESS response, Call returns an *RpcError describing the
// failure and does not invoke decodeResp. Callers must inspect
// RpcError.ErrorKind() to decide whether the connection is still usable
// (ErrResponse/ErrKnownError) or must be discarded (ErrIO/ErrFatal/
// ErrIncompleteResponse).
func (c *Conn) Call(ctx context.Context, methodName string, req marshaler, decodeResp func([]byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	if dl, ok := ctx.Deadline(); ok {
		_ = c.nc.SetDeadline(dl)
	} else {
		_ = c.nc.SetDeadline(time.Time{})
	}

	c.callSeq++
	callID := c.callSeq

	hh := &rpcpb.RpcRequestHeader{
		RpcKind:    rpcpb.RpcProtocolBuffer,
		RpcOp:      rpcpb.RpcFinalPacket,
		CallID:     callID,
		ClientID:   c.clientID,
		RetryCount: -1,
	}
	rh := &rpcpb.RequestHeader{
		MethodName:                 methodName,
		DeclaringClassProtocolName: clientProtocolFQN,
		ClientProtocolVersion:      clientProtocolVer,
	}

	if err := wire.WriteGroup(c.nc, hh.Marshal(), rh.Marshal(), req.Marshal()); err != nil {
		logger.ErrorCtx(ctx, "rpc call write failed", logger.Err(err), logger.Method(methodName))
		return newIOError(err)
	}

	payload, err := wire.ReadFrame(c.nc)
	if err != nil {
		logger.ErrorCtx(ctx, "rpc call read failed", logger.Err(err), logger.Method(methodName))
		return newIOError(err)
	}

	headerMsg, rest, ok := consumeOne(payload)
	if !ok {
		return newIncompleteResponseError()
	}
	var respHeader rpcpb.RpcResponseHeader
	if err := respHeader.Unmarshal(headerMsg); err != nil {
		return newIOError(err)
	}

	switch respHeader.Status {
	case rpcpb.StatusSuccess:
		body, _, ok := consumeOne(rest)
		if !ok {
			return newIncompleteResponseError()
		}
		logger.DebugCtx(ctx, "rpc call succeeded",
			logger.Method(methodName), logger.CallID(callID), logger.DurationMs(time.Since(start).Seconds()*1000))
		return decodeResp(body)
	default:
		rpcErr := newResponseError(&respHeader)
		logger.WarnCtx(ctx, "rpc call failed",
			logger.Method(methodName), logger.CallID(callID), logger.Status(respHeader.Status.String()),
			logger.ExceptionClass(respHeader.ExceptionClassName), logger.ErrorMsg(respHeader.ErrorMsg))
		return rpcErr
	}
}

// consumeOne reads one length-delimited protobuf message from the front
// of b and returns it along with the remaining bytes.
func consumeOne(b []byte) (msg []byte, rest []byte, ok bool) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, nil, false
	}
	return v, b[n:], true
}

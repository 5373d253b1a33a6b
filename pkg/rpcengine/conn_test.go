package rpcengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/marmos91/gohdfs/internal/fakenamenode"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

func marshalOK(body []byte) fakenamenode.Response {
	return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: body}
}

func echoBody(value string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, value)
	return b
}

type echoRequest struct{ value string }

func (r *echoRequest) Marshal() []byte { return echoBody(r.value) }

// TestHandshakeEmitsTheSpecMandatedPreamble asserts the single most
// load-bearing byte sequence in the wire contract: "hrpc" followed by
// version 9, service class 0x50, and auth protocol 0 (spec.md §6).
func TestHandshakeEmitsTheSpecMandatedPreamble(t *testing.T) {
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return marshalOK(nil)
	})
	require.NoError(t, err)
	defer srv.Close()

	nc, err := Dial(context.Background(), srv.Addr(), "alice")
	require.NoError(t, err)
	defer nc.Close()

	select {
	case preamble := <-srv.Preambles:
		assert.Equal(t, [7]byte{0x68, 0x72, 0x70, 0x63, 0x09, 0x50, 0x00}, preamble)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received a connection preamble")
	}
}

// TestCallIDsAreStrictlyIncreasingFromZero exercises the call-id
// monotonicity invariant from spec.md §8: within one connection,
// successive calls see strictly increasing non-negative call-ids
// starting at 0.
func TestCallIDsAreStrictlyIncreasingFromZero(t *testing.T) {
	var gotCallIDs []int32
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		gotCallIDs = append(gotCallIDs, req.CallID)
		return marshalOK(echoBody("ok"))
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Dial(context.Background(), srv.Addr(), "alice")
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 4; i++ {
		err := conn.Call(context.Background(), "echo", &echoRequest{value: "x"}, func(b []byte) error { return nil })
		require.NoError(t, err)
	}

	require.Equal(t, []int32{0, 1, 2, 3}, gotCallIDs)
}

// TestCallDecodesSuccessResponseBody verifies the per-call framing: a
// request group of [header, method-header, request] and a response
// group of [response-header, response-message] on SUCCESS.
func TestCallDecodesSuccessResponseBody(t *testing.T) {
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		assert.Equal(t, "echo", req.Method)
		return marshalOK(echoBody("hello"))
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Dial(context.Background(), srv.Addr(), "alice")
	require.NoError(t, err)
	defer conn.Close()

	var got string
	err = conn.Call(context.Background(), "echo", &echoRequest{value: "hello"}, func(b []byte) error {
		v, _, n := protowire.ConsumeTag(b)
		require.GreaterOrEqual(t, int(n), 0)
		_ = v
		s, n2 := protowire.ConsumeString(b[n:])
		require.GreaterOrEqual(t, n2, 0)
		got = s
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

// TestCallSurfacesNonFatalErrorResponse exercises the ERROR branch: the
// connection remains usable and the error carries the exception class.
func TestCallSurfacesNonFatalErrorResponse(t *testing.T) {
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return fakenamenode.Response{
			Status:         rpcpb.StatusError,
			ExceptionClass: "java.io.FileNotFoundException",
			ErrorMsg:       "no such file",
		}
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Dial(context.Background(), srv.Addr(), "alice")
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Call(context.Background(), "getFileInfo", &echoRequest{value: "x"}, func(b []byte) error { return nil })
	require.Error(t, err)

	rpcErr, ok := err.(*RpcError)
	require.True(t, ok)
	assert.Equal(t, ErrResponse, rpcErr.ErrorKind())
	assert.Equal(t, "java.io.FileNotFoundException", rpcErr.ExceptionClass())
	assert.False(t, rpcErr.IsStandbyException())
}

// TestCallSurfacesStandbyException is the building block HA failover
// depends on: a StandbyException is classified as such so pkg/ha knows
// to discard the connection and retry the next endpoint.
func TestCallSurfacesStandbyException(t *testing.T) {
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return fakenamenode.Response{
			Status:         rpcpb.StatusError,
			ExceptionClass: "org.apache.hadoop.ipc.StandbyException",
			ErrorMsg:       "not the active namenode",
		}
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Dial(context.Background(), srv.Addr(), "alice")
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Call(context.Background(), "getFileInfo", &echoRequest{value: "x"}, func(b []byte) error { return nil })
	require.Error(t, err)

	rpcErr, ok := err.(*RpcError)
	require.True(t, ok)
	assert.True(t, rpcErr.IsStandbyException())
}

// TestCloseSendsShutdownFrame verifies Close's protocol-level goodbye
// (spec.md §4.2/§6): a group containing one RPC header with op =
// close-connection and the next call-id, before the socket drops.
func TestCloseSendsShutdownFrame(t *testing.T) {
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return marshalOK(echoBody("ok"))
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Dial(context.Background(), srv.Addr(), "alice")
	require.NoError(t, err)

	require.NoError(t, conn.Call(context.Background(), "echo", &echoRequest{value: "x"}, func(b []byte) error { return nil }))
	require.NoError(t, conn.Call(context.Background(), "echo", &echoRequest{value: "y"}, func(b []byte) error { return nil }))
	require.NoError(t, conn.Close())

	select {
	case callID := <-srv.ClosedCallID:
		assert.Equal(t, int32(2), callID) // calls 0 and 1 already used; shutdown gets the next one
	case <-time.After(2 * time.Second):
		t.Fatal("server never received a close-connection shutdown frame")
	}
}

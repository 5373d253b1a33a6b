package ha

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/marmos91/gohdfs/internal/fakenamenode"
	"github.com/marmos91/gohdfs/pkg/rpcengine"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

type echoRequest struct{ value string }

func (r *echoRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.value)
	return b
}

func standbyResponse() fakenamenode.Response {
	return fakenamenode.Response{
		Status:         rpcpb.StatusError,
		ExceptionClass: "org.apache.hadoop.ipc.StandbyException",
		ErrorMsg:       "not the active namenode",
	}
}

func successResponse() fakenamenode.Response {
	return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: nil}
}

// TestFailoverDiscardsStandbyAndAdoptsTheNextEndpoint is scenario 5 from
// spec.md §8: endpoint A always reports StandbyException; the manager
// discards it and opens B, whose call succeeds with a fresh call-id
// sequence starting at 0.
func TestFailoverDiscardsStandbyAndAdoptsTheNextEndpoint(t *testing.T) {
	var bCallIDs []int32

	a, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return standbyResponse()
	})
	require.NoError(t, err)
	defer a.Close()

	b, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		bCallIDs = append(bCallIDs, req.CallID)
		return successResponse()
	})
	require.NoError(t, err)
	defer b.Close()

	conn, err := New("ns1", "alice", []string{a.Addr(), b.Addr()})
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Call(context.Background(), "getFileInfo", &echoRequest{value: "x"}, func(b []byte) error { return nil })
	require.NoError(t, err)

	require.Len(t, bCallIDs, 1)
	assert.Equal(t, int32(0), bCallIDs[0]) // new connection to B: call-ids restart at 0

	aCalls := a.Calls()
	require.Len(t, aCalls, 1)
}

// TestHABudgetExhaustedSurfacesLastError covers the "HA budget"
// invariant from spec.md §8: a sequence of standby-exceptions of length
// equal to the endpoint count surfaces the last error exactly once.
func TestHABudgetExhaustedSurfacesLastError(t *testing.T) {
	var calls int

	a, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		calls++
		return standbyResponse()
	})
	require.NoError(t, err)
	defer a.Close()

	b, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		calls++
		return standbyResponse()
	})
	require.NoError(t, err)
	defer b.Close()

	conn, err := New("ns1", "alice", []string{a.Addr(), b.Addr()})
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Call(context.Background(), "getFileInfo", &echoRequest{value: "x"}, func(b []byte) error { return nil })
	require.Error(t, err)

	rpcErr, ok := err.(*rpcengine.RpcError)
	require.True(t, ok)
	assert.True(t, rpcErr.IsStandbyException())
	assert.Equal(t, 2, calls) // exactly one attempt per configured endpoint, no more
}

// TestHABudgetOneFewerThanEndpointsSucceeds is the complementary half of
// the HA-budget invariant: one fewer standby response than the
// endpoint count still succeeds, because the budget has one attempt to
// spare.
func TestHABudgetOneFewerThanEndpointsSucceeds(t *testing.T) {
	a, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return standbyResponse()
	})
	require.NoError(t, err)
	defer a.Close()

	b, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return successResponse()
	})
	require.NoError(t, err)
	defer b.Close()

	var thirdCalled atomic.Bool
	c, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		thirdCalled.Store(true)
		return successResponse()
	})
	require.NoError(t, err)
	defer c.Close()

	conn, err := New("ns1", "alice", []string{a.Addr(), b.Addr(), c.Addr()})
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Call(context.Background(), "getFileInfo", &echoRequest{value: "x"}, func(b []byte) error { return nil })
	require.NoError(t, err)
	assert.False(t, thirdCalled.Load(), "third endpoint should never be dialed once the second succeeds")
}

// TestNonStandbyErrorIsNotRetried verifies step 3 of the HA manager: a
// generic (non-standby) ERROR is returned as-is without advancing to
// the next endpoint.
func TestNonStandbyErrorIsNotRetried(t *testing.T) {
	var calls int
	a, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		calls++
		return fakenamenode.Response{
			Status:         rpcpb.StatusError,
			ExceptionClass: "java.io.FileNotFoundException",
			ErrorMsg:       "no such file",
		}
	})
	require.NoError(t, err)
	defer a.Close()

	var secondCalled atomic.Bool
	b, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		secondCalled.Store(true)
		return successResponse()
	})
	require.NoError(t, err)
	defer b.Close()

	conn, err := New("ns1", "alice", []string{a.Addr(), b.Addr()})
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Call(context.Background(), "getFileInfo", &echoRequest{value: "x"}, func(b []byte) error { return nil })
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, secondCalled.Load(), "second endpoint should never be dialed on a non-standby error")
}

func TestNewRejectsEmptyEndpointList(t *testing.T) {
	_, err := New("ns1", "alice", nil)
	assert.Error(t, err)
}

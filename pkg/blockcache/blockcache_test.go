package blockcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

func TestGetOrRefreshMissCallsRefresh(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	calls := 0
	want := &rpcpb.LocatedBlocks{FileLength: 42}
	got, err := c.GetOrRefresh(context.Background(), "/a", time.Minute, func(context.Context) (*rpcpb.LocatedBlocks, error) {
		calls++
		return want, nil
	})

	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 1, calls)
}

func TestGetOrRefreshHitSkipsRefresh(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	calls := 0
	refresh := func(context.Context) (*rpcpb.LocatedBlocks, error) {
		calls++
		return &rpcpb.LocatedBlocks{FileLength: uint64(calls)}, nil
	}

	first, err := c.GetOrRefresh(context.Background(), "/a", time.Minute, refresh)
	require.NoError(t, err)

	second, err := c.GetOrRefresh(context.Background(), "/a", time.Minute, refresh)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrRefreshExpiryTriggersRefresh(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	calls := 0
	refresh := func(context.Context) (*rpcpb.LocatedBlocks, error) {
		calls++
		return &rpcpb.LocatedBlocks{FileLength: uint64(calls)}, nil
	}

	_, err = c.GetOrRefresh(context.Background(), "/a", 10*time.Millisecond, refresh)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	second, err := c.GetOrRefresh(context.Background(), "/a", time.Minute, refresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.FileLength)
	assert.Equal(t, 2, calls)
}

func TestGetOrRefreshPropagatesError(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	wantErr := assert.AnError
	_, err = c.GetOrRefresh(context.Background(), "/a", time.Minute, func(context.Context) (*rpcpb.LocatedBlocks, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestInvalidateForcesRefresh(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	calls := 0
	refresh := func(context.Context) (*rpcpb.LocatedBlocks, error) {
		calls++
		return &rpcpb.LocatedBlocks{}, nil
	}

	_, err = c.GetOrRefresh(context.Background(), "/a", time.Minute, refresh)
	require.NoError(t, err)

	c.Invalidate("/a")
	c.store.Wait()

	_, err = c.GetOrRefresh(context.Background(), "/a", time.Minute, refresh)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

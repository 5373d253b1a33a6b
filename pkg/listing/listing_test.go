package listing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/marmos91/gohdfs/internal/fakenamenode"
	"github.com/marmos91/gohdfs/pkg/ha"
	"github.com/marmos91/gohdfs/pkg/nnclient"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

func marshalFileStatus(path string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rpcpb.IsFile))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(path))
	return b
}

func marshalDirectoryListing(paths []string, remaining uint32) []byte {
	var b []byte
	for _, p := range paths {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalFileStatus(p))
	}
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(remaining))
	return b
}

func marshalGetListingResponse(paths []string, remaining uint32) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalDirectoryListing(paths, remaining))
	return b
}

func newTestClient(t *testing.T, addr string) *nnclient.Client {
	t.Helper()
	conn, err := ha.New("ns1", "alice", []string{addr})
	require.NoError(t, err)
	return nnclient.New(conn)
}

// TestListingOfFiveEntriesInTwoPagesIsCompleteAndFuses is scenario 4
// from spec.md §8: a 5-entry directory served across two getListing
// pages (3 entries/remaining=2, then 2 entries/remaining=0). The
// iterator must yield all 5 entries exactly once, in order, and must
// not issue a third getListing call once the group iterator is done —
// this is the regression test for the fused-exhaustion bug.
func TestListingOfFiveEntriesInTwoPagesIsCompleteAndFuses(t *testing.T) {
	var callCount int
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		callCount++
		switch callCount {
		case 1:
			return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: marshalGetListingResponse([]string{"a", "b", "c"}, 2)}
		case 2:
			return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: marshalGetListingResponse([]string{"d", "e"}, 0)}
		default:
			t.Errorf("unexpected getListing call #%d past exhaustion", callCount)
			return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: marshalGetListingResponse(nil, 0)}
		}
	})
	require.NoError(t, err)
	defer srv.Close()

	client := newTestClient(t, srv.Addr())
	defer client.Close()

	gi := NewGroupIterator(client, "/dir")
	it := NewIterator(gi)

	entries, err := it.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 5)

	var paths []string
	for _, e := range entries {
		paths = append(paths, string(e.Path))
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, paths)
	assert.Equal(t, 2, callCount)

	// Calling past exhaustion must not re-fetch: this is exactly what
	// the unfused guard failed to prevent.
	_, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, callCount, "Next past exhaustion issued a spurious getListing call")

	lo, hi := it.SizeHint()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 0, hi)
}

// TestSizeHintUpperBoundNeverUndercountsRemainingEntries exercises the
// size-hint invariant from spec.md §8: the upper bound is always ≥ the
// number of entries that will subsequently be yielded.
func TestSizeHintUpperBoundNeverUndercountsRemainingEntries(t *testing.T) {
	var callCount int
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		callCount++
		switch callCount {
		case 1:
			return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: marshalGetListingResponse([]string{"a", "b", "c"}, 2)}
		default:
			return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: marshalGetListingResponse([]string{"d", "e"}, 0)}
		}
	})
	require.NoError(t, err)
	defer srv.Close()

	client := newTestClient(t, srv.Addr())
	defer client.Close()

	it := NewIterator(NewGroupIterator(client, "/dir"))

	// Record the upper bound reported just before each entry is
	// yielded, then check it against how many entries actually follow
	// from that point on (including the one about to be yielded).
	var upperBoundsBeforeEachYield []int
	for {
		_, hi := it.SizeHint()
		_, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			assert.Equal(t, 0, hi)
			break
		}
		upperBoundsBeforeEachYield = append(upperBoundsBeforeEachYield, hi)
	}

	for i, hi := range upperBoundsBeforeEachYield {
		actualRemaining := len(upperBoundsBeforeEachYield) - i
		assert.GreaterOrEqual(t, hi, actualRemaining)
	}
}

// TestListingOfEmptyDirectoryYieldsNothing covers the edge case where
// the first page already reports no remaining entries.
func TestListingOfEmptyDirectoryYieldsNothing(t *testing.T) {
	srv, err := fakenamenode.Start(func(req fakenamenode.Request) fakenamenode.Response {
		return fakenamenode.Response{Status: rpcpb.StatusSuccess, Body: marshalGetListingResponse(nil, 0)}
	})
	require.NoError(t, err)
	defer srv.Close()

	client := newTestClient(t, srv.Addr())
	defer client.Close()

	it := NewIterator(NewGroupIterator(client, "/empty"))
	entries, err := it.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	lo, hi := it.SizeHint()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 0, hi)
}

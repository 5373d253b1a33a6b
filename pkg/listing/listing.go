// Package listing turns the name-node's server-paginated getListing RPC
// into a lazy, bounded sequence of directory entries: a GroupIterator
// fetches one page per call, and an Iterator flattens pages into
// individual entries while tracking how many remain.
package listing

import (
	"context"
	"fmt"
	"math"

	"github.com/marmos91/gohdfs/pkg/metrics"
	"github.com/marmos91/gohdfs/pkg/nnclient"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// GroupIterator fetches successive pages of a directory listing. Each
// call to NextGroup issues one getListing RPC and returns that page's
// entries plus the total entry count expected across all pages (known
// precisely only once at least one page has been fetched).
type GroupIterator struct {
	client      *nnclient.Client
	path        string
	prevName    []byte
	total       *int // nil until the first page reports remainingEntries
	count       int
	metrics     metrics.RPCMetrics
	nameservice string
}

// NewGroupIterator creates a page-fetching iterator over path's
// directory listing.
func NewGroupIterator(client *nnclient.Client, path string) *GroupIterator {
	return &GroupIterator{client: client, path: path}
}

// SetMetrics attaches a metrics sink recording one page-fetch per
// NextGroup call, labeled with nameservice; nil (the default) disables
// instrumentation entirely.
func (g *GroupIterator) SetMetrics(m metrics.RPCMetrics, nameservice string) {
	g.metrics = m
	g.nameservice = nameservice
}

// Done reports whether every entry has already been fetched. Before the
// first page is fetched this is always false.
func (g *GroupIterator) Done() bool {
	return g.total != nil && g.count >= *g.total
}

// NextGroup fetches the next page. It must not be called once Done
// reports true. The returned total is the overall expected entry count
// across every page, including ones not yet fetched.
func (g *GroupIterator) NextGroup(ctx context.Context) (entries []rpcpb.HdfsFileStatus, total int, err error) {
	dirList, err := g.client.GetListing(ctx, g.path, g.prevName, false)
	if err != nil {
		return nil, 0, err
	}
	metrics.RecordListingPage(g.metrics, g.nameservice)
	if dirList == nil {
		return nil, 0, fmt.Errorf("listing: %s: no such file or directory", g.path)
	}

	partial := dirList.PartialListing
	g.count += len(partial)
	remaining := int(dirList.RemainingEntries)
	t := g.count + remaining
	g.total = &t

	// Preserve the previous cursor when a page comes back empty so a
	// subsequent retry resumes from the same point rather than
	// restarting from the directory's first entry.
	if len(partial) > 0 {
		g.prevName = partial[len(partial)-1].Path
	}

	return partial, t, nil
}

// Iterator flattens a GroupIterator's pages into one entry at a time.
// Once Next returns a non-nil error, the iterator is exhausted and
// every subsequent call returns (zero value, false, nil): it does not
// retry or resurface the same error twice.
type Iterator struct {
	gi        *GroupIterator
	buf       []rpcpb.HdfsFileStatus
	expected  int // entries expected from the page currently buffered in buf, plus anything after it
	failed    bool
	exhausted bool
}

// NewIterator wraps gi in a flattening entry-at-a-time iterator.
func NewIterator(gi *GroupIterator) *Iterator {
	return &Iterator{gi: gi, expected: 1} // seed so the first ensureNewData fetches
}

func (it *Iterator) ensureNewData(ctx context.Context) {
	if it.exhausted || it.failed || len(it.buf) > 0 {
		return
	}
	if it.gi.Done() {
		it.exhausted = true
		return
	}
	entries, total, err := it.gi.NextGroup(ctx)
	if err != nil {
		it.failed = true
		return
	}
	// total counts entries of earlier pages too; subtract those
	// already yielded so expected covers only this page and later ones.
	it.expected = total - (it.gi.count - len(entries))
	it.buf = entries
	if len(it.buf) == 0 && it.expected == 0 {
		it.exhausted = true
	}
}

// Next returns the next entry, or ok=false when the listing is
// exhausted. A non-nil error is returned at most once, after which the
// iterator reports exhaustion on every subsequent call.
func (it *Iterator) Next(ctx context.Context) (entry rpcpb.HdfsFileStatus, ok bool, err error) {
	it.ensureNewData(ctx)

	if it.failed {
		it.failed = false
		it.exhausted = true
		return rpcpb.HdfsFileStatus{}, false, fmt.Errorf("listing: failed to fetch next page")
	}
	if it.exhausted || len(it.buf) == 0 {
		return rpcpb.HdfsFileStatus{}, false, nil
	}

	entry = it.buf[0]
	it.buf = it.buf[1:]
	it.expected--
	return entry, true, nil
}

// SizeHint returns (lowerBound, upperBound) on the number of entries
// still to be yielded. The lower bound is exact only once every page
// has been fetched; the upper bound is derived from the server's most
// recently reported remaining count. Before the first page is fetched
// nothing is known, and the upper bound is math.MaxInt.
func (it *Iterator) SizeHint() (int, int) {
	if it.exhausted {
		return 0, 0
	}
	if it.gi.total == nil {
		return 0, math.MaxInt
	}
	buffered := len(it.buf)
	if it.gi.Done() {
		return buffered, buffered
	}
	return buffered, it.expected
}

// Collect drains the iterator into a slice, stopping at the first
// error.
func (it *Iterator) Collect(ctx context.Context) ([]rpcpb.HdfsFileStatus, error) {
	var out []rpcpb.HdfsFileStatus
	for {
		entry, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, entry)
	}
}

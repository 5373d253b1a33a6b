package hdfs

import (
	"context"
	"fmt"

	"github.com/marmos91/gohdfs/internal/logger"
	"github.com/marmos91/gohdfs/pkg/hdfspath"
	"github.com/marmos91/gohdfs/pkg/listing"
	"github.com/marmos91/gohdfs/pkg/nnclient"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// defaultDirPerm is applied to directories created by Mkdirs.
const defaultDirPerm = 0o777

// Hdfs is the filesystem-facing facade: it resolves path arguments
// against a default URI, checks preconditions the name-node itself
// wouldn't bother reporting distinctly, and tags two-path operation
// errors with the operand they concern.
type Hdfs struct {
	client   *nnclient.Client
	resolver *hdfspath.UriResolver
}

// New wraps a service-layer client with path resolution.
func New(client *nnclient.Client, resolver *hdfspath.UriResolver) *Hdfs {
	return &Hdfs{client: client, resolver: resolver}
}

func (h *Hdfs) resolve(side ErrorSide, path string) (string, error) {
	resolved, err := h.resolver.ResolvePath(path)
	if err != nil {
		return "", tagSide(side, err)
	}
	return resolved, nil
}

func tagSide(side ErrorSide, err error) error {
	switch side {
	case SideSrc:
		return srcErr(err)
	case SideDst:
		return dstErr(err)
	default:
		return opErr(err)
	}
}

// GetFileInfo fetches src's status. Returns a *NotFoundError (wrapped
// as a source-side Error) when src does not exist.
func (h *Hdfs) GetFileInfo(ctx context.Context, src string) (*rpcpb.HdfsFileStatus, error) {
	resolved, err := h.resolve(SideSrc, src)
	if err != nil {
		return nil, err
	}
	fi, err := h.getFileInfoResolved(ctx, resolved)
	if err != nil {
		return nil, srcErr(err)
	}
	return fi, nil
}

// getFileInfoResolved fetches status for an already-resolved path,
// without re-tagging the error side (callers that already know which
// side a path belongs to wrap the result themselves).
func (h *Hdfs) getFileInfoResolved(ctx context.Context, resolved string) (*rpcpb.HdfsFileStatus, error) {
	fi, err := h.client.GetFileInfo(ctx, resolved)
	if err != nil {
		return nil, err
	}
	if fi == nil {
		return nil, &NotFoundError{Path: resolved}
	}
	return fi, nil
}

func ensureDir(fi *rpcpb.HdfsFileStatus, path string, side ErrorSide) error {
	if fi.IsDir() {
		return nil
	}
	return tagSide(side, &NotDirError{Path: path})
}

// ensureNotExists succeeds only when fi/err indicate the path is
// absent; any other outcome (including a successful lookup) is an
// error, tagged with side.
func ensureNotExists(fi *rpcpb.HdfsFileStatus, err error, path string, side ErrorSide) error {
	if err == nil {
		return tagSide(side, &FileExistsError{Path: path})
	}
	var nf *NotFoundError
	if isNotFoundRaw(err, &nf) {
		return nil
	}
	return tagSide(side, err)
}

func isNotFoundRaw(err error, out **NotFoundError) bool {
	nf, ok := err.(*NotFoundError)
	if !ok {
		return false
	}
	*out = nf
	return true
}

// ListStatus lists src's immediate children. src must resolve to an
// existing directory; list_status itself never pages across the RPC
// boundary without the caller draining the returned iterator.
func (h *Hdfs) ListStatus(ctx context.Context, src string) (*listing.Iterator, error) {
	resolved, err := h.resolve(SideSrc, src)
	if err != nil {
		return nil, err
	}
	fi, err := h.getFileInfoResolved(ctx, resolved)
	if err != nil {
		return nil, srcErr(err)
	}
	if err := ensureDir(fi, resolved, SideSrc); err != nil {
		return nil, err
	}
	gi := listing.NewGroupIterator(h.client, resolved)
	return listing.NewIterator(gi), nil
}

// Rename moves src to dst. A false result from the name-node is
// reported as a source-side NotFoundError: Hadoop's rename RPC gives no
// reliable way to tell whether src or dst caused the refusal, and a
// missing source is the overwhelmingly common cause. An RPC error is
// reported as an operation-side failure.
func (h *Hdfs) Rename(ctx context.Context, src, dst string) error {
	resolvedSrc, err := h.resolve(SideSrc, src)
	if err != nil {
		return err
	}
	resolvedDst, err := h.resolve(SideDst, dst)
	if err != nil {
		return err
	}

	ok, err := h.client.Rename(ctx, resolvedSrc, resolvedDst)
	if err != nil {
		return opErr(err)
	}
	if !ok {
		return srcErr(&NotFoundError{Path: resolvedSrc})
	}

	logger.InfoCtx(ctx, "renamed path", logger.SrcPath(resolvedSrc), logger.DstPath(resolvedDst))
	return nil
}

// Mkdirs creates src as a directory. When createParent is false, src
// must not already exist — mkdirs with createParent also tolerates an
// already-existing target, matching mkdir -p semantics.
func (h *Hdfs) Mkdirs(ctx context.Context, src string, createParent bool) error {
	resolved, err := h.resolve(SideSrc, src)
	if err != nil {
		return err
	}

	if !createParent {
		fi, ferr := h.getFileInfoResolved(ctx, resolved)
		if err := ensureNotExists(fi, ferr, resolved, SideSrc); err != nil {
			return err
		}
	}

	perm := rpcpb.FsPermission{Perm: defaultDirPerm}
	created, err := h.client.Mkdirs(ctx, resolved, perm, createParent)
	if err != nil {
		return opErr(err)
	}
	if !created && !createParent {
		return srcErr(&FileExistsError{Path: resolved})
	}
	return nil
}

// Delete removes src. When recursive is false, src must not be a
// directory: Delete checks first and returns a source-side "Is a
// directory" error without issuing the delete RPC.
func (h *Hdfs) Delete(ctx context.Context, src string, recursive bool) error {
	resolved, err := h.resolve(SideSrc, src)
	if err != nil {
		return err
	}

	if !recursive {
		fi, ferr := h.getFileInfoResolved(ctx, resolved)
		if ferr != nil {
			return srcErr(ferr)
		}
		if fi.IsDir() {
			return srcErr(fmt.Errorf("`%s': Is a directory", resolved))
		}
	}

	ok, err := h.client.Delete(ctx, resolved, recursive)
	if err != nil {
		return opErr(err)
	}
	if !ok {
		return srcErr(&NotFoundError{Path: resolved})
	}
	return nil
}

// GetBlockLocations fetches the block-location manifest for src in
// the half-open byte range [offset, offset+length).
func (h *Hdfs) GetBlockLocations(ctx context.Context, src string, offset, length uint64) (*rpcpb.LocatedBlocks, error) {
	resolved, err := h.resolve(SideSrc, src)
	if err != nil {
		return nil, err
	}
	lb, err := h.client.GetBlockLocations(ctx, resolved, offset, length)
	if err != nil {
		return nil, opErr(err)
	}
	if lb == nil {
		return nil, srcErr(&NotFoundError{Path: resolved})
	}
	return lb, nil
}

// GetFsStats fetches cluster-wide capacity and block-health counters.
func (h *Hdfs) GetFsStats(ctx context.Context) (rpcpb.GetFsStatsResponse, error) {
	resp, err := h.client.GetFsStats(ctx)
	if err != nil {
		return rpcpb.GetFsStatsResponse{}, opErr(err)
	}
	return resp, nil
}

// SetPermission changes src's permission bits.
func (h *Hdfs) SetPermission(ctx context.Context, src string, perm rpcpb.FsPermission) error {
	resolved, err := h.resolve(SideSrc, src)
	if err != nil {
		return err
	}
	if err := h.client.SetPermission(ctx, resolved, perm); err != nil {
		return opErr(err)
	}
	return nil
}

// SetOwner changes src's owning user and/or group.
func (h *Hdfs) SetOwner(ctx context.Context, src, username, groupname string) error {
	resolved, err := h.resolve(SideSrc, src)
	if err != nil {
		return err
	}
	if err := h.client.SetOwner(ctx, resolved, username, groupname); err != nil {
		return opErr(err)
	}
	return nil
}

// Close shuts down the underlying connection.
func (h *Hdfs) Close() error {
	return h.client.Close()
}

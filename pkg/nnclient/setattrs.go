package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// voidResponse ignores its response body: setPermission/setOwner/
// setTimes all return an empty VoidProto on success.
func voidResponse([]byte) error { return nil }

// SetPermission changes src's permission bits.
func (c *Client) SetPermission(ctx context.Context, src string, perm rpcpb.FsPermission) error {
	req := &rpcpb.SetPermissionRequest{Src: src, Permission: perm}
	return c.conn.Call(ctx, "setPermission", req, voidResponse)
}

// SetOwner changes src's owning user and/or group. An empty string
// leaves that attribute unchanged.
func (c *Client) SetOwner(ctx context.Context, src, username, groupname string) error {
	req := &rpcpb.SetOwnerRequest{Src: src, Username: username, Groupname: groupname}
	return c.conn.Call(ctx, "setOwner", req, voidResponse)
}

// SetTimes changes src's modification and access times, in milliseconds
// since the epoch. Pass math.MaxUint64 (HDFS's "-1" sentinel, reinterpreted
// unsigned) for a timestamp that should be left unchanged.
func (c *Client) SetTimes(ctx context.Context, src string, mtime, atime uint64) error {
	req := &rpcpb.SetTimesRequest{Src: src, Mtime: mtime, Atime: atime}
	return c.conn.Call(ctx, "setTimes", req, voidResponse)
}

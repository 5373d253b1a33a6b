package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// Mkdirs creates src as a directory with the given permission bits,
// creating missing ancestors when createParent is set. The returned
// bool reports whether a new directory was actually created.
func (c *Client) Mkdirs(ctx context.Context, src string, perm rpcpb.FsPermission, createParent bool) (bool, error) {
	req := &rpcpb.MkdirsRequest{Src: src, Masked: perm, CreateParent: createParent}
	var resp rpcpb.MkdirsResponse
	err := c.conn.Call(ctx, "mkdirs", req, func(b []byte) error {
		r, err := rpcpb.UnmarshalMkdirsResponse(b)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return false, err
	}
	return resp.Result, nil
}

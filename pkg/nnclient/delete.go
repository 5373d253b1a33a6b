package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// Delete removes src, recursively if requested. The returned bool
// reports whether anything was actually deleted.
func (c *Client) Delete(ctx context.Context, src string, recursive bool) (bool, error) {
	req := &rpcpb.DeleteRequest{Src: src, Recursive: recursive}
	var resp rpcpb.DeleteResponse
	err := c.conn.Call(ctx, "delete", req, func(b []byte) error {
		r, err := rpcpb.UnmarshalDeleteResponse(b)
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

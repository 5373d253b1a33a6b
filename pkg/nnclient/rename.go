package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// Rename moves src to dst. The returned bool reports whether the
// rename actually happened; the caller (pkg/hdfs) is responsible for
// attributing a false/error result to the source or destination side.
func (c *Client) Rename(ctx context.Context, src, dst string) (bool, error) {
	req := &rpcpb.RenameRequest{Src: src, Dst: dst}
	var resp rpcpb.RenameResponse
	err := c.conn.Call(ctx, "rename", req, func(b []byte) error {
		r, err := rpcpb.UnmarshalRenameResponse(b)
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

package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// GetFileInfo fetches the status of src. A nil result (not an error)
// means src does not exist.
func (c *Client) GetFileInfo(ctx context.Context, src string) (*rpcpb.HdfsFileStatus, error) {
	req := &rpcpb.GetFileInfoRequest{Src: src}
	var resp rpcpb.GetFileInfoResponse
	err := c.conn.Call(ctx, "getFileInfo", req, func(b []byte) error {
		r, err := rpcpb.UnmarshalGetFileInfoResponse(b)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp.Fs, nil
}

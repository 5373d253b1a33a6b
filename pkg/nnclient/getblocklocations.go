package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// GetBlockLocations fetches the block-location manifest for the range
// [offset, offset+length) of src. A nil result (not an error) means src
// has no located blocks (e.g. it does not exist, or is a directory).
func (c *Client) GetBlockLocations(ctx context.Context, src string, offset, length uint64) (*rpcpb.LocatedBlocks, error) {
	req := &rpcpb.GetBlockLocationsRequest{Src: src, Offset: offset, Length: length}
	var resp rpcpb.GetBlockLocationsResponse
	err := c.conn.Call(ctx, "getBlockLocations", req, func(b []byte) error {
		r, err := rpcpb.UnmarshalGetBlockLocationsResponse(b)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

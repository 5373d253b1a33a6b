package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// GetListing fetches one page of directory entries for src, starting
// strictly after startAfter (nil/empty requests the first page). A nil
// *rpcpb.DirectoryListing result (not an error) means src does not
// exist.
func (c *Client) GetListing(ctx context.Context, src string, startAfter []byte, needLocation bool) (*rpcpb.DirectoryListing, error) {
	req := &rpcpb.GetListingRequest{Src: src, StartAfter: startAfter, NeedLocation: needLocation}
	var resp rpcpb.GetListingResponse
	err := c.conn.Call(ctx, "getListing", req, func(b []byte) error {
		r, err := rpcpb.UnmarshalGetListingResponse(b)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp.DirList, nil
}

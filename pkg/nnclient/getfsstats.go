package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// emptyRequest marshals to a zero-length protobuf message, for the
// handful of ClientProtocol methods that take no arguments.
type emptyRequest struct{}

func (emptyRequest) Marshal() []byte { return nil }

// GetFsStats fetches the cluster-wide capacity and block-health
// summary.
func (c *Client) GetFsStats(ctx context.Context) (rpcpb.GetFsStatsResponse, error) {
	var resp rpcpb.GetFsStatsResponse
	err := c.conn.Call(ctx, "getFsStats", emptyRequest{}, func(b []byte) error {
		r, err := rpcpb.UnmarshalGetFsStatsResponse(b)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	return resp, err
}

// Package nnclient is the typed ClientProtocol service layer: one
// method per name-node RPC operation, each a thin wrapper that marshals
// a request, delegates to the underlying HA connection, and unmarshals
// the typed response.
package nnclient

import (
	"context"

	"github.com/marmos91/gohdfs/pkg/ha"
)

// Client is the ClientProtocol service layer for one nameservice.
type Client struct {
	conn *ha.Conn
}

// New wraps an established HA connection.
func New(conn *ha.Conn) *Client {
	return &Client{conn: conn}
}

// Close shuts down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

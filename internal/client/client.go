// Package client is a minimal GET/SET/DEL client, used by cmd/resp-cli and
// by integration tests that want to exercise a running server without
// opening a raw socket by hand.
//
// Encodes an argument list as a RESP bulk-string array and decodes
// whatever comes back, reusing this repository's own internal/resp codec
// instead of hand-rolling a second RESP reader.
package client

import (
	"fmt"
	"net"

	"github.com/akashmaji946/resp-kv/internal/resp"
)

// Client is a connection to a resp-kv server.
type Client struct {
	conn net.Conn
	src  *resp.ConnSource
}

// Dial connects to a resp-kv server at address.
func Dial(address string) (*Client, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, src: resp.NewConnSource(conn)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) sendCommand(args ...string) (resp.Value, error) {
	elems := make([]resp.Value, len(args))
	for i, a := range args {
		elems[i] = resp.BulkStringOf([]byte(a))
	}
	wire := resp.Bytes(resp.ArrayOf(elems))
	if _, err := c.conn.Write(wire); err != nil {
		return resp.Value{}, err
	}
	return resp.Parse(c.src)
}

// Get issues GET key. ok is false when the server replied with the null
// bulk string (key absent, or a null value was previously stored).
func (c *Client) Get(key string) (value []byte, ok bool, err error) {
	v, err := c.sendCommand("GET", key)
	if err != nil {
		return nil, false, err
	}
	if err := errorReply(v); err != nil {
		return nil, false, err
	}
	if v.IsNullBulk() {
		return nil, false, nil
	}
	return v.Bulk, true, nil
}

// Set issues SET key value.
func (c *Client) Set(key string, value []byte) error {
	v, err := c.sendCommand("SET", key, string(value))
	if err != nil {
		return err
	}
	return errorReply(v)
}

// Del issues DEL key.
func (c *Client) Del(key string) error {
	v, err := c.sendCommand("DEL", key)
	if err != nil {
		return err
	}
	return errorReply(v)
}

// errorReply turns a SimpleError reply into a Go error; any other Kind
// passes through as nil.
func errorReply(v resp.Value) error {
	if v.Kind == resp.KindSimpleError {
		return fmt.Errorf("resp-kv: %s", v.Str)
	}
	return nil
}

// Package transport provides the per-instance socket group and the typed,
// directional channels the bridge runs on. Each channel carries exactly one
// request/response pair of wire types; the receiving side can therefore use
// a monomorphic decoder.
package transport

import (
	"net"
	"sync"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// Channel is one paired stream endpoint. Send and Receive block; per
// channel, messages are FIFO. SendAndReceive holds the channel mutex across
// the pair so concurrent calls from the same side cannot interleave on the
// wire.
type Channel struct {
	name    string
	conn    net.Conn
	maxSize uint64

	mu sync.Mutex
}

// NewChannel wraps an established connection. maxSize of 0 means the
// default frame cap.
func NewChannel(name string, conn net.Conn, maxSize uint64) *Channel {
	return &Channel{name: name, conn: conn, maxSize: maxSize}
}

// Name returns the channel's socket name.
func (c *Channel) Name() string { return c.name }

// Send encodes and writes one message.
func (c *Channel) Send(m wire.Message) error {
	return wire.WriteFrame(c.conn, wire.Encode(m))
}

// Receive reads exactly one message into m.
func (c *Channel) Receive(m wire.Message) error {
	frame, err := wire.ReadFrame(c.conn, c.maxSize)
	if err != nil {
		return err
	}
	return wire.Decode(frame, m)
}

// SendAndReceive performs one request/response pair under the channel
// mutex.
func (c *Channel) SendAndReceive(req, resp wire.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Send(req); err != nil {
		return err
	}
	return c.Receive(resp)
}

// Close closes the underlying connection, unblocking any receive loop.
func (c *Channel) Close() error {
	return c.conn.Close()
}

// Package channel carries whole headers over a reliable, ordered byte
// stream. Every Send is matched by exactly one Recv of the same size.
package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/robalb/threeway/pkg/header"
)

// TransportError reports a failure of the underlying stream.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Conn is one end of an established channel.
type Conn struct {
	inner net.Conn
	rbuf  [header.Size]byte
}

func NewConn(c net.Conn) *Conn {
	return &Conn{inner: c}
}

// Dial connects to addr over TCP.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &TransportError{Op: "connect", Err: err}
	}
	return NewConn(c), nil
}

func (c *Conn) Send(h header.Header) error {
	if _, err := c.inner.Write(h.Marshal()); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

// Recv blocks until one full header has arrived.
func (c *Conn) Recv() (header.Header, error) {
	if _, err := io.ReadFull(c.inner, c.rbuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("short header: %w", err)
		}
		return header.Header{}, &TransportError{Op: "recv", Err: err}
	}
	return header.Unmarshal(c.rbuf[:])
}

// LocalPort is the port this end is bound to, 0 if it is not a TCP socket.
func (c *Conn) LocalPort() uint16 {
	return portOf(c.inner.LocalAddr())
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.inner.RemoteAddr()
}

// Close releases the connection. Closing an already closed Conn is not an
// error.
func (c *Conn) Close() error {
	if err := c.inner.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

func portOf(addr net.Addr) uint16 {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return uint16(tcp.Port)
	}
	return 0
}

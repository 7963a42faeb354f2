package channel

import (
	"context"
	"errors"
	"net"
)

type Listener struct {
	inner net.Listener
}

// Listen binds addr with address and port reuse enabled where the
// platform supports it.
func Listen(ctx context.Context, addr string) (*Listener, error) {
	lc := net.ListenConfig{Control: reuseControl}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, &TransportError{Op: "listen", Err: err}
	}
	return &Listener{inner: ln}, nil
}

func NewListener(ln net.Listener) *Listener {
	return &Listener{inner: ln}
}

// Accept waits for one peer. Cancelling ctx closes the listener.
func (l *Listener) Accept(ctx context.Context) (*Conn, error) {
	stop := context.AfterFunc(ctx, func() {
		l.inner.Close()
	})
	defer stop()

	c, err := l.inner.Accept()
	if err != nil {
		if ctx.Err() != nil {
			err = context.Cause(ctx)
		}
		return nil, &TransportError{Op: "accept", Err: err}
	}
	return NewConn(c), nil
}

func (l *Listener) Port() uint16 {
	return portOf(l.inner.Addr())
}

func (l *Listener) Addr() net.Addr {
	return l.inner.Addr()
}

func (l *Listener) Close() error {
	if err := l.inner.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

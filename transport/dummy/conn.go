package dummy

import (
	"bytes"
	"net"
	"sync"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is an in-memory net.Conn. Everything written is journaled, reads are served from the
// data it was initialised with. Writes may be made failing in order to simulate a broken peer.
type Conn struct {
	mu       sync.Mutex
	written  []byte
	reader   *bytes.Reader
	writeErr error
	closed   bool
	nop      bool
}

func NewConn(response ...byte) *Conn {
	return &Conn{reader: bytes.NewReader(response)}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	return c.reader.Read(b)
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	if c.writeErr != nil {
		return 0, c.writeErr
	}

	if !c.nop {
		c.written = append(c.written, b...)
	}

	return len(b), nil
}

// Written returns a copy of everything written so far.
func (c *Conn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return bytes.Clone(c.written)
}

// FailWrites makes every consecutive write fail with the error.
func (c *Conn) FailWrites(err error) *Conn {
	c.mu.Lock()
	c.writeErr = err
	c.mu.Unlock()

	return c
}

// Nop disables journaling of written data.
func (c *Conn) Nop() *Conn {
	c.nop = true
	return c
}

func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	return nil
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}

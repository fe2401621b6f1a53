package transport

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/passthru/config"
	"github.com/indigo-web/passthru/http"
	"github.com/indigo-web/passthru/internal/protocol/http1"
)

var ErrNoExchange = errors.New("no exchange is in progress")

var _ Conn = new(Client)

// Client is the outbound side of a net.Conn. Request heads and bodies are accumulated in the
// output buffer and written out by Flush, whenever the owner decides so (normally after
// OutputRequested fires).
type Client struct {
	conn     net.Conn
	cfg      config.NET
	out      output
	exchange *Exchange
	encoder  Encoder
	notify   chan struct{}
	now      func() time.Time
}

func NewClient(conn net.Conn, cfg config.NET) *Client {
	return &Client{
		conn:   conn,
		cfg:    cfg,
		out:    newOutput(cfg.WriteBufferSize.Default, cfg.WriteBufferSize.Maximal),
		notify: make(chan struct{}, 1),
		now:    time.Now,
	}
}

// Begin opens a new exchange. Data of the previous exchange which is not flushed yet stays
// in the buffer and goes out first.
func (c *Client) Begin() *Exchange {
	if c.exchange != nil && !c.exchange.State().Terminal() {
		panic(fmt.Sprintf("BUG: exchange %s is still in progress (%s)", c.exchange.ID, c.exchange.State()))
	}

	c.exchange = newExchange(uniuri.NewLen(12), c.now())
	c.encoder = nil
	c.out.total = 0

	return c.exchange
}

func (c *Client) Exchange() *Exchange {
	return c.exchange
}

// SubmitHead serializes the request head into the output buffer and installs the encoder
// matching the request's framing. Requests without body get an already completed encoder.
func (c *Client) SubmitHead(req *http.Request) error {
	if c.exchange == nil {
		return ErrNoExchange
	}

	before := c.out.Len()
	buff, err := http1.AppendHead(c.out.buff, req)
	if err != nil {
		c.out.buff = buff[:before]
		return err
	}

	c.out.buff = buff
	c.out.total += int64(len(buff) - before)
	c.exchange.Request = req

	// can't fail here, as AppendHead already checked it
	framing, _ := http1.Framing(req)
	switch framing {
	case http.Chunked:
		c.encoder = http1.NewChunkedEncoder(&c.out)
	case http.FixedLength:
		c.encoder = http1.NewLengthEncoder(&c.out, req.Entity.Length)
	default:
		c.encoder = http1.NewLengthEncoder(&c.out, 0)
	}

	c.RequestOutput()

	return nil
}

func (c *Client) Encoder() Encoder {
	return c.encoder
}

// BytesSent returns the number of bytes of the current exchange, including the head and
// the body framing, handed to the connection so far.
func (c *Client) BytesSent() int64 {
	return c.out.total
}

// Pending returns the number of bytes waiting to be flushed.
func (c *Client) Pending() int {
	return c.out.Len()
}

// RequestOutput wakes up the owner of the connection. Never blocks.
func (c *Client) RequestOutput() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// OutputRequested fires each time some new data became available for the connection.
func (c *Client) OutputRequested() <-chan struct{} {
	return c.notify
}

// Flush writes out the output buffer. Bytes which couldn't be written before an error occurred
// stay in the buffer. Any error moves the current exchange into the Error state.
func (c *Client) Flush() error {
	if c.out.Len() == 0 {
		return nil
	}

	if err := c.conn.SetWriteDeadline(c.now().Add(c.cfg.WriteTimeout)); err != nil {
		return c.fail(err)
	}

	n, err := c.conn.Write(c.out.buff)
	c.out.consume(n)
	if err != nil {
		return c.fail(err)
	}

	return nil
}

func (c *Client) fail(err error) error {
	if c.exchange != nil {
		c.exchange.Fail()
	}

	return err
}

// Shutdown tears the connection down. If the body of the current exchange is still being sent,
// its source is aborted with the passed error.
func (c *Client) Shutdown(err error) error {
	if ex := c.exchange; ex != nil {
		if ex.State() == HeadSent && ex.Writer != nil {
			ex.Writer.Abort(err)
		}

		ex.Fail()
	}

	return c.Close()
}

// Conn unwraps the underlying net.Conn.
func (c *Client) Conn() net.Conn {
	return c.conn
}

// Remote returns the remote address of the connection.
func (c *Client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

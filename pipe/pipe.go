package pipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
)

var (
	ErrClosed  = errors.New("pipe is closed")
	ErrAborted = errors.New("pipe is aborted")
)

// State of the pipe as seen by the consumer.
type State uint8

const (
	// Empty means there's no data at the moment, but more is going to come.
	Empty State = iota
	// HasData means there are buffered bytes waiting to be consumed.
	HasData
	// Closed means the stream is over: either finished and fully consumed, or aborted.
	Closed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case HasData:
		return "has-data"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Encoder is where consumed bytes go to.
type Encoder interface {
	Write(b []byte) (int, error)
	Complete() error
	IsCompleted() bool
}

// Consumer is notified every time new data or the end of the stream arrives.
type Consumer interface {
	RequestOutput()
}

// Pipe is a bounded byte channel between a single producer goroutine and a single consumer.
// The producer blocks while the buffer is full, the consumer never blocks.
type Pipe struct {
	name     string
	size     int
	mu       sync.Mutex
	buff     []byte
	closed   bool
	err      error
	consumer Consumer
	space    chan struct{}
	arrival  chan struct{}
	aborted  chan struct{}
}

func New(name string, size int) *Pipe {
	return &Pipe{
		name:    name,
		size:    size,
		buff:    make([]byte, 0, size),
		space:   make(chan struct{}, 1),
		arrival: make(chan struct{}, 1),
		aborted: make(chan struct{}),
	}
}

func (p *Pipe) Name() string {
	return p.name
}

// AttachConsumer sets the consumer to be notified. If something is already buffered, it's
// notified immediately.
func (p *Pipe) AttachConsumer(c Consumer) {
	p.mu.Lock()
	p.consumer = c
	pending := len(p.buff) > 0 || p.closed || p.err != nil
	p.mu.Unlock()

	if pending {
		c.RequestOutput()
	}
}

// Write puts the whole b into the pipe, blocking while the buffer is full. It returns early if
// the context is done or the pipe is aborted.
func (p *Pipe) Write(ctx context.Context, b []byte) (written int, err error) {
	for len(b) > 0 {
		p.mu.Lock()
		if err = p.failure(); err != nil {
			p.mu.Unlock()
			return written, err
		}

		if p.closed {
			p.mu.Unlock()
			return written, ErrClosed
		}

		if free := p.size - len(p.buff); free > 0 {
			n := min(free, len(b))
			p.buff = append(p.buff, b[:n]...)
			b, written = b[n:], written+n
			consumer := p.consumer
			p.mu.Unlock()
			p.arrived(consumer)
			continue
		}

		p.mu.Unlock()

		select {
		case <-p.space:
		case <-p.aborted:
		case <-ctx.Done():
			return written, ctx.Err()
		}
	}

	return written, nil
}

// Close marks the end of the stream. Already buffered data is still going to be consumed.
func (p *Pipe) Close() error {
	p.mu.Lock()
	p.closed = true
	consumer := p.consumer
	p.mu.Unlock()
	p.arrived(consumer)

	return nil
}

// Abort cancels the stream. Buffered data is dropped, both sides get the error from now on.
func (p *Pipe) Abort(err error) {
	p.mu.Lock()
	if p.err != nil {
		p.mu.Unlock()
		return
	}

	if err == nil {
		err = io.ErrUnexpectedEOF
	}

	p.err = err
	p.buff = p.buff[:0]
	close(p.aborted)
	consumer := p.consumer
	p.mu.Unlock()
	p.arrived(consumer)
}

// Err returns the abort cause, if any.
func (p *Pipe) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// Consume moves as many buffered bytes into the encoder as it takes. When the stream is
// finished and everything is consumed, the encoder is completed. Returned 0 without an
// error means there's nothing to do at the moment.
func (p *Pipe) Consume(enc Encoder) (int, error) {
	n, _, err := p.consume(enc, false)
	return n, err
}

// CopyAndConsume is Consume, additionally returning a copy of the consumed bytes.
func (p *Pipe) CopyAndConsume(enc Encoder) (int, []byte, error) {
	return p.consume(enc, true)
}

func (p *Pipe) consume(enc Encoder, keep bool) (n int, copied []byte, err error) {
	if enc.IsCompleted() {
		return 0, nil, nil
	}

	p.mu.Lock()
	if err = p.failure(); err != nil {
		p.mu.Unlock()
		return 0, nil, err
	}

	if len(p.buff) > 0 {
		n, err = enc.Write(p.buff)
		if keep && n > 0 {
			copied = slices.Clone(p.buff[:n])
		}

		p.buff = p.buff[:copy(p.buff, p.buff[n:])]
	}

	finished := p.closed && len(p.buff) == 0
	p.mu.Unlock()

	if n > 0 {
		notify(p.space)
	}

	if err == nil && finished && !enc.IsCompleted() {
		err = enc.Complete()
	}

	return n, copied, err
}

// Load replaces the contents of the pipe by the complete payload and closes it. The size
// limit doesn't apply. Used when the body must be known in full before the head is sent.
func (p *Pipe) Load(b []byte) {
	p.mu.Lock()
	p.buff = append(p.buff[:0], b...)
	p.closed = true
	consumer := p.consumer
	p.mu.Unlock()
	p.arrived(consumer)
}

// Drain reads the rest of the stream, blocking until the producer closes it.
func (p *Pipe) Drain(ctx context.Context) ([]byte, error) {
	var data []byte

	for {
		p.mu.Lock()
		if err := p.failure(); err != nil {
			p.mu.Unlock()
			return data, err
		}

		data = append(data, p.buff...)
		hadData := len(p.buff) > 0
		p.buff = p.buff[:0]
		closed := p.closed
		p.mu.Unlock()

		if hadData {
			notify(p.space)
		}

		if closed {
			return data, nil
		}

		select {
		case <-p.arrival:
		case <-p.aborted:
		case <-ctx.Done():
			return data, ctx.Err()
		}
	}
}

func (p *Pipe) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.err != nil:
		return Closed
	case len(p.buff) > 0:
		return HasData
	case p.closed:
		return Closed
	default:
		return Empty
	}
}

// Buffered returns the number of bytes waiting to be consumed.
func (p *Pipe) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.buff)
}

// Writer returns the producer side of the pipe as an io.WriteCloser.
func (p *Pipe) Writer(ctx context.Context) io.WriteCloser {
	return writer{ctx: ctx, p: p}
}

func (p *Pipe) String() string {
	return fmt.Sprintf("pipe(%s)", p.name)
}

func (p *Pipe) failure() error {
	if p.err == nil {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrAborted, p.err)
}

func (p *Pipe) arrived(consumer Consumer) {
	notify(p.arrival)
	if consumer != nil {
		consumer.RequestOutput()
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

type writer struct {
	ctx context.Context
	p   *Pipe
}

func (w writer) Write(b []byte) (int, error) {
	return w.p.Write(w.ctx, b)
}

func (w writer) Close() error {
	return w.p.Close()
}

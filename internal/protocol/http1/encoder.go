package http1

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

var (
	ErrBodyTruncated    = errors.New("body ended before the declared content length")
	ErrEncoderCompleted = errors.New("body encoder is already completed")
)

// Output is the outgoing buffer of a connection. Encoders put as much data as Free allows and
// leave the rest for the next write-readiness event. Append must accept everything it's given,
// as terminators are written regardless of free space. An empty output always takes at least
// a single byte of payload, even if the limit is too small to fit it, so the body never stalls.
type Output interface {
	Free() int
	Len() int
	Append(b []byte)
}

// ChunkedEncoder frames the body with the chunked transfer coding. Every Write produces at most
// one chunk, sized to the free space of the output.
type ChunkedEncoder struct {
	out       Output
	head      []byte
	completed bool
}

func NewChunkedEncoder(out Output) *ChunkedEncoder {
	return &ChunkedEncoder{
		out:  out,
		head: make([]byte, 0, 64/4+len(crlf)),
	}
}

func maxhex(n int) int {
	return (bits.Len64(uint64(n))-1)>>2 + 1
}

func (c *ChunkedEncoder) Write(p []byte) (int, error) {
	if c.completed {
		return 0, ErrEncoderCompleted
	}

	if len(p) == 0 {
		return 0, nil
	}

	free := c.out.Free()
	overhead := maxhex(free) + 2*len(crlf)
	room := free - overhead
	if room <= 0 {
		if c.out.Len() > 0 {
			// not even a single byte of payload fits. Wait for the output to be flushed.
			return 0, nil
		}

		room = 1
	}

	n := min(len(p), room)
	c.head = strconv.AppendUint(c.head[:0], uint64(n), 16)
	c.head = append(c.head, crlf...)
	c.out.Append(c.head)
	c.out.Append(p[:n])
	c.out.Append(chunkCRLF)

	return n, nil
}

// Complete writes the last chunk. No trailer fields are ever sent.
func (c *ChunkedEncoder) Complete() error {
	if c.completed {
		return nil
	}

	c.out.Append(chunkZeroTrailer)
	c.completed = true
	return nil
}

func (c *ChunkedEncoder) IsCompleted() bool {
	return c.completed
}

// LengthEncoder sends exactly as many bytes as the Content-Length field declares and completes
// itself as soon as the last one is written. Any surplus is never accepted.
type LengthEncoder struct {
	out       Output
	remaining int64
	completed bool
}

func NewLengthEncoder(out Output, length int64) *LengthEncoder {
	return &LengthEncoder{
		out:       out,
		remaining: length,
		completed: length == 0,
	}
}

func (l *LengthEncoder) Write(p []byte) (int, error) {
	if l.completed {
		return 0, ErrEncoderCompleted
	}

	free := l.out.Free()
	if free <= 0 && l.out.Len() == 0 {
		free = 1
	}

	n := int(min(int64(len(p)), int64(free), l.remaining))
	if n <= 0 {
		return 0, nil
	}

	l.out.Append(p[:n])
	l.remaining -= int64(n)
	l.completed = l.remaining == 0

	return n, nil
}

// Complete marks the body as finished. Finishing it before the declared length is reached
// is an error, as the peer would otherwise wait for the missing bytes forever.
func (l *LengthEncoder) Complete() error {
	if l.completed {
		return nil
	}

	l.completed = true
	if l.remaining > 0 {
		return fmt.Errorf("%w: %d bytes missing", ErrBodyTruncated, l.remaining)
	}

	return nil
}

func (l *LengthEncoder) IsCompleted() bool {
	return l.completed
}

// Remaining returns the number of bytes still expected.
func (l *LengthEncoder) Remaining() int64 {
	return l.remaining
}

var (
	chunkCRLF        = []byte(crlf)
	chunkZeroTrailer = []byte("0\r\n\r\n")
)

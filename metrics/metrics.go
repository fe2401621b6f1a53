// Package metrics collects transport statistics of the outbound side.
package metrics

import "sync/atomic"

// Sink receives the statistics. Implementations must be safe for concurrent use, as exchanges
// of different connections report independently.
type Sink interface {
	NotifySentMessageSize(bytes int64)
}

// Nop discards everything.
type Nop struct{}

func (Nop) NotifySentMessageSize(int64) {}

// Counters accumulates the statistics in memory.
type Counters struct {
	messages atomic.Int64
	bytes    atomic.Int64
	largest  atomic.Int64
}

func NewCounters() *Counters {
	return new(Counters)
}

func (c *Counters) NotifySentMessageSize(bytes int64) {
	c.messages.Add(1)
	c.bytes.Add(bytes)

	for {
		largest := c.largest.Load()
		if bytes <= largest || c.largest.CompareAndSwap(largest, bytes) {
			return
		}
	}
}

// Snapshot is a consistent enough view on Counters.
type Snapshot struct {
	Messages, Bytes, Largest int64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Messages: c.messages.Load(),
		Bytes:    c.bytes.Load(),
		Largest:  c.largest.Load(),
	}
}

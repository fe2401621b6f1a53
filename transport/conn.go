package transport

import "github.com/indigo-web/passthru/http"

// Encoder frames the body onto the connection's output. Write accepts at most as many bytes as
// the output has room for at the moment; 0 is a valid result and means the output must be
// flushed first.
type Encoder interface {
	Write(b []byte) (int, error)
	Complete() error
	IsCompleted() bool
}

// Conn is the connection as seen by the request emitter.
type Conn interface {
	// Begin opens a new exchange. The previous one must be terminal.
	Begin() *Exchange
	// Exchange returns the current exchange, or nil if none was begun yet.
	Exchange() *Exchange
	// SubmitHead serializes the request head and installs the body encoder.
	SubmitHead(req *http.Request) error
	// Encoder returns the body encoder of the current exchange.
	Encoder() Encoder
	// BytesSent returns the number of bytes of the current exchange handed to the connection.
	BytesSent() int64
	// RequestOutput signals that there is data to be written. Safe to be called from
	// any goroutine.
	RequestOutput()
}

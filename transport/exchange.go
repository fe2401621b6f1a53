package transport

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/indigo-web/passthru/http"
)

// Host is the target host of an exchange. Port -1 means the port is not stated explicitly.
type Host struct {
	Name string
	Port int
}

func (h Host) String() string {
	if h.Port == -1 {
		return h.Name
	}

	return net.JoinHostPort(h.Name, strconv.Itoa(h.Port))
}

// BodySource is whatever feeds the body of the current exchange. It is aborted by the
// connection lifecycle if the connection goes down in the middle of the body.
type BodySource interface {
	Abort(err error)
}

// Exchange is the record of a single request/response cycle on a connection. It is shared
// between the request emitter and the response side, which reads the request and the target
// host from it.
type Exchange struct {
	ID string
	// TargetHost is the host the request is addressed to. Used for the Host field and by
	// proxy authentication.
	TargetHost Host
	// Request is the submitted request head. Nil until the head is submitted.
	Request *http.Request
	// Writer is the body source, if any.
	Writer BodySource
	// ProxyProfileTargetHost is the target host as selected by the proxy profile, if any.
	ProxyProfileTargetHost string
	// Started is the moment the exchange was opened.
	Started time.Time
	// DepartureTime and WriteEndTime are set as soon as the last byte of the request was
	// handed to the connection.
	DepartureTime, WriteEndTime time.Time
	state                       State
}

func newExchange(id string, now time.Time) *Exchange {
	return &Exchange{
		ID:         id,
		TargetHost: Host{Port: -1},
		Started:    now,
	}
}

func (e *Exchange) State() State {
	return e.state
}

// Advance moves the exchange to the next state. Going backwards or repeating a state is a
// bug in the caller and therefore panics.
func (e *Exchange) Advance(to State) {
	if !e.state.canAdvance(to) {
		panic(fmt.Sprintf("BUG: exchange %s: illegal state transition %s -> %s", e.ID, e.state, to))
	}

	e.state = to
}

// Fail moves the exchange to the Error state, unless it's already terminal.
func (e *Exchange) Fail() {
	if !e.state.Terminal() {
		e.state = Error
	}
}

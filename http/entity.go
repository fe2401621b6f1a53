package http

import "strconv"

// Framing tells how the request body is delimited on the wire.
type Framing uint8

const (
	// NoBody marks a request which is sent without an entity at all.
	NoBody Framing = iota
	// Chunked bodies are sent with the chunked transfer coding.
	Chunked
	// FixedLength bodies are preceded by a Content-Length field.
	FixedLength
	// UnknownLength is an entity which is neither chunked nor sized. The sender either falls
	// back to chunked when the protocol allows it, or refuses to transmit it.
	UnknownLength
)

func (f Framing) String() string {
	switch f {
	case NoBody:
		return "none"
	case Chunked:
		return "chunked"
	case FixedLength:
		return "fixed"
	case UnknownLength:
		return "unknown"
	default:
		return "Framing(" + strconv.Itoa(int(f)) + ")"
	}
}

// Entity describes the body of an outbound request. Length is meaningful for FixedLength
// framing only and is -1 otherwise.
type Entity struct {
	Framing Framing
	Length  int64
}

func Bodyless() Entity {
	return Entity{Framing: NoBody, Length: -1}
}

func ChunkedEntity() Entity {
	return Entity{Framing: Chunked, Length: -1}
}

func FixedEntity(length int64) Entity {
	return Entity{Framing: FixedLength, Length: length}
}

func UnsizedEntity() Entity {
	return Entity{Framing: UnknownLength, Length: -1}
}

// Present tells whether the request carries a body.
func (e Entity) Present() bool {
	return e.Framing != NoBody
}

package http

import (
	"github.com/indigo-web/passthru/http/method"
	"github.com/indigo-web/passthru/http/proto"
	"github.com/indigo-web/passthru/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request is a wire-ready outbound request head. It is built once per exchange by the emitter
// and afterwards only read by the connection and by the response side.
type Request struct {
	// Method is the method token exactly as it is sent. Extension methods are allowed.
	Method string
	// Path is the request target: either the origin form (path and query) or the absolute form
	// when talking to a plain proxy.
	Path string
	// Protocol is the version written into the request line.
	Protocol proto.Protocol
	// Headers holds the header fields in emission order. Lookup is case-insensitive.
	Headers Headers
	// Entity decides the body framing.
	Entity Entity
}

func NewRequest(methodToken, path string, protocol proto.Protocol, entity Entity) *Request {
	return &Request{
		Method:   methodToken,
		Path:     path,
		Protocol: protocol,
		Headers:  kv.New(),
		Entity:   entity,
	}
}

// MethodEnum returns the parsed method, or method.Unknown for extension methods.
func (r *Request) MethodEnum() method.Method {
	return method.Parse(r.Method)
}

// AddHeader appends a field, keeping the existing ones with the same name.
func (r *Request) AddHeader(name, value string) *Request {
	r.Headers.Add(name, value)
	return r
}

// SetHeader replaces all the fields with the same name by the single one.
func (r *Request) SetHeader(name, value string) *Request {
	r.Headers.Set(name, value)
	return r
}

// RemoveHeader deletes all the fields with the name.
func (r *Request) RemoveHeader(name string) *Request {
	r.Headers.Delete(name)
	return r
}

// FirstHeader returns the value of the first field with the name.
func (r *Request) FirstHeader(name string) (value string, found bool) {
	return r.Headers.Get(name)
}

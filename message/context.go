// Package message models the outbound message as the request emitter sees it: the method and
// the address, metadata gathered by the inbound side and compatibility flags.
package message

import (
	"net/url"

	"github.com/indigo-web/passthru/http/headers"
	"github.com/indigo-web/passthru/http/method"
	"github.com/indigo-web/passthru/kv"
	"github.com/indigo-web/passthru/pipe"
)

// Flags are per-message compatibility switches.
type Flags struct {
	// ForceContentLength never lets the body be chunked. The length is then known only if
	// CopyContentLength is set as well.
	ForceContentLength bool
	// CopyContentLength takes the length declared by the inbound side.
	CopyContentLength bool
	// DisableChunking makes the body be materialized in order to learn its length.
	DisableChunking bool
	// ForceHTTP10 does the same as DisableChunking and downgrades the request to HTTP/1.0.
	ForceHTTP10 bool
	// PostToURI sends the absolute URL in the request line.
	PostToURI bool
	// NoEntityBody marks DELETE requests that carry no payload.
	NoEntityBody bool
}

// Context is the outbound message.
type Context struct {
	Method string
	To     *url.URL
	// Length is the body length as declared by the inbound side, -1 if unknown.
	Length int64
	// SOAP11 is set for SOAP 1.1 envelopes.
	SOAP11 bool
	// SOAPAction, WSAAction and OperationAction are the candidates for the SOAPAction field,
	// in the order of priority.
	SOAPAction, WSAAction, OperationAction string
	// TransportHeaders is the snapshot of the headers received by the inbound side.
	TransportHeaders *kv.Storage
	// ContentType overrides the content type of the transport headers when formatting.
	ContentType string
	// Payload is the body as built by a formatter's builder. It's nil as long as the body
	// exists only as raw bytes in the Pipe.
	Payload any
	// Built tells whether the Payload was built.
	Built bool
	// DoingSwA is set when the message carries SOAP attachments.
	DoingSwA bool
	// Pipe carries the raw body, if any.
	Pipe  *pipe.Pipe
	Flags Flags
	// ProxyProfileTargetHost is the target host chosen by the proxy profile, if any.
	ProxyProfileTargetHost string
}

func New(httpMethod string, to *url.URL) *Context {
	return &Context{
		Method:           httpMethod,
		To:               to,
		Length:           -1,
		TransportHeaders: kv.New(),
	}
}

// WithPayload sets an already built body.
func (c *Context) WithPayload(payload any) *Context {
	c.Payload, c.Built = payload, true
	return c
}

// WithPipe sets the raw body source.
func (c *Context) WithPipe(p *pipe.Pipe) *Context {
	c.Pipe = p
	return c
}

// MessageContentType returns the explicit content type, falling back to the value of the
// transport headers.
func (c *Context) MessageContentType() string {
	if len(c.ContentType) > 0 {
		return c.ContentType
	}

	return c.TransportHeader(headers.ContentType)
}

// TransportHeader returns the first value of the inbound header, or an empty string if there's
// none or no headers were recorded at all.
func (c *Context) TransportHeader(name string) string {
	if c.TransportHeaders == nil {
		return ""
	}

	return c.TransportHeaders.Value(name)
}

// IsDeleteWithoutPayload reports whether the message is a DELETE that must be sent without
// body.
func (c *Context) IsDeleteWithoutPayload() bool {
	return method.Parse(c.Method) == method.DELETE && c.Flags.NoEntityBody
}

// Bodyless reports whether the message must be sent without body regardless of what was
// requested.
func (c *Context) Bodyless() bool {
	return method.Bodyless(method.Parse(c.Method)) || c.IsDeleteWithoutPayload()
}

// Action returns the first non-empty candidate for the SOAPAction field.
func (c *Context) Action() string {
	switch {
	case len(c.SOAPAction) > 0:
		return c.SOAPAction
	case len(c.WSAAction) > 0:
		return c.WSAAction
	default:
		return c.OperationAction
	}
}

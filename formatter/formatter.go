// Package formatter turns built message payloads into bytes and raw bodies into payloads.
package formatter

import (
	"errors"
	"io"
	"net/url"

	"github.com/indigo-web/passthru/http/mime"
	"github.com/indigo-web/passthru/message"
)

var (
	ErrNotBuilt           = errors.New("message payload is not built")
	ErrUnsupportedPayload = errors.New("payload type is not supported by the formatter")
)

// Format describes the serialization of a message.
type Format struct {
	ContentType mime.MIME
	Charset     mime.Charset
	SOAP11      bool
}

// FormatOf derives the format from the message's content type.
func FormatOf(msg *message.Context) Format {
	contentType := msg.MessageContentType()
	charset := mime.CharsetOf(contentType)
	if charset == mime.Unset {
		charset = mime.UTF8
	}

	return Format{
		ContentType: mime.Base(contentType),
		Charset:     charset,
		SOAP11:      msg.SOAP11,
	}
}

// Formatter writes the built payload of a message.
type Formatter interface {
	// TargetAddress returns the address the message must be sent to. Formatters able to
	// carry the payload in the URL (e.g. as query parameters) may rewrite it, others return
	// the fallback.
	TargetAddress(msg *message.Context, format Format, fallback *url.URL) (*url.URL, error)
	// WriteTo serializes the payload into w. If preserve is set, the payload is kept usable
	// for further writes, even if writing it consumes it.
	WriteTo(msg *message.Context, format Format, w io.Writer, preserve bool) (int64, error)
	// FormatSOAPAction returns the value of the SOAPAction field for the action.
	FormatSOAPAction(msg *message.Context, format Format, action string) string
}

// Builder builds the payload of a message from its raw body.
type Builder interface {
	Build(msg *message.Context, body io.Reader) error
}

// Codec is both.
type Codec interface {
	Formatter
	Builder
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

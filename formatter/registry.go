package formatter

import (
	"github.com/indigo-web/passthru/http/mime"
	"github.com/indigo-web/passthru/message"
	"github.com/indigo-web/utils/strcomp"
)

type entry struct {
	mime  mime.MIME
	codec Codec
}

// Registry picks a codec by the message's content type. Messages of unknown types are
// handled by the fallback, which is Binary unless set otherwise.
type Registry struct {
	entries  []entry
	fallback Codec
}

// NewRegistry returns a registry with the built-in codecs.
func NewRegistry() *Registry {
	return new(Registry).
		Register(mime.JSON, JSON{}).
		Register(mime.XML, SOAP11{}).
		Register(mime.FormUrlencoded, Form{}).
		Register(mime.OctetStream, Binary{}).
		Fallback(Binary{})
}

// Register sets the codec for the MIME, replacing the previous one, if any.
func (r *Registry) Register(m mime.MIME, codec Codec) *Registry {
	for i, e := range r.entries {
		if strcomp.EqualFold(e.mime, m) {
			r.entries[i].codec = codec
			return r
		}
	}

	r.entries = append(r.entries, entry{mime: m, codec: codec})
	return r
}

func (r *Registry) Fallback(codec Codec) *Registry {
	r.fallback = codec
	return r
}

// Lookup returns the codec for the MIME.
func (r *Registry) Lookup(m mime.MIME) Codec {
	for _, e := range r.entries {
		if strcomp.EqualFold(e.mime, m) {
			return e.codec
		}
	}

	return r.fallback
}

// For returns the codec for the message. SOAP 1.1 messages always get the SOAP codec unless
// a codec for text/xml was overridden.
func (r *Registry) For(msg *message.Context) Codec {
	if msg.SOAP11 {
		return r.Lookup(mime.XML)
	}

	return r.Lookup(mime.Base(msg.MessageContentType()))
}

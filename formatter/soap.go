package formatter

import (
	"encoding/xml"
	"io"
	"net/url"

	"github.com/indigo-web/passthru/internal/strutil"
	"github.com/indigo-web/passthru/message"
)

const SOAP11Namespace = "http://schemas.xmlsoap.org/soap/envelope/"

// Envelope is a SOAP 1.1 envelope. Header and body contents are kept as raw XML.
type Envelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Header  *Section `xml:"http://schemas.xmlsoap.org/soap/envelope/ Header,omitempty"`
	Body    Section  `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

type Section struct {
	Content []byte `xml:",innerxml"`
}

// NewEnvelope wraps the raw XML into the envelope's body.
func NewEnvelope(body string) *Envelope {
	return &Envelope{Body: Section{Content: []byte(body)}}
}

var _ Codec = SOAP11{}

// SOAP11 handles text/xml SOAP 1.1 envelopes. Built payloads are *Envelope.
type SOAP11 struct{}

func (SOAP11) TargetAddress(_ *message.Context, _ Format, fallback *url.URL) (*url.URL, error) {
	return fallback, nil
}

func (SOAP11) WriteTo(msg *message.Context, _ Format, w io.Writer, _ bool) (int64, error) {
	if !msg.Built {
		return 0, ErrNotBuilt
	}

	envelope, ok := msg.Payload.(*Envelope)
	if !ok {
		return 0, ErrUnsupportedPayload
	}

	cw := &countingWriter{w: w}
	if _, err := io.WriteString(cw, xml.Header); err != nil {
		return cw.n, err
	}

	err := xml.NewEncoder(cw).Encode(envelope)
	return cw.n, err
}

// FormatSOAPAction quotes the action, as SOAP 1.1 requires the SOAPAction value to be
// a quoted string.
func (SOAP11) FormatSOAPAction(_ *message.Context, _ Format, action string) string {
	return strutil.Quote(action)
}

func (SOAP11) Build(msg *message.Context, body io.Reader) error {
	envelope := new(Envelope)
	if err := xml.NewDecoder(body).Decode(envelope); err != nil {
		return err
	}

	msg.WithPayload(envelope)
	return nil
}

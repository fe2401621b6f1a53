package formatter

import (
	"bytes"
	"io"
	"net/url"

	"github.com/indigo-web/passthru/message"
)

var _ Codec = Binary{}

// Binary passes the payload as is. Built payloads are either []byte or io.Reader; the latter
// is consumed by writing unless it's asked to be preserved.
type Binary struct{}

func (Binary) TargetAddress(_ *message.Context, _ Format, fallback *url.URL) (*url.URL, error) {
	return fallback, nil
}

func (Binary) WriteTo(msg *message.Context, _ Format, w io.Writer, preserve bool) (int64, error) {
	if !msg.Built {
		return 0, ErrNotBuilt
	}

	switch payload := msg.Payload.(type) {
	case []byte:
		n, err := w.Write(payload)
		return int64(n), err
	case io.Reader:
		if !preserve {
			return io.Copy(w, payload)
		}

		var kept bytes.Buffer
		n, err := io.Copy(w, io.TeeReader(payload, &kept))
		msg.Payload = kept.Bytes()
		return n, err
	case nil:
		return 0, nil
	default:
		return 0, ErrUnsupportedPayload
	}
}

func (Binary) FormatSOAPAction(_ *message.Context, _ Format, action string) string {
	return action
}

func (Binary) Build(msg *message.Context, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	msg.WithPayload(data)
	return nil
}

package formatter

import (
	"io"
	"net/url"
	"strings"

	"github.com/indigo-web/passthru/message"
)

var _ Codec = Form{}

// Form handles application/x-www-form-urlencoded payloads. Built payloads are url.Values.
type Form struct{}

// TargetAddress embeds the payload into the query of bodyless requests, appending the values
// to the ones already present.
func (Form) TargetAddress(msg *message.Context, _ Format, fallback *url.URL) (*url.URL, error) {
	values, ok := msg.Payload.(url.Values)
	if !msg.Built || !ok || len(values) == 0 || fallback == nil {
		return fallback, nil
	}

	query, err := url.ParseQuery(fallback.RawQuery)
	if err != nil {
		return nil, err
	}

	for key, vals := range values {
		for _, value := range vals {
			query.Add(key, value)
		}
	}

	address := *fallback
	address.RawQuery = query.Encode()

	return &address, nil
}

func (Form) WriteTo(msg *message.Context, _ Format, w io.Writer, _ bool) (int64, error) {
	if !msg.Built {
		return 0, ErrNotBuilt
	}

	values, ok := msg.Payload.(url.Values)
	if !ok {
		return 0, ErrUnsupportedPayload
	}

	n, err := io.WriteString(w, values.Encode())
	return int64(n), err
}

func (Form) FormatSOAPAction(_ *message.Context, _ Format, action string) string {
	return action
}

func (Form) Build(msg *message.Context, body io.Reader) error {
	var b strings.Builder
	if _, err := io.Copy(&b, body); err != nil {
		return err
	}

	values, err := url.ParseQuery(b.String())
	if err != nil {
		return err
	}

	msg.WithPayload(values)
	return nil
}

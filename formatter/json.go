package formatter

import (
	"io"
	"net/url"

	"github.com/indigo-web/passthru/message"
	json "github.com/json-iterator/go"
)

var _ Codec = JSON{}

// JSON handles application/json payloads. Built payloads are whatever json-iterator can
// encode; the builder produces generic values (maps, slices, numbers and strings).
type JSON struct{}

func (JSON) TargetAddress(_ *message.Context, _ Format, fallback *url.URL) (*url.URL, error) {
	return fallback, nil
}

func (JSON) WriteTo(msg *message.Context, _ Format, w io.Writer, _ bool) (int64, error) {
	if !msg.Built {
		return 0, ErrNotBuilt
	}

	cw := &countingWriter{w: w}
	stream := json.ConfigDefault.BorrowStream(cw)
	stream.WriteVal(msg.Payload)
	err := stream.Error
	if flushErr := stream.Flush(); err == nil {
		err = flushErr
	}
	json.ConfigDefault.ReturnStream(stream)

	return cw.n, err
}

func (JSON) FormatSOAPAction(_ *message.Context, _ Format, action string) string {
	return action
}

func (JSON) Build(msg *message.Context, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	var payload any
	iterator := json.ConfigDefault.BorrowIterator(data)
	iterator.ReadVal(&payload)
	err = iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)
	if err != nil {
		return err
	}

	msg.WithPayload(payload)
	return nil
}

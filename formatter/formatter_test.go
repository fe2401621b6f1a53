package formatter

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/indigo-web/passthru/http/mime"
	"github.com/indigo-web/passthru/message"
	"github.com/stretchr/testify/require"
)

func newMessage(t *testing.T, contentType string) *message.Context {
	to, err := url.Parse("http://backend.local/orders?region=eu")
	require.NoError(t, err)

	msg := message.New("POST", to)
	msg.TransportHeaders.Add("Content-Type", contentType)

	return msg
}

func TestFormatOf(t *testing.T) {
	msg := newMessage(t, "text/xml; charset=ISO-8859-1")
	msg.SOAP11 = true
	require.Equal(t, Format{ContentType: mime.XML, Charset: "ISO-8859-1", SOAP11: true}, FormatOf(msg))

	msg = newMessage(t, mime.JSON)
	require.Equal(t, mime.UTF8, FormatOf(msg).Charset)
}

func TestJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		msg := newMessage(t, mime.JSON)
		require.NoError(t, JSON{}.Build(msg, strings.NewReader(`{"id": 42, "tags": ["a", "b"]}`)))
		require.True(t, msg.Built)

		var buff bytes.Buffer
		n, err := JSON{}.WriteTo(msg, FormatOf(msg), &buff, false)
		require.NoError(t, err)
		require.Equal(t, int64(buff.Len()), n)
		require.JSONEq(t, `{"id": 42, "tags": ["a", "b"]}`, buff.String())
	})

	t.Run("not built", func(t *testing.T) {
		msg := newMessage(t, mime.JSON)
		_, err := JSON{}.WriteTo(msg, FormatOf(msg), new(bytes.Buffer), false)
		require.ErrorIs(t, err, ErrNotBuilt)
	})

	t.Run("malformed", func(t *testing.T) {
		msg := newMessage(t, mime.JSON)
		require.Error(t, JSON{}.Build(msg, strings.NewReader(`{"id": `)))
		require.False(t, msg.Built)
	})
}

func TestSOAP11(t *testing.T) {
	const envelope = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soapenv:Body><m:getQuote xmlns:m="urn:quotes"><m:symbol>IBM</m:symbol></m:getQuote></soapenv:Body>` +
		`</soapenv:Envelope>`

	t.Run("build", func(t *testing.T) {
		msg := newMessage(t, mime.XML)
		require.NoError(t, SOAP11{}.Build(msg, strings.NewReader(envelope)))
		env, ok := msg.Payload.(*Envelope)
		require.True(t, ok)
		require.Contains(t, string(env.Body.Content), "<m:symbol>IBM</m:symbol>")
	})

	t.Run("write", func(t *testing.T) {
		msg := newMessage(t, mime.XML).WithPayload(NewEnvelope("<ping/>"))
		var buff bytes.Buffer
		n, err := SOAP11{}.WriteTo(msg, FormatOf(msg), &buff, false)
		require.NoError(t, err)
		require.Equal(t, int64(buff.Len()), n)
		require.Contains(t, buff.String(), "<ping/>")
		require.Contains(t, buff.String(), SOAP11Namespace)
	})

	t.Run("unsupported payload", func(t *testing.T) {
		msg := newMessage(t, mime.XML).WithPayload("text")
		_, err := SOAP11{}.WriteTo(msg, FormatOf(msg), new(bytes.Buffer), false)
		require.ErrorIs(t, err, ErrUnsupportedPayload)
	})

	t.Run("action", func(t *testing.T) {
		msg := newMessage(t, mime.XML)
		require.Equal(t, `"urn:getQuote"`, SOAP11{}.FormatSOAPAction(msg, FormatOf(msg), "urn:getQuote"))
		require.Equal(t, `"urn:getQuote"`, SOAP11{}.FormatSOAPAction(msg, FormatOf(msg), `"urn:getQuote"`))
	})
}

func TestForm(t *testing.T) {
	t.Run("target address", func(t *testing.T) {
		msg := newMessage(t, mime.FormUrlencoded)
		require.NoError(t, Form{}.Build(msg, strings.NewReader("symbol=IBM&symbol=MSFT")))

		address, err := Form{}.TargetAddress(msg, FormatOf(msg), msg.To)
		require.NoError(t, err)
		require.Equal(t, "/orders", address.Path)
		require.Equal(t, url.Values{"region": {"eu"}, "symbol": {"IBM", "MSFT"}}, address.Query())
		require.Equal(t, "region=eu", msg.To.RawQuery)
	})

	t.Run("not built", func(t *testing.T) {
		msg := newMessage(t, mime.FormUrlencoded)
		address, err := Form{}.TargetAddress(msg, FormatOf(msg), msg.To)
		require.NoError(t, err)
		require.Same(t, msg.To, address)
	})

	t.Run("write", func(t *testing.T) {
		msg := newMessage(t, mime.FormUrlencoded).WithPayload(url.Values{"a": {"1"}, "b": {"x y"}})
		var buff bytes.Buffer
		_, err := Form{}.WriteTo(msg, FormatOf(msg), &buff, false)
		require.NoError(t, err)
		require.Equal(t, "a=1&b=x+y", buff.String())
	})
}

func TestBinary(t *testing.T) {
	t.Run("preserve reader", func(t *testing.T) {
		msg := newMessage(t, mime.OctetStream).WithPayload(strings.NewReader("raw bytes"))

		var first, second bytes.Buffer
		_, err := Binary{}.WriteTo(msg, FormatOf(msg), &first, true)
		require.NoError(t, err)
		_, err = Binary{}.WriteTo(msg, FormatOf(msg), &second, false)
		require.NoError(t, err)
		require.Equal(t, "raw bytes", first.String())
		require.Equal(t, "raw bytes", second.String())
	})

	t.Run("build", func(t *testing.T) {
		msg := newMessage(t, mime.OctetStream)
		require.NoError(t, Binary{}.Build(msg, strings.NewReader("\x00\x01")))
		require.Equal(t, []byte{0, 1}, msg.Payload)
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	require.Equal(t, JSON{}, registry.For(newMessage(t, "application/json; charset=utf-8")))
	require.Equal(t, Form{}, registry.For(newMessage(t, mime.FormUrlencoded)))
	require.Equal(t, Binary{}, registry.For(newMessage(t, "image/png")))

	soap := newMessage(t, "")
	soap.SOAP11 = true
	require.Equal(t, SOAP11{}, registry.For(soap))

	registry.Register("Image/PNG", JSON{})
	require.Equal(t, JSON{}, registry.For(newMessage(t, "image/png")))
}

package http1

import (
	"bufio"
	"bytes"
	stdhttp "net/http"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/passthru/http"
	"github.com/indigo-web/passthru/http/proto"
	"github.com/stretchr/testify/require"
)

func readHead(t *testing.T, head []byte) *stdhttp.Request {
	req, err := stdhttp.ReadRequest(bufio.NewReader(bytes.NewReader(head)))
	require.NoError(t, err)
	return req
}

func TestAppendHead(t *testing.T) {
	t.Run("bodyless", func(t *testing.T) {
		req := http.NewRequest("GET", "/services/echo?wsdl", proto.HTTP11, http.Bodyless()).
			AddHeader("Host", "backend:8280").
			AddHeader("Accept", "*/*")

		head, err := AppendHead(nil, req)
		require.NoError(t, err)
		require.Equal(t,
			"GET /services/echo?wsdl HTTP/1.1\r\nHost: backend:8280\r\nAccept: */*\r\n\r\n",
			string(head),
		)
	})

	t.Run("fixed length", func(t *testing.T) {
		req := http.NewRequest("POST", "/echo", proto.HTTP11, http.FixedEntity(42)).
			AddHeader("Host", "backend")

		head, err := AppendHead(nil, req)
		require.NoError(t, err)
		parsed := readHead(t, head)
		require.Equal(t, int64(42), parsed.ContentLength)
		require.Empty(t, parsed.TransferEncoding)
	})

	t.Run("chunked", func(t *testing.T) {
		req := http.NewRequest("PUT", "", proto.HTTP11, http.ChunkedEntity()).
			AddHeader("Host", "backend")

		head, err := AppendHead(nil, req)
		require.NoError(t, err)
		parsed := readHead(t, head)
		require.Equal(t, "/", parsed.RequestURI)
		require.Equal(t, []string{"chunked"}, parsed.TransferEncoding)
	})

	t.Run("unknown length falls back to chunked", func(t *testing.T) {
		req := http.NewRequest("POST", "/", proto.HTTP11, http.UnsizedEntity())
		framing, err := Framing(req)
		require.NoError(t, err)
		require.Equal(t, http.Chunked, framing)
	})

	t.Run("HTTP/1.0", func(t *testing.T) {
		req := http.NewRequest("POST", "/", proto.HTTP10, http.UnsizedEntity())
		_, err := AppendHead(nil, req)
		require.ErrorIs(t, err, ErrLengthRequired)

		req.Entity = http.ChunkedEntity()
		_, err = AppendHead(nil, req)
		require.ErrorIs(t, err, ErrChunkedNotAllowed)

		req.Entity = http.FixedEntity(3)
		head, err := AppendHead(nil, req)
		require.NoError(t, err)
		require.Equal(t, "POST / HTTP/1.0\r\nContent-Length: 3\r\n\r\n", string(head))
	})

	t.Run("absolute form", func(t *testing.T) {
		req := http.NewRequest("GET", "http://backend:9000/a?b=c", proto.HTTP11, http.Bodyless())
		head, err := AppendHead(nil, req)
		require.NoError(t, err)
		parsed := readHead(t, head)
		require.Equal(t, "backend:9000", parsed.URL.Host)
		require.Equal(t, "/a", parsed.URL.Path)
	})

	t.Run("multiple values", func(t *testing.T) {
		value := uniuri.NewLen(32)
		req := http.NewRequest("GET", "/", proto.HTTP11, http.Bodyless()).
			AddHeader("Host", "backend").
			AddHeader("X-Trace", value).
			AddHeader("X-Trace", "second")

		head, err := AppendHead(nil, req)
		require.NoError(t, err)
		require.Equal(t, []string{value, "second"}, readHead(t, head).Header["X-Trace"])
	})

	t.Run("framing conflict", func(t *testing.T) {
		req := http.NewRequest("POST", "/", proto.HTTP11, http.ChunkedEntity()).
			AddHeader("transfer-encoding", "chunked")
		_, err := AppendHead(nil, req)
		require.ErrorIs(t, err, ErrFramingConflict)
	})

	t.Run("invalid fields", func(t *testing.T) {
		req := http.NewRequest("GET", "/", proto.HTTP11, http.Bodyless()).
			AddHeader("X-Injected", "a\r\nHost: evil")
		_, err := AppendHead(nil, req)
		require.ErrorIs(t, err, ErrInvalidHeaderField)

		req = http.NewRequest("GET", "/", proto.HTTP11, http.Bodyless()).
			AddHeader("Bad Name", "value")
		_, err = AppendHead(nil, req)
		require.ErrorIs(t, err, ErrInvalidHeaderField)
	})

	t.Run("invalid request line", func(t *testing.T) {
		_, err := AppendHead(nil, http.NewRequest("GET", "/a b", proto.HTTP11, http.Bodyless()))
		require.ErrorIs(t, err, ErrInvalidRequestLine)

		_, err = AppendHead(nil, http.NewRequest("GE T", "/", proto.HTTP11, http.Bodyless()))
		require.ErrorIs(t, err, ErrInvalidRequestLine)
	})

	t.Run("extension method", func(t *testing.T) {
		head, err := AppendHead(nil, http.NewRequest("PROPFIND", "/dav", proto.HTTP11, http.Bodyless()))
		require.NoError(t, err)
		require.Equal(t, "PROPFIND /dav HTTP/1.1\r\n\r\n", string(head))
	})
}

package transport

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/indigo-web/passthru/config"
	"github.com/indigo-web/passthru/http"
	"github.com/indigo-web/passthru/http/proto"
	"github.com/indigo-web/passthru/transport/dummy"
	"github.com/stretchr/testify/require"
)

var timeZero time.Time

func newTestClient(limit int) (*Client, *dummy.Conn) {
	cfg := config.Default().NET
	cfg.WriteBufferSize.Maximal = limit
	conn := dummy.NewConn()

	return NewClient(conn, cfg), conn
}

type source struct {
	err error
}

func (s *source) Abort(err error) {
	s.err = err
}

func TestClient(t *testing.T) {
	t.Run("no exchange", func(t *testing.T) {
		client, _ := newTestClient(1024)
		err := client.SubmitHead(http.NewRequest("GET", "/", proto.HTTP11, http.Bodyless()))
		require.ErrorIs(t, err, ErrNoExchange)
	})

	t.Run("fixed length body", func(t *testing.T) {
		client, conn := newTestClient(16)
		ex := client.Begin()
		require.NotEmpty(t, ex.ID)

		req := http.NewRequest("POST", "/upload", proto.HTTP11, http.FixedEntity(40))
		require.NoError(t, client.SubmitHead(req))
		require.Same(t, req, ex.Request)

		select {
		case <-client.OutputRequested():
		default:
			require.Fail(t, "output was not requested")
		}

		body := bytes.Repeat([]byte("x"), 40)
		for len(body) > 0 {
			n, err := client.Encoder().Write(body)
			require.NoError(t, err)
			body = body[n:]
			require.NoError(t, client.Flush())
		}

		require.True(t, client.Encoder().IsCompleted())
		require.Equal(t, int64(len(conn.Written())), client.BytesSent())

		parsed, err := stdhttp.ReadRequest(bufio.NewReader(bytes.NewReader(conn.Written())))
		require.NoError(t, err)
		require.Equal(t, "POST", parsed.Method)
		require.Equal(t, int64(40), parsed.ContentLength)
		got, err := io.ReadAll(parsed.Body)
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte("x"), 40), got)
	})

	t.Run("bodyless", func(t *testing.T) {
		client, _ := newTestClient(1024)
		client.Begin()
		require.NoError(t, client.SubmitHead(http.NewRequest("GET", "/", proto.HTTP11, http.Bodyless())))
		require.True(t, client.Encoder().IsCompleted())
	})

	t.Run("rejected head leaves buffer intact", func(t *testing.T) {
		client, _ := newTestClient(1024)
		client.Begin()
		req := http.NewRequest("POST", "/", proto.HTTP10, http.ChunkedEntity())
		require.Error(t, client.SubmitHead(req))
		require.Zero(t, client.Pending())
		require.Zero(t, client.BytesSent())
	})

	t.Run("begin while in progress", func(t *testing.T) {
		client, _ := newTestClient(1024)
		client.Begin().Advance(HeadSent)
		require.Panics(t, func() {
			client.Begin()
		})
	})

	t.Run("flush error", func(t *testing.T) {
		client, conn := newTestClient(1024)
		conn.FailWrites(io.ErrClosedPipe)
		ex := client.Begin()
		require.NoError(t, client.SubmitHead(http.NewRequest("GET", "/", proto.HTTP11, http.Bodyless())))
		require.ErrorIs(t, client.Flush(), io.ErrClosedPipe)
		require.Equal(t, Error, ex.State())
		require.NotZero(t, client.Pending())
	})

	t.Run("shutdown aborts body", func(t *testing.T) {
		client, conn := newTestClient(1024)
		ex := client.Begin()
		src := new(source)
		ex.Writer = src
		ex.Advance(HeadSent)

		reset := errors.New("connection reset")
		require.NoError(t, client.Shutdown(reset))
		require.Equal(t, reset, src.err)
		require.Equal(t, Error, ex.State())
		require.True(t, conn.Closed())
	})
}

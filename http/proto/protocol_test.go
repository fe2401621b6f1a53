package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtocol(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		require.Equal(t, "HTTP/1.0", HTTP10.String())
		require.Equal(t, "HTTP/1.1", HTTP11.String())
		require.Empty(t, Unknown.String())
	})

	t.Run("parse", func(t *testing.T) {
		require.Equal(t, HTTP10, FromString("HTTP/1.0"))
		require.Equal(t, HTTP11, FromBytes([]byte("HTTP/1.1")))
		require.Equal(t, Unknown, FromString("HTTP/2.0"))
		require.Equal(t, Unknown, FromString("HTTPS/1.1"))
		require.Equal(t, Unknown, FromString("HTTP/1.1 "))
		require.Equal(t, Unknown, FromString(""))
	})
}

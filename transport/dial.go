package transport

import (
	"context"
	"net"

	"github.com/indigo-web/passthru/config"
)

// Dial opens a TCP connection to addr and wraps it into a Client.
func Dial(ctx context.Context, addr string, cfg config.NET) (*Client, error) {
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	return NewClient(conn, cfg), nil
}

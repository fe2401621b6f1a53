// Package reactor drives a single exchange over a client connection: it feeds the body
// whenever the connection asks for output and flushes it until the request is sent.
package reactor

import (
	"context"
	"errors"

	"github.com/indigo-web/passthru/message"
	"github.com/indigo-web/passthru/pipe"
	"github.com/indigo-web/passthru/target"
	"github.com/indigo-web/passthru/transport"
)

var ErrExchangeFailed = errors.New("exchange failed")

// Run starts the request and blocks until it's fully written out. Cancelling the context
// shuts the connection down.
func Run(ctx context.Context, client *transport.Client, req *target.Request, msg *message.Context) error {
	if err := req.Start(ctx, client, msg); err != nil {
		return err
	}

	ex := client.Exchange()

	for {
		if ex.State() == transport.HeadSent {
			if _, err := req.Write(client, client.Encoder()); err != nil {
				return err
			}
		}

		if err := client.Flush(); err != nil {
			return err
		}

		switch ex.State() {
		case transport.Done:
			if client.Pending() == 0 {
				return nil
			}

			continue
		case transport.Error:
			return ErrExchangeFailed
		}

		if p := req.Pipe(); p != nil && p.State() != pipe.Empty {
			// the output was full, more is already waiting
			continue
		}

		select {
		case <-client.OutputRequested():
		case <-ctx.Done():
			_ = client.Shutdown(ctx.Err())
			return ctx.Err()
		}
	}
}

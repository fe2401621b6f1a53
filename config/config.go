package config

import (
	"io"
	"time"

	"github.com/indigo-web/passthru/http/proto"
	json "github.com/json-iterator/go"
)

type (
	NETWriteBufferSize struct {
		Default, Maximal int
	}
)

type (
	Target struct {
		// Protocol is the version written into request lines, unless overridden per request.
		// Only HTTP/1.0 and HTTP/1.1 are recognized.
		Protocol string
		// Chunk is the default chunk preference for entities of unknown length. Turning it
		// off on HTTP/1.1 still results in the chunked coding (there's simply no other way
		// to send such a body), but lets the compatibility flags decide the materialization.
		Chunk bool `test:"nullable"`
		// KeepAlive controls whether connections are kept for further exchanges. Otherwise,
		// every request is sent with Connection: close.
		KeepAlive bool `test:"nullable"`
		// UserAgent is set on requests which don't carry one yet.
		UserAgent string
		// DefaultPort is the port used when the target URL has none.
		DefaultPort int
	}

	Pipe struct {
		// BufferSize bounds the amount of body bytes buffered between the producer and the
		// connection. The producer is suspended as long as the buffer is full.
		BufferSize int
	}

	Headers struct {
		// Default headers are added to every request implicitly, unless explicitly set.
		Default map[string]string `test:"nullable"`
	}

	NET struct {
		// WriteBufferSize bounds the connection's outgoing buffer. Encoders never fill it
		// beyond the Maximal value, the Default is the initially allocated capacity.
		WriteBufferSize NETWriteBufferSize
		// WriteTimeout limits a single flush of the outgoing buffer.
		WriteTimeout time.Duration
		// DialTimeout limits establishing new connections.
		DialTimeout time.Duration
	}
)

// Config holds settings of the outbound side: framing defaults, buffering, timeouts.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Target  Target
	Pipe    Pipe
	Headers Headers
	NET     NET
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Target: Target{
			Protocol:    proto.HTTP11.String(),
			Chunk:       true,
			KeepAlive:   true,
			UserAgent:   "passthru",
			DefaultPort: 80,
		},
		Pipe: Pipe{
			BufferSize: 16 * 1024,
		},
		Headers: Headers{
			Default: make(map[string]string),
		},
		NET: NET{
			WriteBufferSize: NETWriteBufferSize{
				Default: 4 * 1024,
				Maximal: 64 * 1024,
			},
			WriteTimeout: 30 * time.Second,
			DialTimeout:  10 * time.Second,
		},
	}
}

// Protocol returns the parsed default protocol, falling back to HTTP/1.1 for unrecognized values.
func (c *Config) Protocol() proto.Protocol {
	if p := proto.FromString(c.Target.Protocol); p != proto.Unknown {
		return p
	}

	return proto.HTTP11
}

var decoder = json.Config{
	EscapeHTML:            true,
	DisallowUnknownFields: true,
}.Froze()

// Load reads JSON from r and lays it over the defaults. Durations are expressed in nanoseconds.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decoder.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

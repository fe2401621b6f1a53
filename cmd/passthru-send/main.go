// Command passthru-send sends a single request through the outbound emitter and prints the
// status line of the response.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	stdhttp "net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/indigo-web/passthru/config"
	"github.com/indigo-web/passthru/http/headers"
	"github.com/indigo-web/passthru/internal/reactor"
	"github.com/indigo-web/passthru/message"
	"github.com/indigo-web/passthru/pipe"
	"github.com/indigo-web/passthru/proxyauth"
	"github.com/indigo-web/passthru/target"
	"github.com/indigo-web/passthru/transport"
)

type headerFlags []string

func (h *headerFlags) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerFlags) Set(value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("header %q: missing colon", value)
	}

	*h = append(*h, value)
	return nil
}

type options struct {
	url             string
	method          string
	data            string
	contentType     string
	proxy           string
	configFile      string
	logLevel        string
	headers         headerFlags
	tunnel          bool
	chunk           bool
	keepAlive       bool
	http10          bool
	disableChunking bool
	forceLength     bool
	fullURL         bool
}

func parseFlags() (opts options) {
	flag.StringVar(&opts.url, "url", "", "target URL")
	flag.StringVar(&opts.method, "X", "", "request method (GET if there's no data, POST otherwise)")
	flag.StringVar(&opts.data, "d", "", "file to read the body from, - for stdin")
	flag.StringVar(&opts.contentType, "content-type", "", "content type of the body")
	flag.Var(&opts.headers, "H", "header field in the form Name: value, may be repeated")
	flag.StringVar(&opts.proxy, "proxy", "", "proxy URL, user info is used for preemptive basic auth")
	flag.BoolVar(&opts.tunnel, "tunnel", false, "treat the proxy as a tunnel")
	flag.BoolVar(&opts.chunk, "chunk", true, "chunk bodies of unknown length")
	flag.BoolVar(&opts.keepAlive, "keep-alive", true, "keep the connection alive")
	flag.BoolVar(&opts.http10, "http1.0", false, "force HTTP/1.0, materializing the body")
	flag.BoolVar(&opts.disableChunking, "disable-chunking", false, "materialize the body to send it with Content-Length")
	flag.BoolVar(&opts.forceLength, "force-content-length", false, "never chunk the body")
	flag.BoolVar(&opts.fullURL, "full-url", false, "send the absolute URL in the request line")
	flag.StringVar(&opts.configFile, "config", "", "JSON config file")
	flag.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.Parse()

	return opts
}

func main() {
	opts := parseFlags()

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "bad log level:", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("request failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}

	cfg.Target.Chunk = opts.chunk
	cfg.Target.KeepAlive = opts.keepAlive

	u, err := url.Parse(opts.url)
	if err != nil {
		return err
	}

	if len(u.Host) == 0 {
		return errors.New("-url must be absolute")
	}

	body, err := openBody(opts.data)
	if err != nil {
		return err
	}

	if body != nil {
		defer body.Close()
	}

	method := opts.method
	if len(method) == 0 {
		method = "GET"
		if body != nil {
			method = "POST"
		}
	}

	tcfg := target.NewConfiguration(cfg)
	tcfg.Logger = logger

	route, addr := target.Direct(), hostport(u, cfg.Target.DefaultPort)
	if len(opts.proxy) > 0 {
		proxy, err := url.Parse(opts.proxy)
		if err != nil {
			return err
		}

		route = target.Route{ProxyHost: proxy.Host, Tunnelled: opts.tunnel}
		addr = hostport(proxy, cfg.Target.DefaultPort)
		if user := proxy.User; user != nil {
			password, _ := user.Password()
			tcfg.ProxyAuthenticator = proxyauth.Basic{Username: user.Username(), Password: password}
		}
	}

	client, err := transport.Dial(ctx, addr, cfg.NET)
	if err != nil {
		return err
	}
	defer client.Close()

	msg := message.New(method, u)
	msg.Flags = message.Flags{
		ForceContentLength: opts.forceLength,
		DisableChunking:    opts.disableChunking,
		ForceHTTP10:        opts.http10,
	}

	req := target.NewRequest(tcfg, route, method, u, body != nil).SetFullURL(opts.fullURL)

	for _, field := range opts.headers {
		name, value, _ := strings.Cut(field, ":")
		req.AddHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if len(opts.contentType) > 0 {
		req.AddHeader(headers.ContentType, opts.contentType)
		msg.ContentType = opts.contentType
	}

	if body != nil {
		p := pipe.New("request", cfg.Pipe.BufferSize)
		msg.WithPipe(p)
		req.Connect(p)

		go produce(ctx, p, body, logger)
	}

	if err = reactor.Run(ctx, client, req, msg); err != nil {
		return err
	}

	resp, err := stdhttp.ReadResponse(bufio.NewReader(client.Conn()), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	fmt.Println(resp.Proto, resp.Status)
	_, err = io.Copy(os.Stdout, resp.Body)
	return err
}

func produce(ctx context.Context, p *pipe.Pipe, body io.Reader, logger *slog.Logger) {
	if _, err := io.Copy(p.Writer(ctx), body); err != nil {
		logger.Warn("reading request body", "error", err)
		p.Abort(err)
		return
	}

	_ = p.Close()
}

func loadConfig(path string) (*config.Config, error) {
	if len(path) == 0 {
		return config.Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return config.Load(file)
}

func openBody(path string) (io.ReadCloser, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return io.NopCloser(os.Stdin), nil
	default:
		return os.Open(path)
	}
}

func hostport(u *url.URL, defaultPort int) string {
	if len(u.Port()) > 0 {
		return u.Host
	}

	port := defaultPort
	if u.Scheme == "https" {
		port = 443
	}

	return net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
}

package http1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/indigo-web/passthru/http"
	"github.com/indigo-web/passthru/http/headers"
	"github.com/indigo-web/passthru/http/proto"
	"github.com/indigo-web/utils/strcomp"
	"golang.org/x/net/http/httpguts"
)

var (
	ErrChunkedNotAllowed  = errors.New("chunked transfer coding is not allowed for HTTP/1.0")
	ErrLengthRequired     = errors.New("request body of unknown length cannot be sent over HTTP/1.0")
	ErrFramingConflict    = errors.New("framing header fields must not be set explicitly")
	ErrInvalidHeaderField = errors.New("invalid header field")
	ErrInvalidRequestLine = errors.New("invalid request line")
)

const crlf = "\r\n"

// Framing resolves the framing used on the wire. Entities of unknown length fall back to the
// chunked coding on HTTP/1.1 and cannot be sent over HTTP/1.0 at all, as the server has no way
// to tell where such a body ends.
func Framing(req *http.Request) (http.Framing, error) {
	switch req.Entity.Framing {
	case http.Chunked:
		if req.Protocol == proto.HTTP10 {
			return 0, ErrChunkedNotAllowed
		}
	case http.UnknownLength:
		if req.Protocol == proto.HTTP10 {
			return 0, ErrLengthRequired
		}

		return http.Chunked, nil
	case http.FixedLength:
		if req.Entity.Length < 0 {
			return 0, fmt.Errorf("BUG: fixed length entity with negative length %d", req.Entity.Length)
		}
	}

	return req.Entity.Framing, nil
}

// AppendHead serializes the request line and the header fields, followed by the framing fields
// derived from the entity and the empty line terminating the head.
func AppendHead(buff []byte, req *http.Request) ([]byte, error) {
	framing, err := Framing(req)
	if err != nil {
		return buff, err
	}

	buff, err = appendRequestLine(buff, req)
	if err != nil {
		return buff, err
	}

	for key, value := range req.Headers.Pairs() {
		if strcomp.EqualFold(key, headers.ContentLength) || strcomp.EqualFold(key, headers.TransferEncoding) {
			return buff, fmt.Errorf("%w: %s", ErrFramingConflict, key)
		}

		if !httpguts.ValidHeaderFieldName(key) || !httpguts.ValidHeaderFieldValue(value) {
			return buff, fmt.Errorf("%w: %q", ErrInvalidHeaderField, key)
		}

		buff = appendHeader(buff, key, value)
	}

	switch framing {
	case http.Chunked:
		buff = appendKnownHeader(buff, "Transfer-Encoding: ", "chunked")
	case http.FixedLength:
		buff = appendContentLength(buff, req.Entity.Length)
	}

	return append(buff, crlf...), nil
}

func appendRequestLine(buff []byte, req *http.Request) ([]byte, error) {
	if !httpguts.ValidHeaderFieldName(req.Method) {
		return buff, fmt.Errorf("%w: method %q", ErrInvalidRequestLine, req.Method)
	}

	path := req.Path
	if len(path) == 0 {
		path = "/"
	}

	for i := 0; i < len(path); i++ {
		if path[i] <= ' ' || path[i] == 0x7f {
			return buff, fmt.Errorf("%w: path %q", ErrInvalidRequestLine, path)
		}
	}

	protocol := req.Protocol
	if protocol == proto.Unknown {
		protocol = proto.HTTP11
	}

	buff = append(buff, req.Method...)
	buff = append(buff, ' ')
	buff = append(buff, path...)
	buff = append(buff, ' ')
	buff = append(buff, protocol.String()...)

	return append(buff, crlf...), nil
}

// appendHeader writes a complete header field line including the trailing CRLF.
func appendHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ':', ' ')
	buff = append(buff, value...)
	return append(buff, crlf...)
}

// appendKnownHeader differs from appendHeader only by the fact that the key is known to already
// have a colon and a space included.
func appendKnownHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, value...)
	return append(buff, crlf...)
}

func appendContentLength(buff []byte, value int64) []byte {
	buff = append(buff, "Content-Length: "...)
	buff = strconv.AppendUint(buff, uint64(value), 10)
	return append(buff, crlf...)
}

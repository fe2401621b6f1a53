package mime

import (
	"github.com/indigo-web/passthru/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
)

type MIME = string

const (
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	XML            MIME = "text/xml"
	ApplicationXML MIME = "application/xml"
	SOAP12         MIME = "application/soap+xml"
	JSON           MIME = "application/json"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	Multipart      MIME = "multipart/form-data"
	Related        MIME = "multipart/related"
)

// Base returns the media type without parameters, as it was written.
func Base(contentType string) MIME {
	value, _ := strutil.CutHeader(contentType)
	return strutil.StripWS(value)
}

// Complies returns whether two MIMEs are compatible. Empty MIME is
// considered compatible with any other MIME
func Complies(mime MIME, with string) bool {
	with = Base(with)
	return len(with) == 0 || strcomp.EqualFold(with, mime)
}

// IsMultipart reports whether the content type belongs to the multipart family. Such bodies
// carry their own boundaries and must keep the content type chosen by the formatter.
func IsMultipart(contentType string) bool {
	const prefix = "multipart/"

	base := Base(contentType)
	return len(base) > len(prefix) && strcomp.EqualFold(base[:len(prefix)], prefix)
}

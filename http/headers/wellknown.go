package headers

import "github.com/indigo-web/utils/strcomp"

const (
	ContentType        = "Content-Type"
	ContentLength      = "Content-Length"
	TransferEncoding   = "Transfer-Encoding"
	Connection         = "Connection"
	Host               = "Host"
	UserAgent          = "User-Agent"
	SOAPAction         = "SOAPAction"
	ProxyAuthorization = "Proxy-Authorization"
	Accept             = "Accept"
	Expect             = "Expect"
)

var wellKnown = []string{
	ContentType, ContentLength, TransferEncoding, Connection, Host,
	UserAgent, SOAPAction, ProxyAuthorization, Accept, Expect,
}

// Canonical returns the conventional spelling of a well-known field name. Any other name
// is returned as it is.
func Canonical(name string) string {
	for _, known := range wellKnown {
		if strcomp.EqualFold(name, known) {
			return known
		}
	}

	return name
}

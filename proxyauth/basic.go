// Package proxyauth attaches proxy credentials to requests before the proxy asks for them.
package proxyauth

import (
	"encoding/base64"

	"github.com/indigo-web/passthru/http"
	"github.com/indigo-web/passthru/http/headers"
	"github.com/indigo-web/passthru/transport"
)

// Authenticator attaches credentials to a request routed through a plain proxy.
type Authenticator interface {
	AuthenticatePreemptively(req *http.Request, ex *transport.Exchange) error
}

var _ Authenticator = Basic{}

// Basic is the Basic authentication scheme. Credentials are taken from the proxy profile
// matching the exchange's target host, falling back to the default ones.
type Basic struct {
	Username, Password string
	// Profiles maps a proxy-profile target host to its credentials.
	Profiles map[string]Credentials
}

type Credentials struct {
	Username, Password string
}

func (b Basic) AuthenticatePreemptively(req *http.Request, ex *transport.Exchange) error {
	creds := Credentials{Username: b.Username, Password: b.Password}
	if ex != nil {
		if profile, found := b.Profiles[ex.ProxyProfileTargetHost]; found {
			creds = profile
		}
	}

	if len(creds.Username) == 0 {
		return nil
	}

	token := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
	req.SetHeader(headers.ProxyAuthorization, "Basic "+token)

	return nil
}

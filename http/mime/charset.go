package mime

import (
	"github.com/indigo-web/passthru/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
)

type Charset = string

const (
	Unset Charset = ""
	UTF8  Charset = "UTF-8"
	ASCII Charset = "US-ASCII"
)

// CharsetOf extracts the charset parameter of the content type. Unset is returned if there's
// none.
func CharsetOf(contentType string) Charset {
	_, params := strutil.CutHeader(contentType)
	for key, value := range strutil.Params(params) {
		if strcomp.EqualFold(key, "charset") {
			return value
		}
	}

	return Unset
}

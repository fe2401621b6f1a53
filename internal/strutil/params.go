package strutil

import (
	"iter"
	"strings"
)

// Params walks over the parameters of a header value, like `charset=utf-8; action="urn:x"`.
// Keys and values are stripped of surrounding whitespace, values are unquoted. Malformed
// parameters without the equality sign are yielded with an empty value.
func Params(params string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for len(params) > 0 {
			var param string
			param, params, _ = strings.Cut(params, ";")
			key, value, _ := strings.Cut(param, "=")
			key = StripWS(key)
			if len(key) == 0 {
				continue
			}

			if !yield(key, Unquote(StripWS(value))) {
				return
			}
		}
	}
}

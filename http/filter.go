package http

import (
	"bytes"
	"unicode/utf8"
)

// FilterPrefix removes prefix from the start of body. Some JSON services
// prepend a token such as "while(1);" to defeat cross-site JSON hijacking;
// stripping it makes the payload decodable.
//
// An empty prefix, a body that does not start with prefix, or a body that is
// not valid UTF-8 text is returned unchanged. The result is a byte-for-byte
// suffix of body.
func FilterPrefix(prefix string, body []byte) []byte {
	if prefix == "" || !utf8.Valid(body) {
		return body
	}
	if rest, ok := bytes.CutPrefix(body, []byte(prefix)); ok {
		return rest
	}
	return body
}

package handler

import (
	"strings"
)

// attachmentDisposition builds a download header carrying filename verbatim in the quoted
// parameter and RFC 5987 encoded in filename* for clients that need UTF-8.
func attachmentDisposition(filename string) string {
	return `attachment; filename="` + quoteFilename(filename) + `"; filename*=UTF-8''` + encodeRFC5987(filename)
}

// inlineDisposition builds a header that lets browsers render the body in place.
func inlineDisposition(filename string) string {
	return `inline; filename="` + quoteFilename(filename) + `"`
}

// quoteFilename escapes the characters that would end a quoted-string and drops
// control characters, which are never valid in a header.
func quoteFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// encodeRFC5987 percent-encodes every byte outside attr-char.
func encodeRFC5987(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

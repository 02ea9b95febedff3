package urlstate

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// textUnreserved reports whether c may appear unescaped in free text. The set
// matches URI component escaping, so the record delimiters ; : , > | & and
// '%' itself are always escaped.
func textUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// EscapeText percent-encodes free text for embedding inside a record.
func EscapeText(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !textUnreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if textUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

// DecodeText reverses EscapeText. It reports false, returning raw unchanged,
// when raw holds a malformed escape or decodes to invalid UTF-8.
func DecodeText(raw string) (string, bool) {
	if !strings.Contains(raw, "%") {
		return raw, true
	}
	s, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(s) {
		return raw, false
	}
	return s, true
}

// UnescapeText decodes raw, keeping it verbatim when it cannot be decoded.
// Links produced before labels were escaped carry bare '%' characters.
func UnescapeText(raw string) string {
	s, _ := DecodeText(raw)
	return s
}

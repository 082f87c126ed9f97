// Package signing builds the canonical query string of an Alibaba Cloud RPC
// request and computes its HMAC signature.
//
// The provider verifies a request by recomputing the signature over the exact
// bytes it received, so every step here is byte-for-byte deterministic:
// parameters are sorted by key, keys and values are percent-encoded with
// PercentEncode, and the timestamp uses a fixed UTC layout.
package signing

import "strings"

const upperHex = "0123456789ABCDEF"

// PercentEncode escapes s for use in a canonical query string.
//
// Only A-Z, a-z, 0-9, '-', '_', '.' and '~' are left as is. Every other byte,
// including each byte of a multi-byte UTF-8 sequence, becomes %XX with
// uppercase hex digits. Unlike url.QueryEscape, a space is encoded as %20 and
// never as '+'.
func PercentEncode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
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
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

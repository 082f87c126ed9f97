package signing

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Common parameter names injected into every request.
const (
	KeyAccessKeyID      = "AccessKeyId"
	KeySignatureMethod  = "SignatureMethod"
	KeySignatureVersion = "SignatureVersion"
	KeySignatureNonce   = "SignatureNonce"
	KeyTimestamp        = "Timestamp"
	KeySignature        = "Signature"
)

// SignatureVersion is the only signature version this package produces.
const SignatureVersion = "1.0"

// TimestampLayout is the ISO 8601 layout the provider expects, always in UTC
// with a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Params maps request parameter names to values. Order is irrelevant; the
// canonical order is imposed by CanonicalString.
type Params map[string]string

// Clone returns a shallow copy of p. A nil Params clones to an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p)+6)
	maps.Copy(out, p)
	return out
}

// FormatTimestamp renders t in TimestampLayout after converting it to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Assemble returns a copy of params augmented with the common parameters.
//
// AccessKeyId, SignatureMethod and SignatureVersion are added only when the
// caller did not set them. SignatureNonce and Timestamp are always replaced
// with nonce and ts. params itself is left untouched.
func Assemble(params Params, accessKeyID string, method Algorithm, nonce string, ts time.Time) Params {
	out := params.Clone()
	setDefault(out, KeyAccessKeyID, accessKeyID)
	setDefault(out, KeySignatureMethod, string(method.OrDefault()))
	setDefault(out, KeySignatureVersion, SignatureVersion)
	out[KeySignatureNonce] = nonce
	out[KeyTimestamp] = FormatTimestamp(ts)
	return out
}

func setDefault(p Params, key, value string) {
	if _, ok := p[key]; !ok {
		p[key] = value
	}
}

// CanonicalString sorts params by key in byte order, percent-encodes every
// key and value, and joins the pairs as key=value separated by '&'.
func CanonicalString(params Params) string {
	keys := slices.Sorted(maps.Keys(params))

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(PercentEncode(k))
		b.WriteByte('=')
		b.WriteString(PercentEncode(params[k]))
	}
	return b.String()
}

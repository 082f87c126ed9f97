package signing

import (
	"crypto/hmac"
	"crypto/sha1" // #nosec G505 -- HMAC-SHA1 is the provider's documented default
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
)

// Algorithm names an HMAC variant as it appears in the SignatureMethod
// parameter.
type Algorithm string

// Supported algorithms.
const (
	HMACSHA1   Algorithm = "HMAC-SHA1"
	HMACSHA256 Algorithm = "HMAC-SHA256"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = HMACSHA1

// ErrUnsupportedAlgorithm indicates a SignatureMethod this package cannot compute.
var ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")

// stringToSignPrefix is the HTTP method and the encoded "/" path, both part of
// the signed material.
const stringToSignPrefix = "GET&%2F&"

// ParseAlgorithm validates s as a SignatureMethod value.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(s)
	if _, err := a.hashFunc(); err != nil {
		return "", err
	}
	return a, nil
}

// OrDefault returns a, or DefaultAlgorithm when a is empty.
func (a Algorithm) OrDefault() Algorithm {
	if a == "" {
		return DefaultAlgorithm
	}
	return a
}

func (a Algorithm) hashFunc() (func() hash.Hash, error) {
	switch a {
	case HMACSHA1:
		return sha1.New, nil
	case HMACSHA256:
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("%q: %w", string(a), ErrUnsupportedAlgorithm)
	}
}

// StringToSign returns the exact bytes the HMAC is computed over.
func StringToSign(canonical string) string {
	return stringToSignPrefix + PercentEncode(canonical)
}

// Sign computes the base64 HMAC of StringToSign(canonical) keyed with
// secret + "&".
func Sign(canonical, secret string, alg Algorithm) (string, error) {
	newHash, err := alg.hashFunc()
	if err != nil {
		return "", err
	}
	mac := hmac.New(newHash, []byte(secret+"&"))
	mac.Write([]byte(StringToSign(canonical)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// SignParams signs params and returns a copy carrying the Signature entry.
//
// The algorithm is taken from the SignatureMethod entry so the declared method
// and the computed HMAC always agree; an absent entry means DefaultAlgorithm.
// Any Signature already present is excluded from the signed material.
func SignParams(params Params, secret string) (Params, error) {
	alg, err := ParseAlgorithm(string(Algorithm(params[KeySignatureMethod]).OrDefault()))
	if err != nil {
		return nil, err
	}

	out := params.Clone()
	delete(out, KeySignature)
	sig, err := Sign(CanonicalString(out), secret, alg)
	if err != nil {
		return nil, err
	}
	out[KeySignature] = sig
	return out, nil
}

// Package json wraps bytedance/sonic behind the subset of the encoding/json
// API this module uses.
package json

import (
	"bytes"
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
)

// Marshal returns the JSON encoding of v using sonic.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent returns the indented JSON encoding of v.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return sonic.Valid(data)
}

// Indent appends to dst an indented form of the JSON-encoded src.
// Key order and number literals are preserved.
func Indent(dst *[]byte, src []byte, prefix, indent string) error {
	var buf bytes.Buffer
	if err := stdjson.Indent(&buf, src, prefix, indent); err != nil {
		return err
	}
	*dst = append(*dst, buf.Bytes()...)
	return nil
}

// Types from encoding/json, kept compatible with the standard library.
type (
	// RawMessage is a raw encoded JSON value.
	RawMessage = stdjson.RawMessage

	// Number represents a JSON number literal.
	Number = stdjson.Number

	// SyntaxError is a description of a JSON syntax error.
	SyntaxError = stdjson.SyntaxError

	// UnmarshalTypeError describes a JSON value that was not appropriate for a value of a specific Go type.
	UnmarshalTypeError = stdjson.UnmarshalTypeError
)

package signing_test

// Notes:
// - Exhaustive over all 256 byte values: the unreserved set must pass through
//   and everything else must become exactly one %XX triplet.
// - Round-trip uses url.PathUnescape because the encoder never emits '+'.

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/alnah/go-aliyun/pkg/signing"
)

const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.~"

var escapedTriplet = regexp.MustCompile(`^%[0-9A-F]{2}$`)

// ---------------------------------------------------------------------------
// TestPercentEncode - known vectors
// ---------------------------------------------------------------------------

func TestPercentEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"unreserved unchanged", unreserved, unreserved},
		{"space is %20", "a b", "a%20b"},
		{"asterisk escaped", "a*b", "a%2Ab"},
		{"tilde kept", "a~b", "a~b"},
		{"plus escaped", "a+b", "a%2Bb"},
		{"slash escaped", "/", "%2F"},
		{"equals and ampersand", "k=v&x", "k%3Dv%26x"},
		{"colon in timestamp", "2016-02-23T12:46:24Z", "2016-02-23T12%3A46%3A24Z"},
		{"utf-8 multi-byte", "é", "%C3%A9"},
		{"chinese", "杭州", "%E6%9D%AD%E5%B7%9E"},
		{"percent itself", "100%", "100%25"},
		{"json array", `["i-1"]`, "%5B%22i-1%22%5D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := signing.PercentEncode(tt.input); got != tt.want {
				t.Errorf("PercentEncode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPercentEncode_AllBytes - per-byte contract
// ---------------------------------------------------------------------------

func TestPercentEncode_AllBytes(t *testing.T) {
	t.Parallel()

	for i := 0; i < 256; i++ {
		c := byte(i)
		in := string([]byte{c})
		got := signing.PercentEncode(in)

		if strings.IndexByte(unreserved, c) >= 0 {
			if got != in {
				t.Errorf("PercentEncode(0x%02X) = %q, want unchanged", c, got)
			}
			continue
		}

		if !escapedTriplet.MatchString(got) {
			t.Errorf("PercentEncode(0x%02X) = %q, want %%XX with uppercase hex", c, got)
			continue
		}
		if want := fmt.Sprintf("%%%02X", c); got != want {
			t.Errorf("PercentEncode(0x%02X) = %q, want %q", c, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPercentEncode_RoundTrip - decoding is a left inverse
// ---------------------------------------------------------------------------

func TestPercentEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	var all strings.Builder
	for i := 0; i < 256; i++ {
		all.WriteByte(byte(i))
	}

	inputs := []string{
		"",
		unreserved,
		"hello world",
		"a*b+c/d?e=f&g",
		`{"Name":"tag","Value":"x y"}`,
		"华东1（杭州）",
		all.String(),
	}

	for _, in := range inputs {
		encoded := signing.PercentEncode(in)
		decoded, err := url.PathUnescape(encoded)
		if err != nil {
			t.Fatalf("PathUnescape(%q) error: %v", encoded, err)
		}
		if decoded != in {
			t.Errorf("round trip of %q = %q", in, decoded)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPercentEncode_DivergesFromQueryEscape - provider set is not RFC form encoding
// ---------------------------------------------------------------------------

func TestPercentEncode_DivergesFromQueryEscape(t *testing.T) {
	t.Parallel()

	in := "a b"
	if url.QueryEscape(in) == signing.PercentEncode(in) {
		t.Fatalf("PercentEncode(%q) should differ from url.QueryEscape", in)
	}
	if got := signing.PercentEncode(in); strings.Contains(got, "+") {
		t.Errorf("PercentEncode(%q) = %q, must not contain '+'", in, got)
	}
}

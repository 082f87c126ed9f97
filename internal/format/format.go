// Package format renders command results for the terminal.
package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/alnah/go-aliyun/internal/json"
)

// ErrNoMatch indicates a query path that selects nothing.
var ErrNoMatch = errors.New("query matched nothing")

const indent = "  "

// Write renders v as indented JSON, or the part of it selected by query
// when query is not empty.
func Write(w io.Writer, v any, query string) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	if query == "" {
		return writeIndented(w, data)
	}
	return writeQuery(w, data, query)
}

// encode returns v as JSON. Raw messages and byte slices pass through.
func encode(v any) ([]byte, error) {
	switch x := v.(type) {
	case json.RawMessage:
		return x, nil
	case []byte:
		return x, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return data, nil
}

func writeIndented(w io.Writer, data []byte) error {
	var out []byte
	if err := json.Indent(&out, data, "", indent); err != nil {
		return fmt.Errorf("indent output: %w", err)
	}
	out = append(out, '\n')
	_, err := w.Write(out)
	return err
}

// writeQuery prints the gjson match. Strings are printed unquoted so the
// result composes with shell pipelines.
func writeQuery(w io.Writer, data []byte, query string) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("query %q: output is not valid JSON", query)
	}

	res := gjson.GetBytes(data, query)
	if !res.Exists() {
		return fmt.Errorf("%w: %s", ErrNoMatch, query)
	}

	switch res.Type {
	case gjson.String:
		_, err := fmt.Fprintln(w, res.Str)
		return err
	case gjson.JSON:
		return writeIndented(w, []byte(res.Raw))
	default:
		_, err := fmt.Fprintln(w, res.Raw)
		return err
	}
}

package client

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/alnah/go-aliyun/internal/json"
	"github.com/alnah/go-aliyun/pkg/apierr"
	"github.com/alnah/go-aliyun/pkg/signing"
)

// Action identifies one API operation.
type Action struct {
	Endpoint string
	Name     string
	Version  string
}

// Params returns the operation's fixed parameters. Replies are always
// requested as JSON.
func (a Action) Params() signing.Params {
	return signing.Params{
		"Action":  a.Name,
		"Format":  "JSON",
		"Version": a.Version,
	}
}

// Call sends params for action through s and classifies the reply as T.
// The action's own parameters override same-named entries in params.
func Call[T any](ctx context.Context, s Sender, action Action, params signing.Params) (T, error) {
	merged := params.Clone()
	maps.Copy(merged, action.Params())

	raw, err := s.Send(ctx, action.Endpoint, merged)
	if err != nil {
		var zero T
		return zero, err
	}
	return Classify[T](raw)
}

// Classify decodes raw as either the success shape T or a provider
// rejection.
//
// A body matches a shape when it carries every required key of that shape
// (JSON-tagged fields without omitempty) and none of the keys that only the
// other shape declares. Success is tried first. A body matching neither is a
// KindInternal error wrapping apierr.ErrShapeMismatch. When T is not a
// struct it has no required keys, so the rejection shape is tried first.
func Classify[T any](raw RawResponse) (T, error) {
	var zero T

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw.Body, &fields); err != nil {
		return zero, apierr.NewInternal("decode response body", err)
	}
	if fields == nil {
		return zero, apierr.NewInternal("response body is null", apierr.ErrShapeMismatch)
	}

	success := shapeOf(reflect.TypeFor[T]())
	rejection := shapeOf(reflect.TypeFor[apierr.Rejection]())

	if !success.isStruct {
		if rejection.matches(fields, success) {
			return zero, decodeRejection(raw.Body)
		}
		return decodeSuccess[T](raw.Body)
	}

	if success.matches(fields, rejection) {
		return decodeSuccess[T](raw.Body)
	}
	if rejection.matches(fields, success) {
		return zero, decodeRejection(raw.Body)
	}

	msg := fmt.Sprintf("response has keys [%s], missing [%s] for %s",
		strings.Join(sortedKeys(fields), " "),
		strings.Join(success.missing(fields), " "),
		success.name)
	return zero, apierr.NewInternal(msg, apierr.ErrShapeMismatch)
}

func decodeSuccess[T any](body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, apierr.NewInternal("decode response", err)
	}
	return out, nil
}

func decodeRejection(body []byte) error {
	var r apierr.Rejection
	if err := json.Unmarshal(body, &r); err != nil {
		return apierr.NewInternal("decode rejection", err)
	}
	r.FillDefaults()
	return apierr.NewRejected(&r)
}

// shape is the set of top-level JSON keys a type declares.
type shape struct {
	name     string
	isStruct bool
	required []string
	keys     map[string]struct{}
}

var shapeCache sync.Map // reflect.Type -> *shape

func shapeOf(t reflect.Type) *shape {
	if s, ok := shapeCache.Load(t); ok {
		return s.(*shape)
	}

	s := &shape{name: t.String(), keys: make(map[string]struct{})}
	elem := t
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		s.isStruct = true
		collectKeys(elem, s)
	}

	actual, _ := shapeCache.LoadOrStore(t, s)
	return actual.(*shape)
}

// collectKeys follows encoding/json naming: the tag name if any, else the
// field name; untagged embedded structs are flattened.
func collectKeys(t reflect.Type, s *shape) {
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectKeys(ft, s)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		s.keys[name] = struct{}{}
		if !slices.Contains(strings.Split(opts, ","), "omitempty") {
			s.required = append(s.required, name)
		}
	}
}

// matches reports whether fields has every required key of s and no key
// that belongs only to other.
func (s *shape) matches(fields map[string]json.RawMessage, other *shape) bool {
	for _, k := range s.required {
		if _, ok := fields[k]; !ok {
			return false
		}
	}
	for k := range fields {
		_, mine := s.keys[k]
		_, theirs := other.keys[k]
		if theirs && !mine {
			return false
		}
	}
	return true
}

func (s *shape) missing(fields map[string]json.RawMessage) []string {
	var out []string
	for _, k := range s.required {
		if _, ok := fields[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func sortedKeys(m map[string]json.RawMessage) []string {
	return slices.Sorted(maps.Keys(m))
}

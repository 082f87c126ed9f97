// Package query fills request parameters following the provider's
// conventions for optional, boolean and repeated values.
package query

import (
	"strconv"

	"github.com/alnah/go-aliyun/internal/json"
	"github.com/alnah/go-aliyun/pkg/signing"
)

// Set stores value under key unless value is empty.
func Set(p signing.Params, key, value string) {
	if value != "" {
		p[key] = value
	}
}

// SetBool stores "true" or "false" under key when v is not nil.
func SetBool(p signing.Params, key string, v *bool) {
	if v != nil {
		p[key] = strconv.FormatBool(*v)
	}
}

// SetInt stores v under key when it is positive.
func SetInt(p signing.Params, key string, v int) {
	if v > 0 {
		p[key] = strconv.Itoa(v)
	}
}

// SetRepeated stores values as key.1, key.2, ... key.N.
func SetRepeated(p signing.Params, key string, values []string) {
	for i, v := range values {
		p[key+"."+strconv.Itoa(i+1)] = v
	}
}

// SetJSONList stores values under key as a JSON array string.
func SetJSONList(p signing.Params, key string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return err
	}
	p[key] = string(b)
	return nil
}

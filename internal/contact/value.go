package contact

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is one form field as the client sent it.
//
// The front-end posts strings, but the endpoint accepts any JSON value so a
// wrong type is reported as a validation failure (or sanitized away) instead
// of a decoding error.
type Value struct {
	raw any
	set bool
}

// StringValue returns a Value holding s.
func StringValue(s string) Value {
	return Value{raw: s, set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.set = true
	return json.Unmarshal(b, &v.raw)
}

// UnmarshalParam lets echo bind url-encoded form fields.
func (v *Value) UnmarshalParam(param string) error {
	v.raw = param
	v.set = true
	return nil
}

// Present reports whether the field carries a usable value: absent, null,
// false, zero and the empty string all count as missing.
func (v Value) Present() bool {
	if !v.set {
		return false
	}
	switch x := v.raw.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	default:
		return true
	}
}

// String returns the field when it is a JSON string.
func (v Value) String() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Text renders the value the way a format check sees it. Non-string values
// are stringified so they are tested (and usually rejected) rather than ignored.
func (v Value) Text() string {
	return textOf(v.raw)
}

func textOf(raw any) string {
	switch x := raw.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			if item != nil {
				parts[i] = textOf(item)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

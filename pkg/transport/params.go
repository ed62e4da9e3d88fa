package transport

import (
	"bytes"
	"encoding/json"
	"net/url"
)

// Param is one query parameter
type Param struct {
	Key   string
	Value string
}

// Params is an ordered set of query parameters. Order is kept for display
// and diagnostics; the encoded query string is sorted by key.
type Params []Param

// P builds Params from alternating key/value pairs. A trailing key without a
// value is ignored.
func P(pairs ...string) Params {
	params := make(Params, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		params = append(params, Param{Key: pairs[i], Value: pairs[i+1]})
	}
	return params
}

// With returns a copy of p with key set to value
func (p Params) With(key, value string) Params {
	out := make(Params, 0, len(p)+1)
	replaced := false
	for _, param := range p {
		if param.Key == key {
			param.Value = value
			replaced = true
		}
		out = append(out, param)
	}
	if !replaced {
		out = append(out, Param{Key: key, Value: value})
	}
	return out
}

// Get returns the value for key, or "" when missing
func (p Params) Get(key string) string {
	for _, param := range p {
		if param.Key == key {
			return param.Value
		}
	}
	return ""
}

// Values converts p to url.Values
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	for _, param := range p {
		values.Add(param.Key, param.Value)
	}
	return values
}

// MarshalJSON encodes p as a JSON object in insertion order
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the JSON encoding of p
func (p Params) String() string {
	b, err := p.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

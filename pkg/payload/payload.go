// Package payload provides total, non-failing access to loosely-typed JSON
// response bodies.
//
// A Value is one node of a decoded document: absent, null, bool, number,
// string, sequence or mapping. Get walks a dotted path such as
// "image_versions2.candidates.0.url"; a missing segment, or a segment that does
// not fit the container it is applied to, yields the absent Value rather than
// an error, so parsers can treat missing upstream fields as ordinary nullable
// data.
package payload

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Decode for bodies that are not valid JSON
var ErrInvalidJSON = errors.New("payload: invalid JSON")

// Kind identifies the shape of a Value
type Kind int

const (
	Absent Kind = iota
	Null
	Bool
	Number
	String
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "absent"
	}
}

// Value is a node in a decoded JSON document. The zero Value is absent.
type Value struct {
	res gjson.Result
}

// Decode validates body and returns its root node
func Decode(body []byte) (Value, error) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return Value{}, ErrInvalidJSON
	}
	return Value{res: gjson.ParseBytes(body)}, nil
}

// MustDecode is Decode for literals known to be valid; it panics otherwise
func MustDecode(body string) Value {
	v, err := Decode([]byte(body))
	if err != nil {
		panic(err)
	}
	return v
}

// Kind reports the shape of v
func (v Value) Kind() Kind {
	if !v.res.Exists() {
		return Absent
	}
	switch v.res.Type {
	case gjson.Null:
		return Null
	case gjson.True, gjson.False:
		return Bool
	case gjson.Number:
		return Number
	case gjson.String:
		return String
	}
	if v.res.IsArray() {
		return Sequence
	}
	return Mapping
}

// Exists reports whether the node is present in the document, null included
func (v Value) Exists() bool {
	return v.res.Exists()
}

// Present reports whether the node exists and is not null
func (v Value) Present() bool {
	k := v.Kind()
	return k != Absent && k != Null
}

// Get resolves a dotted path below v. Numeric segments index sequences.
// It never fails: unresolvable paths yield the absent Value.
func (v Value) Get(path string) Value {
	if path == "" {
		return v
	}
	if !v.res.IsObject() && !v.res.IsArray() {
		return Value{}
	}

	segments := strings.Split(path, ".")
	for i, segment := range segments {
		if segment == "" {
			return Value{}
		}
		segments[i] = escapeSegment(segment)
	}
	return Value{res: v.res.Get(strings.Join(segments, "."))}
}

// First returns the first of paths that resolves to a present value
func (v Value) First(paths ...string) Value {
	for _, path := range paths {
		if found := v.Get(path); found.Present() {
			return found
		}
	}
	return Value{}
}

// Truthy reports whether the value is present and non-empty: false, 0, "",
// "0", empty sequences and empty mappings are not truthy.
func (v Value) Truthy() bool {
	switch v.Kind() {
	case Bool:
		return v.res.Bool()
	case Number:
		return v.res.Float() != 0
	case String:
		s := v.res.String()
		return s != "" && s != "0"
	case Sequence, Mapping:
		empty := true
		v.res.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	default:
		return false
	}
}

// Str returns scalar values as a string, or nil for absent, null and containers
func (v Value) Str() *string {
	switch v.Kind() {
	case String, Number, Bool:
		s := v.res.String()
		return &s
	default:
		return nil
	}
}

// Int returns numbers and numeric strings as int64, or nil otherwise
func (v Value) Int() *int64 {
	switch v.Kind() {
	case Number:
		n := v.res.Int()
		return &n
	case String:
		n, err := strconv.ParseInt(v.res.String(), 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// Bool returns booleans, or nil for any other kind
func (v Value) Bool() *bool {
	if v.Kind() != Bool {
		return nil
	}
	b := v.res.Bool()
	return &b
}

// Items returns the elements of a sequence, or nil for any other kind
func (v Value) Items() []Value {
	if v.Kind() != Sequence {
		return nil
	}
	results := v.res.Array()
	items := make([]Value, len(results))
	for i, r := range results {
		items[i] = Value{res: r}
	}
	return items
}

// Raw returns the JSON encoding of the node, or nil when absent
func (v Value) Raw() []byte {
	if !v.res.Exists() {
		return nil
	}
	return []byte(v.res.Raw)
}

// Interface returns the node as plain Go values (map, slice, float64, ...)
func (v Value) Interface() interface{} {
	return v.res.Value()
}

// MarshalJSON writes the node unchanged; absent values encode as null
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.res.Exists() {
		return []byte("null"), nil
	}
	return []byte(v.res.Raw), nil
}

// escapeSegment quotes gjson path syntax so each segment matches literally
func escapeSegment(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		if !isPlainRune(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPlainRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r > 127
}

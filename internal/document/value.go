// Package document holds the immutable JSON value model shared by the
// loader, the table projection and the evaluator glue. Object members keep
// their insertion order and numbers keep their original literal text, so a
// document survives a decode/encode round trip byte-for-byte up to
// whitespace.
package document

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind enumerates the JSON value kinds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the jq-style type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is one node of a parsed document. Values are immutable once
// constructed; the session's document store owns the root for its lifetime.
type Value struct {
	kind   Kind
	boolV  bool
	numLit string // original numeric literal, e.g. "1e-3"
	strV   string
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// Member is one key/value pair of an object under construction.
type Member struct {
	Key   string
	Value *Value
}

var nullValue = &Value{kind: KindNull}

// Null returns the null value.
func Null() *Value { return nullValue }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolV: b} }

// Number returns a numeric value from its JSON literal.
func Number(lit string) *Value { return &Value{kind: KindNumber, numLit: lit} }

// NumberFloat returns a numeric value from a float64.
func NumberFloat(f float64) *Value {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// NumberInt returns a numeric value from an int64.
func NumberInt(i int64) *Value { return Number(strconv.FormatInt(i, 10)) }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, strV: s} }

// Array returns an array value over the given elements.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// Object returns an object value over the given members, preserving order.
// Duplicate keys keep the last value but the first position, matching
// encoding/json semantics.
func Object(members ...Member) *Value {
	v := &Value{kind: KindObject, fields: make(map[string]*Value, len(members))}
	for _, m := range members {
		if _, dup := v.fields[m.Key]; !dup {
			v.keys = append(v.keys, m.Key)
		}
		v.fields[m.Key] = m.Value
	}
	return v
}

// Kind reports the value's kind.
func (v *Value) Kind() Kind { return v.kind }

// IsContainer reports whether the value is an array or object.
func (v *Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// Bool returns the boolean payload. Valid only for KindBool.
func (v *Value) Bool() bool { return v.boolV }

// Str returns the string payload. Valid only for KindString.
func (v *Value) Str() string { return v.strV }

// NumberLiteral returns the original numeric literal text.
func (v *Value) NumberLiteral() string { return v.numLit }

// Float parses the numeric literal as a float64.
func (v *Value) Float() (float64, error) {
	return strconv.ParseFloat(v.numLit, 64)
}

// Int parses the numeric literal as an int64. ok is false when the literal
// has a fraction or exponent.
func (v *Value) Int() (int64, bool) {
	i, err := strconv.ParseInt(v.numLit, 10, 64)
	return i, err == nil
}

// Len returns the number of elements (array) or members (object), zero for
// scalars.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.keys)
	}
	return 0
}

// Index returns the i-th array element, or nil when out of range.
func (v *Value) Index(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Field returns the member value for key k.
func (v *Value) Field(k string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	f, ok := v.fields[k]
	return f, ok
}

// Keys returns the object's keys in insertion order. The returned slice
// must not be mutated.
func (v *Value) Keys() []string { return v.keys }

// Equal reports deep equality of two values. Numbers compare by literal
// first and numerically as a fallback, so "1.0" equals "1e0".
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolV == b.boolV
	case KindString:
		return a.strV == b.strV
	case KindNumber:
		if a.numLit == b.numLit {
			return true
		}
		af, aerr := a.Float()
		bf, berr := b.Float()
		return aerr == nil && berr == nil && af == bf
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i, k := range a.keys {
			if b.keys[i] != k {
				return false
			}
			if !Equal(a.fields[k], b.fields[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value as compact JSON, mainly for logs and tests.
func (v *Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return string(data)
}

// MarshalJSON encodes the value as compact JSON with object members in
// insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf []byte
	return v.appendJSON(buf)
}

func (v *Value) appendJSON(buf []byte) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		return strconv.AppendBool(buf, v.boolV), nil
	case KindNumber:
		return append(buf, v.numLit...), nil
	case KindString:
		enc, err := json.Marshal(v.strV)
		if err != nil {
			return nil, err
		}
		return append(buf, enc...), nil
	case KindArray:
		buf = append(buf, '[')
		for i, it := range v.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = it.appendJSON(buf)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindObject:
		buf = append(buf, '{')
		for i, k := range v.keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			enc, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, enc...)
			buf = append(buf, ':')
			buf, err = v.fields[k].appendJSON(buf)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

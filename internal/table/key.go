package table

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// KeyKind distinguishes the three row/column key classes. A scalar value
// has no key at all; arrays index rows by position, objects by member name.
type KeyKind int

const (
	// KeyNone marks the implicit key of a scalar projection.
	KeyNone KeyKind = iota
	// KeyString is an object member name.
	KeyString
	// KeyInt is an array index.
	KeyInt
)

// Key addresses one row or column of the projection.
type Key struct {
	kind KeyKind
	s    string
	i    int
}

// NoneKey returns the implicit scalar key.
func NoneKey() Key { return Key{kind: KeyNone} }

// StringKey returns an object-member key.
func StringKey(s string) Key { return Key{kind: KeyString, s: s} }

// IntKey returns an array-index key.
func IntKey(i int) Key { return Key{kind: KeyInt, i: i} }

// Kind returns the key class.
func (k Key) Kind() KeyKind { return k.kind }

// Str returns the member name of a KeyString key.
func (k Key) Str() string { return k.s }

// Int returns the index of a KeyInt key.
func (k Key) Int() int { return k.i }

// Display returns the header text for the key.
func (k Key) Display() string {
	switch k.kind {
	case KeyString:
		return k.s
	case KeyInt:
		return strconv.Itoa(k.i)
	}
	return ""
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Selector returns the filter fragment that indexes a document at this
// key: `.name` for identifier-shaped member names, `.["name"]` otherwise,
// `.[i]` for array indices and "" for the implicit scalar key. Evaluating
// the fragment against the container reproduces exactly the keyed value.
func (k Key) Selector() string {
	switch k.kind {
	case KeyString:
		if identPattern.MatchString(k.s) {
			return "." + k.s
		}
		quoted, _ := json.Marshal(k.s)
		return ".[" + string(quoted) + "]"
	case KeyInt:
		return ".[" + strconv.Itoa(k.i) + "]"
	}
	return ""
}

// classRank orders key classes for header sorting: none < string < int,
// matching the original projection's ordering.
func (k Key) classRank() int {
	switch k.kind {
	case KeyNone:
		return 0
	case KeyString:
		return 1
	}
	return 2
}

// Path is a sequence of keys. Base rows and columns have single-segment
// paths; expansion appends the flattened child's key, so a selector built
// from the path still round-trips to the displayed value.
type Path []Key

// Display joins segment headers with dots, e.g. "addr.city" or "items.0".
func (p Path) Display() string {
	parts := make([]string, 0, len(p))
	for _, k := range p {
		parts = append(parts, k.Display())
	}
	return strings.Join(parts, ".")
}

// Selector concatenates the segment selectors, e.g. `.addr.city`.
func (p Path) Selector() string {
	var b strings.Builder
	for _, k := range p {
		b.WriteString(k.Selector())
	}
	return b.String()
}

// id is the canonical map key for a path. The selector is unique per path
// and cheap to build, so it doubles as the identifier.
func (p Path) id() string { return p.Selector() }

// child returns a copy of p with k appended.
func (p Path) child(k Key) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, k)
}

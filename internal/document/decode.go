package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode reads a single JSON document from r, preserving object member
// order. Trailing non-whitespace input is an error.
func Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected trailing data after JSON document")
	}
	return v, nil
}

// Parse decodes a single JSON document from data.
func Parse(data []byte) (*Value, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeStream reads every JSON document from r (NDJSON or concatenated
// documents) and returns them in order.
func DecodeStream(r io.Reader) ([]*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var out []*Value
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no JSON documents in input")
	}
	return out, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []*Value
			for dec.More() {
				it, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, it)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return Array(items...), nil
		case '{':
			var members []Member
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return Object(members...), nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// FromYAMLNode converts a decoded yaml.Node tree into a Value, preserving
// mapping key order. Only plain YAML that maps onto JSON is supported;
// anchors are followed, custom tags are rejected.
func FromYAMLNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("YAML document with %d roots", len(n.Content))
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("non-scalar mapping key at line %d", keyNode.Line)
			}
			v, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Key: keyNode.Value, Value: v})
		}
		return Object(members...), nil
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d at line %d", n.Kind, n.Line)
}

func scalarFromYAML(n *yaml.Node) (*Value, error) {
	switch n.Tag {
	case "!!null", "":
		if n.Tag == "" && n.Value != "" {
			return String(n.Value), nil
		}
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int", "!!float":
		// YAML numeric literals are a superset of JSON's (0x1a, 1_000, .5);
		// re-encode through the decoded Go value when the raw form is not
		// valid JSON.
		if json.Valid([]byte(n.Value)) {
			return Number(n.Value), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return NumberFloat(f), nil
	case "!!str":
		return String(n.Value), nil
	case "!!timestamp":
		return String(n.Value), nil
	}
	if strings.HasPrefix(n.Tag, "!!") {
		return nil, fmt.Errorf("unsupported YAML scalar tag %s at line %d", n.Tag, n.Line)
	}
	return String(n.Value), nil
}

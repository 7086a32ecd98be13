// Package loader parses input documents for the explorer session. It
// auto-detects the on-disk format and always yields the ordered JSON value
// model from internal/document, since that is the only shape the rest of
// the system (and the external evaluator's stdin) understands.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jex/internal/document"
)

// LoadData parses input, auto-detecting the format. Supported:
//   - single JSON value
//   - newline-delimited JSON (NDJSON): one JSON value per line
//   - YAML: single document or multi-document (separated by ---)
//
// Every format returns a slice of documents; single-document inputs return
// one element.
func LoadData(input []byte) ([]*document.Value, error) {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	// Multi-document YAML first (most restrictive marker).
	s := string(trimmed)
	if strings.HasPrefix(s, "---") || strings.Contains(s, "\n---") {
		return loadMultiDocYAML(trimmed)
	}

	lines := strings.Split(s, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(trimmed)
	}

	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") ||
		strings.HasPrefix(s, "\"") || looksLikeJSONScalar(s) {
		v, err := document.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return []*document.Value{v}, nil
	}

	return loadYAML(trimmed)
}

// LoadRoot parses input into a single root document. Multi-document inputs
// are wrapped into one array.
func LoadRoot(input []byte) (*document.Value, error) {
	docs, err := LoadData(input)
	if err != nil {
		return nil, err
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	return document.Array(docs...), nil
}

// LoadFile reads a file and parses it into its documents.
func LoadFile(path string) ([]*document.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	docs, err := LoadData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// isLikelyNDJSON reports whether every non-empty line is a complete JSON
// value on its own, scalars included. A single multi-line JSON document
// fails this check because its continuation lines are fragments, not
// complete documents.
func isLikelyNDJSON(lines []string) bool {
	seen := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := document.Parse([]byte(line)); err != nil {
			return false
		}
		seen++
	}
	return seen > 1
}

func looksLikeJSONScalar(s string) bool {
	switch s {
	case "null", "true", "false":
		return true
	}
	c := s[0]
	return c == '-' || (c >= '0' && c <= '9')
}

func loadNDJSON(input []byte) ([]*document.Value, error) {
	var out []*document.Value
	for i, line := range strings.Split(string(input), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := document.Parse([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("invalid NDJSON on line %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no documents in NDJSON input")
	}
	return out, nil
}

func loadYAML(input []byte) ([]*document.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(input, &node); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	v, err := document.FromYAMLNode(&node)
	if err != nil {
		return nil, err
	}
	return []*document.Value{v}, nil
}

func loadMultiDocYAML(input []byte) ([]*document.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(input))
	var out []*document.Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML document %d: %w", len(out)+1, err)
		}
		v, convErr := document.FromYAMLNode(&node)
		if convErr != nil {
			return nil, convErr
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no documents in YAML input")
	}
	return out, nil
}

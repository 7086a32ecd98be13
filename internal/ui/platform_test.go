package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", "''"},
		{"plain", "plain"},
		{".a", ".a"},
		{"has space", "'has space'"},
		{".a | sort", "'.a | sort'"},
		{`.["k-1"]`, `'.["k-1"]'`},
		{"don't", `'don'\''t'`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, shellQuote(tt.in), "shellQuote(%q)", tt.in)
	}
}

func TestQuoteInvocation(t *testing.T) {
	got := quoteInvocation([]string{"jex", "-c", ".a | sort", "data.json"})
	assert.Equal(t, `jex -c '.a | sort' data.json`, got)
}

func TestStubPlatformActions(t *testing.T) {
	var kinds, texts []string
	restore := StubPlatformActions(func(kind, text string) {
		kinds = append(kinds, kind)
		texts = append(texts, text)
	})

	assert.NoError(t, copyToClipboard("", "hello"))
	assert.NoError(t, appendShellHistory("", "jex -c .a"))
	assert.Equal(t, []string{"clipboard", "history"}, kinds)
	assert.Equal(t, []string{"hello", "jex -c .a"}, texts)

	restore()
	// The real history implementation rejects an empty template again.
	assert.Error(t, appendShellHistory("", "jex -c .a"))
}

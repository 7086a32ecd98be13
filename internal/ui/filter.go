package ui

import (
	"regexp"
	"strings"
)

// selectorPattern matches a (possibly empty) chain of plain selector
// segments: `.name`, `.[0]`, `.["key"]`. When the last pipe segment of the
// current filter is such a chain, a new selector can be appended directly;
// anything more complex needs a fresh pipe stage so the filter stays valid.
var selectorPattern = regexp.MustCompile(
	`^\s*(\.(([A-Za-z_][A-Za-z0-9_]*)|\[("(\\.|[^"\\])*"|\d+)\]))*\s*$`)

// appendSelector extends filter with a selector fragment produced by the
// table (always starting with "."). The resulting filter evaluates to the
// value the selection pointed at.
func appendSelector(filter, selector string) string {
	if strings.TrimSpace(filter) == "" {
		return selector
	}
	segments := strings.Split(filter, "|")
	if selectorPattern.MatchString(segments[len(segments)-1]) {
		return filter + selector
	}
	return filter + " | " + selector
}

// appendFilter pipes a new stage onto the current filter.
func appendFilter(filter, stage string) string {
	if strings.TrimSpace(filter) == "" {
		return stage
	}
	return filter + " | " + stage
}

package normalization

import "strings"

// ParseInputString lowercases and trims a raw input string.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Semantic is the canonical form of a semantic string: lowercased, trimmed,
// with interior whitespace runs collapsed to single spaces. Concept ids and
// tag-name comparisons are keyed on this form.
func Semantic(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

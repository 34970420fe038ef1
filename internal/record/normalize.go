package record

import (
	"regexp"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// nonAlnumRegex matches runs of characters that are neither letters nor digits
var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize normalizes a string for storage and lookup:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// TitleKey reduces a title to a deduplication key: lowercased, with every
// non-alphanumeric run collapsed to a single space, then trimmed.
// "Went for a run." and "went for a RUN!" share the same key.
func TitleKey(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

package utils

import "strings"

// NormalizeSpace strips leading/trailing whitespace and collapses
// internal whitespace runs to single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// KeywordsMatch reports whether text contains every keyword,
// case-insensitively. An empty keyword list matches everything.
func KeywordsMatch(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	t := strings.ToLower(text)
	for _, k := range keywords {
		if !strings.Contains(t, strings.ToLower(k)) {
			return false
		}
	}
	return true
}

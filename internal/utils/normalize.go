package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower applies full Unicode lowercasing (special casings and final sigma
// included), which is what catalog names and queries are matched on.
// Casers keep state, so one is built per call.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// NormalizeQuery lowercases s and trims surrounding whitespace.
func NormalizeQuery(s string) string {
	return strings.TrimSpace(Lower(s))
}

// RuneLen counts code points; term lengths are measured in characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

package utils

import "strings"

// IsBlank reports whether s has no visible characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ExceedsLength reports whether s is longer than max characters.
// A max of zero or less disables the check.
func ExceedsLength(s string, max int) bool {
	return max > 0 && RuneLen(s) > max
}

// IsRepetitive checks if a string consists of one repeated character,
// e.g. "aaa". Such queries are logged but still served.
func IsRepetitive(s string) bool {
	r := []rune(s)
	if len(r) <= 2 {
		return false
	}
	for _, c := range r[1:] {
		if c != r[0] {
			return false
		}
	}
	return true
}

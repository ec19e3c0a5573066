package util

import (
	"strings"
	"unicode"
)

// CleanText normalizes transcribed text for storage: surrounding
// whitespace is trimmed, control characters are removed, and internal
// whitespace runs collapse to a single space. Backends occasionally
// emit stray newlines or tabs inside hypotheses; cleaned text keeps
// equality checks between resent hypotheses meaningful.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

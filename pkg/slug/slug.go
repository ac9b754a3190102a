// Package slug derives URL path segments from display names.
package slug

import (
	"strings"
	"unicode"
)

// symbolWords spells out symbols that carry meaning in product and
// category names, so "C++" and "C#" do not collapse onto the same slug.
var symbolWords = map[rune]string{
	'+': "plus",
	'#': "sharp",
	'&': "and",
	'@': "at",
}

// Make lowercases s, trims it, and collapses every run of whitespace,
// underscores and hyphens into a single hyphen. The symbols in
// symbolWords become words of their own, a dot between two alphanumerics
// is kept ("node.js"), and any other character is dropped.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	pendingDot := false
	afterAlnum := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			} else if pendingDot {
				b.WriteByte('.')
			}
			pendingSep, pendingDot = false, false
			afterAlnum = true
			b.WriteRune(r)
		case r == '.' && afterAlnum && !pendingSep:
			pendingDot = true
			afterAlnum = false
		case symbolWords[r] != "":
			if b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteString(symbolWords[r])
			pendingSep, pendingDot = true, false
			afterAlnum = false
		case unicode.IsSpace(r) || r == '_' || r == '-' || r == '.':
			pendingSep = true
			pendingDot = false
		}
	}
	return b.String()
}

// Join builds a slug from several name parts, e.g. first and last name.
func Join(parts ...string) string {
	return Make(strings.Join(parts, " "))
}

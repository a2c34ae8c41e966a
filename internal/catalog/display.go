package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Spanish)

// Capitalize upper-cases the first letter of every word and lower-cases
// the rest
func Capitalize(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// Sentence upper-cases the first letter and lower-cases the rest
func Sentence(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// TruncateWords shortens s to at most n words. The second result reports
// whether anything was cut.
func TruncateWords(s string, n int) (string, bool) {
	words := strings.Fields(s)
	if len(words) <= n {
		return s, false
	}
	return strings.Join(words[:n], " ") + "...", true
}

// DetailWordLimit is how many words long product texts show collapsed
const DetailWordLimit = 30

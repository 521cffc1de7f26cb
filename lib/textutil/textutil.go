package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics turns "José Abstenção" into "Jose Abstencao".
func StripDiacritics(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName lowercases, strips diacritics and drops everything
// except letters and spaces. Used for fuzzy person-name comparison.
func NormalizeName(name string) string {
	name = StripDiacritics(strings.ToLower(name))
	var b strings.Builder
	for _, c := range name {
		if unicode.IsLetter(c) || c == ' ' {
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits a normalized name into its word tokens.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

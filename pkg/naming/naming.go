// Package naming holds the shared identifier rules used across the fieldset
// pipeline. Extracted placeholder names, operator-typed fieldset names, and
// labels derived back into names all pass through the same normalization so
// they stay comparable by plain string equality.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	validNamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// IsValidName reports whether the token satisfies the identifier rule:
// letters, digits, and underscores only, with no surrounding whitespace.
func IsValidName(token string) bool {
	return token != "" && validNamePattern.MatchString(token)
}

// Normalize converts free-form input into the canonical identifier form.
// Every character that is not a letter, digit, underscore, or whitespace is
// stripped, runs of whitespace collapse into single underscores, and the
// result is uppercased. Normalize is idempotent.
func Normalize(input string) string {
	var kept strings.Builder
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			kept.WriteRune(r)
		}
	}
	collapsed := whitespacePattern.ReplaceAllString(strings.TrimSpace(kept.String()), "_")
	return strings.ToUpper(collapsed)
}

// Label derives a human-readable label from a canonical name by splitting on
// underscores and title-casing each word: PARTY_A_NAME becomes "Party A Name".
func Label(name string) string {
	if name == "" {
		return ""
	}
	words := strings.Split(name, "_")
	segments := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(word))
	}
	return strings.Join(segments, " ")
}

func titleCase(word string) string {
	lower := strings.ToLower(word)
	first, size := utf8.DecodeRuneInString(lower)
	if first == utf8.RuneError {
		return lower
	}
	return string(unicode.ToUpper(first)) + lower[size:]
}

package model

import (
	"regexp"
	"strings"
	"unicode"
)

var wordSeparators = regexp.MustCompile(`[_\-\s]+`)

// Labeler turns a field name into a display label.
type Labeler func(name string) string

// DefaultLabeler nicifies serialized field names: the `m_` and `k` member
// prefixes are dropped, words are split on separators and case or digit
// boundaries, and each word is capitalised (`m_maxHealth2` → `Max Health 2`).
func DefaultLabeler(name string) string {
	name = strings.TrimPrefix(name, "m_")
	if len(name) > 1 && name[0] == 'k' && unicode.IsUpper(rune(name[1])) {
		name = name[1:]
	}

	var words []string
	for _, chunk := range wordSeparators.Split(name, -1) {
		for _, word := range splitBoundaries(chunk) {
			words = append(words, capitalise(word))
		}
	}
	return strings.Join(words, " ")
}

func splitBoundaries(input string) []string {
	var (
		words   []string
		current []rune
	)
	runes := []rune(input)
	for i, r := range runes {
		if i > 0 && boundary(runes, i) {
			words = append(words, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	return words
}

// boundary reports a word break before runes[i]. Acronyms stay together
// until the last capital that starts a lowercase word (`HTTPServer` → `HTTP Server`).
func boundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r), unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		return true
	default:
		return false
	}
}

func capitalise(word string) string {
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

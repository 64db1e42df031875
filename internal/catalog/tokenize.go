package catalog

import (
	"strings"
	"unicode"
)

// Tokenize lowercases the text and splits it on non-alphanumeric runes.
// The same tokenizer is applied to listings and to query text so that
// lexical scoring compares like with like.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

package index

import (
	"strings"
	"unicode"
)

// maxTokenLen drops pathological tokens (long hex runs, glued words) that
// would only bloat the term dictionary. It applies at index time only;
// see QueryTerms.
const maxTokenLen = 40

// Tokenize splits text into normalized index terms.
// Rules:
//  1. Lowercase
//  2. Split on every rune that is not a letter or digit
//  3. Discard tokens longer than maxTokenLen bytes
//
// Unicode letters are kept ("piñata" stays one token). Single-rune tokens
// are kept because emoji names carry them ("keycap: 1", "A button").
func Tokenize(input string) []string {
	if len(input) == 0 {
		return nil
	}

	var tokens []string
	for _, tok := range QueryTerms(input) {
		if len(tok) > maxTokenLen {
			continue
		}
		tokens = append(tokens, tok)
	}

	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// QueryTerms splits query text the way Tokenize splits indexed text but
// keeps tokens of any length, so a query a few runes longer than an indexed
// term can still reach it within the fuzzy distance.
func QueryTerms(input string) []string {
	parts := strings.FieldsFunc(strings.ToLower(input), isSeparator)
	if len(parts) == 0 {
		return nil
	}
	return parts
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

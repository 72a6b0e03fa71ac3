package corpus

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DeriveSymbol turns a code-point identifier into the glyph it names.
//
// An identifier holding any non-ASCII rune is taken to be the glyph already
// and is returned unchanged. Otherwise it is a hyphen-delimited sequence of
// hexadecimal scalar values:
//
//	"1F600"       -> U+1F600
//	"1F1FA-1F1F8" -> U+1F1FA U+1F1F8
//
// Components that are not hex, or that do not name a valid scalar value
// (surrogates, values above U+10FFFF), are skipped without aborting the rest.
func DeriveSymbol(unified string) string {
	if hasNonASCII(unified) {
		return unified
	}

	var b strings.Builder
	for _, part := range strings.Split(unified, "-") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			continue
		}
		r := rune(v)
		if !utf8.ValidRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

package fuzzy

import (
	"strings"
	"unicode/utf8"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

type termType int

const (
	termFuzzy termType = iota
	termExact
	termPrefix
	termSuffix
	termEqual
)

// algo classifies ASCII runes and derives its bonus table only in Init;
// without it uppercase text never folds to a lowercase pattern.
func init() {
	algo.Init("default")
}

type matchFn func(caseSensitive, normalize, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (algo.Result, *[]int)

var matchFns = map[termType]matchFn{
	termFuzzy:  algo.FuzzyMatchV2,
	termExact:  algo.ExactMatchNaive,
	termPrefix: algo.PrefixMatch,
	termSuffix: algo.SuffixMatch,
	termEqual:  algo.EqualMatch,
}

// term is one whitespace-separated atom of a pattern.
type term struct {
	typ       termType
	inv       bool
	text      []rune
	normalize bool
}

// Pattern is a parsed query. Atoms use fzf syntax:
//
//	foo    fuzzy
//	'foo   exact substring
//	^foo   prefix
//	foo$   suffix
//	^foo$  whole column
//	!foo   must not occur (exact)
//
// Matching is case-insensitive. Diacritics are folded unless the atom
// itself contains non-ASCII runes.
type Pattern struct {
	terms []term
}

// ParsePattern parses query into atoms. Atoms that are empty after their
// operators are stripped are dropped.
func ParsePattern(query string) *Pattern {
	p := &Pattern{}
	for _, tok := range strings.Fields(query) {
		t := term{typ: termFuzzy}
		if strings.HasPrefix(tok, "!") {
			t.inv = true
			t.typ = termExact
			tok = tok[1:]
		}
		switch {
		case strings.HasPrefix(tok, "'"):
			t.typ = termExact
			tok = tok[1:]
		case strings.HasPrefix(tok, "^"):
			t.typ = termPrefix
			tok = tok[1:]
			if len(tok) > 1 && strings.HasSuffix(tok, "$") {
				t.typ = termEqual
				tok = tok[:len(tok)-1]
			}
		case len(tok) > 1 && strings.HasSuffix(tok, "$"):
			t.typ = termSuffix
			tok = tok[:len(tok)-1]
		}
		if tok == "" {
			continue
		}

		text := []rune(strings.ToLower(tok))
		t.normalize = isASCII(tok)
		if t.normalize {
			text = algo.NormalizeRunes(text)
		}
		t.text = text
		p.terms = append(p.terms, t)
	}
	return p
}

// Empty reports whether the pattern has no atoms. An empty pattern
// matches every item with score 0.
func (p *Pattern) Empty() bool { return len(p.terms) == 0 }

// Appendable reports whether typing more characters after this pattern
// can only shrink its match set. That holds unless the last atom is
// negated or anchored at the end.
func (p *Pattern) Appendable() bool {
	if len(p.terms) == 0 {
		return true
	}
	last := p.terms[len(p.terms)-1]
	return !last.inv && last.typ != termSuffix && last.typ != termEqual
}

// Score matches item against every atom. A positive atom must match at
// least one column and contributes its best column score; a negated atom
// must match no column.
func (p *Pattern) Score(it *Item, slab *util.Slab) (int, bool) {
	total := 0
	for i := range p.terms {
		t := &p.terms[i]
		fn := matchFns[t.typ]

		best, found := 0, false
		for c := range it.cols {
			res, _ := fn(false, t.normalize, true, &it.cols[c], t.text, false, slab)
			if res.Start < 0 {
				continue
			}
			if !found || res.Score > best {
				best, found = res.Score, true
			}
		}

		if t.inv {
			if found {
				return 0, false
			}
			continue
		}
		if !found {
			return 0, false
		}
		total += best
	}
	return total, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

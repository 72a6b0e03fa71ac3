package index

import (
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/corey/emojipick/internal/ports"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Query scores documents of a committed index. Every document in the
// returned map matched; absent documents did not.
type Query interface {
	Scores(r ports.IndexReader) (map[uint32]float32, error)
}

// FuzzyTermQuery matches documents holding any term of Field within
// Distance edits (Levenshtein) of Term. The exact term is included.
type FuzzyTermQuery struct {
	Field    string
	Term     string
	Distance int
}

func (q *FuzzyTermQuery) Scores(r ports.IndexReader) (map[uint32]float32, error) {
	want := utf8.RuneCountInString(q.Term)
	return scoreTerms(r, q.Field, func(term string) bool {
		// Length difference is a lower bound on edit distance.
		if d := utf8.RuneCountInString(term) - want; d > q.Distance || -d > q.Distance {
			return false
		}
		return fuzzy.LevenshteinDistance(q.Term, term) <= q.Distance
	})
}

// RegexQuery matches documents holding any term of Field that the
// whole pattern matches.
type RegexQuery struct {
	Field   string
	Pattern *regexp.Regexp
}

// NewRegexQuery compiles pattern for field.
func NewRegexQuery(field, pattern string) (*RegexQuery, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexQuery{Field: field, Pattern: re}, nil
}

// SubstringPattern returns the anchored pattern matching any term that
// contains s. Metacharacters in s are escaped.
func SubstringPattern(s string) string {
	return "^.*" + regexp.QuoteMeta(s) + ".*$"
}

func (q *RegexQuery) Scores(r ports.IndexReader) (map[uint32]float32, error) {
	return scoreTerms(r, q.Field, q.Pattern.MatchString)
}

// BoostQuery multiplies the scores of the wrapped query.
type BoostQuery struct {
	Query Query
	Boost float32
}

func (q *BoostQuery) Scores(r ports.IndexReader) (map[uint32]float32, error) {
	scores, err := q.Query.Scores(r)
	if err != nil {
		return nil, err
	}
	for id, s := range scores {
		scores[id] = s * q.Boost
	}
	return scores, nil
}

// BooleanQuery is a disjunction: a document matches if any Should clause
// matches and scores the sum of the matching clauses.
type BooleanQuery struct {
	Should []Query
}

func (q *BooleanQuery) Scores(r ports.IndexReader) (map[uint32]float32, error) {
	total := make(map[uint32]float32)
	for _, clause := range q.Should {
		scores, err := clause.Scores(r)
		if err != nil {
			return nil, err
		}
		for id, s := range scores {
			total[id] += s
		}
	}
	return total, nil
}

// scoreTerms walks the term dictionary of field and gives every document
// posted under an accepted term a constant score of 1.
func scoreTerms(r ports.IndexReader, field string, accept func(term string) bool) (map[uint32]float32, error) {
	var matched []string
	err := r.Terms(field, func(term string) error {
		if accept(term) {
			matched = append(matched, term)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	scores := make(map[uint32]float32)
	for _, term := range matched {
		ids, err := r.Postings(field, term)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			scores[id] = 1
		}
	}
	return scores, nil
}

// ScoredDoc is one hit of TopDocs.
type ScoredDoc struct {
	ID    uint32
	Score float32
}

// TopDocs runs q and keeps the limit best documents, ordered by
// descending score with ascending document ID breaking ties.
func TopDocs(r ports.IndexReader, q Query, limit int) ([]ScoredDoc, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("top docs: limit must be positive, got %d", limit)
	}
	scores, err := q.Scores(r)
	if err != nil {
		return nil, err
	}

	hits := make([]ScoredDoc, 0, len(scores))
	for id, s := range scores {
		hits = append(hits, ScoredDoc{ID: id, Score: s})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

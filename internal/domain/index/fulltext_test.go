package index

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	boltstore "github.com/corey/emojipick/internal/adapters/bbolt"
	"github.com/corey/emojipick/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Full-text matcher — fuzzy term + boosted substring over a bbolt index
// Expectation: substring hits (3) outrank pure edit-distance hits (1);
// ties keep corpus order; never more than 50 results.
// =============================================================================

var testEntries = []ports.Entry{
	{Unified: "1F600", Name: "GRINNING FACE", ShortName: "grinning", ShortNames: []string{"grinning"}, Category: "Smileys & Emotion", Subcategory: "face-smiling"},
	{Unified: "1F431", Name: "CAT FACE", ShortName: "cat", ShortNames: []string{"cat"}, Category: "Animals & Nature", Subcategory: "animal-mammal"},
	{Unified: "1F987", Name: "BAT", ShortName: "bat", ShortNames: []string{"bat"}, Category: "Animals & Nature", Subcategory: "animal-mammal"},
	{Unified: "1F3CE-FE0F", Name: "RACING CAR", ShortName: "racing_car", ShortNames: []string{"racing_car"}, Category: "Travel & Places", Subcategory: "transport-ground"},
	{Unified: "1F408", Name: "CAT", ShortName: "cat2", ShortNames: []string{"cat2"}, Category: "Animals & Nature", Subcategory: "animal-mammal"},
	{Unified: "1F1FA-1F1F8", Name: "flag: United States", ShortName: "us", ShortNames: []string{"flag-us", "us"}, Category: "Flags", Subcategory: "country-flag"},
}

func newTestFullText(t *testing.T, opts Options) (*FullText, *boltstore.Store) {
	t.Helper()
	store := boltstore.NewStore(filepath.Join(t.TempDir(), "emoji_index"))
	ft := NewFullText(store, opts, nil)
	t.Cleanup(func() { ft.Close() })
	return ft, store
}

func names(results []ports.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func TestFullText_EmptyQuery(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})

	// No index yet: the empty query never touches the store.
	results, err := ft.Search("")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFullText_SubstringOutranksFuzzy(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))

	results, err := ft.Search("cat")
	require.NoError(t, err)

	// "cat" is a term of CAT FACE and CAT (1 + 3). BAT and CAR are one
	// edit away (1). Equal scores keep insertion order.
	assert.Equal(t, []string{"CAT FACE", "CAT", "BAT", "RACING CAR"}, names(results))
}

func TestFullText_SubstringInsideTerm(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))

	results, err := ft.Search("inn")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "GRINNING FACE", results[0].Name)
	assert.Equal(t, "\U0001F600", results[0].Symbol)
	assert.Equal(t, "grinning", results[0].ShortName)
	assert.Equal(t, "Smileys & Emotion", results[0].Category)
}

func TestFullText_CaseInsensitive(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))

	upper, err := ft.Search("FACE")
	require.NoError(t, err)
	lower, err := ft.Search("face")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
	assert.Equal(t, []string{"GRINNING FACE", "CAT FACE"}, names(lower))
}

func TestFullText_MultiTokenQuery(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))

	results, err := ft.Search("united states")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "flag: United States", results[0].Name)
	assert.Equal(t, "\U0001F1FA\U0001F1F8", results[0].Symbol)
}

func TestFullText_RegexMetacharactersAreLiteral(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))

	// Tokenizing drops the metacharacters; what remains is a literal.
	results, err := ft.Search("(cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"CAT FACE", "CAT", "BAT", "RACING CAR"}, names(results))

	results, err = ft.Search(".*")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFullText_NoMatch(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))

	results, err := ft.Search("zzzzzzzz")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFullText_Deterministic(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))

	first, err := ft.Search("face")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ft.Search("face")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFullText_CapsAtFifty(t *testing.T) {
	entries := make([]ports.Entry, 80)
	for i := range entries {
		entries[i] = ports.Entry{Unified: "1F600", Name: fmt.Sprintf("FACE %d", i)}
	}
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(entries))

	results, err := ft.Search("face")
	require.NoError(t, err)
	require.Len(t, results, ports.MaxResults)
	assert.Equal(t, "FACE 0", results[0].Name)
	assert.Equal(t, "FACE 49", results[49].Name)
}

func TestFullText_DuplicatesKept(t *testing.T) {
	dup := []ports.Entry{testEntries[1], testEntries[1]}
	ft, _ := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(dup))

	results, err := ft.Search("cat")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFullText_IndexIsIdempotent(t *testing.T) {
	ft, store := newTestFullText(t, Options{})
	require.NoError(t, ft.Index(testEntries))
	assert.Equal(t, len(testEntries), ft.Added())
	before, err := ft.Search("face")
	require.NoError(t, err)

	// Second call with a different corpus is a no-op.
	require.NoError(t, ft.Index(testEntries[:1]))
	assert.Equal(t, 0, ft.Added())
	after, err := ft.Search("face")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	m, err := store.ReadMarker()
	require.NoError(t, err)
	assert.Equal(t, len(testEntries), m.NumDocs)
}

func TestFullText_ReusesIndexAcrossRestart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "emoji_index")
	ft1 := NewFullText(boltstore.NewStore(dir), Options{}, nil)
	require.NoError(t, ft1.Index(testEntries))
	require.NoError(t, ft1.Close())

	ft2 := NewFullText(boltstore.NewStore(dir), Options{}, nil)
	defer ft2.Close()
	require.NoError(t, ft2.Index(nil))
	assert.Equal(t, 0, ft2.Added())

	results, err := ft2.Search("bat")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "BAT", results[0].Name)
}

func TestFullText_KeywordsField(t *testing.T) {
	ft, _ := newTestFullText(t, Options{Field: FieldKeywords})
	require.NoError(t, ft.Index(testEntries))

	results, err := ft.Search("smileys")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "GRINNING FACE", results[0].Name)

	// The display-name field alone has no category words.
	nameOnly, _ := newTestFullText(t, Options{})
	require.NoError(t, nameOnly.Index(testEntries))
	results, err = nameOnly.Search("smileys")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewFullText_Defaults(t *testing.T) {
	ft := NewFullText(boltstore.NewStore(t.TempDir()), Options{Limit: 500}, nil)
	assert.Equal(t, DefaultOptions(), ft.Options())
}

// =============================================================================
// Error kinds
// =============================================================================

func TestFullText_SearchBeforeIndex(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})

	_, err := ft.Search("cat")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexReader)
	assert.ErrorIs(t, err, ports.ErrIndexNotBuilt)

	var se *SearchError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ErrIndexReader, se.Kind)
}

func TestRegexQuery_InvalidPattern(t *testing.T) {
	_, err := NewRegexQuery(FieldName, SubstringPattern("\xff"))
	assert.Error(t, err)
}

func TestSubstringPattern_EscapesMeta(t *testing.T) {
	assert.Equal(t, `^.*a\.b.*$`, SubstringPattern("a.b"))
}

// fakeStore fails at a chosen stage.
type fakeStore struct {
	failCreate, failWriter, failAdd, failCommit error
	failReader, failTerms, failDoc              error
	exists                                      bool
}

func (s *fakeStore) Exists() bool              { return s.exists }
func (s *fakeStore) Create(ports.Schema) error { return s.failCreate }
func (s *fakeStore) Close() error              { return nil }
func (s *fakeStore) Writer() (ports.IndexWriter, error) {
	if s.failWriter != nil {
		return nil, s.failWriter
	}
	return &fakeWriter{s: s}, nil
}
func (s *fakeStore) Reader() (ports.IndexReader, error) {
	if s.failReader != nil {
		return nil, s.failReader
	}
	return &fakeReader{s: s}, nil
}

type fakeWriter struct{ s *fakeStore }

func (w *fakeWriter) AddDocument(ports.Document) (uint32, error) { return 0, w.s.failAdd }
func (w *fakeWriter) Commit() error                              { return w.s.failCommit }
func (w *fakeWriter) Rollback() error                            { return nil }

type fakeReader struct{ s *fakeStore }

func (r *fakeReader) Terms(_ string, fn func(string) error) error {
	if r.s.failTerms != nil {
		return r.s.failTerms
	}
	return fn("cat")
}
func (r *fakeReader) Postings(string, string) ([]uint32, error) { return []uint32{0}, nil }
func (r *fakeReader) Document(uint32) (map[string]string, error) {
	if r.s.failDoc != nil {
		return nil, r.s.failDoc
	}
	return map[string]string{FieldName: "CAT"}, nil
}
func (r *fakeReader) NumDocs() int { return 1 }
func (r *fakeReader) Close() error { return nil }

func TestFullText_IndexErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name  string
		store *fakeStore
		kind  error
	}{
		{"create", &fakeStore{failCreate: cause}, ErrIndexCreation},
		{"writer", &fakeStore{failWriter: cause}, ErrIndexWriter},
		{"add", &fakeStore{failAdd: cause}, ErrAddDoc},
		{"commit", &fakeStore{failCommit: cause}, ErrCommit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := NewFullText(tt.store, Options{}, nil)
			err := ft.Index(testEntries)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, cause)

			var ie *IndexError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.kind, ie.Kind)
			assert.Contains(t, err.Error(), "disk full")
		})
	}
}

func TestFullText_SearchErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name  string
		store *fakeStore
		kind  error
	}{
		{"reader", &fakeStore{failReader: cause}, ErrIndexReader},
		{"terms", &fakeStore{failTerms: cause}, ErrSearchFailed},
		{"document", &fakeStore{failDoc: cause}, ErrRetrievingDoc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := NewFullText(tt.store, Options{}, nil)
			_, err := ft.Search("cat")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestFullText_FakeStoreMissingFieldsDefaultEmpty(t *testing.T) {
	ft := NewFullText(&fakeStore{exists: true}, Options{}, nil)
	results, err := ft.Search("cat")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ports.Result{Name: "CAT"}, results[0])
}

func TestFullText_QueryLongerThanIndexedTermLimit(t *testing.T) {
	ft, _ := newTestFullText(t, Options{})
	word := strings.Repeat("x", maxTokenLen-1) + "y"
	require.NoError(t, ft.Index([]ports.Entry{{Unified: "1F600", Name: word + " FACE"}}))

	// One rune past the indexed term limit, one edit away from the term.
	results, err := ft.Search(word + "z")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, word+" FACE", results[0].Name)
}

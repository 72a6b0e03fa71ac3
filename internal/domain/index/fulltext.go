package index

import (
	"log/slog"

	"github.com/corey/emojipick/internal/domain/corpus"
	"github.com/corey/emojipick/internal/ports"
)

// Stored and indexed field names.
const (
	FieldEmoji     = "emoji"
	FieldName      = "name"
	FieldShortName = "short_name"
	FieldCategory  = "category"
	FieldKeywords  = "keywords"
)

// Schema is the layout of the emoji index.
func Schema() ports.Schema {
	return ports.Schema{Fields: []ports.Field{
		{Name: FieldEmoji, Stored: true},
		{Name: FieldName, Indexed: true, Stored: true},
		{Name: FieldShortName, Stored: true},
		{Name: FieldCategory, Stored: true},
		{Name: FieldKeywords, Indexed: true},
	}}
}

// Options tunes full-text query construction.
type Options struct {
	Field    string  // indexed field the sub-queries target
	Distance int     // max edit distance of the fuzzy term clause
	Boost    float32 // multiplier for the substring clause
	Limit    int     // max results
}

// DefaultOptions returns the stock tuning: fuzzy distance 2, substring
// boost 3, top 50 on the display name.
func DefaultOptions() Options {
	return Options{
		Field:    FieldName,
		Distance: 2,
		Boost:    3,
		Limit:    ports.MaxResults,
	}
}

// FullText searches an on-disk inverted index of the corpus.
type FullText struct {
	store ports.IndexStore
	opts  Options
	log   *slog.Logger

	added int
}

// NewFullText creates a matcher over store. Zero-valued options fall back
// to DefaultOptions.
func NewFullText(store ports.IndexStore, opts Options, log *slog.Logger) *FullText {
	def := DefaultOptions()
	if opts.Field == "" {
		opts.Field = def.Field
	}
	if opts.Distance <= 0 {
		opts.Distance = def.Distance
	}
	if opts.Boost == 0 {
		opts.Boost = def.Boost
	}
	if opts.Limit <= 0 || opts.Limit > ports.MaxResults {
		opts.Limit = def.Limit
	}
	if log == nil {
		log = slog.Default()
	}
	return &FullText{store: store, opts: opts, log: log}
}

// Options returns the effective tuning.
func (f *FullText) Options() Options { return f.opts }

// Added returns the number of documents written by the last Index call.
// Zero when the index already existed.
func (f *FullText) Added() int { return f.added }

// Index builds the on-disk index from entries unless one was already
// committed, in which case it is a no-op and the stored index is reused
// as is.
func (f *FullText) Index(entries []ports.Entry) error {
	f.added = 0
	if f.store.Exists() {
		f.log.Debug("index exists, skipping build")
		return nil
	}

	if err := f.store.Create(Schema()); err != nil {
		return indexErr(ErrIndexCreation, err)
	}
	w, err := f.store.Writer()
	if err != nil {
		return indexErr(ErrIndexWriter, err)
	}
	for _, e := range entries {
		if _, err := w.AddDocument(Document(e)); err != nil {
			_ = w.Rollback()
			return indexErr(ErrAddDoc, err)
		}
	}
	if err := w.Commit(); err != nil {
		return indexErr(ErrCommit, err)
	}

	f.added = len(entries)
	f.log.Info("index built", "docs", len(entries))
	return nil
}

// Document maps a corpus entry to its index document.
func Document(e ports.Entry) ports.Document {
	return ports.Document{
		Stored: map[string]string{
			FieldEmoji:     corpus.DeriveSymbol(e.Unified),
			FieldName:      e.Name,
			FieldShortName: e.ShortName,
			FieldCategory:  e.Category,
		},
		Indexed: map[string][]string{
			FieldName:     Tokenize(e.Name),
			FieldKeywords: Tokenize(corpus.Keywords(e)),
		},
	}
}

// BuildQuery turns user text into the scoring query: for every token a
// fuzzy term clause plus a boosted substring clause, OR-ed together.
func (f *FullText) BuildQuery(text string) (Query, error) {
	tokens := QueryTerms(text)
	q := &BooleanQuery{Should: make([]Query, 0, 2*len(tokens))}
	for _, tok := range tokens {
		re, err := NewRegexQuery(f.opts.Field, SubstringPattern(tok))
		if err != nil {
			return nil, err
		}
		q.Should = append(q.Should,
			&FuzzyTermQuery{Field: f.opts.Field, Term: tok, Distance: f.opts.Distance},
			&BoostQuery{Query: re, Boost: f.opts.Boost},
		)
	}
	return q, nil
}

// Search returns up to Limit entries for text, best first. The index is
// re-opened for every call so a rebuilt index is picked up immediately.
func (f *FullText) Search(text string) ([]ports.Result, error) {
	if text == "" {
		return []ports.Result{}, nil
	}

	r, err := f.store.Reader()
	if err != nil {
		return nil, searchErr(ErrIndexReader, err)
	}
	defer r.Close()

	q, err := f.BuildQuery(text)
	if err != nil {
		return nil, searchErr(ErrInvalidRegexPattern, err)
	}

	hits, err := TopDocs(r, q, f.opts.Limit)
	if err != nil {
		return nil, searchErr(ErrSearchFailed, err)
	}

	results := make([]ports.Result, 0, len(hits))
	for _, hit := range hits {
		doc, err := r.Document(hit.ID)
		if err != nil {
			return nil, searchErr(ErrRetrievingDoc, err)
		}
		// Missing map keys read as "".
		results = append(results, ports.Result{
			Symbol:    doc[FieldEmoji],
			Name:      doc[FieldName],
			ShortName: doc[FieldShortName],
			Category:  doc[FieldCategory],
		})
	}

	f.log.Debug("search", "query", text, "hits", len(results))
	return results, nil
}

// Close releases the underlying store.
func (f *FullText) Close() error {
	return f.store.Close()
}

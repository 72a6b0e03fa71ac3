package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/corey/emojipick/internal/adapters/bbolt"
	"github.com/corey/emojipick/internal/domain/fuzzy"
	"github.com/corey/emojipick/internal/domain/index"
	"github.com/corey/emojipick/internal/ports"
)

// Kind names a search backend.
type Kind int

const (
	KindFuzzy Kind = iota
	KindFullText
)

func (k Kind) String() string {
	switch k {
	case KindFuzzy:
		return "fuzzy"
	case KindFullText:
		return "fulltext"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the backend names used by config and SEARCH_BACKEND.
// "nucleo" and "tantivy" are kept as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fuzzy", "nucleo":
		return KindFuzzy, nil
	case "fulltext", "full-text", "tantivy":
		return KindFullText, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (want fuzzy or fulltext)", s)
	}
}

// BackendError wraps a failure of the selected backend.
type BackendError struct {
	Backend Kind
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Backend holds exactly one matcher, chosen at construction, and
// dispatches Index and Search to it.
type Backend struct {
	kind     Kind
	fuzzy    *fuzzy.Matcher
	fulltext *index.FullText

	added int
}

// NewFuzzyBackend wraps an incremental matcher.
func NewFuzzyBackend(m *fuzzy.Matcher) *Backend {
	return &Backend{kind: KindFuzzy, fuzzy: m}
}

// NewFullTextBackend wraps a full-text matcher.
func NewFullTextBackend(f *index.FullText) *Backend {
	return &Backend{kind: KindFullText, fulltext: f}
}

// NewBackend builds the backend cfg selects. indexDir is where the
// full-text backend keeps its index.
func NewBackend(cfg *Config, indexDir string, log *slog.Logger) (*Backend, error) {
	kind, err := ParseKind(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	switch kind {
	case KindFullText:
		opts := index.Options{
			Field:    cfg.FullText.Field,
			Distance: cfg.FullText.FuzzyDistance,
			Boost:    cfg.FullText.SubstringBoost,
			Limit:    cfg.MaxResults,
		}
		store := bbolt.NewStore(indexDir)
		return NewFullTextBackend(index.NewFullText(store, opts, log.With("component", "fulltext"))), nil
	default:
		opts := fuzzy.Options{
			Workers: cfg.Fuzzy.Workers,
			Tick:    cfg.Fuzzy.Tick,
			Limit:   cfg.MaxResults,
		}
		return NewFuzzyBackend(fuzzy.NewMatcher(opts, log.With("component", "fuzzy"))), nil
	}
}

// Kind reports which matcher is active.
func (b *Backend) Kind() Kind { return b.kind }

// Added returns how many entries the last Index call added. A full-text
// backend that reused an existing index reports zero.
func (b *Backend) Added() int { return b.added }

// Index feeds entries to the active matcher. Call once before Search.
func (b *Backend) Index(entries []ports.Entry) error {
	switch b.kind {
	case KindFullText:
		if err := b.fulltext.Index(entries); err != nil {
			return &BackendError{Backend: b.kind, Op: "index", Err: err}
		}
		b.added = b.fulltext.Added()
	default:
		b.fuzzy.Index(entries)
		b.added = len(entries)
	}
	return nil
}

// Search returns up to 50 results for query, best first. The empty query
// returns an empty slice without consulting the matcher.
func (b *Backend) Search(query string) ([]ports.Result, error) {
	if query == "" {
		return []ports.Result{}, nil
	}
	switch b.kind {
	case KindFullText:
		results, err := b.fulltext.Search(query)
		if err != nil {
			return nil, &BackendError{Backend: b.kind, Op: "search", Err: err}
		}
		return results, nil
	default:
		return b.fuzzy.Search(query), nil
	}
}

// Close releases the active matcher.
func (b *Backend) Close() error {
	switch b.kind {
	case KindFullText:
		return b.fulltext.Close()
	default:
		b.fuzzy.Close()
		return nil
	}
}

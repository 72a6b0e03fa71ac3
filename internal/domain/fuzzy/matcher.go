// Package fuzzy implements the incremental in-memory matcher used while the
// user types. Each keystroke re-runs the query; when the new query extends
// the previous one only the previous matches are rescored.
package fuzzy

import (
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/corey/emojipick/internal/ports"
)

// Options tunes the matcher.
type Options struct {
	Workers int           // concurrent scoring goroutines; 0 means GOMAXPROCS
	Tick    time.Duration // how long one Tick waits for the scan
	Limit   int           // max results
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.GOMAXPROCS(0),
		Tick:    10 * time.Millisecond,
		Limit:   ports.MaxResults,
	}
}

// Matcher is the incremental fuzzy search backend.
type Matcher struct {
	opts   Options
	items  *itemStore
	worker *worker
	log    *slog.Logger

	mu          sync.Mutex
	prevQuery   string
	prevResults []ports.Result
}

// NewMatcher returns an empty matcher. Zero-valued options fall back to
// DefaultOptions.
func NewMatcher(opts Options, log *slog.Logger) *Matcher {
	def := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.Tick <= 0 {
		opts.Tick = def.Tick
	}
	if opts.Limit <= 0 || opts.Limit > ports.MaxResults {
		opts.Limit = def.Limit
	}
	if log == nil {
		log = slog.Default()
	}
	items := &itemStore{}
	return &Matcher{
		opts:   opts,
		items:  items,
		worker: newWorker(items, opts.Workers),
		log:    log,
	}
}

// Options returns the effective tuning.
func (m *Matcher) Options() Options { return m.opts }

// Injector returns a handle for pushing entries.
func (m *Matcher) Injector() *Injector {
	return &Injector{store: m.items}
}

// Index pushes every entry in order. Duplicates are kept.
func (m *Matcher) Index(entries []ports.Entry) {
	inj := m.Injector()
	for _, e := range entries {
		inj.Push(e)
	}
	m.log.Debug("entries injected", "count", len(entries), "total", inj.Len())
}

// Search returns up to Limit items matching query, best first. Repeating
// a query, or extending it so that the ranked set does not move, returns
// the previous result sequence.
func (m *Matcher) Search(query string) []ports.Result {
	if query == "" {
		return []ports.Result{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	appending := m.prevQuery != "" &&
		strings.HasPrefix(query, m.prevQuery) &&
		ParsePattern(m.prevQuery).Appendable()
	m.worker.reparse(ParsePattern(query), appending)

	changed := false
	for {
		st := m.worker.tick(m.opts.Tick)
		changed = changed || st.Changed
		if !st.Running {
			break
		}
	}
	m.prevQuery = query

	if changed || m.prevResults == nil {
		matches := m.worker.snapshot()
		n := min(len(matches), m.opts.Limit)
		results := make([]ports.Result, n)
		for i := 0; i < n; i++ {
			results[i] = m.items.at(matches[i].idx).Result
		}
		m.prevResults = results
		m.log.Debug("search", "query", query, "append", appending, "matches", len(matches))
	}

	out := make([]ports.Result, len(m.prevResults))
	copy(out, m.prevResults)
	return out
}

// Close stops any scan in flight.
func (m *Matcher) Close() {
	m.worker.stop()
}

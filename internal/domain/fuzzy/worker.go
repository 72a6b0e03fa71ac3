package fuzzy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/junegunn/fzf/src/util"
	"golang.org/x/sync/errgroup"
)

const (
	chunkSize = 1024

	// Scratch sizes per scoring goroutine, as fzf allocates them.
	slab16Size = 100 * 1024
	slab32Size = 2048
)

var slabPool = sync.Pool{
	New: func() any { return util.MakeSlab(slab16Size, slab32Size) },
}

// Status is reported by Tick.
type Status struct {
	// Running is true while a scan is still in progress.
	Running bool
	// Changed is true when the finished scan produced a different ranked
	// set than the previous snapshot.
	Changed bool
}

type match struct {
	idx   uint32
	score int
}

// job is one background scan.
type job struct {
	cancel  context.CancelFunc
	done    chan struct{}
	matches []match
	upto    int
	err     error
}

// worker scores items against the current pattern on a background
// goroutine pool. The last finished scan is kept as the snapshot.
type worker struct {
	items   *itemStore
	workers int

	mu        sync.Mutex
	pattern   *Pattern
	dirty     bool
	appending bool
	job       *job
	matches   []match
	scanned   int
}

func newWorker(items *itemStore, workers int) *worker {
	if workers < 1 {
		workers = 1
	}
	return &worker{items: items, workers: workers, pattern: &Pattern{}}
}

// reparse installs a new pattern. When appending, the next scan only
// revisits the previous matches plus items injected since the last scan.
func (w *worker) reparse(p *Pattern, appending bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.job != nil {
		// The snapshot no longer tracks the pattern being extended.
		w.job.cancel()
		w.job = nil
		appending = false
	}
	w.pattern = p
	w.dirty = true
	w.appending = appending
}

// tick starts a scan if there is work and waits up to timeout for it.
func (w *worker) tick(timeout time.Duration) Status {
	w.mu.Lock()
	if w.job == nil {
		w.startLocked()
	}
	j := w.job
	w.mu.Unlock()
	if j == nil {
		return Status{}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-j.done:
	case <-timer.C:
		return Status{Running: true}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.job != j {
		return Status{Running: true}
	}
	w.job = nil
	if j.err != nil {
		return Status{}
	}
	changed := !sameOrder(w.matches, j.matches)
	w.matches = j.matches
	w.scanned = j.upto
	return Status{Changed: changed}
}

// startLocked launches a scan when the pattern changed or new items
// arrived. Caller holds w.mu.
func (w *worker) startLocked() {
	items := w.items.snapshot()
	n := len(items)
	if !w.dirty && n == w.scanned {
		return
	}

	var base []match
	var candidates []uint32
	switch {
	case w.dirty && !w.appending:
		candidates = make([]uint32, n)
		for i := range candidates {
			candidates[i] = uint32(i)
		}
	case w.dirty:
		candidates = make([]uint32, 0, len(w.matches)+n-w.scanned)
		for _, m := range w.matches {
			candidates = append(candidates, m.idx)
		}
		for i := w.scanned; i < n; i++ {
			candidates = append(candidates, uint32(i))
		}
	default:
		// Same pattern: only score the new items and merge.
		base = w.matches
		candidates = make([]uint32, 0, n-w.scanned)
		for i := w.scanned; i < n; i++ {
			candidates = append(candidates, uint32(i))
		}
	}
	w.dirty = false

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, done: make(chan struct{}), upto: n}
	w.job = j
	pattern := w.pattern
	workers := w.workers

	go func() {
		defer close(j.done)
		defer cancel()
		found, err := scan(ctx, pattern, items, candidates, workers)
		if err != nil {
			j.err = err
			return
		}
		if len(base) > 0 {
			found = append(append(make([]match, 0, len(base)+len(found)), base...), found...)
		}
		rank(found)
		j.matches = found
	}()
}

// stop cancels any scan in flight.
func (w *worker) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.job != nil {
		w.job.cancel()
		w.job = nil
	}
}

// snapshot returns the ranked matches of the last finished scan.
func (w *worker) snapshot() []match {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.matches
}

// scan scores candidates in fixed-size chunks, at most workers at a time.
// Chunk results are concatenated in candidate order.
func scan(ctx context.Context, p *Pattern, items []*Item, candidates []uint32, workers int) ([]match, error) {
	chunks := (len(candidates) + chunkSize - 1) / chunkSize
	out := make([][]match, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		lo := c * chunkSize
		hi := min(lo+chunkSize, len(candidates))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slab := slabPool.Get().(*util.Slab)
			defer slabPool.Put(slab)

			var found []match
			for _, idx := range candidates[lo:hi] {
				if score, ok := p.Score(items[idx], slab); ok {
					found = append(found, match{idx: idx, score: score})
				}
			}
			out[c] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, part := range out {
		total += len(part)
	}
	all := make([]match, 0, total)
	for _, part := range out {
		all = append(all, part...)
	}
	return all, nil
}

// rank orders by score descending, then insertion index ascending.
func rank(ms []match) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].score != ms[j].score {
			return ms[i].score > ms[j].score
		}
		return ms[i].idx < ms[j].idx
	})
}

func sameOrder(a, b []match) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].idx != b[i].idx {
			return false
		}
	}
	return true
}

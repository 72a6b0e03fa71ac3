package fuzzy

import (
	"sync"

	"github.com/corey/emojipick/internal/domain/corpus"
	"github.com/corey/emojipick/internal/ports"
	"github.com/junegunn/fzf/src/util"
)

// Columns searched for every item, in this order.
const (
	colName = iota
	colCode
	colShortName
	colCategory
	colSubcategory
	numColumns
)

// Item is one injected entry with its match columns prepared.
type Item struct {
	Index  uint32
	Result ports.Result
	cols   [numColumns]util.Chars
}

func newItem(idx uint32, e ports.Entry) *Item {
	it := &Item{Index: idx, Result: corpus.Project(e)}
	it.cols[colName] = util.ToChars([]byte(e.Name))
	it.cols[colCode] = util.ToChars([]byte(e.Unified))
	it.cols[colShortName] = util.ToChars([]byte(e.ShortName))
	it.cols[colCategory] = util.ToChars([]byte(e.Category))
	it.cols[colSubcategory] = util.ToChars([]byte(e.Subcategory))
	return it
}

// itemStore is append-only. Items are never removed or reordered, so a
// prefix taken under the read lock stays valid.
type itemStore struct {
	mu    sync.RWMutex
	items []*Item
}

func (s *itemStore) push(e ports.Entry) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := uint32(len(s.items))
	s.items = append(s.items, newItem(idx, e))
	return idx
}

func (s *itemStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *itemStore) at(idx uint32) *Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[idx]
}

func (s *itemStore) snapshot() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[:len(s.items):len(s.items)]
}

// Injector feeds entries into a Matcher. Safe for concurrent use; new
// items become visible to the next Search.
type Injector struct {
	store *itemStore
}

// Push appends e and returns its insertion index.
func (in *Injector) Push(e ports.Entry) uint32 {
	return in.store.push(e)
}

// Len returns the number of injected items.
func (in *Injector) Len() int {
	return in.store.len()
}

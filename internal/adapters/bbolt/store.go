// Package bbolt implements the ports.IndexStore interface using bbolt
// (embedded B+ tree). One index lives in one directory: index.db holds the
// schema, stored documents and one term sub-bucket per indexed field, and
// meta.json marks a completed build. Writes are transactional; a crash
// before Commit leaves no marker and the next start rebuilds.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/corey/emojipick/internal/ports"
	bolt "go.etcd.io/bbolt"
)

const (
	// DBFile is the bbolt database inside the index directory.
	DBFile = "index.db"
	// MarkerFile signals that the index was committed.
	MarkerFile = "meta.json"

	formatVersion = 1
)

// Bucket keys
var (
	bucketSchema = []byte("schema")
	bucketDocs   = []byte("docs")
	bucketTerms  = []byte("terms")
	keySchema    = []byte("schema")
	keyNumDocs   = []byte("num_docs")
)

// Marker is the content of meta.json.
type Marker struct {
	Format    int          `json:"format"`
	Schema    ports.Schema `json:"schema"`
	NumDocs   int          `json:"num_docs"`
	CreatedAt int64        `json:"created_at"`
}

// Store implements ports.IndexStore backed by bbolt.
// The database file is opened lazily on first Create or Reader call.
type Store struct {
	dir string

	mu sync.Mutex
	db *bolt.DB
}

// NewStore returns a store rooted at dir. Nothing is touched on disk.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the index directory.
func (s *Store) Dir() string { return s.dir }

// Exists reports whether the marker file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, MarkerFile))
	return err == nil
}

// ReadMarker loads meta.json.
func (s *Store) ReadMarker() (*Marker, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, MarkerFile))
	if err != nil {
		return nil, err
	}
	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse marker: %w", err)
	}
	return &m, nil
}

// Create lays out a fresh index. Any half-built database left by a crashed
// build is discarded first.
func (s *Store) Create(schema ports.Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("close stale db: %w", err)
		}
		s.db = nil
	}
	if err := os.Remove(filepath.Join(s.dir, DBFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale db: %w", err)
	}

	db, err := openDB(filepath.Join(s.dir, DBFile))
	if err != nil {
		return err
	}
	s.db = db

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	return db.Update(func(tx *bolt.Tx) error {
		sb, err := tx.CreateBucket(bucketSchema)
		if err != nil {
			return err
		}
		if err := sb.Put(keySchema, schemaJSON); err != nil {
			return err
		}
		if _, err := tx.CreateBucket(bucketDocs); err != nil {
			return err
		}
		tb, err := tx.CreateBucket(bucketTerms)
		if err != nil {
			return err
		}
		for _, f := range schema.Fields {
			if !f.Indexed {
				continue
			}
			if _, err := tb.CreateBucket([]byte(f.Name)); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
		return nil
	})
}

// Writer begins the writable transaction that fills the index.
// Create must have been called first.
func (s *Store) Writer() (ports.IndexWriter, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("index not created")
	}

	tx, err := db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("begin write tx: %w", err)
	}
	return &writer{
		store:    s,
		tx:       tx,
		postings: make(map[string]map[string][]uint32),
	}, nil
}

// Reader opens a read-only snapshot of the committed index.
func (s *Store) Reader() (ports.IndexReader, error) {
	if !s.Exists() {
		return nil, ports.ErrIndexNotBuilt
	}

	s.mu.Lock()
	if s.db == nil {
		db, err := openDB(filepath.Join(s.dir, DBFile))
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.db = db
	}
	db := s.db
	s.mu.Unlock()

	tx, err := db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("begin read tx: %w", err)
	}

	r := &reader{tx: tx}
	sb := tx.Bucket(bucketSchema)
	if sb == nil || tx.Bucket(bucketDocs) == nil || tx.Bucket(bucketTerms) == nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("corrupt index: missing bucket")
	}
	if v := sb.Get(keyNumDocs); v != nil {
		n, err := decodeCount(v)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("corrupt index: %w", err)
		}
		r.numDocs = int(n)
	}
	return r, nil
}

// Close closes the underlying bbolt database. Safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Wipe closes the database and removes the whole index directory.
// Idempotent: wiping a missing directory is not an error.
func (s *Store) Wipe() error {
	if err := s.Close(); err != nil {
		return err
	}
	return os.RemoveAll(s.dir)
}

func openDB(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return db, nil
}

// writeMarker writes meta.json via a temp file + rename so a crash never
// leaves a truncated marker behind.
func (s *Store) writeMarker(m Marker) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, MarkerFile+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(s.dir, MarkerFile))
}

// writer implements ports.IndexWriter. Postings are accumulated in memory
// and flushed in sorted order on Commit.
type writer struct {
	store    *Store
	tx       *bolt.Tx
	postings map[string]map[string][]uint32 // field -> term -> ids
	nextID   uint32
	done     bool
}

func (w *writer) AddDocument(doc ports.Document) (uint32, error) {
	if w.done {
		return 0, bolt.ErrTxClosed
	}
	docs := w.tx.Bucket(bucketDocs)
	if docs == nil {
		return 0, fmt.Errorf("docs bucket missing")
	}

	stored := doc.Stored
	if stored == nil {
		stored = map[string]string{}
	}
	data, err := encodeGob(stored)
	if err != nil {
		return 0, fmt.Errorf("encode doc: %w", err)
	}

	id := w.nextID
	if err := docs.Put(docKey(id), data); err != nil {
		return 0, err
	}

	for field, tokens := range doc.Indexed {
		terms := w.postings[field]
		if terms == nil {
			terms = make(map[string][]uint32)
			w.postings[field] = terms
		}
		for _, tok := range tokens {
			ids := terms[tok]
			// IDs arrive in ascending order; skip repeats within one doc.
			if n := len(ids); n > 0 && ids[n-1] == id {
				continue
			}
			terms[tok] = append(ids, id)
		}
	}

	w.nextID++
	return id, nil
}

func (w *writer) Commit() error {
	if w.done {
		return bolt.ErrTxClosed
	}
	w.done = true

	tb := w.tx.Bucket(bucketTerms)
	sb := w.tx.Bucket(bucketSchema)
	if tb == nil || sb == nil {
		_ = w.tx.Rollback()
		return fmt.Errorf("index buckets missing")
	}

	fields := make([]string, 0, len(w.postings))
	for f := range w.postings {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fb := tb.Bucket([]byte(field))
		if fb == nil {
			_ = w.tx.Rollback()
			return fmt.Errorf("field %q is not indexed", field)
		}
		terms := w.postings[field]
		keys := make([]string, 0, len(terms))
		for k := range terms {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, term := range keys {
			if err := fb.Put([]byte(term), encodePostings(terms[term])); err != nil {
				_ = w.tx.Rollback()
				return fmt.Errorf("put term %q: %w", term, err)
			}
		}
	}

	if err := sb.Put(keyNumDocs, encodeCount(w.nextID)); err != nil {
		_ = w.tx.Rollback()
		return err
	}

	var schema ports.Schema
	if err := json.Unmarshal(sb.Get(keySchema), &schema); err != nil {
		_ = w.tx.Rollback()
		return fmt.Errorf("read schema: %w", err)
	}

	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return w.store.writeMarker(Marker{
		Format:    formatVersion,
		Schema:    schema,
		NumDocs:   int(w.nextID),
		CreatedAt: time.Now().Unix(),
	})
}

func (w *writer) Rollback() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.tx.Rollback()
}

// reader implements ports.IndexReader over a bbolt read transaction.
type reader struct {
	tx      *bolt.Tx
	numDocs int
}

func (r *reader) fieldBucket(field string) (*bolt.Bucket, error) {
	fb := r.tx.Bucket(bucketTerms).Bucket([]byte(field))
	if fb == nil {
		return nil, fmt.Errorf("field %q is not indexed", field)
	}
	return fb, nil
}

func (r *reader) Terms(field string, fn func(term string) error) error {
	fb, err := r.fieldBucket(field)
	if err != nil {
		return err
	}
	c := fb.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		if err := fn(string(k)); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) Postings(field, term string) ([]uint32, error) {
	fb, err := r.fieldBucket(field)
	if err != nil {
		return nil, err
	}
	v := fb.Get([]byte(term))
	if v == nil {
		return nil, nil
	}
	ids, err := decodePostings(v)
	if err != nil {
		return nil, fmt.Errorf("term %q: %w", term, err)
	}
	return ids, nil
}

func (r *reader) Document(id uint32) (map[string]string, error) {
	v := r.tx.Bucket(bucketDocs).Get(docKey(id))
	if v == nil {
		return nil, fmt.Errorf("doc %d: %w", id, ports.ErrDocumentNotFound)
	}
	var fields map[string]string
	if err := decodeGob(v, &fields); err != nil {
		return nil, fmt.Errorf("decode doc %d: %w", id, err)
	}
	return fields, nil
}

func (r *reader) NumDocs() int { return r.numDocs }

func (r *reader) Close() error {
	return r.tx.Rollback()
}

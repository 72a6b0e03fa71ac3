package ports

// IndexStore persists a full-text index to durable storage.
// The backing store (bbolt) lives in a single directory. A marker file in that
// directory signals a completed build; Exists reports it.
//
// Crash safety: documents are written inside one transaction. A crash before
// Commit leaves no marker, so the next start rebuilds from scratch.
type IndexStore interface {
	// Exists reports whether a committed index is present on disk.
	Exists() bool

	// Create lays out a new, empty index with the given schema.
	Create(schema Schema) error

	// Writer opens the single writable transaction used to fill a new index.
	Writer() (IndexWriter, error)

	// Reader opens a point-in-time snapshot. Writers committed after the
	// snapshot was taken are not visible through it.
	Reader() (IndexReader, error)

	// Close releases the underlying database handle.
	Close() error
}

// IndexWriter adds documents to an index. Nothing is visible to readers
// until Commit returns.
type IndexWriter interface {
	// AddDocument stores doc and returns its document ID. IDs are assigned
	// in insertion order starting at 0.
	AddDocument(doc Document) (uint32, error)

	// Commit flushes postings, commits the transaction and writes the marker.
	Commit() error

	// Rollback discards everything written so far. Safe after Commit.
	Rollback() error
}

// IndexReader is a read snapshot of a committed index.
type IndexReader interface {
	// Terms calls fn for every distinct term of field, in byte order.
	// Iteration stops at the first error returned by fn.
	Terms(field string, fn func(term string) error) error

	// Postings returns the ascending document IDs containing term in field.
	Postings(field, term string) ([]uint32, error)

	// Document returns the stored fields of a document.
	// Returns ErrDocumentNotFound if id is unknown.
	Document(id uint32) (map[string]string, error)

	// NumDocs returns the number of committed documents.
	NumDocs() int

	// Close ends the snapshot.
	Close() error
}

// Schema lists the fields of an index.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Field describes one schema field. Indexed fields feed the term dictionary;
// stored fields are returned verbatim on retrieval.
type Field struct {
	Name    string `json:"name"`
	Indexed bool   `json:"indexed"`
	Stored  bool   `json:"stored"`
}

// Has reports whether the schema defines a field with the given name.
func (s Schema) Has(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Document is the indexed form of one Entry.
type Document struct {
	Stored  map[string]string   // field -> stored value
	Indexed map[string][]string // field -> tokens
}

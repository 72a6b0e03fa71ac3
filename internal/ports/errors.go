package ports

import "errors"

var (
	// ErrIndexNotBuilt is returned by IndexStore.Reader when no committed
	// index exists on disk.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrDocumentNotFound is returned by IndexReader.Document for unknown IDs.
	ErrDocumentNotFound = errors.New("document not found")
)

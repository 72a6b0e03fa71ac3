// Package corpus loads the emoji corpus and derives the per-record values
// that both search backends index: the output glyph and the composite
// keyword blob.
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corey/emojipick/internal/ports"
)

// Load decodes a JSON array of entries. Order is preserved and duplicate
// symbols are kept.
func Load(r io.Reader) ([]ports.Entry, error) {
	var entries []ports.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return entries, nil
}

// LoadFile reads the corpus at path.
func LoadFile(path string) ([]ports.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	entries, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Keywords builds the composite searchable text of an entry: display name,
// every short-name alias, category and subcategory, whitespace-joined.
// Empty parts are dropped so the blob never carries double spaces.
func Keywords(e ports.Entry) string {
	parts := make([]string, 0, 3+len(e.ShortNames))
	parts = append(parts, e.Name)
	parts = append(parts, e.ShortNames...)
	parts = append(parts, e.Category, e.Subcategory)

	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Project converts an entry to the result projection returned to callers.
func Project(e ports.Entry) ports.Result {
	return ports.Result{
		Symbol:    DeriveSymbol(e.Unified),
		Name:      e.Name,
		ShortName: e.ShortName,
		Category:  e.Category,
	}
}

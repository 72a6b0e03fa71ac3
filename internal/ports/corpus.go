// Package ports defines the interfaces (contracts) that adapters must implement
// and the records that cross those boundaries. Domain logic depends only on
// these types, never on concrete adapters.
package ports

// MaxResults caps every search result set, regardless of corpus size.
const MaxResults = 50

// Entry is one corpus record as shipped in the emoji-data JSON file.
// Entries are loaded once and never mutated. Symbols may repeat across
// entries with different metadata; duplicates are kept.
type Entry struct {
	Unified     string   `json:"unified"`     // code-point identifier ("1F600", "1F1FA-1F1F8") or literal glyph
	Name        string   `json:"name"`        // display name
	ShortName   string   `json:"short_name"`  // primary short name
	ShortNames  []string `json:"short_names"` // all short-name aliases
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
}

// Result is the read-only projection handed back to callers.
// A fresh slice of Results is allocated on every successful search.
type Result struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Category  string `json:"category"`
}

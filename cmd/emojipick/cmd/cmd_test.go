package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/emojipick/internal/ports"
)

type fixedSearcher struct {
	results []ports.Result
	err     error
}

func (f fixedSearcher) Search(string) ([]ports.Result, error) { return f.results, f.err }

func TestLucky_PrintsTopGlyph(t *testing.T) {
	var out bytes.Buffer
	s := fixedSearcher{results: []ports.Result{{Symbol: "🐱"}, {Symbol: "🐈"}}}
	require.NoError(t, lucky(s, "cat", &out))
	assert.Equal(t, "🐱", out.String(), "no trailing newline, so $(emojipick --lucky cat) embeds cleanly")
}

func TestLucky_NoResults(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, lucky(fixedSearcher{}, "zzz", &out))
	assert.Equal(t, "No emojis found for 'zzz'", out.String())
}

func TestLucky_SearchError(t *testing.T) {
	var out bytes.Buffer
	err := lucky(fixedSearcher{err: errors.New("boom")}, "cat", &out)
	assert.EqualError(t, err, "boom")
	assert.Empty(t, out.String())
}

func TestFormatResults(t *testing.T) {
	results := []ports.Result{
		{Symbol: "🐱", Name: "CAT FACE", ShortName: "cat", Category: "Animals & Nature"},
		{Symbol: "🐈", Name: "CAT"},
	}
	got := formatResults(results, "fuzzy", 1500*time.Microsecond, false)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "⚡ 2 hits │ fuzzy │ 1.5ms", lines[0])
	assert.Equal(t, "  🐱  CAT FACE  :cat:  Animals & Nature", lines[1])
	assert.Equal(t, "  🐈  CAT", lines[2])

	colored := formatResults(results, "fuzzy", time.Millisecond, true)
	assert.Contains(t, colored, colorCyan+"CAT FACE"+colorReset)
}

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.False(t, isDBLockError(errors.New("open corpus: no such file")))
	assert.True(t, isDBLockError(fmt.Errorf("fulltext backend: search: %w", errors.New("bbolt open: timeout"))))
}

func TestResolveColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.True(t, resolveColor("always"))
	assert.False(t, resolveColor("never"))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, resolveColor("auto"))
	assert.True(t, resolveColor("always"))
}

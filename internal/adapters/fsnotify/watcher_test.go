package fsnotify

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Corpus watcher — one debounced callback per burst of changes to one file
// =============================================================================

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func startWatcher(t *testing.T, file string) (*Watcher, chan struct{}) {
	t.Helper()
	w, err := NewWatcher(20 * time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan struct{}, 10)
	require.NoError(t, w.Watch(file, func() { changed <- struct{}{} }))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "emoji.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0644))

	_, changed := startWatcher(t, corpus)

	require.NoError(t, os.WriteFile(corpus, []byte(`[{"name":"X"}]`), 0644))
	assert.True(t, waitForCallback(changed, 2*time.Second), "expected callback for file change")
}

func TestWatcher_DetectsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "emoji.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0644))

	_, changed := startWatcher(t, corpus)

	tmp := filepath.Join(dir, "emoji.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`[{"name":"Y"}]`), 0644))
	require.NoError(t, os.Rename(tmp, corpus))
	assert.True(t, waitForCallback(changed, 2*time.Second), "expected callback for rename over file")
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "emoji.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0644))

	_, changed := startWatcher(t, corpus)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	assert.False(t, waitForCallback(changed, 300*time.Millisecond), "sibling file must not trigger")
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "emoji.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0644))

	w, err := NewWatcher(150 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var calls atomic.Int32
	require.NoError(t, w.Watch(corpus, func() { calls.Add(1) }))
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_NoCallbackAfterStop(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "emoji.json")
	require.NoError(t, os.WriteFile(corpus, []byte("[]"), 0644))

	w, changed := startWatcher(t, corpus)
	require.NoError(t, w.Stop())

	require.NoError(t, os.WriteFile(corpus, []byte("[1]"), 0644))
	assert.False(t, waitForCallback(changed, 200*time.Millisecond))
}

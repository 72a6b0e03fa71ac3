// Package app wires together adapters and domain logic.
// It owns the selected search backend, its metrics and corpus reloads.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/corey/emojipick/internal/adapters/bbolt"
	"github.com/corey/emojipick/internal/domain/corpus"
	"github.com/corey/emojipick/internal/logger"
	"github.com/corey/emojipick/internal/metrics"
	"github.com/corey/emojipick/internal/ports"
)

// App is one configured emoji search session.
type App struct {
	Config  *Config
	Paths   *Paths
	Metrics *metrics.Metrics

	log        *slog.Logger
	indexDir   string
	newBackend func(cfg *Config, indexDir string, log *slog.Logger) (*Backend, error)

	mu      sync.RWMutex
	backend *Backend
	entries int
	loaded  time.Time
}

// New validates cfg and creates the backend it selects. Nothing is
// indexed until Load.
func New(cfg *Config, paths *Paths) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if paths == nil {
		return nil, fmt.Errorf("paths required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	indexDir := cfg.IndexDir
	if indexDir == "" {
		indexDir = paths.IndexDir
	}

	log := logger.WithComponent("app")
	backend, err := NewBackend(cfg, indexDir, slog.Default())
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Paths:      paths,
		Metrics:    metrics.New(),
		log:        log,
		indexDir:   indexDir,
		newBackend: NewBackend,
		backend:    backend,
	}, nil
}

// IndexDir is where the full-text index lives.
func (a *App) IndexDir() string { return a.indexDir }

// Kind reports the active backend.
func (a *App) Kind() Kind {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.backend.Kind()
}

// Entries returns the number of corpus entries loaded.
func (a *App) Entries() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.entries
}

// LoadedAt returns when the corpus was last indexed.
func (a *App) LoadedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loaded
}

// Load reads the configured corpus and indexes it.
func (a *App) Load() error {
	entries, err := corpus.LoadFile(a.Config.Corpus)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.indexLocked(a.backend, entries)
}

func (a *App) indexLocked(b *Backend, entries []ports.Entry) error {
	start := time.Now()
	if err := b.Index(entries); err != nil {
		return err
	}
	a.recordLocked(b.Kind(), len(entries), b.Added(), time.Since(start))
	return nil
}

func (a *App) recordLocked(kind Kind, entries, added int, elapsed time.Duration) {
	a.entries = entries
	a.loaded = time.Now()
	a.Metrics.ObserveIndex(kind.String(), added)
	a.log.Info("corpus indexed",
		"backend", kind.String(),
		"entries", entries,
		"added", added,
		"elapsed", elapsed)
}

// Search queries the active backend and records metrics.
func (a *App) Search(query string) ([]ports.Result, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	start := time.Now()
	results, err := a.backend.Search(query)
	if query != "" {
		a.Metrics.ObserveSearch(a.backend.Kind().String(), len(results), err, time.Since(start))
	}
	return results, err
}

// Reload re-reads the corpus and swaps in a freshly indexed backend.
// On any failure the current backend keeps serving.
func (a *App) Reload() error {
	entries, err := corpus.LoadFile(a.Config.Corpus)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.backend.Kind() == KindFullText {
		return a.reloadFullTextLocked(entries)
	}

	next, err := a.newBackend(a.Config, a.indexDir, slog.Default())
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if err := a.indexLocked(next, entries); err != nil {
		next.Close()
		return fmt.Errorf("reload: %w", err)
	}
	a.backend.Close()
	a.backend = next
	return nil
}

// reloadFullTextLocked builds the new index in a staging directory next to
// the live one and moves it into place only after it committed. An existing
// index is otherwise reused as is, so the live one cannot be rebuilt in place.
func (a *App) reloadFullTextLocked(entries []ports.Entry) error {
	start := time.Now()
	staging := a.indexDir + ".new"
	if err := bbolt.NewStore(staging).Wipe(); err != nil {
		return fmt.Errorf("reload: clear staging index: %w", err)
	}

	built, err := a.newBackend(a.Config, staging, slog.Default())
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if err := built.Index(entries); err != nil {
		built.Close()
		bbolt.NewStore(staging).Wipe()
		return fmt.Errorf("reload: %w", err)
	}
	added := built.Added()
	if err := built.Close(); err != nil {
		return fmt.Errorf("reload: close staging index: %w", err)
	}

	// The live handle holds the bbolt file lock; a closed store reopens
	// lazily on its next read, so it still serves if the swap fails.
	if err := a.backend.Close(); err != nil {
		a.log.Warn("close backend", "err", err)
	}
	if err := swapDir(staging, a.indexDir); err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	next, err := a.newBackend(a.Config, a.indexDir, slog.Default())
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if err := next.Index(entries); err != nil {
		next.Close()
		return fmt.Errorf("reload: %w", err)
	}
	a.backend = next
	a.recordLocked(next.Kind(), len(entries), added, time.Since(start))
	return nil
}

// swapDir replaces dst with src. dst is restored if src cannot be moved in.
func swapDir(src, dst string) error {
	old := dst + ".old"
	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("clear %s: %w", old, err)
	}
	if err := os.Rename(dst, old); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("move aside %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		os.Rename(old, dst)
		return fmt.Errorf("move %s into place: %w", src, err)
	}
	return os.RemoveAll(old)
}

// Close releases the backend.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.backend.Close()
}

// Health reports the active backend and corpus state.
func (a *App) Health() ports.Health {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return ports.Health{
		Backend:  a.backend.Kind().String(),
		Entries:  a.entries,
		LoadedAt: a.loaded,
	}
}

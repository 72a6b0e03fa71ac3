package app

import (
	"github.com/corey/emojipick/internal/ports"
)

// Watch reloads the corpus whenever its file changes. The watcher is
// owned by the caller.
func (a *App) Watch(w ports.Watcher) error {
	return w.Watch(a.Config.Corpus, a.onCorpusChanged)
}

// onCorpusChanged handles a debounced write to the corpus file. A failed
// reload keeps serving from whatever backend is current.
func (a *App) onCorpusChanged() {
	if err := a.Reload(); err != nil {
		a.log.Error("corpus reload failed", "corpus", a.Config.Corpus, "err", err)
		return
	}
	a.log.Info("corpus reloaded", "corpus", a.Config.Corpus, "entries", a.Entries())
}

package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .emojipick/ directory.
type Paths struct {
	Root   string // .emojipick/
	Config string // .emojipick/config.yaml

	IndexDir string // .emojipick/index/

	LogDir string // .emojipick/log/
	Log    string // .emojipick/log/emojipick.log
}

// NewPaths constructs all resolved paths from a base directory.
func NewPaths(base string) *Paths {
	root := filepath.Join(base, ".emojipick")
	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),

		IndexDir: filepath.Join(root, "index"),

		LogDir: filepath.Join(root, "log"),
		Log:    filepath.Join(root, "log", "emojipick.log"),
	}
}

// EnsureDirs creates the directories under .emojipick/ that are not owned
// by the index store. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// OpenLog opens the log file for appending, creating directories as needed.
func (p *Paths) OpenLog() (*os.File, error) {
	if err := p.EnsureDirs(); err != nil {
		return nil, err
	}
	return os.OpenFile(p.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

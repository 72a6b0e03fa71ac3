package ports

// Watcher monitors the corpus file for changes and triggers a reload.
// The adapter (fsnotify) watches the parent directory so that editors which
// save by rename-and-replace are still observed. Only one Watch call should be
// active at a time.
type Watcher interface {
	// Watch starts monitoring filePath. onChange is called once per burst of
	// writes (debounced). The callback may be invoked from any goroutine.
	// Returns an error if the parent directory doesn't exist or permissions
	// are insufficient.
	Watch(filePath string, onChange func()) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}

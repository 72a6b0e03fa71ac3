package cmd

import "strings"

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns guidance for a full-text index held by another
// process.
func diagnoseDBLock() string {
	return "the full-text index is locked by another process\n" +
		"  → a running 'emojipick serve' holds it open\n" +
		"  → find the process:  ps aux | grep emojipick\n" +
		"  → stop it, or use --backend fuzzy"
}

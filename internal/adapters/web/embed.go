// Package web serves emoji search and a minimal search page over HTTP.
// It binds to localhost by default and has no auth.
package web

import "embed"

//go:embed static/index.html
var staticFS embed.FS

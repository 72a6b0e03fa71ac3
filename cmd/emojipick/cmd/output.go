package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/emojipick/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// formatResults formats search results for terminal display.
//
//	⚡ 3 hits │ fuzzy │ 1.2ms
//	  🐱  CAT FACE  :cat:  Animals & Nature
func formatResults(results []ports.Result, backend string, elapsed time.Duration, color bool) string {
	paint := func(code, s string) string {
		if !color || s == "" {
			return s
		}
		return code + s + colorReset
	}

	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d hits", len(results))))
	sb.WriteString(fmt.Sprintf(" │ %s │ %s\n", backend, elapsed.Round(time.Microsecond)))

	for _, r := range results {
		sb.WriteString(fmt.Sprintf("  %s  %s", r.Symbol, paint(colorCyan, r.Name)))
		if r.ShortName != "" {
			sb.WriteString("  " + paint(colorGreen, ":"+r.ShortName+":"))
		}
		if r.Category != "" {
			sb.WriteString("  " + paint(colorGray, r.Category))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

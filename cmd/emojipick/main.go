// emojipick is an interactive emoji picker.
// Type to search, Enter prints the chosen glyph to stdout.
package main

import (
	"os"

	"github.com/corey/emojipick/cmd/emojipick/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

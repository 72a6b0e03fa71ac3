package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/emojipick/internal/adapters/bbolt"
	"github.com/corey/emojipick/internal/app"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the full-text index",
	Long:  "Builds the persisted full-text index from the corpus. An existing index is reused unless --force.",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "Discard any existing index and rebuild")
}

func runIndex(cmd *cobra.Command, args []string) error {
	backendFlag = app.KindFullText.String()

	if indexForce {
		paths := app.NewPaths(baseDir())
		cfg, err := resolveConfig(paths)
		if err != nil {
			return err
		}
		dir := cfg.IndexDir
		if dir == "" {
			dir = paths.IndexDir
		}
		if err := bbolt.NewStore(dir).Wipe(); err != nil {
			return fmt.Errorf("wipe index: %w", err)
		}
	}

	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	marker, err := bbolt.NewStore(a.IndexDir()).ReadMarker()
	if err != nil {
		return fmt.Errorf("read index marker: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s⚡ index ready%s │ %d docs │ %s\n",
		colorBold, colorReset, marker.NumDocs, a.IndexDir())
	return nil
}

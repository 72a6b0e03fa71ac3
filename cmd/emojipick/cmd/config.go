package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/emojipick/internal/adapters/bbolt"
	"github.com/corey/emojipick/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long:  "Shows paths, index state and the effective config after file, env and flags.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := app.NewPaths(baseDir())
	cfg, err := resolveConfig(paths)
	if err != nil {
		return err
	}
	indexDir := cfg.IndexDir
	if indexDir == "" {
		indexDir = paths.IndexDir
	}

	indexStatus := fmt.Sprintf("%s✗ not built%s", colorYellow, colorReset)
	if marker, err := bbolt.NewStore(indexDir).ReadMarker(); err == nil {
		indexStatus = fmt.Sprintf("%s✓ %d docs%s", colorGreen, marker.NumDocs, colorReset)
	}

	validity := fmt.Sprintf("%s✓ valid%s", colorGreen, colorReset)
	if err := cfg.Validate(); err != nil {
		validity = fmt.Sprintf("%s✗ %v%s", colorYellow, err, colorReset)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s⚡ emojipick config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Config:   %s\n", paths.Config)
	fmt.Fprintf(out, "  Corpus:   %s\n", cfg.Corpus)
	fmt.Fprintf(out, "  Index:    %s (%s)\n", indexDir, indexStatus)
	fmt.Fprintf(out, "  Log:      %s\n", paths.Log)
	fmt.Fprintf(out, "  Status:   %s\n\n", validity)

	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

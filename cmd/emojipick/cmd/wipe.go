package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/emojipick/internal/adapters/bbolt"
	"github.com/corey/emojipick/internal/app"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the full-text index",
	Long:  "Removes the persisted full-text index. The next fulltext search rebuilds it.",
	Args:  cobra.NoArgs,
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	paths := app.NewPaths(baseDir())
	cfg, err := resolveConfig(paths)
	if err != nil {
		return err
	}
	dir := cfg.IndexDir
	if dir == "" {
		dir = paths.IndexDir
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ no index to wipe")
		return nil
	}

	if !wipeForce {
		fmt.Fprintf(cmd.OutOrStdout(), "⚠ This will delete %s. Continue? [y/N] ", dir)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
	}

	if err := bbolt.NewStore(dir).Wipe(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "⚡ index wiped")
	return nil
}

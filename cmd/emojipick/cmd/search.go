package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/emojipick/internal/ports"
)

var (
	searchJSON  bool
	searchLimit int
	searchColor string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List matching emoji without the picker",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", ports.MaxResults, "Maximum results to print")
	searchCmd.Flags().StringVar(&searchColor, "color", "auto", "Colorize output: auto, always, never")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	results, err := a.Search(args[0])
	if err != nil {
		return err
	}
	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	fmt.Fprint(out, formatResults(results, a.Kind().String(), time.Since(start), resolveColor(searchColor)))
	return nil
}

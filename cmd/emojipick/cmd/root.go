package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/corey/emojipick/internal/adapters/tui"
	"github.com/corey/emojipick/internal/app"
	"github.com/corey/emojipick/internal/logger"
	"github.com/corey/emojipick/internal/ports"
)

var (
	configPath  string
	backendFlag string
	corpusFlag  string
	indexFlag   string
	levelFlag   string
	luckyFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "emojipick [query]",
	Short: "emojipick — fuzzy emoji picker",
	Long: "Type to search emoji by name, short name, category or code point.\n" +
		"Enter prints the selected glyph; Esc or Ctrl-C cancels.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPick,
}

// baseDir returns the directory holding .emojipick/ (cwd).
func baseDir() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if isDBLockError(err) {
			fmt.Fprintln(os.Stderr, diagnoseDBLock())
		}
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default .emojipick/config.yaml)")
	pf.StringVar(&backendFlag, "backend", "", "search backend: fuzzy or fulltext")
	pf.StringVar(&corpusFlag, "corpus", "", "emoji corpus JSON file")
	pf.StringVar(&indexFlag, "index-dir", "", "full-text index directory")
	pf.StringVar(&levelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&luckyFlag, "lucky", false, "print the top hit for the query without opening the picker")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveConfig loads config.yaml and env, then applies flags.
func resolveConfig(paths *app.Paths) (*app.Config, error) {
	path := configPath
	if path == "" {
		path = paths.Config
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if corpusFlag != "" {
		cfg.Corpus = corpusFlag
	}
	if indexFlag != "" {
		cfg.IndexDir = indexFlag
	}
	if levelFlag != "" {
		cfg.Log.Level = levelFlag
	}
	return cfg, nil
}

// openApp resolves config, installs the logger on logTo and loads the
// corpus into the selected backend.
func openApp(logTo io.Writer) (*app.App, error) {
	paths := app.NewPaths(baseDir())
	cfg, err := resolveConfig(paths)
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format, logTo)

	a, err := app.New(cfg, paths)
	if err != nil {
		return nil, err
	}
	if err := a.Load(); err != nil {
		a.Close()
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return a, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	paths := app.NewPaths(baseDir())
	cfg, err := resolveConfig(paths)
	if err != nil {
		return err
	}

	if luckyFlag || cfg.Lucky {
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("lucky mode needs a query: emojipick --lucky <query>")
		}
		a, err := openApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()
		return lucky(a, query, cmd.OutOrStdout())
	}

	// The picker owns the terminal; logs go to a file.
	logFile, err := paths.OpenLog()
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	a, err := openApp(logFile)
	if err != nil {
		return err
	}
	defer a.Close()

	res, ok, err := pick(a, query)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(cmd.OutOrStdout(), res.Symbol)
	}
	return nil
}

// lucky prints the top hit for query, or a notice when there is none.
// Nothing follows the glyph, not even a newline.
func lucky(s ports.Searcher, query string, w io.Writer) error {
	results, err := s.Search(query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(w, "No emojis found for '%s'", query)
		return nil
	}
	fmt.Fprint(w, results[0].Symbol)
	return nil
}

func pick(s ports.Searcher, query string) (ports.Result, bool, error) {
	if !isStdinTTY() {
		return ports.Result{}, false, fmt.Errorf("the picker needs a terminal; use 'emojipick search' or --lucky")
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return ports.Result{}, false, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return ports.Result{}, false, fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	picker := app.NewPicker(s, query, logger.WithComponent("picker"))
	return tui.Run(screen, picker)
}

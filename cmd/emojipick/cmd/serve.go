package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/emojipick/internal/adapters/fsnotify"
	"github.com/corey/emojipick/internal/adapters/web"
	"github.com/corey/emojipick/internal/logger"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve emoji search over HTTP",
	Long:  "Serves a search page, /api/search, /api/health and /metrics. Binds to localhost by default.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config web.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the corpus when its file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveWatch {
		w, err := fsnotify.NewWatcher(0)
		if err != nil {
			return fmt.Errorf("watcher: %w", err)
		}
		defer w.Stop()
		if err := a.Watch(w); err != nil {
			return fmt.Errorf("watch corpus: %w", err)
		}
	}

	addr := serveAddr
	if addr == "" {
		addr = a.Config.Web.Addr
	}
	srv := web.NewServer(a, a.Metrics.Handler(), logger.WithComponent("web"))
	if err := srv.Start(addr); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ emojipick serving %s backend at %s\n", a.Kind(), srv.URL())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Fprintln(cmd.OutOrStdout(), "\n⚡ shutting down...")
	srv.Stop()
	return nil
}

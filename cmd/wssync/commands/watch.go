package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wssync/wssync/internal/coordinator"
	"github.com/wssync/wssync/internal/event"
	"github.com/wssync/wssync/internal/logging"
	"github.com/wssync/wssync/internal/server"
	"github.com/wssync/wssync/internal/syncer"
	"github.com/wssync/wssync/internal/watcher"
	"github.com/wssync/wssync/internal/workspace"
)

var (
	watchListen string
	watchQuiet  time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep workspace and folder settings in sync continuously",
	Long: `Watch the workspace file and every folder's .vscode directory.
Document changes trigger forward sync, artifact changes trigger reverse
capture; bursts are debounced and automated writes never re-trigger
themselves.

With --listen, a read-only HTTP status API is served alongside.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchListen, "listen", "", "Address for the status API (e.g. 127.0.0.1:7391); disabled when empty")
	watchCmd.Flags().DurationVar(&watchQuiet, "quiet-window", coordinator.DefaultQuietWindow, "Debounce delay before a pass starts")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := findWorkspace()
	if err != nil {
		return err
	}
	doc, err := workspace.Load(path)
	if err != nil {
		return err
	}

	logging.Info().Str("workspace", path).Msg("starting watch mode")

	// Bring artifacts up to date before watching for changes.
	syncer.Forward(doc)

	bus := event.NewBus()
	defer bus.Close()

	coord := coordinator.New(coordinator.Config{
		WorkspacePath: path,
		QuietWindow:   watchQuiet,
	})
	coord.Start(bus)
	defer coord.Stop()

	w, err := watcher.New(doc, bus)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	var srv *server.Server
	if watchListen != "" {
		cfg := server.DefaultConfig()
		cfg.Addr = watchListen
		load := func() (*workspace.Document, error) { return workspace.Load(path) }
		srv = server.New(cfg, coord, load)
		go func() {
			logging.Info().Str("addr", watchListen).Msg("status API listening")
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				logging.Error().Err(err).Msg("status API failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("status API shutdown error")
		}
	}
	return nil
}

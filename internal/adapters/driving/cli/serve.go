package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// shutdownTimeout bounds graceful HTTP shutdown on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Starts the document QA HTTP server.

Endpoints:
  POST /files/upload  upload and index a document
  POST /qa/answer     answer a question about the indexed document
  GET  /qa/metrics    aggregated answer quality metrics
  GET  /health        liveness check`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cfgFile)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.enableEvaluation(ctx)

	// Pick up the last indexed document so a restart keeps answering.
	if err := app.uploads.Restore(ctx); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("no index snapshot to restore")
		} else {
			logger.Warn("snapshot restore failed: %v", err)
		}
	}

	if watcher, err := file.WatchPrompts(app.prompts); err != nil {
		logger.Warn("prompt watcher disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	addr := app.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := httpapi.NewServer(httpapi.Config{
		Addr:            addr,
		AnswerRateLimit: app.cfg.Server.AnswerRateLimit,
		Uploads:         app.uploads,
		Answers:         app.qa,
		Metrics:         app.metrics(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		cmd.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

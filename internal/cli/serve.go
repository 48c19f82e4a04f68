package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/commitlint-core/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the commit message engine.

Endpoints:
  GET  /health        Health check, registered scopes and allowed types
  POST /api/validate  Validate one message
  POST /api/parse     Parse and classify one message
  POST /api/batch     Validate many messages
  GET  /api/ws        WebSocket: send "validate", receive "report" or "error"`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
	serveCmd.Flags().IntP("workers", "w", 4, "messages analysed concurrently per batch request")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")
	workers, _ := cmd.Flags().GetInt("workers")

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, newEngine(cfg, engineOptions{workers: workers}), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", listen)
	return g.Wait()
}

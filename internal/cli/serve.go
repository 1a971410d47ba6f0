package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/artic-table/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and bulk selection over HTTP",
		Long: `Starts an HTTP server exposing:

  GET /api/artworks?page=N           one catalog page
  GET /api/selection?count=N&page=P  bulk selection as JSON
  GET /health, /ready, /metrics`,
		Example: `  # Start server on the configured port (default 8080)
  artic-table serve

  # Start server on custom port
  artic-table serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.setupLogging()
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			client, cleanup, err := a.newCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(client).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", addr).
					Str("base_url", a.cfg.API.BaseURL).
					Bool("redis", a.cfg.Redis.Enabled).
					Msg("Starting artic-table server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				log.Info().Msg("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Server shutdown failed")
					return err
				}
				log.Info().Msg("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (overrides server.port)")

	return cmd
}

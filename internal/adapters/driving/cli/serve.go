package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/paperlens/internal/logger"
)

var (
	servePort    int
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API for a web-view shell",
	Long: `Serves the assistant over HTTP so a browser-based viewer can upload a PDF,
fetch overlays per page, run block actions, chat and edit settings.

Routes live under /api/v1; GET /health reports liveness. PDFs dropped into
the inbox directory are loaded while the server runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8088, "HTTP port")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allow-origin", nil, "CORS origins allowed to call the API")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := requireAssistant()
	if err != nil {
		return err
	}

	handler, err := httpapi.NewRouter(&httpapi.Ports{
		Assistant:     s.Assistant,
		Ingestor:      s.Ingestor,
		Settings:      s.Settings,
		Notifications: s.Notifications,
	}, serveOrigins)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if s.WatchInbox != nil {
		go func() {
			if err := s.WatchInbox(ctx, dropHandler(s)); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("inbox watcher stopped: %v", err)
			}
		}()
	}

	addr := fmt.Sprintf(":%d", servePort)
	cmd.Printf("paperlens API listening on http://localhost%s\n", addr)
	return httpapi.Run(ctx, addr, handler)
}

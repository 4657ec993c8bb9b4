package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roleatlas/roleatlas/internal/api"
	"github.com/roleatlas/roleatlas/internal/cli/ui"
	"github.com/roleatlas/roleatlas/internal/pkg/logger"
	"github.com/roleatlas/roleatlas/pkg/version"
)

var (
	servePort  int
	serveHost  string
	serveRPS   float64
	serveBurst int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the RoleAtlas API server",
	Long: `Start the HTTP API for least-privilege role resolution.

The API exposes:
  - POST /api/v1/{provider}/least-privilege
  - GET  /api/v1/{provider}/roles
  - GET  /api/v1/{provider}/namespaces

Examples:
  roleatlas serve                    # Start on localhost:8080
  roleatlas serve --port 3000        # Custom port
  roleatlas serve --host 0.0.0.0     # Listen on all interfaces`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to serve on")
	serveCmd.Flags().StringVarP(&serveHost, "host", "H", "localhost", "host to bind to")
	serveCmd.Flags().Float64Var(&serveRPS, "rate-limit", 0, "requests per second per client (0 = default)")
	serveCmd.Flags().IntVar(&serveBurst, "rate-burst", 0, "burst size per client (0 = default)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Config{Verbose: IsVerbose()})

	svc, err := newResolverService()
	if err != nil {
		return err
	}

	if !IsQuiet() {
		ui.Header("RoleAtlas API")
		ui.Info(fmt.Sprintf("Starting server on http://%s:%d", serveHost, servePort))
		ui.Divider()
	}

	server := api.NewServer(api.Config{
		Host:           serveHost,
		Port:           servePort,
		Verbose:        IsVerbose(),
		Version:        version.Version,
		RateLimitRPS:   serveRPS,
		RateLimitBurst: serveBurst,
	}, svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	if !IsQuiet() {
		ui.Success("Server started. Press Ctrl+C to stop.")
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vquant/backend/internal/api"
	"github.com/wonny/vquant/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health              - Health check
  GET  /api/report          - Latest fused report
  GET  /api/report/summary  - Per-action counts
  GET  /api/integrity       - Run integrity accounting
  GET  /api/universe        - Latest ranked universe
  POST /api/run             - Trigger a pipeline run
  GET  /api/run/status      - Run state
  GET  /ws/progress         - Live run progress (websocket)

Example:
  go run ./cmd/vquant api
  go run ./cmd/vquant api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant API Server ===")

	rt, err := initRuntime(true)
	if err != nil {
		return err
	}
	defer rt.close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	hub := handlers.NewProgressHub(rt.log)
	reportHandler := handlers.NewReportHandler(rt.decisionRepo, rt.universeRepo, rt.log)
	pipelineHandler := handlers.NewPipelineHandler(rt.orchestrator, hub, rt.log)

	router := api.NewRouter(reportHandler, pipelineHandler, hub, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}

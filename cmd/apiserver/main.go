// API server entry point for MarketEdge-Intelligence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/MarketEdge-Intelligence/internal/bootstrap"
	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/MarketEdge-Intelligence/internal/interfaces/http"
	"github.com/turtacn/MarketEdge-Intelligence/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: MEDGE_* environment)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	container, err := bootstrap.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	log := container.Logger
	log.Info("Starting MarketEdge-Intelligence API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	router := httpserver.NewRouter(httpserver.RouterConfig{
		AnalysisHandler: handlers.NewAnalysisHandler(container.Engine),
		ReportHandler:   handlers.NewReportHandler(container.Engine),
		ClusterHandler:  handlers.NewClusterHandler(container.Engine),
		HealthHandler:   handlers.NewHealthHandler(container.Engine, version),
		Logger:          log,
		Metrics:         container.Metrics,
		Collector:       container.Collector,
		Mode:            cfg.Server.Mode,
	})
	server := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", logging.Err(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Error("Shutdown incomplete", logging.Err(err))
	}
	log.Info("Server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

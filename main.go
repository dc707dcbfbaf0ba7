package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/joho/godotenv"
	"github.com/vetdose/vetdose-api/catalogloader"
	"github.com/vetdose/vetdose-api/config"
	"github.com/vetdose/vetdose-api/data"
	"github.com/vetdose/vetdose-api/logging"
	"github.com/vetdose/vetdose-api/scheduler"
	"github.com/vetdose/vetdose-api/server"
)

func main() {
	// .env is optional, environment variables take precedence anyway
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logDir := "logs"
	if cfg.Env == "test" {
		logDir = ""
	}
	if err := logging.InitLoggerWithRetention(logDir, cfg.LogRetentionWeeks); err != nil {
		logging.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer logging.DefaultLoggingService.Close()

	container := data.NewCatalogContainer()
	container.SetServerStartTime(time.Now())

	sources := buildSources(cfg)

	sched := scheduler.NewScheduler(container, sources, cfg.RefreshTimes)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start catalog scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, container)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
}

// buildSources assembles the catalog sources in priority order: the remote
// catalog first when configured, then the local file, then the bundled
// demo catalog as a last resort.
func buildSources(cfg *config.Config) []catalogloader.Source {
	var sources []catalogloader.Source

	if cfg.CatalogURL != "" {
		sources = append(sources, &catalogloader.HTTPSource{URL: cfg.CatalogURL})
	}
	if cfg.CatalogFile != "" {
		sources = append(sources, &catalogloader.FileSource{Path: cfg.CatalogFile})
	}
	if cfg.CatalogFallbackFile != "" {
		sources = append(sources, &catalogloader.FileSource{Path: cfg.CatalogFallbackFile})
	}

	return sources
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/aryanv175/finance-dashboard-saksham/internal/analysis"
	"github.com/aryanv175/finance-dashboard-saksham/internal/api"
	"github.com/aryanv175/finance-dashboard-saksham/internal/config"
	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
	"github.com/aryanv175/finance-dashboard-saksham/internal/registry"
	"github.com/aryanv175/finance-dashboard-saksham/internal/workbook"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("Server failed")
	}
}

func run() error {
	cfgManager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := cfgManager.GetConfig()

	logger := setupLogger(cfg.Logging)

	logger.WithFields(logrus.Fields{
		"host":     cfg.Server.Host,
		"port":     cfg.Server.Port,
		"store":    cfg.Store.Backend,
		"registry": cfg.Registry.Backend,
	}).Info("Starting eligibility scoring server")

	files, err := newRegistry(cfg.Registry)
	if err != nil {
		return fmt.Errorf("failed to initialize file registry: %w", err)
	}
	defer files.Close()

	store, err := newAnalysisStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis store: %w", err)
	}
	defer store.Close()

	processor, err := workbook.NewProcessor(logger, cfg.Uploads)
	if err != nil {
		return fmt.Errorf("failed to initialize workbook processor: %w", err)
	}

	analyses := analysis.NewService(logger, processor, files, store, cfg.Scoring)

	server := api.NewServer(logger, cfg, analyses)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// setupLogger configures logrus from the logging section.
func setupLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

func newRegistry(cfg domain.RegistryConfig) (registry.Store, error) {
	switch cfg.Backend {
	case "postgres":
		return registry.NewPostgresStoreFromURL(cfg.PostgresURL)
	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create registry directory: %w", err)
			}
		}
		return registry.NewSQLiteStore(cfg.SQLitePath)
	}
}

func newAnalysisStore(cfg domain.StoreConfig) (analysis.Store, error) {
	switch cfg.Backend {
	case "redis":
		return analysis.NewRedisStore(cfg.RedisURL, cfg.TTL)
	default:
		return analysis.NewMemoryStore(cfg.Capacity)
	}
}

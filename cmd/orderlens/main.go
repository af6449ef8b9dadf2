package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/orderlens-lab/orderlens/internal/analytics"
	"github.com/orderlens-lab/orderlens/internal/config"
	"github.com/orderlens-lab/orderlens/internal/metrics"
	"github.com/orderlens-lab/orderlens/internal/migrations"
	"github.com/orderlens-lab/orderlens/internal/server"
	"github.com/orderlens-lab/orderlens/internal/storage"
	"github.com/orderlens-lab/orderlens/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "orderlens.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Dataset Source
	var (
		repo storage.Repository
		db   *sql.DB
	)
	switch cfg.Dataset.SourceType {
	case "filesystem":
		repo = storage.NewFileSystemRepository(cfg.Dataset.Path)
	case "postgres":
		adapter, err := postgres.Open(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
		)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer adapter.Close()

		if err := migrations.RunMigrations(adapter.DB(), cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}

		repo = adapter
		db = adapter.DB()
	default:
		slog.Error("Unsupported dataset source type", "type", cfg.Dataset.SourceType)
		os.Exit(1)
	}

	// 3. Load the Dataset Snapshot
	loadCtx, loadCancel := context.WithCancel(context.Background())
	tables, err := repo.LoadTables(loadCtx)
	loadCancel()
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	metrics.DatasetRows.WithLabelValues("customers").Set(float64(len(tables.Customers)))
	metrics.DatasetRows.WithLabelValues("orders").Set(float64(len(tables.Orders)))
	metrics.DatasetRows.WithLabelValues("order_events").Set(float64(len(tables.Events)))
	metrics.DatasetRows.WithLabelValues("products").Set(float64(len(tables.Products)))

	// 4. Initialize Analytics (query API)
	analyticsSvc := analytics.NewService(tables)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), db, cfg.Server.Mode)
	analyticsSvc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

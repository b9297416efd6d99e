package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"subcity/internal/config"
	"subcity/internal/database"
	"subcity/internal/database/migration"
	handlers "subcity/internal/http/handler"
	"subcity/internal/http/middleware"
	"subcity/internal/logger"
	"subcity/internal/otel"
	"subcity/internal/repository"
	"subcity/internal/repository/memory"
	"subcity/internal/repository/postgres"
	"subcity/internal/service"
	"subcity/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title       Sub-city Administration API
// @version     1.0
// @description Record store for employees, documents, population records and investments.
// @BasePath    /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w\n\n%s", err, config.Usage())
	}

	log, err := logger.New(cfg.LogLevel, cfg.Location())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	files, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "subcity",
		BodyLimit:             cfg.MaxUploadBytes + handlers.MultipartOverhead,
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Actor())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		Store:     store,
		Documents: service.NewDocumentService(files, store, log),
		Stats:     service.NewStatsService(store),
		Logger:    log,
		Gatherer:  reg,

		MaxUploadBytes: int64(cfg.MaxUploadBytes),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting",
			zap.String("addr", addr),
			zap.String("store", cfg.StoreDriver),
			zap.String("storage", cfg.StorageDriver))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(cfg *config.AppConfig, log *zap.Logger) (repository.Store, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		store := memory.New(
			memory.WithActivityLimit(cfg.ActivityLimit),
			memory.WithSeed(cfg.SeedDemoData),
		)
		return store, func() {}, nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn("db_close_failed", zap.Error(err))
		}
	}
	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(db, log, cfg.Database.Host); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return postgres.New(db), closeDB, nil
}

func openStorage(cfg *config.AppConfig) (storage.Storage, error) {
	if cfg.StorageDriver == config.StorageMinIO {
		return storage.NewMinIO(cfg.MinIO)
	}
	return storage.NewLocal(cfg.UploadDir)
}

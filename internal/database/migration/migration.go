package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationFS embed.FS

// EnsureMigrated applies every pending migration embedded in the binary.
// It is idempotent: an up-to-date schema is logged and skipped.
func EnsureMigrated(db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	log.Info("db_migration_check", zap.String("status", "starting"))

	m, err := newMigrate(db)
	if err != nil {
		log.Error("db_migration_failed", zap.String("status", "error"), zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warn("failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			log.Warn("failed to close migration database", zap.Error(dbErr))
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("msg", "schema already up to date"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return nil
	}
	if err != nil {
		log.Error("db_migration_failed", zap.String("status", "error"), zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("run migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Uint("version", version),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migration instance: %w", err)
	}
	return m, nil
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"subcity/internal/cli"
	"subcity/internal/config"
	"subcity/internal/database"
	"subcity/internal/database/migration"
	"subcity/internal/logger"
	"subcity/internal/repository"
	"subcity/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n\n%s", err, config.Usage())
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.Location())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	openDB := func() (*sql.DB, error) {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return db, nil
	}

	env := cli.Env{
		EnvHelp: config.Usage(),
		OpenStore: func(context.Context) (repository.Store, func(), error) {
			db, err := openDB()
			if err != nil {
				return nil, nil, err
			}
			return postgres.New(db), func() { _ = db.Close() }, nil
		},
		Migrate: func(context.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			return migration.EnsureMigrated(db, log, cfg.Database.Host)
		},
	}

	if err := cli.NewRootCmd(env).ExecuteContext(context.Background()); err != nil {
		log.Debug("command_failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

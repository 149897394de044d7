package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/store"
	"github.com/applytrack/applytrack/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logger, undo := initLogger(cfg)
		defer func() { _ = logger.Sync() }()
		defer undo()

		zap.S().Info("Starting migration")
		defer zap.S().Info("Db migrated")

		// MongoDB and a missing migration folder both fall back to the model based migration.
		if cfg.Database.Type == "mongodb" || cfg.Service.MigrationFolder == "" {
			s, err := store.NewStoreFromConfig(context.Background(), cfg)
			if err != nil {
				zap.S().Fatalw("initializing data store", "error", err)
			}
			defer func() { _ = s.Close() }()

			return s.InitialMigration(context.Background())
		}

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()

		if err := migrations.MigrateStore(db, cfg); err != nil {
			zap.S().Fatalw("running migrations", "error", err)
		}
		return nil
	},
}

package cmd

import (
	"log/slog"

	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/jsonfile"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/migration"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/postgres"
	"github.com/spf13/cobra"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "copy the JSON ledgers and settings of every tenant into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry, err := tenant.NewRegistry(cfg.Tenants)
		if err != nil {
			return err
		}

		db, err := asae.OpenDatabase(ctx, cfg.DB)
		if err != nil {
			slog.Error("Failed to connect to database", slog.String("type", "db"), slog.Any("error", err))
			return err
		}
		defer db.Close()

		c := clock.Real()
		migrator := migration.NewMigrator(
			migration.Store{
				Ledgers:  jsonfile.NewLedgerStore(cfg.Storage.DataDir, cfg.Storage.BackupDir, nil, c),
				Settings: jsonfile.NewSettingsStore(cfg.Storage.DataDir),
			},
			migration.Store{
				Ledgers:  postgres.NewLedgerStore(db.BunDB(), c),
				Settings: postgres.NewSettingsStore(db.BunDB(), c),
			},
		)

		stats, err := migrator.MigrateAll(ctx, registry.All())
		if err != nil {
			slog.Error("Migration failed", slog.String("type", "db"), slog.Any("error", err))
			return err
		}

		slog.Info("Migration completed successfully!",
			slog.String("type", "db"),
			slog.Int("tenants", len(stats.Tenants)),
			slog.Int("records", stats.Records()),
			slog.Duration("took", stats.Duration))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCMD)
}

package asae

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/jsonfile"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/postgres"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/spaces"
)

// OpenStorage builds the ledger and settings stores of the configured driver.
func (b *Bot) OpenStorage(ctx context.Context) (hours.Repository, tenant.SettingsStore, error) {
	switch b.Cfg.Storage.Driver {
	case StoragePostgres:
		db, err := OpenDatabase(ctx, b.Cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		b.DB = db
		return postgres.NewLedgerStore(db.BunDB(), b.Clock), postgres.NewSettingsStore(db.BunDB(), b.Clock), nil
	default:
		var sink jsonfile.BackupSink
		if b.Cfg.Spaces.Enabled() {
			s, err := spaces.New(ctx, b.Cfg.Spaces)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create backup sink: %w", err)
			}
			sink = s
			slog.Info("Remote ledger backups enabled",
				slog.String("type", "sys"),
				slog.String("bucket", b.Cfg.Spaces.Bucket))
		}
		ledgers := jsonfile.NewLedgerStore(b.Cfg.Storage.DataDir, b.Cfg.Storage.BackupDir, sink, b.Clock)
		return ledgers, jsonfile.NewSettingsStore(b.Cfg.Storage.DataDir), nil
	}
}

// OpenDatabase connects to Postgres and makes sure the schema exists.
func OpenDatabase(ctx context.Context, cfg postgres.Config) (*postgres.DB, error) {
	slog.Info("Initializing database connection...", slog.String("type", "db"))
	start := time.Now()

	db, err := postgres.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed after %s: %w", time.Since(start), err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	slog.Info("Database connected successfully",
		slog.String("type", "db"),
		slog.String("database", cfg.Database),
		slog.Duration("took", time.Since(start)))
	return db, nil
}

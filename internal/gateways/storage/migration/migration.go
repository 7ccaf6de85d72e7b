// Package migration copies tenant ledgers and settings between storage drivers.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

// Store is one side of a migration.
type Store struct {
	Ledgers  hours.Repository
	Settings tenant.SettingsStore
}

type TenantStats struct {
	TenantID snowflake.ID
	Records  int
	Settings bool
}

type Stats struct {
	Tenants   []TenantStats
	StartTime time.Time
	Duration  time.Duration
}

func (s Stats) Records() int {
	n := 0
	for _, t := range s.Tenants {
		n += t.Records
	}
	return n
}

type Migrator struct {
	from Store
	to   Store
}

func NewMigrator(from, to Store) *Migrator {
	return &Migrator{from: from, to: to}
}

// MigrateAll copies every tenant in order and stops at the first failure. Empty ledgers and settings
// that never existed at the source are skipped.
func (m *Migrator) MigrateAll(ctx context.Context, tenants []tenant.Tenant) (Stats, error) {
	stats := Stats{StartTime: time.Now()}
	for _, t := range tenants {
		ts, err := m.migrateTenant(ctx, t)
		if err != nil {
			return stats, fmt.Errorf("tenant %s: %w", t.ID, err)
		}
		stats.Tenants = append(stats.Tenants, ts)
		slog.Info("Tenant migrated",
			slog.String("type", "db"),
			slog.String("tenant", t.ID.String()),
			slog.String("name", t.Name),
			slog.Int("records", ts.Records),
			slog.Bool("settings", ts.Settings))
	}
	stats.Duration = time.Since(stats.StartTime)
	return stats, nil
}

func (m *Migrator) migrateTenant(ctx context.Context, t tenant.Tenant) (TenantStats, error) {
	ts := TenantStats{TenantID: t.ID}

	ledger := m.from.Ledgers.Load(ctx, t)
	if ledger.Len() > 0 {
		if err := m.to.Ledgers.Save(ctx, t, ledger); err != nil {
			return ts, fmt.Errorf("save ledger: %w", err)
		}
		ts.Records = ledger.Len()
	}

	settings, created, err := m.from.Settings.Load(ctx, t)
	if err != nil {
		return ts, fmt.Errorf("load settings: %w", err)
	}
	if !created {
		if err := m.to.Settings.Save(ctx, t, settings); err != nil {
			return ts, fmt.Errorf("save settings: %w", err)
		}
		ts.Settings = true
	}
	return ts, nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/uptrace/bun"
)

// LedgerStore keeps tenant ledgers in Postgres, one row per record in ledger order.
type LedgerStore struct {
	db    *bun.DB
	clock clock.Clock
}

func NewLedgerStore(db *bun.DB, c clock.Clock) *LedgerStore {
	return &LedgerStore{db: db, clock: c}
}

// Load never fails. Query errors are logged and yield an empty ledger.
func (s *LedgerStore) Load(ctx context.Context, t tenant.Tenant) *hours.Ledger {
	ledger, err := s.load(ctx, s.db, int64(t.ID))
	if err != nil {
		slog.Error("Failed to load ledger",
			slog.String("type", "db"),
			slog.String("tenant", t.ID.String()),
			slog.Any("error", err))
		return hours.NewLedger()
	}
	return ledger
}

func (s *LedgerStore) load(ctx context.Context, db bun.IDB, tenantID int64) (*hours.Ledger, error) {
	ledger := hours.NewLedger()

	var meta ledgerModel
	err := db.NewSelect().Model(&meta).Where("tenant_id = ?", tenantID).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, wrap("load", "ledgers", err)
	case len(meta.Users) > 0:
		if err := json.Unmarshal(meta.Users, &ledger.Users); err != nil {
			return nil, wrap("decode", "ledgers", err)
		}
	}

	var rows []*workRecordModel
	if err := db.NewSelect().
		Model(&rows).
		Where("tenant_id = ?", tenantID).
		Order("position ASC").
		Scan(ctx); err != nil {
		return nil, wrap("load", "work_records", err)
	}
	for _, row := range rows {
		ledger.Records = append(ledger.Records, row.toRecord())
	}
	return ledger.Normalize(), nil
}

// Save snapshots the persisted ledger into ledger_backups and replaces the tenant's rows, in one transaction.
func (s *LedgerStore) Save(ctx context.Context, t tenant.Tenant, l *hours.Ledger) error {
	tenantID := int64(t.ID)
	now := s.clock.Now()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		previous, err := s.load(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if previous.Len() > 0 || len(previous.Users) > 0 {
			payload, err := json.Marshal(previous)
			if err != nil {
				return wrap("encode", "ledger_backups", err)
			}
			backup := &ledgerBackupModel{
				TenantID:  tenantID,
				Name:      "horas_backup_" + now.Format("20060102_150405"),
				Payload:   payload,
				CreatedAt: now,
			}
			if _, err := tx.NewInsert().Model(backup).Exec(ctx); err != nil {
				return wrap("insert", "ledger_backups", err)
			}
		}

		l = l.Normalize()
		users, err := json.Marshal(l.Users)
		if err != nil {
			return wrap("encode", "ledgers", err)
		}
		meta := &ledgerModel{TenantID: tenantID, Users: users, UpdatedAt: now}
		if _, err := tx.NewInsert().
			Model(meta).
			On("CONFLICT (tenant_id) DO UPDATE").
			Set("users = EXCLUDED.users").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return wrap("upsert", "ledgers", err)
		}

		if _, err := tx.NewDelete().
			Model((*workRecordModel)(nil)).
			Where("tenant_id = ?", tenantID).
			Exec(ctx); err != nil {
			return wrap("delete", "work_records", err)
		}
		if rows := toRecordModels(tenantID, l); len(rows) > 0 {
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return wrap("insert", "work_records", err)
			}
		}
		return nil
	})
}

var _ hours.Repository = (*LedgerStore)(nil)

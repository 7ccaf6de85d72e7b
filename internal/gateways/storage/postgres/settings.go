package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/uptrace/bun"
)

type SettingsStore struct {
	db    *bun.DB
	clock clock.Clock
}

func NewSettingsStore(db *bun.DB, c clock.Clock) *SettingsStore {
	return &SettingsStore{db: db, clock: c}
}

// Load decodes the stored document over the defaults. A missing row is inserted with the defaults.
func (s *SettingsStore) Load(ctx context.Context, t tenant.Tenant) (*tenant.Settings, bool, error) {
	var row tenantSettingsModel
	err := s.db.NewSelect().Model(&row).Where("tenant_id = ?", int64(t.ID)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		settings := tenant.DefaultSettings()
		if err := s.Save(ctx, t, settings); err != nil {
			return nil, false, err
		}
		return settings, true, nil
	}
	if err != nil {
		return nil, false, wrap("load", "tenant_settings", err)
	}

	settings := tenant.DefaultSettings()
	if err := json.Unmarshal(row.Payload, settings); err != nil {
		return nil, false, wrap("decode", "tenant_settings", err)
	}
	if settings.AdminUsers == nil {
		settings.AdminUsers = []uint64{}
	}
	return settings, false, nil
}

func (s *SettingsStore) Save(ctx context.Context, t tenant.Tenant, settings *tenant.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return wrap("encode", "tenant_settings", err)
	}
	row := &tenantSettingsModel{
		TenantID:  int64(t.ID),
		Payload:   payload,
		UpdatedAt: s.clock.Now(),
	}
	_, err = s.db.NewInsert().
		Model(row).
		On("CONFLICT (tenant_id) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return wrap("upsert", "tenant_settings", err)
}

var _ tenant.SettingsStore = (*SettingsStore)(nil)

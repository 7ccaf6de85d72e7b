package postgres

import (
	"encoding/json"
	"time"

	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/uptrace/bun"
)

type ledgerModel struct {
	bun.BaseModel `bun:"table:ledgers,alias:l"`

	TenantID  int64           `bun:"tenant_id,pk"`
	Users     json.RawMessage `bun:"users,type:jsonb,notnull"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

type workRecordModel struct {
	bun.BaseModel `bun:"table:work_records,alias:wr"`

	ID       int64   `bun:"id,pk,autoincrement"`
	TenantID int64   `bun:"tenant_id,notnull"`
	Position int     `bun:"position,notnull"`
	Date     string  `bun:"date,notnull"`
	Subject  string  `bun:"subject,notnull"`
	Hours    float64 `bun:"hours,notnull"`

	MessageID   *int64 `bun:"message_id"`
	ProcessedAt string `bun:"processed_at"`
	ServerID    int64  `bun:"server_id"`
	ServerName  string `bun:"server_name"`

	Manual       bool    `bun:"manual,notnull,default:false"`
	AddedBy      string  `bun:"added_by"`
	AddedAt      string  `bun:"added_at"`
	ModifiedAt   string  `bun:"modified_at"`
	ModifiedBy   string  `bun:"modified_by"`
	HoursRemoved float64 `bun:"hours_removed"`
}

type ledgerBackupModel struct {
	bun.BaseModel `bun:"table:ledger_backups,alias:lb"`

	ID        int64           `bun:"id,pk,autoincrement"`
	TenantID  int64           `bun:"tenant_id,notnull"`
	Name      string          `bun:"name,notnull"`
	Payload   json.RawMessage `bun:"payload,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}

type tenantSettingsModel struct {
	bun.BaseModel `bun:"table:tenant_settings,alias:ts"`

	TenantID  int64           `bun:"tenant_id,pk"`
	Payload   json.RawMessage `bun:"payload,type:jsonb,notnull"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

func toRecordModels(tenantID int64, l *hours.Ledger) []*workRecordModel {
	models := make([]*workRecordModel, len(l.Records))
	for i, r := range l.Records {
		m := &workRecordModel{
			TenantID:     tenantID,
			Position:     i,
			Date:         r.Date,
			Subject:      r.Subject.String(),
			Hours:        r.Hours,
			ProcessedAt:  r.ProcessedAt,
			ServerID:     int64(r.TenantID),
			ServerName:   r.TenantName,
			Manual:       r.Manual,
			AddedBy:      r.AddedBy,
			AddedAt:      r.AddedAt,
			ModifiedAt:   r.ModifiedAt,
			ModifiedBy:   r.ModifiedBy,
			HoursRemoved: r.HoursRemoved,
		}
		if r.MessageID != nil {
			id := int64(*r.MessageID)
			m.MessageID = &id
		}
		models[i] = m
	}
	return models
}

// toRecord restores a record. Snowflakes fit in int64, so the id casts are lossless.
func (m *workRecordModel) toRecord() hours.WorkRecord {
	r := hours.WorkRecord{
		Date:         m.Date,
		Subject:      hours.ParseSubject(m.Subject),
		Hours:        m.Hours,
		ProcessedAt:  m.ProcessedAt,
		TenantID:     uint64(m.ServerID),
		TenantName:   m.ServerName,
		Manual:       m.Manual,
		AddedBy:      m.AddedBy,
		AddedAt:      m.AddedAt,
		ModifiedAt:   m.ModifiedAt,
		ModifiedBy:   m.ModifiedBy,
		HoursRemoved: m.HoursRemoved,
	}
	if m.MessageID != nil {
		id := uint64(*m.MessageID)
		r.MessageID = &id
	}
	return r
}

package hours

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

var testTenant = tenant.Tenant{
	ID:                snowflake.ID(1000000000001),
	Name:              "Oficina",
	CategoryID:        snowflake.ID(2000000000001),
	ArchiveCategoryID: snowflake.ID(2000000000002),
}

var errDisk = errors.New("disk full")

type memRepository struct {
	mu      sync.Mutex
	ledgers map[snowflake.ID]*Ledger
	saves   int
	saveErr error
}

func newMemRepository(l *Ledger) *memRepository {
	r := &memRepository{ledgers: map[snowflake.ID]*Ledger{}}
	if l != nil {
		r.ledgers[testTenant.ID] = l.Clone()
	}
	return r
}

func (r *memRepository) Load(_ context.Context, t tenant.Tenant) *Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.ledgers[t.ID]; ok {
		return l.Clone()
	}
	return NewLedger()
}

func (r *memRepository) Save(_ context.Context, t tenant.Tenant, l *Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.ledgers[t.ID] = l.Clone()
	return nil
}

func (r *memRepository) stored() *Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.ledgers[testTenant.ID]; ok {
		return l.Clone()
	}
	return NewLedger()
}

type staticNames map[string]string

func (n staticNames) FriendlyName(_ context.Context, _ snowflake.ID, s Subject) string {
	if name, ok := n[s.Key()]; ok {
		return name
	}
	if id, ok := s.UserID(); ok {
		return "Usuário " + id.String()
	}
	return s.Name
}

var testNow = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

func reportMessage(id snowflake.ID, user, duration string, at time.Time) platform.Message {
	return platform.Message{
		ID:        id,
		Author:    platform.Author{ID: 42, Bot: true, DisplayName: "Nyox Bate-Ponto"},
		CreatedAt: at,
		Embeds: []platform.Embed{{
			Title: "Ponto encerrado",
			Fields: []platform.Field{
				{Name: "Usuário", Value: user},
				{Name: "Tempo total", Value: duration},
			},
		}},
	}
}

func record(date, subject string, hours float64) WorkRecord {
	return WorkRecord{Date: date, Subject: ParseSubject(subject), Hours: hours}
}

func ingested(date, subject string, hours float64, messageID uint64) WorkRecord {
	r := record(date, subject, hours)
	r.MessageID = &messageID
	return r
}

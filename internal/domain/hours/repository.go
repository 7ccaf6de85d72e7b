package hours

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

var (
	ErrNonPositiveHours     = errors.New("hours must be greater than zero")
	ErrInvalidDate          = errors.New("invalid date, use YYYY-MM-DD")
	ErrNoHours              = errors.New("subject has no recorded hours")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrSaveFailed           = errors.New("failed to save ledger")
)

// Repository persists one ledger per tenant.
type Repository interface {
	// Load never fails: read errors are logged and an empty ledger is returned.
	Load(ctx context.Context, t tenant.Tenant) *Ledger
	// Save snapshots the previous persisted state before overwriting it.
	Save(ctx context.Context, t tenant.Tenant, l *Ledger) error
}

// tenantLocks hands out one mutex per tenant so load/mutate/save sequences never interleave.
type tenantLocks struct {
	mu    sync.Mutex
	locks map[snowflake.ID]*sync.Mutex
}

func (l *tenantLocks) get(id snowflake.ID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[snowflake.ID]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

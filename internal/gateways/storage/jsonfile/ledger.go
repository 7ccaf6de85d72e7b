package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

const backupLayout = "20060102_150405"

// BackupSink receives a copy of every local backup, for off-host retention.
type BackupSink interface {
	Upload(ctx context.Context, key string, data []byte) error
}

// LedgerStore keeps one JSON file per tenant and snapshots the previous version before every save.
type LedgerStore struct {
	dataDir   string
	backupDir string
	sink      BackupSink
	clock     clock.Clock
}

// NewLedgerStore creates a store. sink may be nil.
func NewLedgerStore(dataDir, backupDir string, sink BackupSink, c clock.Clock) *LedgerStore {
	return &LedgerStore{
		dataDir:   dataDir,
		backupDir: backupDir,
		sink:      sink,
		clock:     c,
	}
}

func (s *LedgerStore) path(t tenant.Tenant) string {
	return filepath.Join(s.dataDir, t.LedgerFile)
}

// Load reads the tenant ledger. A missing file is created empty; unreadable files yield an empty ledger.
func (s *LedgerStore) Load(_ context.Context, t tenant.Tenant) *hours.Ledger {
	path := s.path(t)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		ledger := hours.NewLedger()
		if err := s.write(path, ledger); err != nil {
			slog.Error("Failed to create ledger file",
				slog.String("type", "db"),
				slog.String("path", path),
				slog.Any("error", err))
		} else {
			slog.Info("Ledger file created",
				slog.String("type", "db"),
				slog.String("path", path))
		}
		return ledger
	}
	if err != nil {
		slog.Error("Failed to read ledger file",
			slog.String("type", "db"),
			slog.String("path", path),
			slog.Any("error", err))
		return hours.NewLedger()
	}

	ledger, err := decodeLedger(path, data)
	if err != nil {
		slog.Error("Failed to parse ledger file",
			slog.String("type", "db"),
			slog.String("path", path),
			slog.Any("error", err))
		return hours.NewLedger()
	}
	return ledger
}

type rawLedger struct {
	Users   map[string]json.RawMessage `json:"usuarios"`
	Records []json.RawMessage          `json:"registros"`
}

// decodeLedger fails only when the file itself is not a ledger. Malformed records are logged and dropped.
func decodeLedger(path string, data []byte) (*hours.Ledger, error) {
	var raw rawLedger
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ledger := &hours.Ledger{Users: raw.Users, Records: make([]hours.WorkRecord, 0, len(raw.Records))}
	for i, item := range raw.Records {
		var r hours.WorkRecord
		if err := json.Unmarshal(item, &r); err != nil {
			slog.Warn("Skipping malformed ledger record",
				slog.String("type", "db"),
				slog.String("path", path),
				slog.Int("index", i),
				slog.Any("error", err))
			continue
		}
		ledger.Records = append(ledger.Records, r)
	}
	return ledger.Normalize(), nil
}

// Save backs up the current file, best effort, and then replaces it atomically.
func (s *LedgerStore) Save(ctx context.Context, t tenant.Tenant, l *hours.Ledger) error {
	path := s.path(t)
	s.backup(ctx, t, path)

	if err := s.write(path, l.Normalize()); err != nil {
		return fmt.Errorf("save ledger %s: %w", path, err)
	}
	slog.Debug("Ledger saved",
		slog.String("type", "db"),
		slog.String("path", path),
		slog.Int("records", l.Len()))
	return nil
}

func (s *LedgerStore) write(path string, l *hours.Ledger) error {
	data, err := encode(l)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func (s *LedgerStore) backup(ctx context.Context, t tenant.Tenant, path string) {
	previous, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Skipping ledger backup",
				slog.String("type", "db"),
				slog.String("path", path),
				slog.Any("error", err))
		}
		return
	}

	name := BackupName(s.clock.Now())
	dest := filepath.Join(s.backupDir, t.ID.String(), name)
	if err := writeAtomic(dest, previous); err != nil {
		slog.Warn("Failed to write ledger backup",
			slog.String("type", "db"),
			slog.String("path", dest),
			slog.Any("error", err))
		return
	}

	if s.sink == nil {
		return
	}
	key := t.ID.String() + "/" + name
	if err := s.sink.Upload(ctx, key, previous); err != nil {
		slog.Warn("Failed to upload ledger backup",
			slog.String("type", "db"),
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// BackupName is the file name of a snapshot taken at t.
func BackupName(t time.Time) string {
	return "horas_backup_" + t.Format(backupLayout) + ".json"
}

var _ hours.Repository = (*LedgerStore)(nil)

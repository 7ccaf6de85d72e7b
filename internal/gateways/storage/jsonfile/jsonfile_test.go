package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTenant = tenant.Tenant{
	ID:           1000000000001,
	Name:         "Test",
	LedgerFile:   "horas_trabalho_1000000000001.json",
	SettingsFile: "configuracoes_bot_1000000000001.json",
}

type recordingSink struct {
	keys []string
	data [][]byte
	err  error
}

func (s *recordingSink) Upload(_ context.Context, key string, data []byte) error {
	s.keys = append(s.keys, key)
	s.data = append(s.data, data)
	return s.err
}

func newLedgerStore(t *testing.T, sink BackupSink) (*LedgerStore, string, *clock.FakeClock) {
	t.Helper()
	dir := t.TempDir()
	c := clock.Fake(time.Date(2024, 5, 15, 14, 30, 5, 0, time.UTC))
	return NewLedgerStore(dir, filepath.Join(dir, "backups"), sink, c), dir, c
}

func TestLedgerStore_LoadCreatesMissingFile(t *testing.T) {
	store, dir, _ := newLedgerStore(t, nil)

	ledger := store.Load(context.Background(), testTenant)
	assert.Equal(t, 0, ledger.Len())

	data, err := os.ReadFile(filepath.Join(dir, testTenant.LedgerFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"usuarios":{},"registros":[]}`, string(data))
}

func TestLedgerStore_LoadCorruptFileYieldsEmptyLedger(t *testing.T) {
	store, dir, _ := newLedgerStore(t, nil)
	path := filepath.Join(dir, testTenant.LedgerFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	ledger := store.Load(context.Background(), testTenant)
	assert.Equal(t, 0, ledger.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "a corrupt file must not be overwritten on load")
}

func TestLedgerStore_LoadSkipsMalformedRecords(t *testing.T) {
	store, dir, _ := newLedgerStore(t, nil)
	ctx := context.Background()
	path := filepath.Join(dir, testTenant.LedgerFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"usuarios":{},"registros":[
		{"data":"2024-05-01","nome":"Ana","horas":4.0},
		{"data":"2024-05-02","nome":"Bia","horas":"1.5"}
	]}`), 0o644))

	ledger := store.Load(ctx, testTenant)
	require.Equal(t, 1, ledger.Len())
	assert.Equal(t, "Ana", ledger.Records[0].Subject.Key())

	msgID := uint64(9)
	require.True(t, ledger.AppendIfNew(hours.WorkRecord{Date: "2024-05-03", Subject: hours.Named("X"), Hours: 1, MessageID: &msgID}))
	require.NoError(t, store.Save(ctx, testTenant, ledger))

	reloaded := store.Load(ctx, testTenant)
	require.Equal(t, 2, reloaded.Len())
	assert.Equal(t, 4.0, reloaded.Records[0].Hours)
}

func TestLedgerStore_SaveRoundTrip(t *testing.T) {
	store, dir, _ := newLedgerStore(t, nil)
	ctx := context.Background()

	msgID := uint64(9000000000001)
	ledger := hours.NewLedger()
	ledger.AppendIfNew(hours.WorkRecord{Date: "2024-05-14", Subject: hours.Named("João Silva"), Hours: 2.5, MessageID: &msgID})
	ledger.AppendIfNew(hours.WorkRecord{Date: "2024-05-15", Subject: hours.Mention(123456789012345678), Hours: 1, Manual: true, AddedBy: "admin"})
	require.NoError(t, store.Save(ctx, testTenant, ledger))

	loaded := store.Load(ctx, testTenant)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, "João Silva", loaded.Records[0].Subject.Key())
	assert.Equal(t, msgID, *loaded.Records[0].MessageID)
	assert.Equal(t, "<@123456789012345678>", loaded.Records[1].Subject.Key())
	assert.True(t, loaded.Records[1].Manual)

	data, err := os.ReadFile(filepath.Join(dir, testTenant.LedgerFile))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "João Silva", "unicode is written unescaped")
	assert.Contains(t, text, `"nome": "<@123456789012345678>"`, "mentions are written without html escaping")
	assert.Contains(t, text, "\n    \"registros\"", "four-space indent")
	assert.Contains(t, text, `"mensagem_id": 9000000000001`)
}

func TestLedgerStore_SaveWritesBackupOfPreviousFile(t *testing.T) {
	sink := &recordingSink{}
	store, dir, c := newLedgerStore(t, sink)
	ctx := context.Background()

	first := hours.NewLedger()
	first.AppendIfNew(hours.WorkRecord{Date: "2024-05-14", Subject: hours.Named("Ana"), Hours: 1})
	require.NoError(t, store.Save(ctx, testTenant, first))
	assert.Empty(t, sink.keys, "nothing to back up before the first save")

	previous, err := os.ReadFile(filepath.Join(dir, testTenant.LedgerFile))
	require.NoError(t, err)

	c.Advance(time.Minute)
	second := first.Clone()
	second.AppendIfNew(hours.WorkRecord{Date: "2024-05-15", Subject: hours.Named("Ana"), Hours: 2})
	require.NoError(t, store.Save(ctx, testTenant, second))

	backup := filepath.Join(dir, "backups", testTenant.ID.String(), "horas_backup_20240515_143105.json")
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, previous, data)

	require.Len(t, sink.keys, 1)
	assert.Equal(t, testTenant.ID.String()+"/horas_backup_20240515_143105.json", sink.keys[0])
	assert.Equal(t, previous, sink.data[0])
}

func TestLedgerStore_SinkFailureDoesNotFailSave(t *testing.T) {
	sink := &recordingSink{err: errors.New("bucket unavailable")}
	store, _, _ := newLedgerStore(t, sink)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testTenant, hours.NewLedger()))
	require.NoError(t, store.Save(ctx, testTenant, hours.NewLedger()))
	assert.Len(t, sink.keys, 1)
}

func TestLedgerStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, dir, _ := newLedgerStore(t, nil)
	require.NoError(t, store.Save(context.Background(), testTenant, hours.NewLedger()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestBackupName(t *testing.T) {
	name := BackupName(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "horas_backup_20240102_030405.json", name)
}

func TestSettingsStore_CreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(dir)

	settings, created, err := store.Load(context.Background(), testTenant)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, tenant.DefaultSettings(), settings)

	_, created, err = store.Load(context.Background(), testTenant)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSettingsStore_FillsMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, testTenant.SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"admin_users":[42],"auto_update":{"ativo":false}}`), 0o644))

	settings, created, err := NewSettingsStore(dir).Load(context.Background(), testTenant)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, []uint64{42}, settings.AdminUsers)
	assert.False(t, settings.AutoUpdate.Active)
	assert.Equal(t, tenant.DefaultIngestIntervalMinutes, settings.AutoUpdate.IntervalMinutes)
	assert.True(t, settings.Leaderboard.Active)
	assert.Equal(t, tenant.DefaultLeaderboardIntervalHours, settings.Leaderboard.IntervalHours)
	assert.Nil(t, settings.LogChannel)
}

func TestSettingsStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(dir)
	ctx := context.Background()

	channel := uint64(777)
	settings := tenant.DefaultSettings()
	settings.LogChannel = &channel
	settings.AddAdmin(5)
	settings.Leaderboard.IntervalHours = 6
	require.NoError(t, store.Save(ctx, testTenant, settings))

	data, err := os.ReadFile(filepath.Join(dir, testTenant.SettingsFile))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "leaderboard_update")

	loaded, _, err := store.Load(ctx, testTenant)
	require.NoError(t, err)
	id, ok := loaded.LogChannelID()
	assert.True(t, ok)
	assert.EqualValues(t, 777, id)
	assert.True(t, loaded.IsAdmin(5))
	assert.Equal(t, 6, loaded.Leaderboard.IntervalHours)
}

func TestSettingsStore_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, testTenant.SettingsFile), []byte("]"), 0o644))

	_, _, err := NewSettingsStore(dir).Load(context.Background(), testTenant)
	assert.Error(t, err)
}

package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsStore struct {
	stored  *Settings
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeSettingsStore) Load(_ context.Context, _ Tenant) (*Settings, bool, error) {
	f.loads++
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	if f.stored == nil {
		f.stored = DefaultSettings()
		return f.stored.Clone(), true, nil
	}
	return f.stored.Clone(), false, nil
}

func (f *fakeSettingsStore) Save(_ context.Context, _ Tenant, s *Settings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.stored = s.Clone()
	return nil
}

func TestDefaultSettingsJSON(t *testing.T) {
	data, err := json.Marshal(DefaultSettings())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"admin_users": [],
		"auto_update": {"ativo": true, "intervalo_minutos": 5, "ultima_atualizacao": null},
		"leaderboard_update": {"ativo": true, "intervalo_horas": 1, "ultima_atualizacao": null},
		"log_channel": null
	}`, string(data))
}

func TestTimestampRoundTrip(t *testing.T) {
	raw := `{"ativo":false,"intervalo_minutos":10,"ultima_atualizacao":"2024-05-15T14:30:01.123456"}`

	var trigger IngestTrigger
	require.NoError(t, json.Unmarshal([]byte(raw), &trigger))
	require.NotNil(t, trigger.LastRun)
	assert.Equal(t, 123456000, trigger.LastRun.Nanosecond())
	assert.Equal(t, 10*time.Minute, trigger.Interval())

	out, err := json.Marshal(trigger)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestTimestampAcceptsOffsetForm(t *testing.T) {
	parsed, err := ParseTimestamp("2024-05-15T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())

	_, err = ParseTimestamp("ontem")
	assert.Error(t, err)
}

func TestTriggerIntervalFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, 5*time.Minute, IngestTrigger{}.Interval())
	assert.Equal(t, time.Hour, LeaderboardTrigger{}.Interval())
}

func TestSettingsAdmins(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.AddAdmin(42))
	assert.False(t, s.AddAdmin(42))
	assert.True(t, s.IsAdmin(42))
	assert.True(t, s.RemoveAdmin(42))
	assert.False(t, s.RemoveAdmin(42))
	assert.Empty(t, s.AdminUsers)
}

func TestSettingsCacheLoadsOnce(t *testing.T) {
	store := &fakeSettingsStore{}
	cache := NewSettingsCache(store)
	tn := Tenant{ID: 1}
	ctx := context.Background()

	first := cache.Get(ctx, tn)
	first.AutoUpdate.Active = false
	second := cache.Get(ctx, tn)

	assert.Equal(t, 1, store.loads)
	assert.True(t, second.AutoUpdate.Active, "Get must hand out copies")
}

func TestSettingsCacheUpdate(t *testing.T) {
	store := &fakeSettingsStore{}
	cache := NewSettingsCache(store)
	tn := Tenant{ID: 1}
	ctx := context.Background()

	updated, err := cache.Update(ctx, tn, func(s *Settings) { s.AutoUpdate.IntervalMinutes = 15 })
	require.NoError(t, err)
	assert.Equal(t, 15, updated.AutoUpdate.IntervalMinutes)
	assert.Equal(t, 15, store.stored.AutoUpdate.IntervalMinutes)

	store.saveErr = errors.New("read-only")
	_, err = cache.Update(ctx, tn, func(s *Settings) { s.AutoUpdate.IntervalMinutes = 30 })
	require.Error(t, err)
	assert.Equal(t, 15, cache.Get(ctx, tn).AutoUpdate.IntervalMinutes)
}

func TestSettingsCacheFallsBackOnLoadError(t *testing.T) {
	store := &fakeSettingsStore{loadErr: errors.New("corrupt")}
	cache := NewSettingsCache(store)

	s := cache.Get(context.Background(), Tenant{ID: 1})
	assert.Equal(t, DefaultSettings(), s)
}

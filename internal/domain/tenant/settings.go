package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	DefaultIngestIntervalMinutes    = 5
	DefaultLeaderboardIntervalHours = 1
)

// TimestampLayout is the zone-less ISO form existing settings and ledger files use.
const TimestampLayout = "2006-01-02T15:04:05.999999"

// Timestamp is a wall-clock instant persisted without a zone offset.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", data, err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func ParseTimestamp(raw string) (time.Time, error) {
	if parsed, err := time.ParseInLocation(TimestampLayout, raw, time.Local); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
	}
	return parsed, nil
}

type IngestTrigger struct {
	Active          bool       `json:"ativo"`
	IntervalMinutes int        `json:"intervalo_minutos"`
	LastRun         *Timestamp `json:"ultima_atualizacao"`
}

func (t IngestTrigger) Interval() time.Duration {
	if t.IntervalMinutes < 1 {
		return DefaultIngestIntervalMinutes * time.Minute
	}
	return time.Duration(t.IntervalMinutes) * time.Minute
}

type LeaderboardTrigger struct {
	Active        bool       `json:"ativo"`
	IntervalHours int        `json:"intervalo_horas"`
	LastRun       *Timestamp `json:"ultima_atualizacao"`
}

func (t LeaderboardTrigger) Interval() time.Duration {
	if t.IntervalHours < 1 {
		return DefaultLeaderboardIntervalHours * time.Hour
	}
	return time.Duration(t.IntervalHours) * time.Hour
}

// Settings is the runtime configuration of one tenant, edited through operator commands.
type Settings struct {
	AdminUsers  []uint64           `json:"admin_users"`
	AutoUpdate  IngestTrigger      `json:"auto_update"`
	Leaderboard LeaderboardTrigger `json:"leaderboard_update"`
	LogChannel  *uint64            `json:"log_channel"`
}

func DefaultSettings() *Settings {
	return &Settings{
		AdminUsers: []uint64{},
		AutoUpdate: IngestTrigger{
			Active:          true,
			IntervalMinutes: DefaultIngestIntervalMinutes,
		},
		Leaderboard: LeaderboardTrigger{
			Active:        true,
			IntervalHours: DefaultLeaderboardIntervalHours,
		},
	}
}

func (s *Settings) IsAdmin(userID snowflake.ID) bool {
	return slices.Contains(s.AdminUsers, uint64(userID))
}

// AddAdmin reports false when the user already was an admin.
func (s *Settings) AddAdmin(userID snowflake.ID) bool {
	if s.IsAdmin(userID) {
		return false
	}
	s.AdminUsers = append(s.AdminUsers, uint64(userID))
	return true
}

func (s *Settings) RemoveAdmin(userID snowflake.ID) bool {
	i := slices.Index(s.AdminUsers, uint64(userID))
	if i < 0 {
		return false
	}
	s.AdminUsers = slices.Delete(s.AdminUsers, i, i+1)
	return true
}

func (s *Settings) LogChannelID() (snowflake.ID, bool) {
	if s.LogChannel == nil || *s.LogChannel == 0 {
		return 0, false
	}
	return snowflake.ID(*s.LogChannel), true
}

func (s *Settings) Clone() *Settings {
	c := *s
	c.AdminUsers = slices.Clone(s.AdminUsers)
	if s.LogChannel != nil {
		v := *s.LogChannel
		c.LogChannel = &v
	}
	if s.AutoUpdate.LastRun != nil {
		v := *s.AutoUpdate.LastRun
		c.AutoUpdate.LastRun = &v
	}
	if s.Leaderboard.LastRun != nil {
		v := *s.Leaderboard.LastRun
		c.Leaderboard.LastRun = &v
	}
	return &c
}

// SettingsStore persists settings. Load reports created=true when defaults were written.
type SettingsStore interface {
	Load(ctx context.Context, t Tenant) (settings *Settings, created bool, err error)
	Save(ctx context.Context, t Tenant, settings *Settings) error
}

// SettingsCache loads each tenant's settings once per process and serializes updates.
type SettingsCache struct {
	store SettingsStore
	mu    sync.Mutex
	byID  map[snowflake.ID]*Settings
}

func NewSettingsCache(store SettingsStore) *SettingsCache {
	return &SettingsCache{
		store: store,
		byID:  make(map[snowflake.ID]*Settings),
	}
}

// Get returns a copy of the tenant's settings. Read failures fall back to defaults.
func (c *SettingsCache) Get(ctx context.Context, t Tenant) *Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx, t).Clone()
}

func (c *SettingsCache) loadLocked(ctx context.Context, t Tenant) *Settings {
	if s, ok := c.byID[t.ID]; ok {
		return s
	}

	s, created, err := c.store.Load(ctx, t)
	if err != nil {
		slog.Error("Failed to load tenant settings",
			slog.String("type", "error"),
			slog.String("tenant", t.ID.String()),
			slog.Any("error", err))
		return DefaultSettings()
	}
	if created {
		slog.Info("Tenant settings initialized with defaults",
			slog.String("type", "sys"),
			slog.String("tenant", t.ID.String()))
	}
	c.byID[t.ID] = s
	return s
}

// Update applies fn to a working copy and persists it. The cached value only changes when the save succeeds.
func (c *SettingsCache) Update(ctx context.Context, t Tenant, fn func(s *Settings)) (*Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.loadLocked(ctx, t).Clone()
	fn(next)
	if err := c.store.Save(ctx, t, next); err != nil {
		return nil, fmt.Errorf("failed to save settings for tenant %s: %w", t.ID, err)
	}
	c.byID[t.ID] = next
	return next.Clone(), nil
}

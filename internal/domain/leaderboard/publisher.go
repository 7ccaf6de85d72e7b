package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

const (
	// Only the most recent messages are searched for previous leaderboards.
	cleanupScanLimit = 10
	deletePause      = 500 * time.Millisecond
)

var (
	ErrEmptyLedger          = errors.New("ledger has no records")
	ErrChannelNotConfigured = errors.New("leaderboard channel not configured")
)

// ChannelResult is the outcome of one replace cycle.
type ChannelResult struct {
	Period    Period
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Deleted   int
	Err       error
}

// Publisher replaces the bot's previous leaderboard in each output channel with a fresh one.
type Publisher struct {
	platform    platform.Platform
	names       hours.NameResolver
	clock       clock.Clock
	loc         *time.Location
	deletePause time.Duration

	mu    sync.Mutex
	locks map[snowflake.ID]*sync.Mutex
}

func NewPublisher(p platform.Platform, names hours.NameResolver, c clock.Clock, loc *time.Location) *Publisher {
	if loc == nil {
		loc = time.Local
	}
	return &Publisher{
		platform:    p,
		names:       names,
		clock:       c,
		loc:         loc,
		deletePause: deletePause,
		locks:       make(map[snowflake.ID]*sync.Mutex),
	}
}

func (p *Publisher) lock(id snowflake.ID) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.locks[id]
	if !ok {
		m = &sync.Mutex{}
		p.locks[id] = m
	}
	return m
}

// Publish renders the weekly and monthly views of ledger and runs the replace cycle in each channel.
// A failing channel does not stop the other one.
func (p *Publisher) Publish(ctx context.Context, t tenant.Tenant, ledger *hours.Ledger) ([]ChannelResult, error) {
	if ledger == nil || ledger.Len() == 0 {
		slog.Info("No records, skipping leaderboards",
			slog.String("type", "sys"),
			slog.String("tenant", t.ID.String()),
		)
		return nil, ErrEmptyLedger
	}

	lock := p.lock(t.ID)
	lock.Lock()
	defer lock.Unlock()

	now := p.clock.Now().In(p.loc)
	today := hours.DateOf(now)

	targets := []struct {
		period    Period
		channelID snowflake.ID
	}{
		{Weekly, t.WeeklyChannelID},
		{Monthly, t.MonthlyChannelID},
	}

	results := make([]ChannelResult, 0, len(targets))
	for _, target := range targets {
		w := target.period.Window(today)
		res := ChannelResult{Period: target.period, ChannelID: target.channelID}
		if target.channelID == 0 {
			res.Err = ErrChannelNotConfigured
		} else {
			embed := RenderPeriod(ctx, p.names, t.ID, hours.Rank(ledger, w), w, now)
			res.MessageID, res.Deleted, res.Err = p.replace(ctx, t, target.channelID, embed)
		}

		if res.Err != nil {
			slog.Error("Failed to publish leaderboard",
				slog.String("type", "error"),
				slog.String("tenant", t.ID.String()),
				slog.String("period", target.period.String()),
				slog.String("channel", target.channelID.String()),
				slog.Any("error", res.Err),
			)
		} else {
			slog.Info("Leaderboard published",
				slog.String("type", "sys"),
				slog.String("tenant", t.ID.String()),
				slog.String("period", target.period.String()),
				slog.String("message", res.MessageID.String()),
				slog.Int("deleted", res.Deleted),
			)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Publisher) replace(ctx context.Context, t tenant.Tenant, channelID snowflake.ID, embed platform.Embed) (snowflake.ID, int, error) {
	if _, err := p.platform.Channel(ctx, t.ID, channelID); err != nil {
		return 0, 0, fmt.Errorf("channel %s: %w", channelID, err)
	}
	perms, err := p.platform.Permissions(ctx, t.ID, channelID)
	if err != nil {
		return 0, 0, fmt.Errorf("permissions in %s: %w", channelID, err)
	}
	if !perms.Send {
		return 0, 0, fmt.Errorf("send in %s: %w", channelID, platform.ErrMissingAccess)
	}

	deleted := p.cleanup(ctx, channelID)

	id, err := p.platform.SendEmbed(ctx, channelID, embed)
	if err != nil {
		return 0, deleted, fmt.Errorf("send leaderboard: %w", err)
	}
	return id, deleted, nil
}

// cleanup deletes the bot's own messages among the most recent ones. Failures are logged and skipped.
func (p *Publisher) cleanup(ctx context.Context, channelID snowflake.ID) int {
	messages, err := p.platform.RecentMessages(ctx, channelID, cleanupScanLimit)
	if err != nil {
		slog.Warn("Failed to read leaderboard channel history",
			slog.String("type", "sys"),
			slog.String("channel", channelID.String()),
			slog.Any("error", err),
		)
		return 0
	}

	self := p.platform.SelfID()
	deleted := 0
	for _, msg := range messages {
		if msg.Author.ID != self {
			continue
		}
		if err := p.platform.DeleteMessage(ctx, channelID, msg.ID); err != nil {
			slog.Warn("Failed to delete previous leaderboard",
				slog.String("type", "sys"),
				slog.String("channel", channelID.String()),
				slog.String("message", msg.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		deleted++
		if err := clock.Sleep(ctx, p.clock, p.deletePause); err != nil {
			break
		}
	}
	return deleted
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/leaderboard"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"golang.org/x/sync/errgroup"
)

const (
	// gatePollInterval is how often a waiting leaderboard trigger rechecks the ingestion gate.
	gatePollInterval = 30 * time.Second
	// settleDelay separates the pre-publish scan from the publish.
	settleDelay = 3 * time.Second
	// startupParallelism bounds concurrent tenant scans on the startup pass.
	startupParallelism = 4
)

type Ingester interface {
	Ingest(ctx context.Context, t tenant.Tenant, limit int) hours.ScanResult
}

type Publisher interface {
	Publish(ctx context.Context, t tenant.Tenant, ledger *hours.Ledger) ([]leaderboard.ChannelResult, error)
}

type SettingsSource interface {
	Get(ctx context.Context, t tenant.Tenant) *tenant.Settings
	Update(ctx context.Context, t tenant.Tenant, fn func(s *tenant.Settings)) (*tenant.Settings, error)
}

type tenantState struct {
	ingested     chan struct{}
	ingestedOnce sync.Once

	rearmIngest      chan struct{}
	rearmLeaderboard chan struct{}
}

func newTenantState() *tenantState {
	return &tenantState{
		ingested:         make(chan struct{}),
		rearmIngest:      make(chan struct{}, 1),
		rearmLeaderboard: make(chan struct{}, 1),
	}
}

func (s *tenantState) markIngested() bool {
	first := false
	s.ingestedOnce.Do(func() {
		close(s.ingested)
		first = true
	})
	return first
}

func (s *tenantState) isIngested() bool {
	select {
	case <-s.ingested:
		return true
	default:
		return false
	}
}

// Scheduler drives the two periodic triggers of every tenant: ingestion and leaderboard publishing.
type Scheduler struct {
	tenants   []tenant.Tenant
	ingester  Ingester
	publisher Publisher
	settings  SettingsSource
	clock     clock.Clock
	procs     *ProcessManager

	settle  time.Duration
	started atomic.Bool

	servers     chan struct{}
	serversOnce sync.Once
	states      map[snowflake.ID]*tenantState
}

func New(tenants []tenant.Tenant, ingester Ingester, publisher Publisher, settings SettingsSource, c clock.Clock, procs *ProcessManager) *Scheduler {
	states := make(map[snowflake.ID]*tenantState, len(tenants))
	for _, t := range tenants {
		states[t.ID] = newTenantState()
	}
	return &Scheduler{
		tenants:   tenants,
		ingester:  ingester,
		publisher: publisher,
		settings:  settings,
		clock:     c,
		procs:     procs,
		settle:    settleDelay,
		servers:   make(chan struct{}),
		states:    states,
	}
}

// MarkServersVerified opens the first gate. Call it once the gateway reports at least one registered guild.
func (s *Scheduler) MarkServersVerified() {
	s.serversOnce.Do(func() {
		close(s.servers)
		slog.Info("Registered servers verified", slog.String("type", "sys"))
	})
}

func (s *Scheduler) ServersVerified() bool {
	select {
	case <-s.servers:
		return true
	default:
		return false
	}
}

// Ingested reports whether the tenant had a successful ingestion since startup.
func (s *Scheduler) Ingested(tenantID snowflake.ID) bool {
	st, ok := s.states[tenantID]
	return ok && st.isIngested()
}

// Processes lists the running triggers.
func (s *Scheduler) Processes() []Process {
	return s.procs.List()
}

// Start waits for the servers gate, scans every tenant once and then arms the triggers. It returns immediately.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.procs.Start("scheduler", "startup pass and trigger setup", func(ctx context.Context) {
		select {
		case <-ctx.Done():
			return
		case <-s.servers:
		}

		s.startupPass(ctx)

		for _, t := range s.tenants {
			s.procs.Start("ingest:"+t.ID.String(), "periodic category scan for "+t.Name, func(ctx context.Context) {
				s.ingestLoop(ctx, t)
			})
			s.procs.Start("leaderboard:"+t.ID.String(), "periodic leaderboard publishing for "+t.Name, func(ctx context.Context) {
				s.leaderboardLoop(ctx, t)
			})
		}
	})
}

func (s *Scheduler) Shutdown(timeout time.Duration) error {
	return s.procs.Shutdown(timeout)
}

func (s *Scheduler) startupPass(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(startupParallelism)
	for _, t := range s.tenants {
		g.Go(func() error {
			res := s.RunIngestion(gctx, t, hours.StartupScanLimit)
			if res.Err != nil {
				slog.Error("Initial ingestion failed",
					slog.String("type", "error"),
					slog.String("tenant", t.ID.String()),
					slog.Any("error", res.Err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Reconfigure re-arms both pending waits of a tenant so new settings apply without a restart.
func (s *Scheduler) Reconfigure(tenantID snowflake.ID) {
	st, ok := s.states[tenantID]
	if !ok {
		return
	}
	for _, ch := range []chan struct{}{st.rearmIngest, st.rearmLeaderboard} {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// RunIngestion scans the tenant, opens its ingestion gate and records the run when the scan persisted.
func (s *Scheduler) RunIngestion(ctx context.Context, t tenant.Tenant, limit int) hours.ScanResult {
	res := s.ingester.Ingest(ctx, t, limit)
	if res.Err != nil {
		return res
	}

	if st, ok := s.states[t.ID]; ok && st.markIngested() {
		slog.Info("Initial ingestion completed",
			slog.String("type", "sys"),
			slog.String("tenant", t.ID.String()))
	}

	now := s.clock.Now()
	if _, err := s.settings.Update(ctx, t, func(cfg *tenant.Settings) {
		cfg.AutoUpdate.LastRun = tenant.NewTimestamp(now)
	}); err != nil {
		slog.Error("Failed to record ingestion run",
			slog.String("type", "error"),
			slog.String("tenant", t.ID.String()),
			slog.Any("error", err))
	}
	return res
}

// RunLeaderboard scans, lets the save settle and publishes both leaderboards from the fresh ledger.
func (s *Scheduler) RunLeaderboard(ctx context.Context, t tenant.Tenant) ([]leaderboard.ChannelResult, error) {
	res := s.ingester.Ingest(ctx, t, hours.ScheduledScanLimit)
	if res.Err != nil {
		return nil, fmt.Errorf("pre-publish scan: %w", res.Err)
	}
	if err := clock.Sleep(ctx, s.clock, s.settle); err != nil {
		return nil, err
	}

	results, err := s.publisher.Publish(ctx, t, res.Ledger)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if _, err := s.settings.Update(ctx, t, func(cfg *tenant.Settings) {
		cfg.Leaderboard.LastRun = tenant.NewTimestamp(now)
	}); err != nil {
		slog.Error("Failed to record leaderboard run",
			slog.String("type", "error"),
			slog.String("tenant", t.ID.String()),
			slog.Any("error", err))
	}
	return results, nil
}

func (s *Scheduler) ingestLoop(ctx context.Context, t tenant.Tenant) {
	st := s.states[t.ID]
	for {
		interval := s.settings.Get(ctx, t).AutoUpdate.Interval()
		select {
		case <-ctx.Done():
			return
		case <-st.rearmIngest:
			continue
		case <-s.clock.After(interval):
		}

		if !s.settings.Get(ctx, t).AutoUpdate.Active {
			continue
		}
		s.RunIngestion(ctx, t, hours.ScheduledScanLimit)
	}
}

func (s *Scheduler) leaderboardLoop(ctx context.Context, t tenant.Tenant) {
	st := s.states[t.ID]
	for !st.isIngested() {
		select {
		case <-ctx.Done():
			return
		case <-st.ingested:
		case <-s.clock.After(gatePollInterval):
			slog.Debug("Leaderboard trigger waiting for initial ingestion",
				slog.String("type", "sys"),
				slog.String("tenant", t.ID.String()))
		}
	}

	due := true
	for {
		cfg := s.settings.Get(ctx, t)
		if due && cfg.Leaderboard.Active {
			if _, err := s.RunLeaderboard(ctx, t); err != nil && !errors.Is(err, leaderboard.ErrEmptyLedger) && ctx.Err() == nil {
				slog.Error("Scheduled leaderboard update failed",
					slog.String("type", "error"),
					slog.String("tenant", t.ID.String()),
					slog.Any("error", err))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-st.rearmLeaderboard:
			due = false
		case <-s.clock.After(cfg.Leaderboard.Interval()):
			due = true
		}
	}
}

package hours

import (
	"context"
	"errors"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

// Message history limits per run.
const (
	StartupScanLimit   = 200
	ScheduledScanLimit = 100
	ManualScanLimit    = 1000
)

type ScanResult struct {
	Ledger   *Ledger
	Added    int
	Channels int
	Skipped  int
	// Err is set only when new records could not be persisted.
	Err error
}

// Ingest reads the recent history of every readable text channel in the tenant's category and appends
// reports not seen before. The ledger is saved once, and only when something was added.
func (s *Service) Ingest(ctx context.Context, t tenant.Tenant, limit int) ScanResult {
	lock := s.locks.get(t.ID)
	lock.Lock()
	defer lock.Unlock()

	ledger := s.repo.Load(ctx, t)
	res := ScanResult{Ledger: ledger}

	channels, err := s.platform.TextChannels(ctx, t.ID, t.CategoryID)
	if err != nil {
		if errors.Is(err, platform.ErrCategoryNotFound) {
			slog.Warn("Hours category not found",
				slog.String("type", "sys"),
				slog.String("tenant", t.ID.String()),
				slog.String("category", t.CategoryID.String()),
			)
		} else {
			slog.Error("Failed to list category channels",
				slog.String("type", "error"),
				slog.String("tenant", t.ID.String()),
				slog.Any("error", err),
			)
		}
		res.Ledger = ledger.Clone()
		return res
	}

	community := s.platform.GuildName(t.ID)
	if community == "" {
		community = t.Name
	}
	seen := make(map[snowflake.ID]struct{})

	for _, ch := range channels {
		if ctx.Err() != nil {
			break
		}
		perms, err := s.platform.Permissions(ctx, t.ID, ch.ID)
		if err != nil || !perms.CanRead() {
			res.Skipped++
			continue
		}

		messages, err := s.platform.RecentMessages(ctx, ch.ID, limit)
		if err != nil {
			slog.Error("Failed to read channel history",
				slog.String("type", "error"),
				slog.String("tenant", t.ID.String()),
				slog.String("channel", ch.Name),
				slog.Any("error", err),
			)
			res.Skipped++
			continue
		}
		res.Channels++

		for _, msg := range messages {
			if _, ok := seen[msg.ID]; ok {
				continue
			}
			seen[msg.ID] = struct{}{}

			report, ok := s.parser.Parse(msg)
			if !ok {
				continue
			}
			messageID := uint64(msg.ID)
			// Ingested records keep the UTC day of the message; it is part of the dedup key.
			if ledger.AppendIfNew(WorkRecord{
				Date:        DateOf(msg.CreatedAt.UTC()).String(),
				Subject:     report.Subject,
				Hours:       report.Hours,
				MessageID:   &messageID,
				ProcessedAt: s.stamp(),
				TenantID:    uint64(t.ID),
				TenantName:  community,
			}) {
				res.Added++
			}
		}
	}

	if res.Added > 0 {
		if err := s.repo.Save(ctx, t, ledger); err != nil {
			slog.Error("Failed to save scanned records",
				slog.String("type", "db"),
				slog.String("tenant", t.ID.String()),
				slog.Int("added", res.Added),
				slog.Any("error", err),
			)
			res.Err = errors.Join(ErrSaveFailed, err)
		}
	}

	slog.Info("Category scanned",
		slog.String("type", "sys"),
		slog.String("tenant", t.ID.String()),
		slog.Int("channels", res.Channels),
		slog.Int("skipped", res.Skipped),
		slog.Int("added", res.Added),
		slog.Int("limit", limit),
	)
	res.Ledger = ledger.Clone()
	return res
}

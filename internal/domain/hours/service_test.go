package hours

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/platform/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T, repo Repository) (*Service, *mock.MockPlatform) {
	p := mock.NewMockPlatform(gomock.NewController(t))
	return NewService(repo, p, NewParser(), clock.Fake(testNow), time.UTC), p
}

func expectCategory(p *mock.MockPlatform, messages map[snowflake.ID][]platform.Message) {
	var channels []platform.Channel
	for id := range messages {
		channels = append(channels, platform.Channel{ID: id, Name: "ponto-" + id.String(), ParentID: testTenant.CategoryID})
	}
	p.EXPECT().TextChannels(gomock.Any(), testTenant.ID, testTenant.CategoryID).Return(channels, nil).AnyTimes()
	p.EXPECT().GuildName(testTenant.ID).Return("Oficina Mecânica").AnyTimes()
	p.EXPECT().Permissions(gomock.Any(), testTenant.ID, gomock.Any()).
		Return(platform.Permissions{View: true, ReadHistory: true}, nil).AnyTimes()
	for id, msgs := range messages {
		p.EXPECT().RecentMessages(gomock.Any(), id, gomock.Any()).Return(msgs, nil).AnyTimes()
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	repo := newMemRepository(nil)
	s, p := newTestService(t, repo)

	yesterday := testNow.Add(-24 * time.Hour)
	expectCategory(p, map[snowflake.ID][]platform.Message{
		10: {
			reportMessage(501, "<@123456789012345678>", "2h30m", testNow),
			reportMessage(502, "João", "45m", yesterday),
			{ID: 503, Author: platform.Author{DisplayName: "someone"}},
		},
	})

	first := s.Ingest(context.Background(), testTenant, ScheduledScanLimit)
	require.NoError(t, first.Err)
	assert.Equal(t, 2, first.Added)
	assert.Equal(t, 1, first.Channels)
	assert.Equal(t, 1, repo.saves)

	second := s.Ingest(context.Background(), testTenant, ScheduledScanLimit)
	require.NoError(t, second.Err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 1, repo.saves, "no save without new records")

	stored := repo.stored()
	require.Len(t, stored.Records, 2)
	r := stored.Records[0]
	assert.Equal(t, "2024-05-15", r.Date)
	assert.Equal(t, "<@123456789012345678>", r.Subject.String())
	require.NotNil(t, r.MessageID)
	assert.Equal(t, uint64(501), *r.MessageID)
	assert.Equal(t, uint64(testTenant.ID), r.TenantID)
	assert.Equal(t, "Oficina Mecânica", r.TenantName)
	assert.Equal(t, "2024-05-14", stored.Records[1].Date)
}

func TestIngestDatesMessagesByUTCDay(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	existing := NewLedger()
	existing.Records = []WorkRecord{ingested("2024-05-15", "<@123456789012345678>", 2.5, 777)}
	repo := newMemRepository(existing)
	p := mock.NewMockPlatform(gomock.NewController(t))
	s := NewService(repo, p, NewParser(), clock.Fake(testNow), saoPaulo)

	nearMidnight := time.Date(2024, 5, 15, 1, 30, 0, 0, time.UTC)
	expectCategory(p, map[snowflake.ID][]platform.Message{
		10: {
			reportMessage(777, "<@123456789012345678>", "2h30m", nearMidnight),
			reportMessage(778, "Ana", "1h", nearMidnight.Add(time.Minute)),
		},
	})

	res := s.Ingest(context.Background(), testTenant, ScheduledScanLimit)

	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Added)
	stored := repo.stored()
	require.Len(t, stored.Records, 2)
	assert.Equal(t, "2024-05-15", stored.Records[1].Date)
	assert.Equal(t, 2.5, SubjectTotal(stored, Mention(123456789012345678), nil))
}

func TestIngestCountsRepeatedMessageOnce(t *testing.T) {
	repo := newMemRepository(nil)
	s, p := newTestService(t, repo)

	dup := reportMessage(900, "<@123456789012345678>", "1h", testNow)
	expectCategory(p, map[snowflake.ID][]platform.Message{
		10: {dup, dup},
		11: {dup},
	})

	res := s.Ingest(context.Background(), testTenant, ScheduledScanLimit)

	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, res.Channels)
	assert.Len(t, repo.stored().Records, 1)
}

func TestIngestSkipsUnreadableChannels(t *testing.T) {
	repo := newMemRepository(nil)
	s, p := newTestService(t, repo)

	p.EXPECT().TextChannels(gomock.Any(), testTenant.ID, testTenant.CategoryID).
		Return([]platform.Channel{{ID: 10, Name: "fechado"}, {ID: 11, Name: "aberto"}}, nil)
	p.EXPECT().GuildName(testTenant.ID).Return("")
	p.EXPECT().Permissions(gomock.Any(), testTenant.ID, snowflake.ID(10)).Return(platform.Permissions{View: true}, nil)
	p.EXPECT().Permissions(gomock.Any(), testTenant.ID, snowflake.ID(11)).
		Return(platform.Permissions{View: true, ReadHistory: true}, nil)
	p.EXPECT().RecentMessages(gomock.Any(), snowflake.ID(11), ManualScanLimit).
		Return([]platform.Message{reportMessage(1, "Ana", "1h", testNow)}, nil)

	res := s.Ingest(context.Background(), testTenant, ManualScanLimit)

	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, testTenant.Name, repo.stored().Records[0].TenantName)
}

func TestIngestMissingCategory(t *testing.T) {
	existing := NewLedger()
	existing.Records = []WorkRecord{record("2024-05-01", "Ana", 1)}
	repo := newMemRepository(existing)
	s, p := newTestService(t, repo)

	p.EXPECT().TextChannels(gomock.Any(), testTenant.ID, testTenant.CategoryID).Return(nil, platform.ErrCategoryNotFound)

	res := s.Ingest(context.Background(), testTenant, StartupScanLimit)

	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 1, res.Ledger.Len())
	assert.Equal(t, 0, repo.saves)
}

func TestIngestReportsSaveFailure(t *testing.T) {
	repo := newMemRepository(nil)
	repo.saveErr = errDisk
	s, p := newTestService(t, repo)
	expectCategory(p, map[snowflake.ID][]platform.Message{
		10: {reportMessage(1, "Ana", "1h", testNow)},
	})

	res := s.Ingest(context.Background(), testTenant, ScheduledScanLimit)

	require.ErrorIs(t, res.Err, ErrSaveFailed)
	require.ErrorIs(t, res.Err, errDisk)
	assert.Equal(t, 1, res.Added)
}

func TestAddAndRemoveRoundTrip(t *testing.T) {
	repo := newMemRepository(nil)
	s, _ := newTestService(t, repo)
	ctx := context.Background()
	ana := ParseSubject("Ana")

	added, err := s.AddHours(ctx, testTenant, ana, 3, "2024-05-10", "admin")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, added.Total, 1e-9)

	_, err = s.AddHours(ctx, testTenant, ana, 2, "", "admin")
	require.NoError(t, err)

	removed, err := s.RemoveHours(ctx, testTenant, ana, 5, "", "admin")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, removed.Before, 1e-9)
	assert.InDelta(t, 5.0, removed.Removed, 1e-9)
	assert.InDelta(t, 0.0, removed.After, 1e-9)
	assert.Empty(t, repo.stored().Records)
}

func TestRemoveHoursDecrementsNewestFirst(t *testing.T) {
	l := NewLedger()
	l.Records = []WorkRecord{
		record("2024-05-01", "Ana", 4),
		record("2024-05-03", "Ana", 1),
		record("2024-05-02", "Bia", 2),
		record("2024-05-02", "Ana", 2),
	}
	repo := newMemRepository(l)
	s, _ := newTestService(t, repo)

	res, err := s.RemoveHours(context.Background(), testTenant, ParseSubject("Ana"), 4, "", "admin")
	require.NoError(t, err)
	assert.InDelta(t, 7.0, res.Before, 1e-9)
	assert.InDelta(t, 3.0, res.After, 1e-9)
	assert.InDelta(t, 0.0, res.Shortfall(), 1e-9)

	stored := repo.stored().Records
	require.Len(t, stored, 2)
	assert.Equal(t, "2024-05-01", stored[0].Date)
	assert.InDelta(t, 3.0, stored[0].Hours, 1e-9)
	assert.InDelta(t, 1.0, stored[0].HoursRemoved, 1e-9)
	assert.Equal(t, "admin", stored[0].ModifiedBy)
	assert.NotEmpty(t, stored[0].ModifiedAt)
	assert.Equal(t, "Bia", stored[1].Subject.Key())
}

func TestRemoveHoursShortfall(t *testing.T) {
	l := NewLedger()
	l.Records = []WorkRecord{record("2024-05-01", "Ana", 1), record("2024-05-02", "Ana", 1)}
	s, _ := newTestService(t, newMemRepository(l))

	res, err := s.RemoveHours(context.Background(), testTenant, ParseSubject("Ana"), 5, "2024-05-02", "admin")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Removed, 1e-9)
	assert.InDelta(t, 4.0, res.Shortfall(), 1e-9)
	assert.InDelta(t, 1.0, res.After, 1e-9)
}

func TestManualInputValidation(t *testing.T) {
	s, _ := newTestService(t, newMemRepository(nil))
	ctx := context.Background()
	ana := ParseSubject("Ana")

	_, err := s.AddHours(ctx, testTenant, ana, 0, "", "admin")
	assert.ErrorIs(t, err, ErrNonPositiveHours)

	_, err = s.AddHours(ctx, testTenant, ana, 1, "15/05/2024", "admin")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = s.RemoveHours(ctx, testTenant, ana, 1, "", "admin")
	assert.ErrorIs(t, err, ErrNoHours)

	_, err = s.ResetHours(ctx, testTenant, ana, "confirmar", "admin")
	assert.ErrorIs(t, err, ErrConfirmationRequired)
}

func TestResetHoursMatchesMentionAndID(t *testing.T) {
	l := NewLedger()
	l.Records = []WorkRecord{
		ingested("2024-05-01", "<@123456789012345678>", 2, 1),
		record("2024-05-02", "123456789012345678", 1),
		record("2024-05-02", "Ana", 1),
	}
	repo := newMemRepository(l)
	s, _ := newTestService(t, repo)

	res, err := s.ResetHours(context.Background(), testTenant, ParseSubject("123456789012345678"), ResetConfirmation, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	assert.InDelta(t, 3.0, res.Hours, 1e-9)
	assert.Len(t, repo.stored().Records, 1)
}

func TestSaveFailureSurfaces(t *testing.T) {
	repo := newMemRepository(nil)
	repo.saveErr = errDisk
	s, _ := newTestService(t, repo)

	_, err := s.AddHours(context.Background(), testTenant, ParseSubject("Ana"), 1, "", "admin")
	assert.ErrorIs(t, err, ErrSaveFailed)
}

package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/platform/mock"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	selfID    = snowflake.ID(900)
	weeklyID  = snowflake.ID(301)
	monthlyID = snowflake.ID(302)
)

var publishTenant = tenant.Tenant{ID: 1, Name: "Oficina", WeeklyChannelID: weeklyID, MonthlyChannelID: monthlyID}

func newTestPublisher(t *testing.T) (*Publisher, *mock.MockPlatform) {
	p := mock.NewMockPlatform(gomock.NewController(t))
	pub := NewPublisher(p, plainNames{}, clock.Fake(renderNow), time.UTC)
	pub.deletePause = 0
	return pub, p
}

func publishLedger() *hours.Ledger {
	l := hours.NewLedger()
	l.Records = []hours.WorkRecord{{Date: "2024-05-14", Subject: hours.Named("Ana"), Hours: 2}}
	return l
}

func TestPublishReplacesOwnMessagesOnly(t *testing.T) {
	pub, p := newTestPublisher(t)
	ctx := context.Background()

	p.EXPECT().SelfID().Return(selfID).AnyTimes()
	for _, id := range []snowflake.ID{weeklyID, monthlyID} {
		p.EXPECT().Channel(gomock.Any(), publishTenant.ID, id).Return(platform.Channel{ID: id}, nil)
		p.EXPECT().Permissions(gomock.Any(), publishTenant.ID, id).Return(platform.Permissions{View: true, Send: true}, nil)
	}

	p.EXPECT().RecentMessages(gomock.Any(), weeklyID, cleanupScanLimit).Return([]platform.Message{
		{ID: 1, Author: platform.Author{ID: selfID}},
		{ID: 2, Author: platform.Author{ID: 77}},
		{ID: 3, Author: platform.Author{ID: selfID}},
	}, nil)
	p.EXPECT().DeleteMessage(gomock.Any(), weeklyID, snowflake.ID(1)).Return(nil)
	p.EXPECT().DeleteMessage(gomock.Any(), weeklyID, snowflake.ID(3)).Return(errors.New("unknown message"))
	p.EXPECT().SendEmbed(gomock.Any(), weeklyID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ snowflake.ID, e platform.Embed) (snowflake.ID, error) {
			assert.Contains(t, e.Description, "13/05/2024 até 19/05/2024")
			return 501, nil
		}).Times(1)

	p.EXPECT().RecentMessages(gomock.Any(), monthlyID, cleanupScanLimit).Return(nil, nil)
	p.EXPECT().SendEmbed(gomock.Any(), monthlyID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ snowflake.ID, e platform.Embed) (snowflake.ID, error) {
			assert.Contains(t, e.Description, "01/05/2024 até 31/05/2024")
			return 502, nil
		}).Times(1)

	results, err := pub.Publish(ctx, publishTenant, publishLedger())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, Weekly, results[0].Period)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, snowflake.ID(501), results[0].MessageID)
	assert.Equal(t, 1, results[0].Deleted)

	assert.Equal(t, Monthly, results[1].Period)
	assert.Equal(t, snowflake.ID(502), results[1].MessageID)
}

func TestPublishSkipsMissingChannel(t *testing.T) {
	pub, p := newTestPublisher(t)

	p.EXPECT().SelfID().Return(selfID).AnyTimes()
	p.EXPECT().Channel(gomock.Any(), publishTenant.ID, weeklyID).Return(platform.Channel{}, platform.ErrChannelNotFound)
	p.EXPECT().Channel(gomock.Any(), publishTenant.ID, monthlyID).Return(platform.Channel{ID: monthlyID}, nil)
	p.EXPECT().Permissions(gomock.Any(), publishTenant.ID, monthlyID).Return(platform.Permissions{Send: true}, nil)
	p.EXPECT().RecentMessages(gomock.Any(), monthlyID, cleanupScanLimit).Return(nil, nil)
	p.EXPECT().SendEmbed(gomock.Any(), monthlyID, gomock.Any()).Return(snowflake.ID(9), nil)

	results, err := pub.Publish(context.Background(), publishTenant, publishLedger())
	require.NoError(t, err)

	assert.ErrorIs(t, results[0].Err, platform.ErrChannelNotFound)
	assert.NoError(t, results[1].Err)
}

func TestPublishRequiresSendPermission(t *testing.T) {
	pub, p := newTestPublisher(t)
	tn := publishTenant
	tn.MonthlyChannelID = 0

	p.EXPECT().Channel(gomock.Any(), tn.ID, weeklyID).Return(platform.Channel{ID: weeklyID}, nil)
	p.EXPECT().Permissions(gomock.Any(), tn.ID, weeklyID).Return(platform.Permissions{View: true}, nil)

	results, err := pub.Publish(context.Background(), tn, publishLedger())
	require.NoError(t, err)

	assert.ErrorIs(t, results[0].Err, platform.ErrMissingAccess)
	assert.ErrorIs(t, results[1].Err, ErrChannelNotConfigured)
}

func TestPublishSkipsEmptyLedger(t *testing.T) {
	pub, _ := newTestPublisher(t)

	results, err := pub.Publish(context.Background(), publishTenant, hours.NewLedger())
	assert.ErrorIs(t, err, ErrEmptyLedger)
	assert.Nil(t, results)
}

package asae

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/logger"
	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/leaderboard"
	"github.com/ellavondegurechaff/asae/internal/domain/members"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/scheduler"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	discordgw "github.com/ellavondegurechaff/asae/internal/gateways/discord"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/postgres"
)

func New(cfg Config, version string, commit string) (*Bot, error) {
	registry, err := tenant.NewRegistry(cfg.Tenants)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		Tenants:   registry,
		Clock:     clock.Real(),
		Location:  loc,
	}, nil
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	Clock     clock.Clock
	Location  *time.Location
	DB        *postgres.DB

	Tenants   *tenant.Registry
	Settings  *tenant.SettingsCache
	Platform  platform.Platform
	Hours     *hours.Service
	Names     *members.Resolver
	Publisher *leaderboard.Publisher
	Scheduler *scheduler.Scheduler
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
			gateway.IntentGuildMembers,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagChannels, cache.FlagRoles, cache.FlagMembers)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

// InitServices builds the domain services on top of the client. SetupBot must have run.
func (b *Bot) InitServices(ledgers hours.Repository, settings tenant.SettingsStore) {
	if b.Platform == nil {
		b.Platform = discordgw.New(b.Client)
	}
	b.Settings = tenant.NewSettingsCache(settings)
	b.Hours = hours.NewService(ledgers, b.Platform, hours.NewParser(b.Cfg.Bot.ReporterNames...), b.Clock, b.Location)
	b.Names = members.NewResolver(b.Platform, b.Clock)
	b.Publisher = leaderboard.NewPublisher(b.Platform, b.Names, b.Clock, b.Location)
	b.Scheduler = scheduler.New(b.Tenants.All(), b.Hours, b.Publisher, b.Settings, b.Clock,
		scheduler.NewProcessManager(context.Background()))
}

func (b *Bot) OnReady(_ *events.Ready) {
	logger.LogSystem("ASAE Bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), config.PresenceTimeout)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("os pontos"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		logger.LogError("Failed to set presence", err)
	}
}

// OnGuildReady opens the scheduler once the first registered guild shows up in the cache.
func (b *Bot) OnGuildReady(e *events.GuildReady) {
	if !b.Tenants.Allowed(e.GuildID) {
		slog.Warn("Guild is not registered, ignoring",
			slog.String("type", "sys"),
			slog.String("guild", e.GuildID.String()),
			slog.String("name", e.Guild.Name))
		return
	}

	logger.LogSystem("Registered guild available",
		slog.String("guild", e.GuildID.String()),
		slog.String("name", e.Guild.Name))
	b.Scheduler.MarkServersVerified()
	b.Scheduler.Start()
}

// OnMemberUpdate drops the cached display name of a member who changed it.
func (b *Bot) OnMemberUpdate(e *events.GuildMemberUpdate) {
	if e.OldMember.EffectiveName() != e.Member.EffectiveName() {
		b.Names.Forget(e.GuildID, e.Member.User.ID)
	}
}

// Audit echoes a manual change to the tenant's log channel, when one is configured.
func (b *Bot) Audit(ctx context.Context, t tenant.Tenant, embed platform.Embed) {
	channelID, ok := b.Settings.Get(ctx, t).LogChannelID()
	if !ok {
		return
	}
	if _, err := b.Platform.SendEmbed(ctx, channelID, embed); err != nil {
		slog.Warn("Failed to send audit log",
			slog.String("type", "sys"),
			slog.String("tenant", t.ID.String()),
			slog.String("channel", channelID.String()),
			slog.Any("error", err))
	}
}

// Shutdown stops the triggers, then the gateway and the database.
func (b *Bot) Shutdown(ctx context.Context) {
	var errs []error
	if b.Scheduler != nil {
		errs = append(errs, b.Scheduler.Shutdown(config.ShutdownTimeout))
	}
	if b.Client != nil {
		b.Client.Close(ctx)
	}
	if b.DB != nil {
		b.DB.Close()
	}
	if err := errors.Join(errs...); err != nil {
		logger.LogError("Unclean shutdown", err)
	}
}

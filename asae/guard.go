package asae

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

// Guard resolves the tenant of the invoking guild and checks that the invoker may run a command of scope.
func (b *Bot) Guard(ctx context.Context, e *handler.CommandEvent, scope tenant.Scope) (tenant.Tenant, *tenant.Settings, error) {
	guildID := e.GuildID()
	if guildID == nil {
		return tenant.Tenant{}, nil, tenant.ErrUnknownGuild
	}
	t, ok := b.Tenants.Lookup(*guildID)
	if !ok {
		return tenant.Tenant{}, nil, tenant.ErrUnknownGuild
	}

	settings := b.Settings.Get(ctx, t)
	inv := tenant.Invoker{UserID: e.User().ID}
	if member := e.Member(); member != nil {
		inv.GuildAdmin = member.Permissions.Has(discord.PermissionAdministrator)
		inv.Roles = member.RoleIDs
	}
	if scope == tenant.ScopeOwnHours && !inv.GuildAdmin && !settings.IsAdmin(inv.UserID) {
		if ch, err := b.Platform.Channel(ctx, t.ID, e.ChannelID()); err == nil {
			inv.ChannelCategoryID = ch.ParentID
		} else {
			slog.Debug("Invoking channel not resolved",
				slog.String("type", "cmd"),
				slog.String("channel", e.ChannelID().String()),
				slog.Any("error", err))
		}
	}

	if err := tenant.Authorize(t, settings, inv, scope); err != nil {
		return t, settings, err
	}
	return t, settings, nil
}

// Actor is the name manual changes are attributed to.
func Actor(e *handler.CommandEvent) string {
	if member := e.Member(); member != nil {
		return member.EffectiveName()
	}
	return e.User().EffectiveName()
}

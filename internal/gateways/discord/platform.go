package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
)

// pageSize is the most messages one history request returns.
const pageSize = 100

// Platform adapts a disgo client to the platform interface. Guild, channel and self-member data
// come from the gateway caches; history, sends and deletes go through REST.
type Platform struct {
	client bot.Client
}

func New(client bot.Client) *Platform {
	return &Platform{client: client}
}

func (p *Platform) SelfID() snowflake.ID {
	return p.client.ID()
}

func (p *Platform) GuildName(guildID snowflake.ID) string {
	if guild, ok := p.client.Caches().Guild(guildID); ok {
		return guild.Name
	}
	return ""
}

func (p *Platform) TextChannels(ctx context.Context, guildID snowflake.ID, categoryID snowflake.ID) ([]platform.Channel, error) {
	channels, err := p.client.Rest().GetGuildChannels(guildID, rest.WithCtx(ctx))
	if err != nil {
		return nil, translateError(err)
	}
	infos := make([]channelInfo, 0, len(channels))
	for _, ch := range channels {
		infos = append(infos, infoOf(ch))
	}
	return textChannelsIn(infos, categoryID)
}

func (p *Platform) Channel(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (platform.Channel, error) {
	ch, err := p.guildChannel(ctx, channelID)
	if err != nil {
		return platform.Channel{}, err
	}
	if ch.GuildID() != guildID {
		return platform.Channel{}, platform.ErrChannelNotFound
	}
	return infoOf(ch).channel, nil
}

func (p *Platform) guildChannel(ctx context.Context, channelID snowflake.ID) (discord.GuildChannel, error) {
	if ch, ok := p.client.Caches().Channel(channelID); ok {
		return ch, nil
	}
	ch, err := p.client.Rest().GetChannel(channelID, rest.WithCtx(ctx))
	if err != nil {
		return nil, translateError(err)
	}
	guildCh, ok := ch.(discord.GuildChannel)
	if !ok {
		return nil, platform.ErrChannelNotFound
	}
	return guildCh, nil
}

func (p *Platform) Permissions(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (platform.Permissions, error) {
	ch, err := p.guildChannel(ctx, channelID)
	if err != nil {
		return platform.Permissions{}, err
	}
	self, ok := p.client.Caches().SelfMember(guildID)
	if !ok {
		return platform.Permissions{}, fmt.Errorf("self member of guild %s not cached", guildID)
	}
	return fromPermissions(p.client.Caches().MemberPermissionsInChannel(ch, self)), nil
}

// RecentMessages walks the history backwards one page at a time until limit messages were read.
func (p *Platform) RecentMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]platform.Message, error) {
	var (
		out    []platform.Message
		before snowflake.ID
	)
	for len(out) < limit {
		n := min(pageSize, limit-len(out))
		page, err := p.client.Rest().GetMessages(channelID, 0, before, 0, n, rest.WithCtx(ctx))
		if err != nil {
			return out, translateError(err)
		}
		for _, msg := range page {
			out = append(out, fromMessage(msg))
		}
		if len(page) < n {
			break
		}
		before = page[len(page)-1].ID
	}
	return out, nil
}

func (p *Platform) SendEmbed(ctx context.Context, channelID snowflake.ID, embed platform.Embed) (snowflake.ID, error) {
	msg, err := p.client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(ToEmbed(embed)).
		Build(), rest.WithCtx(ctx))
	if err != nil {
		return 0, translateError(err)
	}
	return msg.ID, nil
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error {
	return translateError(p.client.Rest().DeleteMessage(channelID, messageID, rest.WithCtx(ctx)))
}

func (p *Platform) MemberName(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (string, error) {
	if member, ok := p.client.Caches().Member(guildID, userID); ok {
		return member.EffectiveName(), nil
	}
	member, err := p.client.Rest().GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return "", translateError(err)
	}
	return member.EffectiveName(), nil
}

var _ platform.Platform = (*Platform)(nil)

// translateError maps REST status codes onto the platform sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", platform.ErrChannelNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", platform.ErrMissingAccess, err)
		}
	}
	return err
}

package discord

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
)

type channelInfo struct {
	channel platform.Channel
	kind    discord.ChannelType
}

func infoOf(ch discord.GuildChannel) channelInfo {
	info := channelInfo{
		channel: platform.Channel{ID: ch.ID(), Name: ch.Name()},
		kind:    ch.Type(),
	}
	if parent := ch.ParentID(); parent != nil {
		info.channel.ParentID = *parent
	}
	return info
}

// textChannelsIn keeps the text channels parented to categoryID, in listing order.
// A category id that is not a category of the guild is an error.
func textChannelsIn(channels []channelInfo, categoryID snowflake.ID) ([]platform.Channel, error) {
	found := false
	var out []platform.Channel
	for _, ch := range channels {
		if ch.channel.ID == categoryID && ch.kind == discord.ChannelTypeGuildCategory {
			found = true
			continue
		}
		if ch.kind == discord.ChannelTypeGuildText && ch.channel.ParentID == categoryID {
			out = append(out, ch.channel)
		}
	}
	if !found {
		return nil, platform.ErrCategoryNotFound
	}
	return out, nil
}

func fromPermissions(perms discord.Permissions) platform.Permissions {
	return platform.Permissions{
		View:          perms.Has(discord.PermissionViewChannel),
		ReadHistory:   perms.Has(discord.PermissionReadMessageHistory),
		Send:          perms.Has(discord.PermissionSendMessages),
		ManageMessage: perms.Has(discord.PermissionManageMessages),
	}
}

func fromMessage(msg discord.Message) platform.Message {
	out := platform.Message{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		Author: platform.Author{
			ID:          msg.Author.ID,
			Bot:         msg.Author.Bot,
			DisplayName: msg.Author.EffectiveName(),
		},
		CreatedAt: msg.CreatedAt,
	}
	for _, e := range msg.Embeds {
		embed := platform.Embed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
			Timestamp:   e.Timestamp,
		}
		if e.Footer != nil {
			embed.Footer = e.Footer.Text
		}
		for _, f := range e.Fields {
			field := platform.Field{Name: f.Name, Value: f.Value}
			if f.Inline != nil {
				field.Inline = *f.Inline
			}
			embed.Fields = append(embed.Fields, field)
		}
		out.Embeds = append(out.Embeds, embed)
	}
	return out
}

// ToEmbed converts a rendered embed into the disgo wire type.
func ToEmbed(e platform.Embed) discord.Embed {
	b := discord.NewEmbedBuilder().
		SetTitle(e.Title).
		SetDescription(e.Description).
		SetColor(e.Color)
	for _, f := range e.Fields {
		b.AddField(f.Name, f.Value, f.Inline)
	}
	if e.Footer != "" {
		b.SetFooterText(e.Footer)
	}
	if e.Timestamp != nil {
		b.SetTimestamp(*e.Timestamp)
	}
	return b.Build()
}

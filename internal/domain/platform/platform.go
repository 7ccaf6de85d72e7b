package platform

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

//go:generate mockgen -destination=mock/platform.go -package=mock . Platform

var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrMissingAccess    = errors.New("missing access")
	ErrCategoryNotFound = errors.New("category not found")
)

// Field is a name/value pair of an embed, used for both inbound and outbound messages.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
	Timestamp   *time.Time
}

type Author struct {
	ID          snowflake.ID
	Bot         bool
	DisplayName string
}

type Message struct {
	ID        snowflake.ID
	ChannelID snowflake.ID
	Author    Author
	CreatedAt time.Time
	Embeds    []Embed
}

type Channel struct {
	ID       snowflake.ID
	Name     string
	ParentID snowflake.ID
}

// Permissions is the subset of channel permissions the bot cares about, evaluated for itself.
type Permissions struct {
	View          bool
	ReadHistory   bool
	Send          bool
	ManageMessage bool
}

func (p Permissions) CanRead() bool {
	return p.View && p.ReadHistory
}

// Platform is everything the core needs from the chat service.
type Platform interface {
	// SelfID returns the bot's own user id.
	SelfID() snowflake.ID
	GuildName(guildID snowflake.ID) string
	// TextChannels lists the text channels under a category.
	TextChannels(ctx context.Context, guildID snowflake.ID, categoryID snowflake.ID) ([]Channel, error)
	Channel(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (Channel, error)
	Permissions(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) (Permissions, error)
	// RecentMessages returns up to limit messages, newest first.
	RecentMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]Message, error)
	SendEmbed(ctx context.Context, channelID snowflake.ID, embed Embed) (snowflake.ID, error)
	DeleteMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error
	// MemberName resolves the display name of a guild member.
	MemberName(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (string, error)
}

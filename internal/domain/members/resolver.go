package members

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/clock"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	lru "github.com/hashicorp/golang-lru"
)

const (
	cacheSize   = 2048
	cacheExpiry = 30 * time.Minute
)

type cacheKey struct {
	guildID snowflake.ID
	userID  snowflake.ID
}

type cachedName struct {
	name      string
	timestamp time.Time
}

// Resolver turns subjects into the names members see, caching lookups per guild.
type Resolver struct {
	platform platform.Platform
	cache    *lru.Cache
	clock    clock.Clock
	expiry   time.Duration
}

func NewResolver(p platform.Platform, c clock.Clock) *Resolver {
	cache, _ := lru.New(cacheSize)
	return &Resolver{
		platform: p,
		cache:    cache,
		clock:    c,
		expiry:   cacheExpiry,
	}
}

// FallbackName is shown for ids that no longer belong to a guild member.
func FallbackName(userID snowflake.ID) string {
	return fmt.Sprintf("Usuário %s", userID)
}

// FriendlyName returns the display name for id-based subjects and the stored text for plain names.
func (r *Resolver) FriendlyName(ctx context.Context, guildID snowflake.ID, subject hours.Subject) string {
	userID, ok := subject.UserID()
	if !ok {
		return subject.Name
	}
	return r.DisplayName(ctx, guildID, userID)
}

func (r *Resolver) DisplayName(ctx context.Context, guildID, userID snowflake.ID) string {
	key := cacheKey{guildID: guildID, userID: userID}
	if cached, ok := r.cache.Get(key); ok {
		entry := cached.(cachedName)
		if r.clock.Now().Sub(entry.timestamp) < r.expiry {
			return entry.name
		}
		r.cache.Remove(key)
	}

	name, err := r.platform.MemberName(ctx, guildID, userID)
	if err != nil || name == "" {
		slog.Debug("Member not resolved",
			slog.String("type", "sys"),
			slog.String("guild", guildID.String()),
			slog.String("user", userID.String()),
			slog.Any("error", err),
		)
		return FallbackName(userID)
	}

	r.cache.Add(key, cachedName{name: name, timestamp: r.clock.Now()})
	return name
}

// Forget drops a cached name, used when a member changes nickname.
func (r *Resolver) Forget(guildID, userID snowflake.ID) {
	r.cache.Remove(cacheKey{guildID: guildID, userID: userID})
}

var _ hours.NameResolver = (*Resolver)(nil)

package tenant

import (
	"errors"
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrUnknownGuild  = errors.New("guild is not registered")
	ErrNotAllowed    = errors.New("not allowed")
	ErrMissingRole   = errors.New("missing viewer role")
	ErrWrongCategory = errors.New("command used outside the hours category")
)

type Scope int

const (
	// ScopeAdmin covers every command that reads other users' hours or mutates state.
	ScopeAdmin Scope = iota
	// ScopeOwnHours is the self-service view, open to holders of the viewer role.
	ScopeOwnHours
	// ScopeGuildAdmin is reserved to members holding the guild Administrator permission.
	ScopeGuildAdmin
)

// Invoker describes who ran a command and where.
type Invoker struct {
	UserID            snowflake.ID
	GuildAdmin        bool
	Roles             []snowflake.ID
	ChannelCategoryID snowflake.ID
}

// Authorize returns nil when the invoker may run a command of the given scope.
func Authorize(t Tenant, s *Settings, inv Invoker, scope Scope) error {
	if scope == ScopeGuildAdmin {
		if inv.GuildAdmin {
			return nil
		}
		return ErrNotAllowed
	}
	if inv.GuildAdmin || s.IsAdmin(inv.UserID) {
		return nil
	}
	if scope != ScopeOwnHours {
		return ErrNotAllowed
	}
	if inv.ChannelCategoryID != t.HoursCategoryID {
		return ErrWrongCategory
	}
	if t.ViewerRoleID == 0 || !slices.Contains(inv.Roles, t.ViewerRoleID) {
		return ErrMissingRole
	}
	return nil
}

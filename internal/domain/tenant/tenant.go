package tenant

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// Tenant is one community (guild) the bot serves, with the channels and files that belong to it.
type Tenant struct {
	ID                snowflake.ID `toml:"id"`
	Name              string       `toml:"name"`
	CategoryID        snowflake.ID `toml:"category_id"`
	HoursCategoryID   snowflake.ID `toml:"hours_category_id"`
	ArchiveCategoryID snowflake.ID `toml:"archive_category_id"`
	WeeklyChannelID   snowflake.ID `toml:"weekly_channel_id"`
	MonthlyChannelID  snowflake.ID `toml:"monthly_channel_id"`
	ViewerRoleID      snowflake.ID `toml:"viewer_role_id"`
	LedgerFile        string       `toml:"ledger_file"`
	SettingsFile      string       `toml:"settings_file"`
	Default           bool         `toml:"default"`
}

// Registry is the fixed set of tenants known at startup.
type Registry struct {
	order    []snowflake.ID
	tenants  map[snowflake.ID]Tenant
	fallback snowflake.ID
}

func NewRegistry(tenants []Tenant) (*Registry, error) {
	if len(tenants) == 0 {
		return nil, fmt.Errorf("no tenants configured")
	}

	r := &Registry{
		tenants:  make(map[snowflake.ID]Tenant, len(tenants)),
		fallback: tenants[0].ID,
	}
	for _, t := range tenants {
		if t.ID == 0 {
			return nil, fmt.Errorf("tenant %q has no id", t.Name)
		}
		if _, ok := r.tenants[t.ID]; ok {
			return nil, fmt.Errorf("tenant %s registered twice", t.ID)
		}
		if t.HoursCategoryID == 0 {
			t.HoursCategoryID = t.CategoryID
		}
		if t.LedgerFile == "" {
			t.LedgerFile = fmt.Sprintf("horas_trabalho_%s.json", t.ID)
		}
		if t.SettingsFile == "" {
			t.SettingsFile = fmt.Sprintf("configuracoes_bot_%s.json", t.ID)
		}
		if t.Default {
			r.fallback = t.ID
		}
		r.tenants[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return r, nil
}

// Lookup returns the tenant registered for guildID. Unregistered guilds are not served.
func (r *Registry) Lookup(guildID snowflake.ID) (Tenant, bool) {
	t, ok := r.tenants[guildID]
	return t, ok
}

// Resolve returns the tenant for guildID, or the default tenant.
func (r *Registry) Resolve(guildID snowflake.ID) Tenant {
	if t, ok := r.tenants[guildID]; ok {
		return t
	}
	return r.tenants[r.fallback]
}

func (r *Registry) Allowed(guildID snowflake.ID) bool {
	_, ok := r.tenants[guildID]
	return ok
}

// All returns the tenants in registration order.
func (r *Registry) All() []Tenant {
	all := make([]Tenant, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.tenants[id])
	}
	return all
}

package tenant

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry([]Tenant{
		{ID: 1, Name: "Primeiro", CategoryID: 10},
		{ID: 2, Name: "Segundo", CategoryID: 20, HoursCategoryID: 21, LedgerFile: "custom.json", Default: true},
	})
	require.NoError(t, err)

	first, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(10), first.HoursCategoryID)
	assert.Equal(t, "horas_trabalho_1.json", first.LedgerFile)
	assert.Equal(t, "configuracoes_bot_1.json", first.SettingsFile)

	second, _ := r.Lookup(2)
	assert.Equal(t, snowflake.ID(21), second.HoursCategoryID)
	assert.Equal(t, "custom.json", second.LedgerFile)

	assert.Equal(t, snowflake.ID(2), r.Resolve(99).ID)
	assert.False(t, r.Allowed(99))
	assert.Equal(t, []snowflake.ID{1, 2}, []snowflake.ID{r.All()[0].ID, r.All()[1].ID})
}

func TestNewRegistryRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		tenants []Tenant
	}{
		{"empty", nil},
		{"missing id", []Tenant{{Name: "sem id"}}},
		{"duplicate", []Tenant{{ID: 1}, {ID: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.tenants)
			assert.Error(t, err)
		})
	}
}

func TestAuthorize(t *testing.T) {
	tn := Tenant{ID: 1, HoursCategoryID: 10, ViewerRoleID: 500}
	settings := DefaultSettings()
	settings.AddAdmin(7)

	tests := []struct {
		name  string
		inv   Invoker
		scope Scope
		want  error
	}{
		{"guild admin", Invoker{UserID: 1, GuildAdmin: true}, ScopeAdmin, nil},
		{"settings admin", Invoker{UserID: 7}, ScopeAdmin, nil},
		{"member on admin command", Invoker{UserID: 8, Roles: []snowflake.ID{500}, ChannelCategoryID: 10}, ScopeAdmin, ErrNotAllowed},
		{"viewer in hours category", Invoker{UserID: 8, Roles: []snowflake.ID{500}, ChannelCategoryID: 10}, ScopeOwnHours, nil},
		{"viewer elsewhere", Invoker{UserID: 8, Roles: []snowflake.ID{500}, ChannelCategoryID: 11}, ScopeOwnHours, ErrWrongCategory},
		{"no role", Invoker{UserID: 8, ChannelCategoryID: 10}, ScopeOwnHours, ErrMissingRole},
		{"settings admin on guild admin command", Invoker{UserID: 7}, ScopeGuildAdmin, ErrNotAllowed},
		{"guild admin on guild admin command", Invoker{UserID: 1, GuildAdmin: true}, ScopeGuildAdmin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Authorize(tn, settings, tt.inv, tt.scope), tt.want)
		})
	}
}

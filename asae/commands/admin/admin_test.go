package admin

import (
	"fmt"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/scheduler"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminEmbed(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		changed bool
		title   string
		color   int
	}{
		{"added", actionAdd, true, "✅ Administrador Adicionado", config.SuccessColor},
		{"already admin", actionAdd, false, "⚠️ Usuário Já é Administrador", config.WarningColor},
		{"removed", actionRemove, true, "✅ Administrador Removido", config.SuccessColor},
		{"not an admin", actionRemove, false, "❌ Usuário Não é Administrador", config.ErrorColor},
		{"invalid action", "promover", false, "❌ Ação Inválida", config.ErrorColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := adminEmbed(tt.action, "<@42>", tt.changed)
			assert.Equal(t, tt.title, embed.Title)
			assert.Equal(t, tt.color, embed.Color)
		})
	}
}

func TestSettingsEmbed(t *testing.T) {
	settings := tenant.DefaultSettings()
	settings.AutoUpdate.LastRun = tenant.NewTimestamp(time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC))

	embed := settingsEmbed(settingsView{
		Admins:     []string{"<@1>", "`2`"},
		ViewerRole: 500,
		Settings:   settings,
		LogChannel: "Não definido",
		Storage:    "Horas: `a.json`",
	})

	require.Len(t, embed.Fields, 6)
	assert.Equal(t, "<@1>\n`2`", embed.Fields[0].Value)
	assert.Contains(t, embed.Fields[1].Value, "<@&500>")
	assert.Equal(t, "Status: ✅ Ativo\nIntervalo: 5 minutos\nÚltima execução: 04/03/2025 10:30", embed.Fields[2].Value)
	assert.Equal(t, "Status: ✅ Ativo\nIntervalo: 1 hora(s)\nÚltima execução: nunca", embed.Fields[3].Value)
}

func TestSettingsEmbed_NoAdminsNoRole(t *testing.T) {
	embed := settingsEmbed(settingsView{Settings: tenant.DefaultSettings(), LogChannel: "Não definido"})

	assert.Equal(t, "Nenhum administrador definido", embed.Fields[0].Value)
	assert.Len(t, embed.Fields, 5)
}

func TestBulletList(t *testing.T) {
	items := make([]string, 12)
	for i := range items {
		items[i] = fmt.Sprintf("#canal-%d", i)
	}

	got := bulletList(items, 10, "canais")
	assert.Contains(t, got, "• #canal-0\n")
	assert.Contains(t, got, "• #canal-9\n")
	assert.NotContains(t, got, "#canal-10")
	assert.True(t, len(got) > 0 && got[len(got)-1] != '\n')
	assert.Contains(t, got, "... e mais 2 canais")

	assert.Equal(t, "• a\n• b", bulletList([]string{"a", "b"}, 10, "canais"))
}

func TestReviewEmbed(t *testing.T) {
	channels := []platform.Channel{{ID: 1, Name: "joao-silva"}}

	t.Run("no channels", func(t *testing.T) {
		embed := reviewEmbed(hours.ArchiveReport{})
		assert.Equal(t, "Nenhum canal de texto encontrado na categoria de arquivados.", embed.Description)
	})

	t.Run("nobody identified", func(t *testing.T) {
		embed := reviewEmbed(hours.ArchiveReport{Channels: channels})
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "• #joao-silva", embed.Fields[0].Value)
	})

	t.Run("identified without hours", func(t *testing.T) {
		embed := reviewEmbed(hours.ArchiveReport{Channels: channels, Identified: []string{"Joao Silva"}})
		assert.Contains(t, embed.Description, "nenhum tem horas registradas")
		assert.Equal(t, "• Joao Silva", embed.Fields[0].Value)
	})

	t.Run("confirmation", func(t *testing.T) {
		embed := reviewEmbed(hours.ArchiveReport{
			Channels:   channels,
			Identified: []string{"Joao Silva"},
			Matches:    []hours.ArchiveMatch{{Subject: hours.Named("Joao Silva"), Name: "Joao Silva", Hours: 12.5}},
			Total:      12.5,
		})
		assert.Equal(t, "⚠️ CONFIRMAÇÃO REQUERIDA - Reset de Horas", embed.Title)
		assert.Contains(t, embed.Description, "**Total de horas a serem removidas:** 12.5h")
		assert.Contains(t, embed.Description, "`/arquivados confirmar: CONFIRMAR`")
		assert.Equal(t, "1. Joao Silva - 12.5h\n", embed.Fields[0].Value)
	})
}

func TestPurgeEmbed(t *testing.T) {
	var matches []hours.ArchiveMatch
	for i := range 7 {
		matches = append(matches, hours.ArchiveMatch{Name: fmt.Sprintf("user%d", i), Hours: 1})
	}

	embed := purgeEmbed(hours.ArchiveReport{Matches: matches, Total: 7, RecordsRemoved: 9, Purged: true}, "Ana")

	assert.Equal(t, "**Total de horas removidas:** 7.0h\n**Registros removidos:** 9\n**Usuários afetados:** 7", embed.Description)
	assert.Contains(t, embed.Fields[0].Value, "5. user4 - 1.0h\n")
	assert.Contains(t, embed.Fields[0].Value, "... e mais 2 usuários")
	assert.Equal(t, &discord.EmbedFooter{Text: "Ação realizada por Ana"}, embed.Footer)
}

func TestDebugEmbed(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	embed := debugEmbed(debugView{
		Tenant:  tenant.Tenant{ID: 99, Name: "Oficina"},
		Storage: "json",
		Files: []fileStatus{
			{Label: "📁 Arquivo de horas", Path: "horas.json", Exists: true},
			{Label: "📁 Arquivo de config", Path: "config.json"},
		},
		Records:   3,
		Ingested:  true,
		Processes: []scheduler.Process{{Name: "ingest:99", Started: now.Add(-90 * time.Second)}},
		Version:   "dev",
		Commit:    "abc",
		Now:       now,
	})

	values := make(map[string]string)
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "✅ Existe: horas.json", values["📁 Arquivo de horas"])
	assert.Equal(t, "❌ Não existe: config.json", values["📁 Arquivo de config"])
	assert.Equal(t, "Oficina (ID: 99)", values["🎯 Servidor atual"])
	assert.Equal(t, "Servidores verificados: ❌ Não\nProcessamento inicial: ✅ Sim", values["⏱️ Agendador"])
	assert.Equal(t, "• `ingest:99` há 1m30s\n", values["⚙️ Processos"])
	assert.Equal(t, "Versão dev (abc)", embed.Footer.Text)
}

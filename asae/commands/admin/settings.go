package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/utils"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

var Settings = discord.SlashCommandCreate{
	Name:        "configuracoes",
	Description: "Configura permissões e comportamentos do bot",
}

// settingsView carries everything the settings embed shows, already resolved against the guild.
type settingsView struct {
	Admins     []string
	ViewerRole snowflake.ID
	Settings   *tenant.Settings
	LogChannel string
	Storage    string
	Now        time.Time
}

func SettingsHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, settings, err := b.Guard(ctx, e, tenant.ScopeGuildAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		view := settingsView{
			ViewerRole: t.ViewerRoleID,
			Settings:   settings,
			LogChannel: "Não definido",
			Storage:    storageText(b.Cfg, t),
			Now:        b.Clock.Now(),
		}
		for _, id := range settings.AdminUsers {
			userID := snowflake.ID(id)
			if _, err := b.Platform.MemberName(ctx, t.ID, userID); err == nil {
				view.Admins = append(view.Admins, discord.UserMention(userID))
			} else {
				view.Admins = append(view.Admins, fmt.Sprintf("`%d`", id))
			}
		}
		if channelID, ok := settings.LogChannelID(); ok {
			if _, err := b.Platform.Channel(ctx, t.ID, channelID); err == nil {
				view.LogChannel = discord.ChannelMention(channelID)
			} else {
				view.LogChannel = fmt.Sprintf("`%s` (não encontrado)", channelID)
			}
		}
		return utils.EH.CreateEphemeralEmbed(e, settingsEmbed(view))
	}
}

func storageText(cfg asae.Config, t tenant.Tenant) string {
	if cfg.Storage.Driver == asae.StoragePostgres {
		return fmt.Sprintf("Postgres: `%s`", cfg.DB.Database)
	}
	return fmt.Sprintf("Horas: `%s`\nConfig: `%s`", t.LedgerFile, t.SettingsFile)
}

func lastRunText(ts *tenant.Timestamp) string {
	if ts == nil {
		return "nunca"
	}
	return ts.Format("02/01/2006 15:04")
}

func settingsEmbed(v settingsView) discord.Embed {
	admins := "Nenhum administrador definido"
	if len(v.Admins) > 0 {
		admins = strings.Join(v.Admins, "\n")
	}

	fields := []discord.EmbedField{
		{Name: "👑 Administradores", Value: admins, Inline: utils.Ptr(false)},
	}
	if v.ViewerRole != 0 {
		fields = append(fields, discord.EmbedField{
			Name:   "👥 Cargo de Consulta",
			Value:  fmt.Sprintf("%s\n*Acesso apenas ao comando /minhas_horas*", discord.RoleMention(v.ViewerRole)),
			Inline: utils.Ptr(false),
		})
	}

	auto := v.Settings.AutoUpdate
	board := v.Settings.Leaderboard
	fields = append(fields,
		discord.EmbedField{
			Name:   "🔄 Auto-Update Pontos",
			Value:  fmt.Sprintf("Status: %s\nIntervalo: %d minutos\nÚltima execução: %s", stateText(auto.Active), int(auto.Interval().Minutes()), lastRunText(auto.LastRun)),
			Inline: utils.Ptr(false),
		},
		discord.EmbedField{
			Name:   "🏆 Auto-Update Leaderboards",
			Value:  fmt.Sprintf("Status: %s\nIntervalo: %d hora(s)\nÚltima execução: %s", stateText(board.Active), int(board.Interval().Hours()), lastRunText(board.LastRun)),
			Inline: utils.Ptr(false),
		},
		discord.EmbedField{Name: "📋 Canal de Log", Value: v.LogChannel, Inline: utils.Ptr(true)},
		discord.EmbedField{Name: "📁 Armazenamento do Servidor", Value: v.Storage, Inline: utils.Ptr(false)},
	)

	return discord.Embed{
		Title:     "⚙️ Configurações do Bot",
		Color:     config.InfoColor,
		Fields:    fields,
		Timestamp: &v.Now,
	}
}

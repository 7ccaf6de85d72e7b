package admin

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/utils"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

var ConfigAutoUpdate = discord.SlashCommandCreate{
	Name:        "config_auto_update",
	Description: "Configura atualização automática",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "status",
			Description: "Ativar ou desativar auto-update",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "intervalo_minutos",
			Description: "Intervalo em minutos (padrão: 5)",
		},
	},
}

var ConfigLeaderboardUpdate = discord.SlashCommandCreate{
	Name:        "config_leaderboard_update",
	Description: "Configura atualização automática das leaderboards",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "status",
			Description: "Ativar ou desativar auto-update das leaderboards",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "intervalo_horas",
			Description: "Intervalo em horas (padrão: 1)",
		},
	},
}

var ConfigLogChannel = discord.SlashCommandCreate{
	Name:        "config_log_channel",
	Description: "Define o canal para logs do bot",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:         "canal",
			Description:  "Canal para enviar logs",
			Required:     true,
			ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
		},
	},
}

func ConfigAutoUpdateHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeGuildAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		data := e.SlashCommandInteractionData()
		active := data.Bool("status")
		interval, ok := data.OptInt("intervalo_minutos")
		if !ok {
			interval = tenant.DefaultIngestIntervalMinutes
		}
		if interval < 1 {
			return utils.EH.CreateEphemeralError(e, "Intervalo deve ser pelo menos 1 minuto.")
		}

		if _, err := b.Settings.Update(ctx, t, func(s *tenant.Settings) {
			s.AutoUpdate.Active = active
			s.AutoUpdate.IntervalMinutes = interval
		}); err != nil {
			return utils.EH.CreateEphemeralError(e, "Erro ao salvar configurações.")
		}
		b.Scheduler.Reconfigure(t.ID)

		return utils.EH.CreateEphemeralEmbed(e, triggerEmbed("🔄 Auto-Update Configurado",
			fmt.Sprintf("Status: %s\nIntervalo: %d minutos", statusText(active), interval)))
	}
}

func ConfigLeaderboardUpdateHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeGuildAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		data := e.SlashCommandInteractionData()
		active := data.Bool("status")
		interval, ok := data.OptInt("intervalo_horas")
		if !ok {
			interval = tenant.DefaultLeaderboardIntervalHours
		}
		if interval < 1 {
			return utils.EH.CreateEphemeralError(e, "Intervalo deve ser pelo menos 1 hora.")
		}

		if _, err := b.Settings.Update(ctx, t, func(s *tenant.Settings) {
			s.Leaderboard.Active = active
			s.Leaderboard.IntervalHours = interval
		}); err != nil {
			return utils.EH.CreateEphemeralError(e, "Erro ao salvar configurações.")
		}
		b.Scheduler.Reconfigure(t.ID)

		return utils.EH.CreateEphemeralEmbed(e, triggerEmbed("🏆 Auto-Update Leaderboards Configurado",
			fmt.Sprintf("Status: %s\nIntervalo: %d hora(s)", statusText(active), interval)))
	}
}

func ConfigLogChannelHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeGuildAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		channel := e.SlashCommandInteractionData().Channel("canal")
		if _, err := b.Settings.Update(ctx, t, func(s *tenant.Settings) {
			s.LogChannel = utils.Ptr(uint64(channel.ID))
		}); err != nil {
			return utils.EH.CreateEphemeralError(e, "Erro ao salvar configurações.")
		}

		return utils.EH.CreateEphemeralEmbed(e, discord.Embed{
			Title:       "✅ Canal de Log Definido",
			Description: fmt.Sprintf("Logs serão enviados para %s", discord.ChannelMention(channel.ID)),
			Color:       config.SuccessColor,
		})
	}
}

func triggerEmbed(title, description string) discord.Embed {
	return discord.Embed{
		Title:       title,
		Description: description,
		Color:       config.SuccessColor,
	}
}

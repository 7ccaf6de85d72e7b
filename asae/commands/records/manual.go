package records

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/utils"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/leaderboard"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

var AddHours = discord.SlashCommandCreate{
	Name:        "adicionar_horas",
	Description: "Adiciona horas a um usuário",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "usuario",
			Description: "Usuário para adicionar horas",
			Required:    true,
		},
		discord.ApplicationCommandOptionFloat{
			Name:        "horas",
			Description: "Quantidade de horas a adicionar",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "data",
			Description: "Data no formato YYYY-MM-DD (opcional)",
		},
	},
}

var RemoveHours = discord.SlashCommandCreate{
	Name:        "remover_horas",
	Description: "Remove horas de um usuário",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "usuario",
			Description: "Usuário para remover horas",
			Required:    true,
		},
		discord.ApplicationCommandOptionFloat{
			Name:        "horas",
			Description: "Quantidade de horas a remover",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "data",
			Description: "Data específica (opcional)",
		},
	},
}

var ResetHours = discord.SlashCommandCreate{
	Name:        "resetar_horas",
	Description: "Reseta todas as horas de um usuário",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "usuario",
			Description: "Usuário para resetar horas",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "confirmacao",
			Description: "Digite 'CONFIRMAR' para resetar",
			Required:    true,
		},
	},
}

func AddHoursHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		data := e.SlashCommandInteractionData()
		subject := hours.ManualSubject(data.String("usuario"))
		date, _ := data.OptString("data")
		actor := asae.Actor(e)

		res, err := b.Hours.AddHours(ctx, t, subject, data.Float("horas"), date, actor)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		embed := addedEmbed(res, b.Names.FriendlyName(ctx, t.ID, subject), actor, b.Hours.Now())
		b.Audit(ctx, t, audit(embed))
		return utils.EH.CreateEmbed(e, embed)
	}
}

func RemoveHoursHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		data := e.SlashCommandInteractionData()
		subject := hours.ManualSubject(data.String("usuario"))
		date, _ := data.OptString("data")
		actor := asae.Actor(e)

		res, err := b.Hours.RemoveHours(ctx, t, subject, data.Float("horas"), date, actor)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		embed := removedEmbed(res, b.Names.FriendlyName(ctx, t.ID, subject), actor, b.Hours.Now())
		b.Audit(ctx, t, audit(embed))
		return utils.EH.CreateEmbed(e, embed)
	}
}

func ResetHoursHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		data := e.SlashCommandInteractionData()
		subject := hours.ManualSubject(data.String("usuario"))
		actor := asae.Actor(e)

		res, err := b.Hours.ResetHours(ctx, t, subject, data.String("confirmacao"), actor)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		embed := resetEmbed(res, b.Names.FriendlyName(ctx, t.ID, subject), actor, b.Hours.Now())
		b.Audit(ctx, t, audit(embed))
		return utils.EH.CreateEmbed(e, embed)
	}
}

func inline(name, value string) discord.EmbedField {
	return discord.EmbedField{Name: name, Value: value, Inline: utils.Ptr(true)}
}

func addedEmbed(res hours.AddResult, name, actor string, now time.Time) discord.Embed {
	return discord.Embed{
		Title:     "✅ Horas Adicionadas",
		Color:     config.SuccessColor,
		Timestamp: &now,
		Fields: []discord.EmbedField{
			inline("Usuário", name),
			inline("Horas Adicionadas", leaderboard.FormatHours(res.Hours)),
			inline("Data", res.Date),
			inline("Total Atual", leaderboard.FormatHours(res.Total)),
			inline("Adicionado por", actor),
		},
	}
}

func removedEmbed(res hours.RemoveResult, name, actor string, now time.Time) discord.Embed {
	embed := discord.Embed{
		Title:     "✅ Horas Removidas",
		Color:     config.WarningColor,
		Timestamp: &now,
		Fields: []discord.EmbedField{
			inline("Usuário", name),
			inline("Horas Removidas", leaderboard.FormatHours(res.Removed)),
			inline("Total Antes", leaderboard.FormatHours(res.Before)),
			inline("Total Depois", leaderboard.FormatHours(res.After)),
			inline("Removido por", actor),
		},
	}
	if res.Shortfall() > 0 {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name: "⚠️ Aviso",
			Value: fmt.Sprintf("Foram removidas apenas %s (de %s solicitadas).",
				leaderboard.FormatHours(res.Removed), leaderboard.FormatHours(res.Requested)),
		})
	}
	return embed
}

func resetEmbed(res hours.ResetResult, name, actor string, now time.Time) discord.Embed {
	return discord.Embed{
		Title:     "✅ Horas Resetadas",
		Color:     config.ErrorColor,
		Timestamp: &now,
		Fields: []discord.EmbedField{
			inline("Usuário", name),
			inline("Total de Horas Removidas", leaderboard.FormatHours(res.Hours)),
			inline("Registros Removidos", fmt.Sprint(res.Records)),
			inline("Resetado por", actor),
		},
	}
}

// audit turns a command reply into the message echoed to the log channel.
func audit(embed discord.Embed) platform.Embed {
	out := platform.Embed{
		Title:     "📋 " + embed.Title,
		Color:     embed.Color,
		Timestamp: embed.Timestamp,
	}
	for _, f := range embed.Fields {
		out.Fields = append(out.Fields, platform.Field{Name: f.Name, Value: f.Value, Inline: f.Inline != nil && *f.Inline})
	}
	return out
}

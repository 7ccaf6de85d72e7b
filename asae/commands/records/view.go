package records

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/utils"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/leaderboard"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	discordgw "github.com/ellavondegurechaff/asae/internal/gateways/discord"
)

func daysOption(name, description string) discord.ApplicationCommandOptionInt {
	return discord.ApplicationCommandOptionInt{
		Name:        name,
		Description: description,
		MinValue:    utils.Ptr(1),
		MaxValue:    utils.Ptr(config.MaxHistoryDays),
	}
}

var UserHours = discord.SlashCommandCreate{
	Name:        "horas_usuario",
	Description: "Mostra as horas trabalhadas de um usuário",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "usuario",
			Description: "Usuário para consultar as horas",
			Required:    true,
		},
		daysOption("dias", "Número de dias para visualizar (padrão: 30)"),
	},
}

var MyHours = discord.SlashCommandCreate{
	Name:        "minhas_horas",
	Description: "Mostra suas horas trabalhadas",
	Options: []discord.ApplicationCommandOption{
		daysOption("dias", "Número de dias para visualizar (padrão: 30)"),
	},
}

var Ranking = discord.SlashCommandCreate{
	Name:        "ranking",
	Description: "Mostra o ranking de horas dos últimos dias",
	Options: []discord.ApplicationCommandOption{
		daysOption("dias", "Número de dias do ranking (padrão: 7)"),
	},
}

// days reads an optional day count, clamped to the supported range.
func days(e *handler.CommandEvent, fallback int) int {
	n, ok := e.SlashCommandInteractionData().OptInt("dias")
	if !ok {
		return fallback
	}
	return min(max(n, 1), config.MaxHistoryDays)
}

// historyWindow covers today and the n days before it.
func historyWindow(today hours.Date, n int) hours.Window {
	return hours.Window{Start: today.AddDays(-n), End: today}
}

type historyView struct {
	Title     string
	Mention   string
	Name      string
	Thumbnail string
	History   hours.History
}

func pageCount(h hours.History) int {
	return max(1, (len(h.Days)+config.DaysPerPage-1)/config.DaysPerPage)
}

// historyPage renders one page of a member's daily totals.
func historyPage(embed *discord.EmbedBuilder, v historyView, page int) {
	pages := pageCount(v.History)
	start := min(page*config.DaysPerPage, len(v.History.Days))
	end := min(start+config.DaysPerPage, len(v.History.Days))

	embed.
		SetTitle(v.Title).
		SetDescription(fmt.Sprintf("**Total: %s**", leaderboard.FormatHours(v.History.Total))).
		SetColor(config.InfoColor)
	for _, day := range v.History.Days[start:end] {
		embed.AddField("📅 "+day.Date, leaderboard.FormatHours(day.Hours), false)
	}
	if v.Mention != "" {
		embed.AddField("👤 Usuário", v.Mention+"\n"+v.Name, true)
	}
	embed.AddField("📊 Estatísticas",
		fmt.Sprintf("**Dias com registros:** %d\n**Total de registros:** %d", len(v.History.Days), v.History.Records), true)
	if v.Thumbnail != "" {
		embed.SetThumbnail(v.Thumbnail)
	}
	if pages > 1 {
		embed.SetFooter(fmt.Sprintf("Página %d/%d", page+1, pages), "")
	}
}

func UserHoursHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		data := e.SlashCommandInteractionData()
		user := data.User("usuario")
		name := user.EffectiveName()
		if member, ok := data.OptMember("usuario"); ok {
			name = member.EffectiveName()
		}
		n := days(e, config.DefaultHistoryDays)

		history := hours.UserHistory(b.Hours.Snapshot(ctx, t), user.ID, name, historyWindow(b.Hours.Today(), n))
		if history.Records == 0 {
			return utils.EH.CreateEphemeralWarning(e,
				fmt.Sprintf("Não foram encontrados registros para %s nos últimos %d dias.", user.Mention(), n))
		}

		view := historyView{
			Title:     fmt.Sprintf("⏰ Horas de %s (%d dias)", name, n),
			Mention:   user.Mention(),
			Name:      name,
			Thumbnail: user.EffectiveAvatarURL(),
			History:   history,
		}
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				historyPage(embed, view, page)
			},
			Pages:      pageCount(history),
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func MyHoursHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeOwnHours)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		n := days(e, config.DefaultHistoryDays)
		history := hours.UserHistory(b.Hours.Snapshot(ctx, t), e.User().ID, asae.Actor(e), historyWindow(b.Hours.Today(), n))
		if history.Records == 0 {
			return utils.EH.CreateEphemeralWarning(e, fmt.Sprintf("Não foram encontrados registros para você nos últimos %d dias.", n))
		}

		embed := discord.NewEmbedBuilder()
		historyPage(embed, historyView{
			Title:   fmt.Sprintf("⏰ Suas Horas (%d dias)", n),
			History: history,
		}, 0)
		if len(history.Days) > config.DaysPerPage {
			embed.SetFooter(fmt.Sprintf("Mostrando os %d dias mais recentes de %d", config.DaysPerPage, len(history.Days)), "")
		}
		return utils.EH.CreateEphemeralEmbed(e, embed.Build())
	}
}

func RankingHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		n := days(e, config.DefaultRankingDays)
		today := b.Hours.Today()
		ranking := hours.RankLastNDays(b.Hours.Snapshot(ctx, t), today, n)
		embed := leaderboard.RenderLastNDays(ctx, b.Names, t.ID, ranking, n, today, b.Hours.Now())
		return utils.EH.CreateEmbed(e, discordgw.ToEmbed(embed))
	}
}

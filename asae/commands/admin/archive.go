package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const (
	listedChannels = 10
	listedUsers    = 10
	previewUsers   = 8
)

var Archived = discord.SlashCommandCreate{
	Name:        "arquivados",
	Description: "Verifica a categoria de arquivados e remove TODAS as horas dos usuários",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "confirmar",
			Description: "Digite 'CONFIRMAR' para realmente remover TODAS as horas",
		},
	},
}

func ArchivedHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.ScanCommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeGuildAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		confirmation, _ := e.SlashCommandInteractionData().OptString("confirmar")
		if confirmation != hours.ResetConfirmation {
			report, err := b.Hours.ReviewArchive(ctx, t, b.Names)
			if err != nil {
				return archiveError(e, err)
			}
			return utils.EH.UpdateEmbed(e, reviewEmbed(report))
		}

		actor := asae.Actor(e)
		report, err := b.Hours.PurgeArchive(ctx, t, b.Names, confirmation, actor)
		if err != nil {
			return archiveError(e, err)
		}
		switch {
		case len(report.Channels) == 0:
			return utils.EH.UpdateText(e, "❌ Nenhum canal encontrado na categoria de arquivados.")
		case len(report.Matches) == 0 && len(report.Identified) == 0:
			return utils.EH.UpdateText(e, "❌ Nenhum usuário identificado para reset.")
		case !report.Purged:
			return utils.EH.UpdateText(e, "❌ Nenhuma correspondência encontrada para reset.")
		}

		embed := purgeEmbed(report, actor)
		b.Audit(ctx, t, platform.Embed{
			Title:       "🗂️ Reset de Arquivados",
			Description: embed.Description + "\n**Executado por:** " + actor,
			Color:       config.ErrorColor,
		})
		return utils.EH.UpdateEmbed(e, embed)
	}
}

func archiveError(e *handler.CommandEvent, err error) error {
	if errors.Is(err, platform.ErrCategoryNotFound) {
		return utils.EH.UpdateText(e, "❌ Categoria de arquivados não encontrada.")
	}
	return utils.EH.UpdateError(e, "Erro na Verificação de Arquivados", err)
}

// bulletList renders at most limit items followed by a "... e mais" line.
func bulletList(items []string, limit int, noun string) string {
	var b strings.Builder
	for i, item := range items {
		if i == limit {
			fmt.Fprintf(&b, "... e mais %d %s", len(items)-limit, noun)
			break
		}
		b.WriteString("• " + item + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func numberedMatches(matches []hours.ArchiveMatch, limit int) string {
	var b strings.Builder
	for i, m := range matches {
		if i == limit {
			fmt.Fprintf(&b, "\n... e mais %d usuários", len(matches)-limit)
			break
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, m.Name, leaderboard.FormatHours(m.Hours))
	}
	return b.String()
}

func reviewEmbed(report hours.ArchiveReport) discord.Embed {
	const title = "📂 Categoria de Arquivados"

	if len(report.Channels) == 0 {
		return discord.Embed{
			Title:       title,
			Description: "Nenhum canal de texto encontrado na categoria de arquivados.",
			Color:       config.InfoColor,
		}
	}

	if len(report.Matches) == 0 && len(report.Identified) == 0 {
		names := make([]string, 0, len(report.Channels))
		for _, ch := range report.Channels {
			names = append(names, "#"+ch.Name)
		}
		return discord.Embed{
			Title:       title,
			Description: "Nenhum usuário identificado na categoria de arquivados.",
			Color:       config.InfoColor,
			Fields: []discord.EmbedField{{
				Name:  "Canais encontrados",
				Value: bulletList(names, listedChannels, "canais"),
			}},
		}
	}

	if len(report.Matches) == 0 {
		return discord.Embed{
			Title:       title,
			Description: "Usuários encontrados na categoria, mas nenhum tem horas registradas ou não foi possível fazer a correspondência.",
			Color:       config.InfoColor,
			Fields: []discord.EmbedField{{
				Name:  "👥 Usuários identificados na categoria",
				Value: bulletList(report.Identified, listedUsers, "usuários"),
			}},
		}
	}

	return discord.Embed{
		Title: "⚠️ CONFIRMAÇÃO REQUERIDA - Reset de Horas",
		Description: fmt.Sprintf("**Esta ação irá remover TODAS as horas dos usuários identificados na categoria de arquivados.**\n\n"+
			"**Total de horas a serem removidas:** %s\n"+
			"**Total de usuários afetados:** %d\n\n"+
			"**⚠️ ESTA AÇÃO É IRREVERSÍVEL!**\n"+
			"Para confirmar, use: `/arquivados confirmar: %s`",
			leaderboard.FormatHours(report.Total), len(report.Matches), hours.ResetConfirmation),
		Color: config.ErrorColor,
		Fields: []discord.EmbedField{{
			Name:  "👥 Usuários que terão horas resetadas",
			Value: numberedMatches(report.Matches, previewUsers),
		}},
	}
}

func purgeEmbed(report hours.ArchiveReport, actor string) discord.Embed {
	return discord.Embed{
		Title: "✅ Horas Resetadas com Sucesso",
		Description: fmt.Sprintf("**Total de horas removidas:** %s\n**Registros removidos:** %d\n**Usuários afetados:** %d",
			leaderboard.FormatHours(report.Total), report.RecordsRemoved, len(report.Matches)),
		Color: config.SuccessColor,
		Fields: []discord.EmbedField{{
			Name:  "👥 Usuários Resetados",
			Value: numberedMatches(report.Matches, config.AuditListLimit),
		}},
		Footer: &discord.EmbedFooter{Text: "Ação realizada por " + actor},
	}
}

package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/utils"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/leaderboard"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

// uniqueUsersDays is the window the update summary counts distinct users over.
const uniqueUsersDays = 365

var Update = discord.SlashCommandCreate{
	Name:        "atualizar",
	Description: "Lê pontos do Nyox e atualiza registros",
}

var UpdateLeaderboards = discord.SlashCommandCreate{
	Name:        "atualizar_leaderboards",
	Description: "Força a atualização das leaderboards automáticas",
}

func UpdateHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.ScanCommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		res := b.Scheduler.RunIngestion(ctx, t, hours.ManualScanLimit)
		if res.Err != nil {
			return utils.EH.UpdateError(e, "Erro na Atualização", res.Err)
		}
		return utils.EH.UpdateEmbed(e, updateEmbed(res, storageLabel(b, t), b.Hours.Today(), b.Hours.Now()))
	}
}

func storageLabel(b *asae.Bot, t tenant.Tenant) string {
	if b.Cfg.Storage.Driver == asae.StoragePostgres {
		return "postgres:" + b.Cfg.DB.Database
	}
	return t.LedgerFile
}

func updateEmbed(res hours.ScanResult, storage string, today hours.Date, now time.Time) discord.Embed {
	unique := len(hours.RankLastNDays(res.Ledger, today, uniqueUsersDays))
	return discord.Embed{
		Title:     "✅ Atualização Concluída",
		Color:     config.SuccessColor,
		Timestamp: &now,
		Fields: []discord.EmbedField{
			{Name: "Usuários únicos", Value: fmt.Sprint(unique), Inline: utils.Ptr(true)},
			{Name: "Total de registros", Value: fmt.Sprint(res.Ledger.Len()), Inline: utils.Ptr(true)},
			{Name: "Novos registros", Value: fmt.Sprint(res.Added), Inline: utils.Ptr(true)},
			{Name: "Canais lidos", Value: fmt.Sprintf("%d (%d ignorados)", res.Channels, res.Skipped), Inline: utils.Ptr(true)},
			{Name: "Arquivo usado", Value: storage, Inline: utils.Ptr(true)},
		},
	}
}

func UpdateLeaderboardsHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.ScanCommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}
		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		results, err := b.Scheduler.RunLeaderboard(ctx, t)
		if errors.Is(err, leaderboard.ErrEmptyLedger) {
			return utils.EH.UpdateText(e, "⚠️ Nenhum registro encontrado. As leaderboards não foram publicadas.")
		}
		if err != nil {
			return utils.EH.UpdateError(e, "Erro ao Atualizar Leaderboards", err)
		}
		return utils.EH.UpdateEmbed(e, leaderboardsEmbed(results))
	}
}

func leaderboardsEmbed(results []leaderboard.ChannelResult) discord.Embed {
	embed := discord.Embed{
		Title:       "✅ Leaderboards Atualizadas",
		Description: "As leaderboards foram atualizadas nos canais designados.",
		Color:       config.SuccessColor,
	}

	failed := 0
	for _, res := range results {
		name := "Semanal"
		if res.Period == leaderboard.Monthly {
			name = "Mensal"
		}
		value := fmt.Sprintf("✅ %s (%d mensagens antigas removidas)", discord.ChannelMention(res.ChannelID), res.Deleted)
		if res.Err != nil {
			failed++
			_, message := utils.Classify(res.Err)
			value = "❌ " + message
		}
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: name, Value: value, Inline: utils.Ptr(true)})
	}

	if failed == len(results) && failed > 0 {
		embed.Title = "❌ Erro ao Atualizar Leaderboards"
		embed.Description = "Nenhum canal de leaderboard pôde ser atualizado."
		embed.Color = config.ErrorColor
	} else if failed > 0 {
		embed.Title = "⚠️ Leaderboards Parcialmente Atualizadas"
		embed.Color = config.WarningColor
	}
	return embed
}

package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/hours"
	"github.com/ellavondegurechaff/asae/internal/domain/platform"
)

const (
	GoldColor   = 0xF1C40F
	OrangeColor = 0xE67E22

	Title = "Leaderboard de Horários"

	firstBlockSize = 20
	lastPosition   = 100
	topSize        = 10

	// Discord rejects embed fields longer than this.
	maxFieldLength = 1024
)

var medals = [...]string{"🥇", "🥈", "🥉"}

type Period int

const (
	Weekly Period = iota
	Monthly
)

func (p Period) String() string {
	if p == Monthly {
		return "mensal"
	}
	return "semanal"
}

// Window returns the canonical window of the period containing today.
func (p Period) Window(today hours.Date) hours.Window {
	if p == Monthly {
		return hours.MonthOf(today)
	}
	return hours.WeekOf(today)
}

// FormatHours renders hours with one decimal, as every bot message does.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// AlignedHours pads short values so decimal points line up in ranking columns.
func AlignedHours(h float64) string {
	switch {
	case h >= 100:
		return FormatHours(h)
	case h >= 10:
		return FormatHours(h) + " "
	default:
		return FormatHours(h) + "  "
	}
}

func periodLine(w hours.Window) string {
	return fmt.Sprintf("**Período**: %s até %s", w.Start.Display(), w.End.Display())
}

// RenderPeriod builds the canonical leaderboard message for a window.
func RenderPeriod(ctx context.Context, names hours.NameResolver, guildID snowflake.ID, ranking []hours.RankingEntry, w hours.Window, now time.Time) platform.Embed {
	if len(ranking) == 0 {
		return platform.Embed{
			Title:       Title,
			Description: periodLine(w) + "\n\nNenhum registro encontrado.",
			Color:       OrangeColor,
		}
	}

	embed := platform.Embed{
		Title: Title,
		Description: fmt.Sprintf("%s\n\n- **Total de Horas**: %s\n- **Total de Participantes**: %d\n\n",
			periodLine(w), FormatHours(hours.TotalHours(ranking)), len(ranking)),
		Color:  GoldColor,
		Footer: "Atualizado em " + now.Format("02/01/2006 15:04"),
	}

	var first, second []string
	for i, entry := range ranking {
		pos := i + 1
		if pos > lastPosition {
			break
		}
		name := names.FriendlyName(ctx, guildID, entry.Subject)
		if pos <= firstBlockSize {
			medal := ""
			if i < len(medals) {
				medal = medals[i] + " "
			}
			first = append(first, fmt.Sprintf("%d. %s%s — %s", pos, medal, name, AlignedHours(entry.Hours)))
			continue
		}
		second = append(second, fmt.Sprintf("%d. %s — %s", pos, name, AlignedHours(entry.Hours)))
	}

	embed.Fields = append(embed.Fields, fields("Ranking 1", first)...)
	embed.Fields = append(embed.Fields, fields("Ranking 2", second)...)
	return embed
}

// RenderLastNDays builds the ad-hoc ranking shown by the ranking command.
func RenderLastNDays(ctx context.Context, names hours.NameResolver, guildID snowflake.ID, ranking []hours.RankingEntry, days int, today hours.Date, now time.Time) platform.Embed {
	if len(ranking) == 0 {
		return platform.Embed{
			Title:       "🏆 Ranking de Horas",
			Description: fmt.Sprintf("⚠️ Nenhum registro encontrado nos últimos %d dias.", days),
			Color:       OrangeColor,
		}
	}

	w := hours.LastNDays(today, days)
	embed := platform.Embed{
		Title:     lastDaysTitle(days),
		Color:     GoldColor,
		Footer:    fmt.Sprintf("Período de %d dias | Atualizado em", days),
		Timestamp: &now,
		Fields: []platform.Field{
			{Name: "**Período**", Value: fmt.Sprintf("%s até %s", w.Start.Display(), w.End.Display())},
			{Name: "**Totais**", Value: fmt.Sprintf("**Total de Horas:** %.1fh\n**Total de Participantes:** %d",
				hours.TotalHours(ranking), len(ranking))},
		},
	}

	top := ranking[:min(topSize, len(ranking))]
	var b strings.Builder
	for i, entry := range top {
		emoji := "🔸"
		if i < len(medals) {
			emoji = medals[i]
		}
		fmt.Fprintf(&b, "%s **%d. %s**\n– %s\n\n", emoji, i+1, names.FriendlyName(ctx, guildID, entry.Subject), FormatHours(entry.Hours))
	}
	embed.Fields = append(embed.Fields, platform.Field{
		Name:  fmt.Sprintf("**Ranking Top %d**", len(top)),
		Value: truncate(b.String()),
	})

	if rest := ranking[len(top):]; len(rest) > 0 {
		embed.Fields = append(embed.Fields, platform.Field{
			Name:  "**Demais Participantes**",
			Value: fmt.Sprintf("%d usuários com %s", len(rest), FormatHours(hours.TotalHours(rest))),
		})
	}
	return embed
}

func lastDaysTitle(days int) string {
	switch days {
	case 1:
		return "🏆 Ranking do Dia"
	case 7:
		return "🏆 Ranking da Semana"
	case 30:
		return "🏆 Ranking do Mês"
	default:
		return fmt.Sprintf("🏆 Ranking de %d Dias", days)
	}
}

// fields packs lines into as few fields as the length limit allows. Continuation fields carry a blank name.
func fields(name string, lines []string) []platform.Field {
	var (
		out []platform.Field
		b   strings.Builder
	)
	flush := func() {
		if b.Len() == 0 {
			return
		}
		fieldName := name
		if len(out) > 0 {
			fieldName = "\u200b"
		}
		out = append(out, platform.Field{Name: fieldName, Value: b.String()})
		b.Reset()
	}
	for _, line := range lines {
		if b.Len()+len(line)+1 > maxFieldLength {
			flush()
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	flush()
	return out
}

func truncate(s string) string {
	if len(s) <= maxFieldLength {
		return s
	}
	cut := strings.LastIndex(s[:maxFieldLength], "\n")
	if cut <= 0 {
		cut = maxFieldLength
	}
	return s[:cut]
}

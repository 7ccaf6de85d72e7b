package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/utils"
	"github.com/ellavondegurechaff/asae/internal/domain/scheduler"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

var Debug = discord.SlashCommandCreate{
	Name:        "debug",
	Description: "Verifica status do bot",
}

type debugView struct {
	Tenant          tenant.Tenant
	GuildName       string
	Storage         string
	Files           []fileStatus
	DataDir         string
	Records         int
	ServersVerified bool
	Ingested        bool
	Processes       []scheduler.Process
	Version         string
	Commit          string
	Now             time.Time
}

type fileStatus struct {
	Label  string
	Path   string
	Exists bool
}

func DebugHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.HandleError(e, tenant.ErrUnknownGuild)
		}
		t, ok := b.Tenants.Lookup(*guildID)
		if !ok {
			return utils.EH.HandleError(e, tenant.ErrUnknownGuild)
		}

		view := debugView{
			Tenant:          t,
			GuildName:       b.Platform.GuildName(t.ID),
			Storage:         b.Cfg.Storage.Driver,
			Records:         b.Hours.Snapshot(ctx, t).Len(),
			ServersVerified: b.Scheduler.ServersVerified(),
			Ingested:        b.Scheduler.Ingested(t.ID),
			Processes:       b.Scheduler.Processes(),
			Version:         b.Version,
			Commit:          b.Commit,
			Now:             b.Clock.Now(),
		}
		if b.Cfg.Storage.Driver == asae.StorageJSON {
			view.DataDir, _ = filepath.Abs(b.Cfg.Storage.DataDir)
			for _, f := range []fileStatus{
				{Label: "📁 Arquivo de horas", Path: t.LedgerFile},
				{Label: "📁 Arquivo de config", Path: t.SettingsFile},
			} {
				_, err := os.Stat(filepath.Join(b.Cfg.Storage.DataDir, f.Path))
				f.Exists = err == nil
				view.Files = append(view.Files, f)
			}
		}
		return utils.EH.CreateEphemeralEmbed(e, debugEmbed(view))
	}
}

func exists(ok bool) string {
	if ok {
		return "✅ Existe"
	}
	return "❌ Não existe"
}

func yesNo(ok bool) string {
	if ok {
		return "✅ Sim"
	}
	return "❌ Não"
}

func debugEmbed(v debugView) discord.Embed {
	var fields []discord.EmbedField
	for _, f := range v.Files {
		fields = append(fields, discord.EmbedField{
			Name:   f.Label,
			Value:  fmt.Sprintf("%s: %s", exists(f.Exists), f.Path),
			Inline: utils.Ptr(true),
		})
	}
	if v.DataDir != "" {
		fields = append(fields, discord.EmbedField{Name: "📁 Diretório de dados", Value: v.DataDir, Inline: utils.Ptr(false)})
	}

	name := v.GuildName
	if name == "" {
		name = v.Tenant.Name
	}
	fields = append(fields,
		discord.EmbedField{Name: "📊 Registros de horas", Value: fmt.Sprintf("%d registros", v.Records), Inline: utils.Ptr(true)},
		discord.EmbedField{Name: "🎯 Servidor atual", Value: fmt.Sprintf("%s (ID: %s)", name, v.Tenant.ID), Inline: utils.Ptr(true)},
		discord.EmbedField{Name: "💾 Armazenamento", Value: v.Storage, Inline: utils.Ptr(true)},
		discord.EmbedField{
			Name:   "⏱️ Agendador",
			Value:  fmt.Sprintf("Servidores verificados: %s\nProcessamento inicial: %s", yesNo(v.ServersVerified), yesNo(v.Ingested)),
			Inline: utils.Ptr(false),
		},
	)

	if len(v.Processes) > 0 {
		var b strings.Builder
		for _, p := range v.Processes {
			fmt.Fprintf(&b, "• `%s` há %s\n", p.Name, v.Now.Sub(p.Started).Truncate(time.Second))
		}
		fields = append(fields, discord.EmbedField{Name: "⚙️ Processos", Value: b.String(), Inline: utils.Ptr(false)})
	}

	return discord.Embed{
		Title:  "🔧 Debug do Bot",
		Color:  config.InfoColor,
		Fields: fields,
		Footer: &discord.EmbedFooter{Text: fmt.Sprintf("Versão %s (%s)", v.Version, v.Commit)},
	}
}

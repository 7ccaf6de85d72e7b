package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/utils"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
)

const (
	actionAdd    = "adicionar"
	actionRemove = "remover"
)

var Admin = discord.SlashCommandCreate{
	Name:        "admin",
	Description: "Define administradores do bot",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "acao",
			Description: "Adicionar ou remover administrador",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Adicionar", Value: actionAdd},
				{Name: "Remover", Value: actionRemove},
			},
		},
		discord.ApplicationCommandOptionUser{
			Name:        "usuario",
			Description: "Usuário para configurar",
			Required:    true,
		},
	},
}

func AdminHandler(b *asae.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandTimeout)
		defer cancel()

		t, _, err := b.Guard(ctx, e, tenant.ScopeGuildAdmin)
		if err != nil {
			return utils.EH.HandleError(e, err)
		}

		data := e.SlashCommandInteractionData()
		action := strings.ToLower(data.String("acao"))
		user := data.User("usuario")
		if action != actionAdd && action != actionRemove {
			return utils.EH.CreateEphemeralEmbed(e, adminEmbed(action, user.Mention(), false))
		}

		var changed bool
		if _, err := b.Settings.Update(ctx, t, func(s *tenant.Settings) {
			if action == actionAdd {
				changed = s.AddAdmin(user.ID)
			} else {
				changed = s.RemoveAdmin(user.ID)
			}
		}); err != nil {
			return utils.EH.CreateEphemeralError(e, "Erro ao salvar configurações.")
		}
		return utils.EH.CreateEphemeralEmbed(e, adminEmbed(action, user.Mention(), changed))
	}
}

func adminEmbed(action, mention string, changed bool) discord.Embed {
	switch {
	case action == actionAdd && changed:
		return discord.Embed{
			Title:       "✅ Administrador Adicionado",
			Description: fmt.Sprintf("%s agora é administrador do bot.", mention),
			Color:       config.SuccessColor,
		}
	case action == actionAdd:
		return discord.Embed{
			Title:       "⚠️ Usuário Já é Administrador",
			Description: fmt.Sprintf("%s já está na lista de administradores.", mention),
			Color:       config.WarningColor,
		}
	case action == actionRemove && changed:
		return discord.Embed{
			Title:       "✅ Administrador Removido",
			Description: fmt.Sprintf("%s foi removido dos administradores do bot.", mention),
			Color:       config.SuccessColor,
		}
	case action == actionRemove:
		return discord.Embed{
			Title:       "❌ Usuário Não é Administrador",
			Description: fmt.Sprintf("%s não está na lista de administradores.", mention),
			Color:       config.ErrorColor,
		}
	default:
		return discord.Embed{
			Title:       "❌ Ação Inválida",
			Description: "Use 'adicionar' ou 'remover' como ação.",
			Color:       config.ErrorColor,
		}
	}
}

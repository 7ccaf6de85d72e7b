package admin

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Admin,
	Settings,
	ConfigAutoUpdate,
	ConfigLeaderboardUpdate,
	ConfigLogChannel,
	Archived,
	Debug,
}

func statusText(active bool) string {
	if active {
		return "✅ Ativado"
	}
	return "❌ Desativado"
}

func stateText(active bool) string {
	if active {
		return "✅ Ativo"
	}
	return "❌ Inativo"
}

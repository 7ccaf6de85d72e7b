package commands

import (
	"slices"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/commands/admin"
	"github.com/ellavondegurechaff/asae/asae/commands/records"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/handlers"
)

// Commands is every slash command the bot syncs.
var Commands = slices.Concat(admin.Commands, records.Commands)

type route struct {
	name    string
	timeout time.Duration
	handler func(b *asae.Bot) handler.CommandHandler
}

var routes = []route{
	{admin.Admin.Name, config.CommandTimeout, admin.AdminHandler},
	{admin.Settings.Name, config.CommandTimeout, admin.SettingsHandler},
	{admin.ConfigAutoUpdate.Name, config.CommandTimeout, admin.ConfigAutoUpdateHandler},
	{admin.ConfigLeaderboardUpdate.Name, config.CommandTimeout, admin.ConfigLeaderboardUpdateHandler},
	{admin.ConfigLogChannel.Name, config.CommandTimeout, admin.ConfigLogChannelHandler},
	{admin.Archived.Name, config.ScanCommandTimeout, admin.ArchivedHandler},
	{admin.Debug.Name, config.CommandTimeout, admin.DebugHandler},

	{records.Update.Name, config.ScanCommandTimeout, records.UpdateHandler},
	{records.UpdateLeaderboards.Name, config.ScanCommandTimeout, records.UpdateLeaderboardsHandler},
	{records.AddHours.Name, config.CommandTimeout, records.AddHoursHandler},
	{records.RemoveHours.Name, config.CommandTimeout, records.RemoveHoursHandler},
	{records.ResetHours.Name, config.CommandTimeout, records.ResetHoursHandler},
	{records.UserHours.Name, config.CommandTimeout, records.UserHoursHandler},
	{records.MyHours.Name, config.CommandTimeout, records.MyHoursHandler},
	{records.Ranking.Name, config.CommandTimeout, records.RankingHandler},
}

// Register mounts every command on r, wrapped with logging.
func Register(r handler.Router, b *asae.Bot) {
	for _, rt := range routes {
		r.Command("/"+rt.name, handlers.WrapWithLogging(rt.name, rt.timeout, rt.handler(b)))
	}
}

// Names lists the registered command names in sync order.
func Names() []string {
	names := make([]string, 0, len(Commands))
	for _, c := range Commands {
		if sc, ok := c.(discord.SlashCommandCreate); ok {
			names = append(names, sc.Name)
		}
	}
	return names
}

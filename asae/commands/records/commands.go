package records

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Update,
	UpdateLeaderboards,
	AddHours,
	RemoveHours,
	ResetHours,
	UserHours,
	MyHours,
	Ranking,
}

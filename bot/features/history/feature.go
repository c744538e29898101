package history

import (
	"gachabot/bot/common"
	"gachabot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the pull history feature: /history recent and stats
type Feature struct {
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
}

// NewFeature creates a new history feature instance
func NewFeature(session *discordgo.Session, uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand handles the /history command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: recent or stats")
		return
	}

	switch options[0].Name {
	case "recent":
		f.handleRecent(s, i, options[0].Options)
	case "stats":
		f.handleStats(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

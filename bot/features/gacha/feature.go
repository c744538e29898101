package gacha

import (
	"gachabot/bot/common"
	"gachabot/domain/interfaces"
	"gachabot/domain/services"
	"gachabot/pools"
	"gachabot/render"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the gacha feature: /gacha pull, ten, pity and pools
type Feature struct {
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
	pools      *pools.Manager
	cards      *render.CardGenerator
	engine     *services.DrawEngine
}

// NewFeature creates a new gacha feature instance
func NewFeature(session *discordgo.Session, uowFactory interfaces.UnitOfWorkFactory,
	poolManager *pools.Manager, cards *render.CardGenerator) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		pools:      poolManager,
		cards:      cards,
		engine:     services.NewDrawEngine(nil),
	}
}

// HandleCommand handles the /gacha command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: pull, ten, pity or pools")
		return
	}

	switch options[0].Name {
	case "pull":
		f.handlePull(s, i, options[0].Options)
	case "ten":
		f.handleTenPull(s, i, options[0].Options)
	case "pity":
		f.handlePity(s, i, options[0].Options)
	case "pools":
		f.handlePools(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

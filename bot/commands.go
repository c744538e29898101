package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	poolOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "pool",
		Description: "Pool to draw from (defaults to the first open pool)",
		Required:    false,
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "gacha",
			Description: "Draw items from a gacha pool",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pull",
					Description: "Perform a single pull",
					Options:     []*discordgo.ApplicationCommandOption{poolOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "ten",
					Description: "Perform a ten pull",
					Options:     []*discordgo.ApplicationCommandOption{poolOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pity",
					Description: "Show your pity counters and current 5-star chance",
					Options:     []*discordgo.ApplicationCommandOption{poolOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pools",
					Description: "List available pools",
				},
			},
		},
		{
			Name:        "history",
			Description: "View your pull history",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "recent",
					Description: "Show your most recent pulls",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "count",
							Description: "Number of pulls to show (max 25)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show your lifetime pull statistics",
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

package bot

import (
	"fmt"

	"gachabot/bot/features/gacha"
	"gachabot/bot/features/history"
	"gachabot/domain/interfaces"
	"gachabot/pools"
	"gachabot/render"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token             string
	GuildID           string
	AnnounceChannelID string
}

// Bot manages the Discord bot and all feature modules
type Bot struct {
	config     Config
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory

	// Feature modules
	gacha   *gacha.Feature
	history *history.Feature
}

// New creates a new bot instance with all features
func New(config Config, uowFactory interfaces.UnitOfWorkFactory, poolManager *pools.Manager, cards *render.CardGenerator) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:     config,
		session:    dg,
		uowFactory: uowFactory,
	}

	bot.gacha = gacha.NewFeature(dg, uowFactory, poolManager, cards)
	bot.history = history.NewFeature(dg, uowFactory)

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// GetConfig returns the bot configuration
func (b *Bot) GetConfig() Config {
	return b.config
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "gacha":
		b.gacha.HandleCommand(s, i)
	case "history":
		b.history.HandleCommand(s, i)
	}
}

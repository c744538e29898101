package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"gachabot/bot"
	"gachabot/config"
	"gachabot/database"
	"gachabot/events"
	"gachabot/pools"
	"gachabot/render"
	"gachabot/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting gacha bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Load pool configurations from disk
	log.Printf("Loading pool configs from %s...", cfg.PoolConfigDir)
	poolManager, err := pools.NewManager(cfg.PoolConfigDir, cfg.ConfigGroup)
	if err != nil {
		return fmt.Errorf("failed to load pool configs: %w", err)
	}
	log.Printf("Loaded %d pool configs", len(poolManager.IDs()))

	// Initialize result card renderer
	cards := render.NewCardGenerator(cfg.AssetDir)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.GuildID,
		AnnounceChannelID: cfg.AnnounceChannelID,
	}
	discordBot, err := bot.New(botConfig, uowFactory, poolManager, cards)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wire server-wide announcements
	bot.RegisterBotSubscriptions(eventBus, discordBot)

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

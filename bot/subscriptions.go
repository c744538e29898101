package bot

import (
	"context"
	"fmt"

	"gachabot/bot/common"
	"gachabot/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// RegisterBotSubscriptions registers all bot-level event subscriptions
func RegisterBotSubscriptions(bus *events.Bus, bot *Bot) {
	bus.Subscribe(events.EventTypeFiveStarDrawn,
		func(ctx context.Context, event events.Event) {
			handleFiveStarAnnouncement(event, bot)
		})

	log.Info("Bot event subscriptions registered")
}

// handleFiveStarAnnouncement posts a server-wide announcement when someone
// draws a 5-star item
func handleFiveStarAnnouncement(event events.Event, bot *Bot) {
	drawn, ok := event.(events.FiveStarDrawnEvent)
	if !ok {
		log.Errorf("Received non-FiveStarDrawnEvent in five star handler: %T", event)
		return
	}

	channelID := bot.config.AnnounceChannelID
	if channelID == "" {
		log.Debug("No announce channel configured, skipping five star announcement")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "★★★★★ DROP!",
		Description: fmt.Sprintf("<@%d> pulled **%s** from %s after %d pulls!",
			drawn.DiscordID, drawn.ItemName, drawn.PoolName, drawn.PityUsed),
		Color: common.ColorFiveStar,
	}

	if _, err := bot.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.WithFields(log.Fields{
			"channelID": channelID,
			"itemID":    drawn.ItemID,
		}).Errorf("Failed to post five star announcement: %v", err)
	}
}

package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gachabot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleRecent shows the caller's most recent pulls
func (f *Feature) handleRecent(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	limit := common.DefaultHistoryLimit
	for _, opt := range options {
		if opt.Name == "count" {
			limit = int(opt.IntValue())
		}
	}
	if limit < 1 || limit > common.MaxHistoryLimit {
		limit = common.DefaultHistoryLimit
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	defer uow.Rollback()

	records, err := uow.PullHistoryRepository().GetByUser(ctx, discordID, limit)
	if err != nil {
		log.Errorf("Error loading pull history: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve history. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if len(records) == 0 {
		common.RespondWithError(s, i, "You have no pulls yet.")
		return
	}

	var lines []string
	for _, record := range records {
		lines = append(lines, fmt.Sprintf("%s **%s** %s",
			common.FormatStars(record.Rarity),
			record.ItemName,
			common.FormatDiscordTimestamp(record.CreatedAt, "R")))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Last %d pulls", len(records)),
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	}); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

// handleStats shows lifetime per-rarity pull counts
func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	defer uow.Rollback()

	stats, err := uow.PullHistoryRepository().GetStats(ctx, discordID)
	if err != nil {
		log.Errorf("Error loading pull stats: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve stats. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	fiveStarRate := "n/a"
	if stats.TotalPulls > 0 {
		fiveStarRate = common.FormatPercent(float64(stats.FiveStarPulls) / float64(stats.TotalPulls))
	}

	embed := &discordgo.MessageEmbed{
		Title: "Pull statistics",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total", Value: strconv.FormatInt(stats.TotalPulls, 10), Inline: true},
			{Name: "★★★★★", Value: strconv.FormatInt(stats.FiveStarPulls, 10), Inline: true},
			{Name: "★★★★", Value: strconv.FormatInt(stats.FourStarPulls, 10), Inline: true},
			{Name: "★★★", Value: strconv.FormatInt(stats.ThreeStarPulls, 10), Inline: true},
			{Name: "5★ rate", Value: fiveStarRate, Inline: true},
		},
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	}); err != nil {
		log.Errorf("Error responding to stats command: %v", err)
	}
}

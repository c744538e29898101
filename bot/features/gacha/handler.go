package gacha

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gachabot/bot/common"
	"gachabot/domain/entities"
	"gachabot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// resolvePool picks the pool named in the command options, falling back to
// the first enabled pool when the option is omitted.
func (f *Feature) resolvePool(options []*discordgo.ApplicationCommandInteractionDataOption) (*entities.PoolConfig, error) {
	for _, opt := range options {
		if opt.Name == "pool" {
			if cfg, err := f.pools.Get(opt.StringValue()); err == nil {
				return cfg, nil
			}
			if matched := f.pools.GetByName(opt.StringValue()); len(matched) > 0 {
				return matched[0], nil
			}
			return nil, fmt.Errorf("no pool named %q", opt.StringValue())
		}
	}

	enabled := f.pools.EnabledConfigs()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no pool is currently open")
	}
	return enabled[0], nil
}

// handlePull executes a single draw
func (f *Feature) handlePull(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	cfg, err := f.resolvePool(options)
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	defer uow.Rollback()

	gachaService := services.NewGachaService(
		uow.PityStateRepository(),
		uow.PullHistoryRepository(),
		uow.ItemRepository(),
		uow.EventBus(),
		f.engine,
	)

	outcome, err := gachaService.SinglePull(ctx, discordID, cfg)
	if err != nil {
		f.respondDrawError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — %s", cfg.Name, outcome.Item.Name),
		Description: common.FormatItemLine(outcome.Item),
		Color:       common.RarityColor(outcome.Item.Rarity),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("5★ pity %d · 4★ pity %d", outcome.State.Pity5Star, outcome.State.Pity4Star),
		},
	}

	response := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if card, err := f.cards.GenerateSingleCard(cfg.Name, outcome.Item, &outcome.State); err == nil {
		response.Files = []*discordgo.File{{
			Name:        "pull.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(card),
		}}
	} else {
		log.WithError(err).Warn("Failed to render pull card")
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: response,
	}); err != nil {
		log.Errorf("Error responding to pull command: %v", err)
	}
}

// handleTenPull executes a ten-pull batch
func (f *Feature) handleTenPull(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	cfg, err := f.resolvePool(options)
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	// Ten draws plus card rendering can pass the 3s interaction window.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Errorf("Error deferring ten-pull response: %v", err)
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.FollowUpWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	defer uow.Rollback()

	gachaService := services.NewGachaService(
		uow.PityStateRepository(),
		uow.PullHistoryRepository(),
		uow.ItemRepository(),
		uow.EventBus(),
		f.engine,
	)

	items, err := gachaService.TenPulls(ctx, discordID, cfg)
	if err != nil {
		f.followUpDrawError(s, i, err)
		return
	}

	state, rate, err := gachaService.PityStatus(ctx, discordID, cfg)
	if err != nil {
		log.Errorf("Error loading pity status after ten-pull: %v", err)
		common.FollowUpWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.FollowUpWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, common.FormatItemLine(item))
	}
	best := entities.RarityThreeStar
	if len(items) > 0 {
		best = items[0].Rarity
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — 10x", cfg.Name),
		Description: strings.Join(lines, "\n"),
		Color:       common.RarityColor(best),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("5★ pity %d · next 5★ chance %s", state.Pity5Star, common.FormatPercent(rate)),
		},
	}
	if len(items) < 10 {
		embed.Description += fmt.Sprintf("\n\n⚠️ Only %d of 10 draws could be produced.", len(items))
	}

	params := &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}
	if len(items) > 0 {
		if card, err := f.cards.GenerateBatchCard(cfg.Name, items, state); err == nil {
			params.Files = []*discordgo.File{{
				Name:        "tenpull.png",
				ContentType: "image/png",
				Reader:      bytes.NewReader(card),
			}}
		} else {
			log.WithError(err).Warn("Failed to render ten-pull card")
		}
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, false, params); err != nil {
		log.Errorf("Error sending ten-pull follow-up: %v", err)
	}
}

// handlePity shows the caller's pity status for a pool
func (f *Feature) handlePity(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	cfg, err := f.resolvePool(options)
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	defer uow.Rollback()

	gachaService := services.NewGachaService(
		uow.PityStateRepository(),
		uow.PullHistoryRepository(),
		uow.ItemRepository(),
		uow.EventBus(),
		f.engine,
	)

	state, rate, err := gachaService.PityStatus(ctx, discordID, cfg)
	if err != nil {
		log.Errorf("Error loading pity status: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve pity status. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	guarantee5 := "no"
	if state.Guaranteed5Star {
		guarantee5 = "yes"
	}
	guarantee4 := "no"
	if state.Guaranteed4Star {
		guarantee4 = "yes"
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Pity status — %s", cfg.Name),
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "5★ pity", Value: strconv.Itoa(state.Pity5Star), Inline: true},
			{Name: "4★ pity", Value: strconv.Itoa(state.Pity4Star), Inline: true},
			{Name: "Next 5★ chance", Value: common.FormatPercent(rate), Inline: true},
			{Name: "5★ rate-up guaranteed", Value: guarantee5, Inline: true},
			{Name: "4★ rate-up guaranteed", Value: guarantee4, Inline: true},
			{Name: "Total pulls", Value: strconv.FormatInt(state.PullCount, 10), Inline: true},
		},
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	}); err != nil {
		log.Errorf("Error responding to pity command: %v", err)
	}
}

// handlePools lists the loaded pools and whether they are open
func (f *Feature) handlePools(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var lines []string
	for _, id := range f.pools.IDs() {
		cfg, err := f.pools.Get(id)
		if err != nil {
			continue
		}
		status := "open"
		if !cfg.Enabled {
			status = "closed"
		}
		lines = append(lines, fmt.Sprintf("**%s** (`%s`) — %s", cfg.Name, cfg.ID, status))
	}
	if len(lines) == 0 {
		lines = []string{"No pools are configured."}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Pools",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	}); err != nil {
		log.Errorf("Error responding to pools command: %v", err)
	}
}

func (f *Feature) respondDrawError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	common.RespondWithError(s, i, drawErrorMessage(err))
}

func (f *Feature) followUpDrawError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	common.FollowUpWithError(s, i, drawErrorMessage(err))
}

func drawErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrPoolDisabled):
		return "This pool is currently closed."
	case errors.Is(err, services.ErrPoolExhausted):
		return "This pool has no items to draw from."
	default:
		log.WithError(err).Error("Draw failed")
		return "The draw failed. Please try again."
	}
}

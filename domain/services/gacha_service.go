package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gachabot/domain/entities"
	"gachabot/domain/interfaces"
	"gachabot/events"

	log "github.com/sirupsen/logrus"
)

const (
	// tenPullCount is the batch size of a ten-pull.
	tenPullCount = 10

	// tenPullMaxAttempts bounds the retry loop absorbing transient
	// selection failures inside one batch.
	tenPullMaxAttempts = 20
)

// gachaService orchestrates draws: it owns the load/draw/persist cycle for
// single pulls and ten-pull batches.
type gachaService struct {
	pityRepo       interfaces.PityStateRepository
	historyRepo    interfaces.PullHistoryRepository
	itemRepo       interfaces.ItemRepository
	eventPublisher interfaces.EventPublisher
	engine         *DrawEngine
}

// NewGachaService creates a new gacha service. A nil engine gets the default
// random source.
func NewGachaService(
	pityRepo interfaces.PityStateRepository,
	historyRepo interfaces.PullHistoryRepository,
	itemRepo interfaces.ItemRepository,
	eventPublisher interfaces.EventPublisher,
	engine *DrawEngine,
) interfaces.GachaService {
	if engine == nil {
		engine = NewDrawEngine(nil)
	}
	return &gachaService{
		pityRepo:       pityRepo,
		historyRepo:    historyRepo,
		itemRepo:       itemRepo,
		eventPublisher: eventPublisher,
		engine:         engine,
	}
}

func (s *gachaService) SinglePull(ctx context.Context, discordID int64, cfg *entities.PoolConfig) (*entities.DrawOutcome, error) {
	if !cfg.Enabled {
		return nil, ErrPoolDisabled
	}

	catalog, err := s.itemRepo.GetAll(ctx, cfg.ConfigGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to load item catalog %q: %w", cfg.ConfigGroup, err)
	}

	state, err := s.loadState(ctx, discordID)
	if err != nil {
		return nil, err
	}
	pityBefore := state.Pity5Star

	item, next, err := s.engine.Draw(cfg, catalog, *state)
	if err != nil {
		return nil, err
	}
	next.PullCount = state.PullCount + 1
	next.DiscordID = discordID

	if err := s.pityRepo.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to save pity state: %w", err)
	}

	record := &entities.PullRecord{
		DiscordID: discordID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Rarity:    item.Rarity,
		PoolID:    cfg.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.historyRepo.Record(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record pull history: %w", err)
	}

	if item.Rarity == entities.RarityFiveStar {
		s.publishFiveStar(discordID, item, cfg, pityBefore+1)
	}

	return &entities.DrawOutcome{Item: item, State: next}, nil
}

func (s *gachaService) TenPulls(ctx context.Context, discordID int64, cfg *entities.PoolConfig) ([]*entities.Item, error) {
	if !cfg.Enabled {
		return nil, ErrPoolDisabled
	}

	catalog, err := s.itemRepo.GetAll(ctx, cfg.ConfigGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to load item catalog %q: %w", cfg.ConfigGroup, err)
	}

	state, err := s.loadState(ctx, discordID)
	if err != nil {
		return nil, err
	}

	drawnAt := time.Now().UTC()
	items := make([]*entities.Item, 0, tenPullCount)
	records := make([]*entities.PullRecord, 0, tenPullCount)

	attempts := 0
	for len(items) < tenPullCount {
		attempts++
		if attempts > tenPullMaxAttempts {
			log.WithFields(log.Fields{
				"discordID": discordID,
				"poolID":    cfg.ID,
				"produced":  len(items),
				"attempts":  attempts - 1,
			}).Error("Ten-pull retry budget exhausted; returning partial batch")
			break
		}

		pityBefore := state.Pity5Star
		item, next, err := s.engine.Draw(cfg, catalog, *state)
		if err != nil {
			if errors.Is(err, ErrPoolExhausted) {
				log.WithError(err).WithFields(log.Fields{
					"discordID": discordID,
					"poolID":    cfg.ID,
					"attempt":   attempts,
				}).Warn("Draw failed inside ten-pull batch; retrying")
				continue
			}
			return nil, fmt.Errorf("ten-pull draw failed: %w", err)
		}

		*state = next
		state.PullCount++
		state.DiscordID = discordID

		items = append(items, item)
		records = append(records, &entities.PullRecord{
			DiscordID: discordID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			Rarity:    item.Rarity,
			PoolID:    cfg.ID,
			CreatedAt: drawnAt,
		})

		if item.Rarity == entities.RarityFiveStar {
			s.publishFiveStar(discordID, item, cfg, pityBefore+1)
		}
	}

	// One persistence round for the whole batch.
	if err := s.pityRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save pity state: %w", err)
	}
	if len(records) > 0 {
		if err := s.historyRepo.RecordBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to record pull history batch: %w", err)
		}
	}

	if s.eventPublisher != nil {
		rarities := make([]entities.Rarity, len(items))
		for i, item := range items {
			rarities[i] = item.Rarity
		}
		if err := s.eventPublisher.Publish(events.PullBatchCompleteEvent{
			DiscordID: discordID,
			PoolID:    cfg.ID,
			Requested: tenPullCount,
			Produced:  len(items),
			Rarities:  rarities,
		}); err != nil {
			log.WithError(err).Warn("Failed to publish pull batch event")
		}
	}

	sortPullResults(items)
	return items, nil
}

func (s *gachaService) PityStatus(ctx context.Context, discordID int64, cfg *entities.PoolConfig) (*entities.PityState, float64, error) {
	state, err := s.loadState(ctx, discordID)
	if err != nil {
		return nil, 0, err
	}
	return state, RateFiveStar(state.Pity5Star+1, cfg), nil
}

// loadState fetches the player's state, initializing the zero state for a
// first-time player.
func (s *gachaService) loadState(ctx context.Context, discordID int64) (*entities.PityState, error) {
	state, err := s.pityRepo.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pity state for %d: %w", discordID, err)
	}
	if state == nil {
		state = entities.NewPityState(discordID)
	}
	return state, nil
}

func (s *gachaService) publishFiveStar(discordID int64, item *entities.Item, cfg *entities.PoolConfig, pityUsed int) {
	if s.eventPublisher == nil {
		return
	}
	err := s.eventPublisher.Publish(events.FiveStarDrawnEvent{
		DiscordID: discordID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		PoolID:    cfg.ID,
		PoolName:  cfg.Name,
		PityUsed:  pityUsed,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to publish five star event")
	}
}

// sortPullResults orders a batch for presentation: rarity descending, then
// characters before weapons.
func sortPullResults(items []*entities.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rarity != items[j].Rarity {
			return items[i].Rarity > items[j].Rarity
		}
		return items[i].IsCharacter() && !items[j].IsCharacter()
	})
}

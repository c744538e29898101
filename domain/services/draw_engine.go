package services

import (
	"fmt"

	"gachabot/domain/entities"
)

// DrawEngine decides the tier and concrete item of one atomic draw and
// computes the pity state that follows it. It performs no I/O; the catalog
// is supplied by the caller.
type DrawEngine struct {
	rng RandSource
}

// NewDrawEngine creates a draw engine. A nil source falls back to the
// process-wide default; tests pass a seeded or scripted source instead.
func NewDrawEngine(rng RandSource) *DrawEngine {
	if rng == nil {
		rng = DefaultRandSource()
	}
	return &DrawEngine{rng: rng}
}

// Draw runs the tier decision state machine once: the same sampled value is
// checked against the 5-star threshold first and the 4-star threshold
// second, and a miss on both lands on the 3-star floor. The returned state
// covers pity counters and guarantee flags only; the lifetime pull counter
// belongs to the flow layer.
//
// Sharing one sample across both thresholds makes the tiers mutually
// exclusive bands of a single roll. That matches the source behavior this
// engine replicates and must not be changed without re-deriving the
// statistical properties.
func (e *DrawEngine) Draw(cfg *entities.PoolConfig, catalog map[string]*entities.Item,
	state entities.PityState) (*entities.Item, entities.PityState, error) {

	next := state
	items := groupPoolItems(cfg, catalog)
	r := e.rng.Float64()

	if r < RateFiveStar(state.Pity5Star+1, cfg) {
		next.Pity5Star = 0

		// Simultaneous-pity rule: a 5-star landing exactly on the
		// 4-star hard pity boundary satisfies that pity as well.
		if next.Pity4Star == cfg.Progression[entities.RarityFourStar].HardPityPull {
			next.Pity4Star = 0
		}

		wantUp := state.Guaranteed5Star || e.rng.Float64() < cfg.Probabilities.Up5StarRate
		item, err := selectWithFallback(e.rng, items, entities.RarityFiveStar, wantUp,
			[]entities.Rarity{entities.RarityFourStar, entities.RarityThreeStar}, "")
		if err != nil {
			return nil, state, fmt.Errorf("5-star selection: %w", err)
		}

		next.Guaranteed5Star = !cfg.IsRateUp(entities.RarityFiveStar, item.ID)
		return item, next, nil
	}

	p4, err := RateFourStar(state.Pity4Star+1, cfg)
	if err != nil {
		return nil, state, err
	}

	if r < p4 {
		next.Pity4Star = 0
		next.Pity5Star++

		roleType := entities.ItemTypeWeapon
		if e.rng.Float64() > cfg.Probabilities.FourStarRoleRate {
			roleType = entities.ItemTypeCharacter
		}

		wantUp := state.Guaranteed4Star || e.rng.Float64() < cfg.Probabilities.Up4StarRate
		item, err := selectWithFallback(e.rng, items, entities.RarityFourStar, wantUp,
			[]entities.Rarity{entities.RarityThreeStar, entities.RarityFiveStar}, roleType)
		if err != nil {
			return nil, state, fmt.Errorf("4-star selection: %w", err)
		}

		next.Guaranteed4Star = !cfg.IsRateUp(entities.RarityFourStar, item.ID)
		return item, next, nil
	}

	next.Pity5Star++
	next.Pity4Star++

	item, err := selectWithFallback(e.rng, items, entities.RarityThreeStar, false,
		[]entities.Rarity{entities.RarityFourStar, entities.RarityFiveStar}, "")
	if err != nil {
		return nil, state, fmt.Errorf("3-star selection: %w", err)
	}
	return item, next, nil
}

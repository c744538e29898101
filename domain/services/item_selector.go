package services

import (
	"gachabot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// poolItems holds a pool's eligible catalog items bucketed by rarity and
// rate-up status. The standard buckets include the rate-up items; the up
// buckets are the marked subsets.
type poolItems struct {
	byRarity   map[entities.Rarity][]*entities.Item
	upByRarity map[entities.Rarity][]*entities.Item
}

// groupPoolItems filters the catalog down to the pool's included item ids
// and buckets the survivors. Ids missing from the catalog are skipped; the
// include lists keep their order so selection is replayable under a seeded
// source.
func groupPoolItems(cfg *entities.PoolConfig, catalog map[string]*entities.Item) *poolItems {
	grouped := &poolItems{
		byRarity:   make(map[entities.Rarity][]*entities.Item),
		upByRarity: make(map[entities.Rarity][]*entities.Item),
	}

	for rarity, ids := range cfg.IncludedItemIDs {
		for _, id := range ids {
			item, ok := catalog[id]
			if !ok {
				continue
			}
			grouped.byRarity[rarity] = append(grouped.byRarity[rarity], item)
			if cfg.IsRateUp(rarity, id) {
				grouped.upByRarity[rarity] = append(grouped.upByRarity[rarity], item)
			}
		}
	}
	return grouped
}

func (p *poolItems) bucket(b entities.Bucket) []*entities.Item {
	if b.Up {
		return p.upByRarity[b.Rarity]
	}
	return p.byRarity[b.Rarity]
}

// union returns every item available in the pool, deduplicated by id.
func (p *poolItems) union() []*entities.Item {
	seen := make(map[string]bool)
	var all []*entities.Item
	for _, rarity := range []entities.Rarity{entities.RarityFiveStar, entities.RarityFourStar, entities.RarityThreeStar} {
		for _, item := range p.byRarity[rarity] {
			if !seen[item.ID] {
				seen[item.ID] = true
				all = append(all, item)
			}
		}
		for _, item := range p.upByRarity[rarity] {
			if !seen[item.ID] {
				seen[item.ID] = true
				all = append(all, item)
			}
		}
	}
	return all
}

// selectWithFallback picks a concrete item for a resolved tier and UP
// decision, degrading through the fallback tiers when the preferred buckets
// are empty. A type filter is honored only where it leaves candidates. When
// every priority bucket is empty the whole pool union is used; an empty
// union is ErrPoolExhausted.
func selectWithFallback(rng RandSource, items *poolItems, target entities.Rarity, wantUp bool,
	fallback []entities.Rarity, typeFilter entities.ItemType) (*entities.Item, error) {

	priority := []entities.Bucket{
		{Rarity: target, Up: wantUp},
		{Rarity: target, Up: !wantUp},
	}
	for _, rarity := range fallback {
		priority = append(priority,
			entities.Bucket{Rarity: rarity, Up: false},
			entities.Bucket{Rarity: rarity, Up: true},
		)
	}

	for _, bucket := range priority {
		candidates := items.bucket(bucket)
		if typeFilter != "" {
			if filtered := filterByType(candidates, typeFilter); len(filtered) > 0 {
				candidates = filtered
			}
		}
		if len(candidates) > 0 {
			return pickUniform(rng, candidates), nil
		}
	}

	if all := items.union(); len(all) > 0 {
		item := pickUniform(rng, all)
		log.WithFields(log.Fields{
			"target": target,
			"wantUp": wantUp,
			"item":   item.Name,
		}).Warn("Every priority bucket was empty; selected from whole pool union")
		return item, nil
	}

	return nil, ErrPoolExhausted
}

func filterByType(items []*entities.Item, itemType entities.ItemType) []*entities.Item {
	var filtered []*entities.Item
	for _, item := range items {
		if item.Type == itemType {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func pickUniform(rng RandSource, items []*entities.Item) *entities.Item {
	idx := int(rng.Float64() * float64(len(items)))
	if idx >= len(items) {
		idx = len(items) - 1
	}
	return items[idx]
}

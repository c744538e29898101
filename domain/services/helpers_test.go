package services

import (
	"gachabot/domain/entities"
)

// sequenceSource replays a scripted list of values, cycling when exhausted.
type sequenceSource struct {
	values []float64
	idx    int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.idx%len(s.values)]
	s.idx++
	return v
}

func newSequenceSource(values ...float64) *sequenceSource {
	return &sequenceSource{values: values}
}

// testPool builds a limited-banner style pool over the testCatalog items:
// c5a and c4a are rate-up, soft pity ramps from pull 74 to 89, hard pity at
// 90 (5-star) and 10 (4-star).
func testPool() *entities.PoolConfig {
	return &entities.PoolConfig{
		ID:          "pool-limited",
		Name:        "Limited Wish",
		Enabled:     true,
		ConfigGroup: "default",
		Probabilities: entities.ProbabilitySettings{
			Base5StarRate:    0.008,
			Base4StarRate:    0.06,
			Up5StarRate:      0.5,
			Up4StarRate:      0.5,
			FourStarRoleRate: 0.06,
		},
		Progression: map[entities.Rarity]entities.Progression{
			entities.RarityFiveStar: {
				HardPityPull: 90,
				HardPityRate: 1.0,
				SoftPity: []entities.SoftPityInterval{
					{StartPull: 74, EndPull: 89, Increment: 0.06},
				},
			},
			entities.RarityFourStar: {
				HardPityPull: 10,
				HardPityRate: 1.0,
			},
		},
		IncludedItemIDs: map[entities.Rarity][]string{
			entities.RarityFiveStar:  {"c5a", "c5b", "w5a"},
			entities.RarityFourStar:  {"c4a", "c4b", "w4a"},
			entities.RarityThreeStar: {"w3a", "w3b"},
		},
		RateUpItemIDs: map[entities.Rarity][]string{
			entities.RarityFiveStar: {"c5a"},
			entities.RarityFourStar: {"c4a"},
		},
	}
}

// flatPool is testPool without any soft pity ramp, for golden-value checks.
func flatPool() *entities.PoolConfig {
	cfg := testPool()
	p5 := cfg.Progression[entities.RarityFiveStar]
	p5.SoftPity = nil
	cfg.Progression[entities.RarityFiveStar] = p5
	return cfg
}

func testCatalog() map[string]*entities.Item {
	items := []*entities.Item{
		{ID: "c5a", Name: "Aurelia", Rarity: entities.RarityFiveStar, Type: entities.ItemTypeCharacter},
		{ID: "c5b", Name: "Brennar", Rarity: entities.RarityFiveStar, Type: entities.ItemTypeCharacter},
		{ID: "w5a", Name: "Dawnpiercer", Rarity: entities.RarityFiveStar, Type: entities.ItemTypeWeapon},
		{ID: "c4a", Name: "Corvid", Rarity: entities.RarityFourStar, Type: entities.ItemTypeCharacter},
		{ID: "c4b", Name: "Delphine", Rarity: entities.RarityFourStar, Type: entities.ItemTypeCharacter},
		{ID: "w4a", Name: "Oathkeeper", Rarity: entities.RarityFourStar, Type: entities.ItemTypeWeapon},
		{ID: "w3a", Name: "Iron Blade", Rarity: entities.RarityThreeStar, Type: entities.ItemTypeWeapon},
		{ID: "w3b", Name: "Ash Bow", Rarity: entities.RarityThreeStar, Type: entities.ItemTypeWeapon},
	}
	catalog := make(map[string]*entities.Item, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}
	return catalog
}

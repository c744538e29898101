package pools

import (
	"encoding/json"
	"fmt"
	"os"

	"gachabot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// rawPoolConfig mirrors the on-disk JSON schema. Rarity keys are loose
// strings ("5", "5star"); normalization happens in parseRaw and nowhere
// else.
type rawPoolConfig struct {
	CpID        string `json:"cp_id,omitempty"`
	Name        string `json:"name"`
	Enable      *bool  `json:"enable,omitempty"`
	ConfigGroup string `json:"config_group,omitempty"`

	ProbabilitySettings    entities.ProbabilitySettings `json:"probability_settings"`
	RateUpItemIDs          map[string][]string          `json:"rate_up_item_ids"`
	IncludedItemIDs        map[string][]string          `json:"included_item_ids"`
	ProbabilityProgression map[string]rawProgression    `json:"probability_progression"`
}

type rawProgression struct {
	HardPityPull int                         `json:"hard_pity_pull"`
	HardPityRate float64                     `json:"hard_pity_rate"`
	SoftPity     []entities.SoftPityInterval `json:"soft_pity"`
}

// loadPoolFile reads and normalizes one pool file. A file without a name is
// skipped (nil, nil); everything else must parse and validate.
func loadPoolFile(fullPath, key, defaultGroup string) (*entities.PoolConfig, error) {
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}

	var raw rawPoolConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if raw.Name == "" {
		log.WithField("path", key).Warn("Skipping pool config without a name")
		return nil, nil
	}

	return parseRaw(&raw, key, defaultGroup)
}

// parseRaw converts the loose on-disk form into a validated PoolConfig.
func parseRaw(raw *rawPoolConfig, key, defaultGroup string) (*entities.PoolConfig, error) {
	cfg := &entities.PoolConfig{
		ID:            raw.CpID,
		Name:          raw.Name,
		Enabled:       true,
		ConfigGroup:   raw.ConfigGroup,
		Probabilities: raw.ProbabilitySettings,
	}
	if cfg.ConfigGroup == "" {
		cfg.ConfigGroup = defaultGroup
	}
	if raw.Enable != nil {
		cfg.Enabled = *raw.Enable
	}
	if cfg.ID == "" {
		cfg.ID = generatePoolID(key, raw.Name)
	}

	var err error
	if cfg.IncludedItemIDs, err = parseRarityLists(raw.IncludedItemIDs); err != nil {
		return nil, fmt.Errorf("included_item_ids: %w", err)
	}
	if cfg.RateUpItemIDs, err = parseRarityLists(raw.RateUpItemIDs); err != nil {
		return nil, fmt.Errorf("rate_up_item_ids: %w", err)
	}

	cfg.Progression = make(map[entities.Rarity]entities.Progression, len(raw.ProbabilityProgression))
	for rarityKey, prog := range raw.ProbabilityProgression {
		rarity, err := entities.ParseRarity(rarityKey)
		if err != nil {
			return nil, fmt.Errorf("probability_progression: %w", err)
		}
		cfg.Progression[rarity] = entities.Progression{
			HardPityPull: prog.HardPityPull,
			HardPityRate: prog.HardPityRate,
			SoftPity:     prog.SoftPity,
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseRarityLists(in map[string][]string) (map[entities.Rarity][]string, error) {
	out := make(map[entities.Rarity][]string, len(in))
	for rarityKey, ids := range in {
		rarity, err := entities.ParseRarity(rarityKey)
		if err != nil {
			return nil, err
		}
		out[rarity] = append(out[rarity], ids...)
	}
	return out, nil
}

// toRaw converts a PoolConfig back into the on-disk form, writing rarity
// keys in their canonical "5star" spelling.
func toRaw(cfg *entities.PoolConfig) *rawPoolConfig {
	enable := cfg.Enabled
	raw := &rawPoolConfig{
		CpID:                   cfg.ID,
		Name:                   cfg.Name,
		Enable:                 &enable,
		ConfigGroup:            cfg.ConfigGroup,
		ProbabilitySettings:    cfg.Probabilities,
		RateUpItemIDs:          make(map[string][]string, len(cfg.RateUpItemIDs)),
		IncludedItemIDs:        make(map[string][]string, len(cfg.IncludedItemIDs)),
		ProbabilityProgression: make(map[string]rawProgression, len(cfg.Progression)),
	}

	for rarity, ids := range cfg.IncludedItemIDs {
		raw.IncludedItemIDs[rarity.Key()] = ids
	}
	for rarity, ids := range cfg.RateUpItemIDs {
		raw.RateUpItemIDs[rarity.Key()] = ids
	}
	for rarity, prog := range cfg.Progression {
		raw.ProbabilityProgression[rarity.Key()] = rawProgression{
			HardPityPull: prog.HardPityPull,
			HardPityRate: prog.HardPityRate,
			SoftPity:     prog.SoftPity,
		}
	}
	return raw
}

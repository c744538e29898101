package entities

import (
	"fmt"
	"sort"
)

// Default probability values applied when a pool configuration omits a field.
const (
	DefaultBase5StarRate    = 0.008
	DefaultBase4StarRate    = 0.06
	DefaultUp5StarRate      = 0.5
	DefaultUp4StarRate      = 0.5
	DefaultFourStarRoleRate = 0.06

	DefaultHardPity5Star = 80
	DefaultHardPity4Star = 10
	DefaultHardPityRate  = 1.0

	// DefaultConfigGroup selects the default item catalog namespace.
	DefaultConfigGroup = "default"
)

// ProbabilitySettings holds the per-pool base and rate-up probabilities.
type ProbabilitySettings struct {
	Base5StarRate float64 `json:"base_5star_rate"`
	Base4StarRate float64 `json:"base_4star_rate"`
	Up5StarRate   float64 `json:"up_5star_rate"`
	Up4StarRate   float64 `json:"up_4star_rate"`

	// FourStarRoleRate is the character-vs-weapon split threshold applied
	// to 4-star hits.
	FourStarRoleRate float64 `json:"_4star_role_rate"`
}

// SoftPityInterval is one segment of a soft-pity ramp: from StartPull to
// EndPull (inclusive) each draw adds Increment to the base rate.
type SoftPityInterval struct {
	StartPull int     `json:"start_pull"`
	EndPull   int     `json:"end_pull"`
	Increment float64 `json:"increment"`
}

// Progression describes how a tier's probability grows with the pity counter.
type Progression struct {
	HardPityPull int                `json:"hard_pity_pull"`
	HardPityRate float64            `json:"hard_pity_rate"`
	SoftPity     []SoftPityInterval `json:"soft_pity"`
}

// SortedSoftPity returns the soft-pity intervals in ascending StartPull
// order. Configuration files carry no ordering guarantee.
func (p Progression) SortedSoftPity() []SoftPityInterval {
	intervals := make([]SoftPityInterval, len(p.SoftPity))
	copy(intervals, p.SoftPity)
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].StartPull < intervals[j].StartPull
	})
	return intervals
}

// PoolConfig is the immutable-per-draw description of one gacha pool. It is
// produced by the pools package, which parses and validates the raw JSON
// once; the core never sees unnormalized values.
type PoolConfig struct {
	ID          string
	Name        string
	Enabled     bool
	ConfigGroup string

	Probabilities ProbabilitySettings
	Progression   map[Rarity]Progression

	// IncludedItemIDs lists the catalog items eligible in this pool, per
	// tier. RateUpItemIDs is the per-tier subset marked as "up".
	IncludedItemIDs map[Rarity][]string
	RateUpItemIDs   map[Rarity][]string
}

// ApplyDefaults fills unset probability and progression fields with the
// conventional values.
func (c *PoolConfig) ApplyDefaults() {
	if c.ConfigGroup == "" {
		c.ConfigGroup = DefaultConfigGroup
	}
	if c.Probabilities.Base5StarRate == 0 {
		c.Probabilities.Base5StarRate = DefaultBase5StarRate
	}
	if c.Probabilities.Base4StarRate == 0 {
		c.Probabilities.Base4StarRate = DefaultBase4StarRate
	}
	if c.Probabilities.Up5StarRate == 0 {
		c.Probabilities.Up5StarRate = DefaultUp5StarRate
	}
	if c.Probabilities.Up4StarRate == 0 {
		c.Probabilities.Up4StarRate = DefaultUp4StarRate
	}
	if c.Probabilities.FourStarRoleRate == 0 {
		c.Probabilities.FourStarRoleRate = DefaultFourStarRoleRate
	}

	if c.Progression == nil {
		c.Progression = make(map[Rarity]Progression)
	}
	p5 := c.Progression[RarityFiveStar]
	if p5.HardPityPull == 0 {
		p5.HardPityPull = DefaultHardPity5Star
	}
	if p5.HardPityRate == 0 {
		p5.HardPityRate = DefaultHardPityRate
	}
	c.Progression[RarityFiveStar] = p5

	p4 := c.Progression[RarityFourStar]
	if p4.HardPityPull == 0 {
		p4.HardPityPull = DefaultHardPity4Star
	}
	if p4.HardPityRate == 0 {
		p4.HardPityRate = DefaultHardPityRate
	}
	c.Progression[RarityFourStar] = p4

	if c.IncludedItemIDs == nil {
		c.IncludedItemIDs = make(map[Rarity][]string)
	}
	if c.RateUpItemIDs == nil {
		c.RateUpItemIDs = make(map[Rarity][]string)
	}
}

// Validate checks the schema invariants. It assumes ApplyDefaults has run.
func (c *PoolConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("pool config: name is required")
	}
	if err := validateRate("base_5star_rate", c.Probabilities.Base5StarRate); err != nil {
		return err
	}
	if err := validateRate("base_4star_rate", c.Probabilities.Base4StarRate); err != nil {
		return err
	}
	if err := validateRate("up_5star_rate", c.Probabilities.Up5StarRate); err != nil {
		return err
	}
	if err := validateRate("up_4star_rate", c.Probabilities.Up4StarRate); err != nil {
		return err
	}
	if err := validateRate("_4star_role_rate", c.Probabilities.FourStarRoleRate); err != nil {
		return err
	}

	for _, rarity := range []Rarity{RarityFourStar, RarityFiveStar} {
		prog, ok := c.Progression[rarity]
		if !ok {
			return fmt.Errorf("pool config %q: missing %s progression", c.Name, rarity)
		}
		if prog.HardPityPull < 1 {
			return fmt.Errorf("pool config %q: %s hard_pity_pull must be >= 1, got %d", c.Name, rarity, prog.HardPityPull)
		}
		if err := validateRate(rarity.Key()+" hard_pity_rate", prog.HardPityRate); err != nil {
			return err
		}
		for _, interval := range prog.SoftPity {
			if interval.StartPull < 1 || interval.EndPull < interval.StartPull {
				return fmt.Errorf("pool config %q: invalid %s soft pity interval [%d, %d]",
					c.Name, rarity, interval.StartPull, interval.EndPull)
			}
			if interval.Increment < 0 {
				return fmt.Errorf("pool config %q: negative %s soft pity increment", c.Name, rarity)
			}
		}
	}

	for rarity := range c.IncludedItemIDs {
		if !rarity.Valid() {
			return fmt.Errorf("pool config %q: invalid included rarity %d", c.Name, int(rarity))
		}
	}
	for rarity := range c.RateUpItemIDs {
		if !rarity.Valid() {
			return fmt.Errorf("pool config %q: invalid rate-up rarity %d", c.Name, int(rarity))
		}
	}
	return nil
}

// IsRateUp reports whether the item id is in the tier's rate-up set.
func (c *PoolConfig) IsRateUp(rarity Rarity, itemID string) bool {
	for _, id := range c.RateUpItemIDs[rarity] {
		if id == itemID {
			return true
		}
	}
	return false
}

func validateRate(field string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("pool config: %s must be within [0, 1], got %v", field, v)
	}
	return nil
}

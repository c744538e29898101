package entities

import "time"

// PityState tracks a player's running draw counters. There is exactly one
// state per player, shared across pools; it is mutated only by the draw
// engine and persisted by the storage layer after each single pull or after
// a whole multi-pull batch.
type PityState struct {
	DiscordID int64 `db:"discord_id"`

	// Pity5Star and Pity4Star count draws since the tier was last hit.
	Pity5Star int `db:"pity_5star"`
	Pity4Star int `db:"pity_4star"`

	// Guaranteed5Star / Guaranteed4Star record that the next hit of the
	// tier must come from the rate-up set.
	Guaranteed5Star bool `db:"guaranteed_5star"`
	Guaranteed4Star bool `db:"guaranteed_4star"`

	// PullCount is the lifetime draw counter.
	PullCount int64 `db:"pull_count"`

	UpdatedAt time.Time `db:"updated_at"`
}

// NewPityState returns the zeroed state used for a player's first draw.
func NewPityState(discordID int64) *PityState {
	return &PityState{DiscordID: discordID}
}

package entities

import "time"

// Bucket identifies one selector candidate set: a rarity tier plus whether
// the rate-up subset or the standard remainder is meant.
type Bucket struct {
	Rarity Rarity
	Up     bool
}

// DrawOutcome is the result of one atomic draw: the item produced and the
// pity state after the draw.
type DrawOutcome struct {
	Item  *Item
	State PityState
}

// PullRecord is one row of a player's draw history.
type PullRecord struct {
	ID        int64     `db:"id"`
	DiscordID int64     `db:"discord_id"`
	ItemID    string    `db:"item_id"`
	ItemName  string    `db:"item_name"`
	Rarity    Rarity    `db:"rarity"`
	PoolID    string    `db:"pool_id"`
	CreatedAt time.Time `db:"created_at"`
}

// PullStats summarizes a player's draw history.
type PullStats struct {
	DiscordID      int64
	TotalPulls     int64
	FiveStarPulls  int64
	FourStarPulls  int64
	ThreeStarPulls int64
}

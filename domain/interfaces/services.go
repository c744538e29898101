package interfaces

import (
	"context"

	"gachabot/domain/entities"
)

// GachaService defines the interface for the pull flow
type GachaService interface {
	// SinglePull executes one draw against the player's current pity
	// state and persists state and history before returning
	SinglePull(ctx context.Context, discordID int64, cfg *entities.PoolConfig) (*entities.DrawOutcome, error)

	// TenPulls executes ten consecutive draws, persisting the final state
	// and the whole history batch once. The result is sorted by
	// descending rarity, characters before weapons on ties. A transient
	// selection failure is retried within a bounded budget; exhausting
	// the budget yields a partial result rather than an error.
	TenPulls(ctx context.Context, discordID int64, cfg *entities.PoolConfig) ([]*entities.Item, error)

	// PityStatus returns the player's current state alongside the chance
	// of a 5-star on the next draw in the given pool
	PityStatus(ctx context.Context, discordID int64, cfg *entities.PoolConfig) (*entities.PityState, float64, error)
}

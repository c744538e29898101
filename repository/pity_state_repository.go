package repository

import (
	"context"
	"fmt"

	"gachabot/database"
	"gachabot/domain/entities"
	"gachabot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// PityStateRepository implements the PityStateRepository interface
type PityStateRepository struct {
	q Queryable
}

// NewPityStateRepository creates a new pity state repository
func NewPityStateRepository(db *database.DB) *PityStateRepository {
	return &PityStateRepository{q: db.Pool}
}

func newPityStateRepository(tx Queryable) interfaces.PityStateRepository {
	return &PityStateRepository{q: tx}
}

// Get retrieves a player's pity state. It returns nil without error for a
// player who has never drawn.
func (r *PityStateRepository) Get(ctx context.Context, discordID int64) (*entities.PityState, error) {
	query := `
		SELECT discord_id, pity_5star, pity_4star, guaranteed_5star, guaranteed_4star, pull_count, updated_at
		FROM gacha_states
		WHERE discord_id = $1
	`

	var state entities.PityState
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&state.DiscordID,
		&state.Pity5Star,
		&state.Pity4Star,
		&state.Guaranteed5Star,
		&state.Guaranteed4Star,
		&state.PullCount,
		&state.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pity state for %d: %w", discordID, err)
	}

	return &state, nil
}

// Save upserts the player's pity state.
func (r *PityStateRepository) Save(ctx context.Context, state *entities.PityState) error {
	query := `
		INSERT INTO gacha_states (discord_id, pity_5star, pity_4star, guaranteed_5star, guaranteed_4star, pull_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (discord_id) DO UPDATE SET
			pity_5star = EXCLUDED.pity_5star,
			pity_4star = EXCLUDED.pity_4star,
			guaranteed_5star = EXCLUDED.guaranteed_5star,
			guaranteed_4star = EXCLUDED.guaranteed_4star,
			pull_count = EXCLUDED.pull_count,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		state.DiscordID,
		state.Pity5Star,
		state.Pity4Star,
		state.Guaranteed5Star,
		state.Guaranteed4Star,
		state.PullCount,
	).Scan(&state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save pity state for %d: %w", state.DiscordID, err)
	}

	return nil
}

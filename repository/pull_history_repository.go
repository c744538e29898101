package repository

import (
	"context"
	"fmt"

	"gachabot/database"
	"gachabot/domain/entities"
	"gachabot/domain/interfaces"
)

// PullHistoryRepository implements the PullHistoryRepository interface
type PullHistoryRepository struct {
	q Queryable
}

// NewPullHistoryRepository creates a new pull history repository
func NewPullHistoryRepository(db *database.DB) *PullHistoryRepository {
	return &PullHistoryRepository{q: db.Pool}
}

func newPullHistoryRepository(tx Queryable) interfaces.PullHistoryRepository {
	return &PullHistoryRepository{q: tx}
}

const insertPullQuery = `
	INSERT INTO pull_history (discord_id, item_id, item_name, rarity, pool_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
`

// Record appends a single pull to the history log.
func (r *PullHistoryRepository) Record(ctx context.Context, record *entities.PullRecord) error {
	err := r.q.QueryRow(ctx, insertPullQuery,
		record.DiscordID,
		record.ItemID,
		record.ItemName,
		int(record.Rarity),
		record.PoolID,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to record pull for %d: %w", record.DiscordID, err)
	}
	return nil
}

// RecordBatch appends a whole batch. Callers wanting atomicity run it inside
// a unit of work.
func (r *PullHistoryRepository) RecordBatch(ctx context.Context, records []*entities.PullRecord) error {
	for _, record := range records {
		if err := r.Record(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// GetByUser returns the player's most recent pulls, newest first.
func (r *PullHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.PullRecord, error) {
	query := `
		SELECT id, discord_id, item_id, item_name, rarity, pool_id, created_at
		FROM pull_history
		WHERE discord_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull history for %d: %w", discordID, err)
	}
	defer rows.Close()

	var records []*entities.PullRecord
	for rows.Next() {
		var record entities.PullRecord
		var rarity int
		err := rows.Scan(
			&record.ID,
			&record.DiscordID,
			&record.ItemID,
			&record.ItemName,
			&rarity,
			&record.PoolID,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pull record: %w", err)
		}
		record.Rarity = entities.Rarity(rarity)
		records = append(records, &record)
	}

	return records, rows.Err()
}

// GetStats aggregates the player's lifetime pull counts per rarity.
func (r *PullHistoryRepository) GetStats(ctx context.Context, discordID int64) (*entities.PullStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE rarity = 5),
			COUNT(*) FILTER (WHERE rarity = 4),
			COUNT(*) FILTER (WHERE rarity = 3)
		FROM pull_history
		WHERE discord_id = $1
	`

	stats := &entities.PullStats{DiscordID: discordID}
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&stats.TotalPulls,
		&stats.FiveStarPulls,
		&stats.FourStarPulls,
		&stats.ThreeStarPulls,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull stats for %d: %w", discordID, err)
	}

	return stats, nil
}

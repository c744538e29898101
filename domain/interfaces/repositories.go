package interfaces

import (
	"context"

	"gachabot/domain/entities"
	"gachabot/events"
)

// PityStateRepository defines the interface for pity state persistence
type PityStateRepository interface {
	// Get retrieves a player's pity state, or nil when the player has
	// never drawn
	Get(ctx context.Context, discordID int64) (*entities.PityState, error)

	// Save upserts a player's pity state
	Save(ctx context.Context, state *entities.PityState) error
}

// PullHistoryRepository defines the interface for draw history persistence
type PullHistoryRepository interface {
	// Record appends a single history record
	Record(ctx context.Context, record *entities.PullRecord) error

	// RecordBatch appends a whole multi-pull batch
	RecordBatch(ctx context.Context, records []*entities.PullRecord) error

	// GetByUser returns a player's most recent records, newest first
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.PullRecord, error)

	// GetStats returns per-rarity pull counts for a player
	GetStats(ctx context.Context, discordID int64) (*entities.PullStats, error)
}

// ItemRepository defines the interface for the item catalog
type ItemRepository interface {
	// GetAll returns every item of a config group keyed by external id
	GetAll(ctx context.Context, configGroup string) (map[string]*entities.Item, error)

	// GetByID retrieves one item, or nil when absent
	GetByID(ctx context.Context, configGroup, externalID string) (*entities.Item, error)

	// Upsert creates or replaces an item within a config group
	Upsert(ctx context.Context, configGroup string, item *entities.Item) error

	// Delete removes an item from a config group
	Delete(ctx context.Context, configGroup, externalID string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

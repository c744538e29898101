package repository

import (
	"context"
	"fmt"

	"gachabot/database"
	"gachabot/domain/entities"
	"gachabot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// ItemRepository implements the ItemRepository interface
type ItemRepository struct {
	q Queryable
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{q: db.Pool}
}

func newItemRepository(tx Queryable) interfaces.ItemRepository {
	return &ItemRepository{q: tx}
}

// GetAll returns every item in a config group keyed by external id.
func (r *ItemRepository) GetAll(ctx context.Context, configGroup string) (map[string]*entities.Item, error) {
	query := `
		SELECT external_id, name, rarity, item_type, affiliated_type, portrait_path
		FROM items
		WHERE config_group = $1
	`

	rows, err := r.q.Query(ctx, query, configGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for group %q: %w", configGroup, err)
	}
	defer rows.Close()

	catalog := make(map[string]*entities.Item)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		catalog[item.ID] = item
	}

	return catalog, rows.Err()
}

// GetByID retrieves one item, or nil when absent.
func (r *ItemRepository) GetByID(ctx context.Context, configGroup, externalID string) (*entities.Item, error) {
	query := `
		SELECT external_id, name, rarity, item_type, affiliated_type, portrait_path
		FROM items
		WHERE config_group = $1 AND external_id = $2
	`

	item, err := scanItem(r.q.QueryRow(ctx, query, configGroup, externalID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %q in group %q: %w", externalID, configGroup, err)
	}
	return item, nil
}

// Upsert creates or replaces an item within a config group.
func (r *ItemRepository) Upsert(ctx context.Context, configGroup string, item *entities.Item) error {
	query := `
		INSERT INTO items (config_group, external_id, name, rarity, item_type, affiliated_type, portrait_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (config_group, external_id) DO UPDATE SET
			name = EXCLUDED.name,
			rarity = EXCLUDED.rarity,
			item_type = EXCLUDED.item_type,
			affiliated_type = EXCLUDED.affiliated_type,
			portrait_path = EXCLUDED.portrait_path
	`

	_, err := r.q.Exec(ctx, query,
		configGroup,
		item.ID,
		item.Name,
		int(item.Rarity),
		string(item.Type),
		item.AffiliatedType,
		item.PortraitPath,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item %q in group %q: %w", item.ID, configGroup, err)
	}
	return nil
}

// Delete removes an item from a config group.
func (r *ItemRepository) Delete(ctx context.Context, configGroup, externalID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM items WHERE config_group = $1 AND external_id = $2`,
		configGroup, externalID)
	if err != nil {
		return fmt.Errorf("failed to delete item %q in group %q: %w", externalID, configGroup, err)
	}
	return nil
}

func scanItem(row pgx.Row) (*entities.Item, error) {
	var item entities.Item
	var rarity int
	var itemType string
	err := row.Scan(
		&item.ID,
		&item.Name,
		&rarity,
		&itemType,
		&item.AffiliatedType,
		&item.PortraitPath,
	)
	if err != nil {
		return nil, err
	}
	item.Rarity = entities.Rarity(rarity)
	item.Type = entities.ItemType(itemType)
	return &item, nil
}

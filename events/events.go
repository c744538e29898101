package events

import "gachabot/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeFiveStarDrawn     EventType = "five_star_drawn"
	EventTypePullBatchComplete EventType = "pull_batch_complete"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// FiveStarDrawnEvent is emitted when a draw produces a 5-star item, so the
// chat layer can announce it
type FiveStarDrawnEvent struct {
	DiscordID int64
	ItemID    string
	ItemName  string
	PoolID    string
	PoolName  string
	PityUsed  int
}

func (e FiveStarDrawnEvent) Type() EventType {
	return EventTypeFiveStarDrawn
}

// PullBatchCompleteEvent is emitted after a multi-pull batch finishes
type PullBatchCompleteEvent struct {
	DiscordID int64
	PoolID    string
	Requested int
	Produced  int
	Rarities  []entities.Rarity
}

func (e PullBatchCompleteEvent) Type() EventType {
	return EventTypePullBatchComplete
}

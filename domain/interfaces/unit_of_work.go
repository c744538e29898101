package interfaces

import "context"

// TransactionalEventPublisher buffers events during a unit of work and
// releases them only after the transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush emits the buffered events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops the buffered events after a rollback
	Discard()
}

// UnitOfWork defines a transactional scope over the gacha repositories
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	PityStateRepository() PityStateRepository
	PullHistoryRepository() PullHistoryRepository
	ItemRepository() ItemRepository

	// EventBus returns the transactional event publisher for this unit of work
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

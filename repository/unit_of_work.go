package repository

import (
	"context"
	"fmt"

	"gachabot/database"
	"gachabot/domain/interfaces"
	"gachabot/events"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db          *database.DB
	tx          pgx.Tx
	ctx         context.Context
	publisher   interfaces.TransactionalEventPublisher
	pityRepo    interfaces.PityStateRepository
	historyRepo interfaces.PullHistoryRepository
	itemRepo    interfaces.ItemRepository
}

type unitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Each unit of work
// gets its own transactional publisher over the shared bus.
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, bus: bus}
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		publisher: events.NewTransactionalBus(f.bus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create transaction-scoped repositories
	u.pityRepo = newPityStateRepository(tx)
	u.historyRepo = newPullHistoryRepository(tx)
	u.itemRepo = newItemRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.publisher != nil {
		if err := u.publisher.Flush(u.ctx); err != nil {
			return fmt.Errorf("failed to flush events: %w", err)
		}
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.publisher != nil {
		u.publisher.Discard()
	}

	return nil
}

// PityStateRepository returns the pity state repository for this unit of work
func (u *unitOfWork) PityStateRepository() interfaces.PityStateRepository {
	if u.pityRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pityRepo
}

// PullHistoryRepository returns the pull history repository for this unit of work
func (u *unitOfWork) PullHistoryRepository() interfaces.PullHistoryRepository {
	if u.historyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.historyRepo
}

// ItemRepository returns the item repository for this unit of work
func (u *unitOfWork) ItemRepository() interfaces.ItemRepository {
	if u.itemRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.itemRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.publisher
}

package repository

import (
	"gachabot/database"
	"gachabot/domain/interfaces"
	"gachabot/events"
)

// CreateTestUnitOfWork creates a unit of work for testing. Events flushed on
// commit land on the provided bus.
func CreateTestUnitOfWork(db *database.DB, bus *events.Bus) interfaces.UnitOfWork {
	return NewUnitOfWorkFactory(db, bus).Create()
}

package testhelpers

import (
	"context"

	"gachabot/domain/entities"
	"gachabot/events"

	"github.com/stretchr/testify/mock"
)

// MockPityStateRepository is a mock implementation of PityStateRepository
type MockPityStateRepository struct {
	mock.Mock
}

func (m *MockPityStateRepository) Get(ctx context.Context, discordID int64) (*entities.PityState, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PityState), args.Error(1)
}

func (m *MockPityStateRepository) Save(ctx context.Context, state *entities.PityState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockPullHistoryRepository is a mock implementation of PullHistoryRepository
type MockPullHistoryRepository struct {
	mock.Mock
}

func (m *MockPullHistoryRepository) Record(ctx context.Context, record *entities.PullRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPullHistoryRepository) RecordBatch(ctx context.Context, records []*entities.PullRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockPullHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.PullRecord, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PullRecord), args.Error(1)
}

func (m *MockPullHistoryRepository) GetStats(ctx context.Context, discordID int64) (*entities.PullStats, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PullStats), args.Error(1)
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetAll(ctx context.Context, configGroup string) (map[string]*entities.Item, error) {
	args := m.Called(ctx, configGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.Item), args.Error(1)
}

func (m *MockItemRepository) GetByID(ctx context.Context, configGroup, externalID string) (*entities.Item, error) {
	args := m.Called(ctx, configGroup, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Item), args.Error(1)
}

func (m *MockItemRepository) Upsert(ctx context.Context, configGroup string, item *entities.Item) error {
	args := m.Called(ctx, configGroup, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, configGroup, externalID string) error {
	args := m.Called(ctx, configGroup, externalID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

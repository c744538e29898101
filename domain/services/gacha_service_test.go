package services

import (
	"context"
	"errors"
	"testing"

	"gachabot/domain/entities"
	"gachabot/domain/testhelpers"
	"gachabot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMocks struct {
	pityRepo    *testhelpers.MockPityStateRepository
	historyRepo *testhelpers.MockPullHistoryRepository
	itemRepo    *testhelpers.MockItemRepository
	publisher   *testhelpers.MockEventPublisher
}

func newServiceMocks() *serviceMocks {
	return &serviceMocks{
		pityRepo:    &testhelpers.MockPityStateRepository{},
		historyRepo: &testhelpers.MockPullHistoryRepository{},
		itemRepo:    &testhelpers.MockItemRepository{},
		publisher:   &testhelpers.MockEventPublisher{},
	}
}

func (m *serviceMocks) service(engine *DrawEngine) *gachaService {
	return NewGachaService(m.pityRepo, m.historyRepo, m.itemRepo, m.publisher, engine).(*gachaService)
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	m.pityRepo.AssertExpectations(t)
	m.historyRepo.AssertExpectations(t)
	m.itemRepo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestSinglePull_FirstTimePlayer(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := flatPool()

	mocks.itemRepo.On("GetAll", ctx, cfg.ConfigGroup).Return(testCatalog(), nil)
	mocks.pityRepo.On("Get", ctx, int64(111)).Return(nil, nil)
	mocks.pityRepo.On("Save", ctx, mock.MatchedBy(func(s *entities.PityState) bool {
		return s.DiscordID == 111 && s.PullCount == 1 && s.Pity5Star == 1 && s.Pity4Star == 1
	})).Return(nil)
	mocks.historyRepo.On("Record", ctx, mock.MatchedBy(func(r *entities.PullRecord) bool {
		return r.DiscordID == 111 && r.ItemID == "w3a" && r.PoolID == cfg.ID
	})).Return(nil)

	// 0.9 misses both thresholds; 0.0 picks the first 3-star.
	svc := mocks.service(NewDrawEngine(newSequenceSource(0.9, 0.0)))
	outcome, err := svc.SinglePull(ctx, 111, cfg)
	require.NoError(t, err)

	assert.Equal(t, "w3a", outcome.Item.ID)
	assert.Equal(t, int64(1), outcome.State.PullCount)
	mocks.assertExpectations(t)
}

func TestSinglePull_FiveStarPublishesEvent(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := flatPool()

	existing := entities.NewPityState(222)
	existing.Pity5Star = 10
	existing.PullCount = 10

	mocks.itemRepo.On("GetAll", ctx, cfg.ConfigGroup).Return(testCatalog(), nil)
	mocks.pityRepo.On("Get", ctx, int64(222)).Return(existing, nil)
	mocks.pityRepo.On("Save", ctx, mock.Anything).Return(nil)
	mocks.historyRepo.On("Record", ctx, mock.Anything).Return(nil)
	mocks.publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		fs, ok := e.(events.FiveStarDrawnEvent)
		return ok && fs.DiscordID == 222 && fs.ItemID == "c5b" && fs.PityUsed == 11
	})).Return(nil)

	svc := mocks.service(NewDrawEngine(newSequenceSource(0.001, 0.9, 0.34)))
	outcome, err := svc.SinglePull(ctx, 222, cfg)
	require.NoError(t, err)

	assert.Equal(t, entities.RarityFiveStar, outcome.Item.Rarity)
	assert.Equal(t, int64(11), outcome.State.PullCount)
	assert.Equal(t, 0, outcome.State.Pity5Star)
	mocks.assertExpectations(t)
}

func TestSinglePull_DisabledPool(t *testing.T) {
	mocks := newServiceMocks()
	cfg := flatPool()
	cfg.Enabled = false

	svc := mocks.service(nil)
	_, err := svc.SinglePull(context.Background(), 111, cfg)
	assert.ErrorIs(t, err, ErrPoolDisabled)
	mocks.assertExpectations(t)
}

func TestSinglePull_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := flatPool()

	mocks.itemRepo.On("GetAll", ctx, cfg.ConfigGroup).Return(map[string]*entities.Item{}, nil)
	mocks.pityRepo.On("Get", ctx, int64(111)).Return(nil, nil)

	svc := mocks.service(NewDrawEngine(newSequenceSource(0.5)))
	_, err := svc.SinglePull(ctx, 111, cfg)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	mocks.assertExpectations(t)
}

func TestSinglePull_SaveFailure(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := flatPool()

	mocks.itemRepo.On("GetAll", ctx, cfg.ConfigGroup).Return(testCatalog(), nil)
	mocks.pityRepo.On("Get", ctx, int64(111)).Return(nil, nil)
	mocks.pityRepo.On("Save", ctx, mock.Anything).Return(errors.New("connection lost"))

	svc := mocks.service(NewDrawEngine(newSequenceSource(0.9, 0.0)))
	_, err := svc.SinglePull(ctx, 111, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save pity state")
	mocks.historyRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestTenPulls_FullBatch(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := testPool()

	mocks.itemRepo.On("GetAll", ctx, cfg.ConfigGroup).Return(testCatalog(), nil)
	mocks.pityRepo.On("Get", ctx, int64(333)).Return(nil, nil)
	mocks.pityRepo.On("Save", ctx, mock.MatchedBy(func(s *entities.PityState) bool {
		return s.DiscordID == 333 && s.PullCount == 10
	})).Return(nil).Once()
	mocks.historyRepo.On("RecordBatch", ctx, mock.MatchedBy(func(rs []*entities.PullRecord) bool {
		return len(rs) == 10
	})).Return(nil).Once()
	mocks.publisher.On("Publish", mock.AnythingOfType("events.PullBatchCompleteEvent")).Return(nil).Once()
	mocks.publisher.On("Publish", mock.AnythingOfType("events.FiveStarDrawnEvent")).Return(nil).Maybe()

	svc := mocks.service(NewDrawEngine(NewRandSource(7)))
	items, err := svc.TenPulls(ctx, 333, cfg)
	require.NoError(t, err)
	require.Len(t, items, 10)

	// Presentation order: rarity descending, characters ahead of weapons
	// inside each tier.
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		assert.GreaterOrEqual(t, int(prev.Rarity), int(cur.Rarity))
		if prev.Rarity == cur.Rarity {
			assert.False(t, !prev.IsCharacter() && cur.IsCharacter())
		}
	}
	mocks.assertExpectations(t)
}

func TestTenPulls_PartialBatchOnExhaustedPool(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := flatPool()

	// An empty catalog makes every draw fail; the retry budget runs out
	// and the degraded empty batch is still persisted and reported.
	mocks.itemRepo.On("GetAll", ctx, cfg.ConfigGroup).Return(map[string]*entities.Item{}, nil)
	mocks.pityRepo.On("Get", ctx, int64(333)).Return(nil, nil)
	mocks.pityRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
	mocks.publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		batch, ok := e.(events.PullBatchCompleteEvent)
		return ok && batch.Requested == 10 && batch.Produced == 0
	})).Return(nil).Once()

	svc := mocks.service(NewDrawEngine(newSequenceSource(0.5)))
	items, err := svc.TenPulls(ctx, 333, cfg)
	require.NoError(t, err)
	assert.Empty(t, items)
	mocks.historyRepo.AssertNotCalled(t, "RecordBatch", mock.Anything, mock.Anything)
	mocks.assertExpectations(t)
}

func TestTenPulls_DisabledPool(t *testing.T) {
	mocks := newServiceMocks()
	cfg := flatPool()
	cfg.Enabled = false

	svc := mocks.service(nil)
	_, err := svc.TenPulls(context.Background(), 333, cfg)
	assert.ErrorIs(t, err, ErrPoolDisabled)
}

func TestPityStatus(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := testPool()

	existing := entities.NewPityState(444)
	existing.Pity5Star = 75
	mocks.pityRepo.On("Get", ctx, int64(444)).Return(existing, nil)

	svc := mocks.service(nil)
	state, rate, err := svc.PityStatus(ctx, 444, cfg)
	require.NoError(t, err)

	assert.Equal(t, 75, state.Pity5Star)
	// Next pull is draw 76, three steps into the soft pity ramp.
	assert.InDelta(t, 0.008+3*0.06, rate, 1e-12)
}

func TestPityStatus_FirstTimePlayer(t *testing.T) {
	ctx := context.Background()
	mocks := newServiceMocks()
	cfg := testPool()

	mocks.pityRepo.On("Get", ctx, int64(555)).Return(nil, nil)

	svc := mocks.service(nil)
	state, rate, err := svc.PityStatus(ctx, 555, cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, state.Pity5Star)
	assert.InDelta(t, cfg.Probabilities.Base5StarRate, rate, 1e-12)
}

func TestSortPullResults(t *testing.T) {
	catalog := testCatalog()
	items := []*entities.Item{
		catalog["w3a"], catalog["w4a"], catalog["c5a"],
		catalog["w3b"], catalog["c4a"], catalog["w5a"],
	}

	sortPullResults(items)

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	assert.Equal(t, []string{"c5a", "w5a", "c4a", "w4a", "w3a", "w3b"}, ids)
}

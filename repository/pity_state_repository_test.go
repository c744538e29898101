package repository

import (
	"context"
	"testing"

	"gachabot/domain/entities"
	"gachabot/events"
	"gachabot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPityStateRepository_Get(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPityStateRepository(testDB.DB)
	ctx := context.Background()

	t.Run("player never drew", func(t *testing.T) {
		state, err := repo.Get(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("player found", func(t *testing.T) {
		saved := entities.NewPityState(123456)
		saved.Pity5Star = 42
		saved.Pity4Star = 3
		saved.Guaranteed5Star = true
		saved.PullCount = 200
		require.NoError(t, repo.Save(ctx, saved))

		state, err := repo.Get(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, state)

		assert.Equal(t, int64(123456), state.DiscordID)
		assert.Equal(t, 42, state.Pity5Star)
		assert.Equal(t, 3, state.Pity4Star)
		assert.True(t, state.Guaranteed5Star)
		assert.False(t, state.Guaranteed4Star)
		assert.Equal(t, int64(200), state.PullCount)
		assert.False(t, state.UpdatedAt.IsZero())
	})
}

func TestPityStateRepository_Save(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPityStateRepository(testDB.DB)
	ctx := context.Background()

	t.Run("insert then update", func(t *testing.T) {
		state := entities.NewPityState(123456)
		state.Pity5Star = 1
		require.NoError(t, repo.Save(ctx, state))
		firstUpdate := state.UpdatedAt

		state.Pity5Star = 2
		state.Guaranteed4Star = true
		require.NoError(t, repo.Save(ctx, state))

		loaded, err := repo.Get(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, 2, loaded.Pity5Star)
		assert.True(t, loaded.Guaranteed4Star)
		assert.False(t, loaded.UpdatedAt.Before(firstUpdate))
	})
}

func TestPityStateRepository_TransactionRollback(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	uow := CreateTestUnitOfWork(testDB.DB, events.NewBus())
	require.NoError(t, uow.Begin(ctx))

	state := entities.NewPityState(123456)
	state.Pity5Star = 7
	require.NoError(t, uow.PityStateRepository().Save(ctx, state))
	require.NoError(t, uow.Rollback())

	loaded, err := NewPityStateRepository(testDB.DB).Get(ctx, 123456)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

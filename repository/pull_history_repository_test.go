package repository

import (
	"context"
	"testing"
	"time"

	"gachabot/domain/entities"
	"gachabot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPullRecord(discordID int64, itemID string, rarity entities.Rarity, at time.Time) *entities.PullRecord {
	return &entities.PullRecord{
		DiscordID: discordID,
		ItemID:    itemID,
		ItemName:  "Item " + itemID,
		Rarity:    rarity,
		PoolID:    "pool-limited",
		CreatedAt: at,
	}
}

func TestPullHistoryRepository_RecordAndGetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPullHistoryRepository(testDB.DB)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	older := testPullRecord(123456, "w3a", entities.RarityThreeStar, base.Add(-time.Hour))
	newer := testPullRecord(123456, "c5a", entities.RarityFiveStar, base)
	other := testPullRecord(999999, "c4a", entities.RarityFourStar, base)

	require.NoError(t, repo.Record(ctx, older))
	require.NoError(t, repo.Record(ctx, newer))
	require.NoError(t, repo.Record(ctx, other))
	assert.NotZero(t, older.ID)

	records, err := repo.GetByUser(ctx, 123456, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first, scoped to the player.
	assert.Equal(t, "c5a", records[0].ItemID)
	assert.Equal(t, "w3a", records[1].ItemID)
	assert.Equal(t, entities.RarityFiveStar, records[0].Rarity)

	limited, err := repo.GetByUser(ctx, 123456, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c5a", limited[0].ItemID)
}

func TestPullHistoryRepository_RecordBatch(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPullHistoryRepository(testDB.DB)
	ctx := context.Background()
	at := time.Now().UTC()

	batch := []*entities.PullRecord{
		testPullRecord(123456, "w3a", entities.RarityThreeStar, at),
		testPullRecord(123456, "w3b", entities.RarityThreeStar, at),
		testPullRecord(123456, "c4a", entities.RarityFourStar, at),
	}
	require.NoError(t, repo.RecordBatch(ctx, batch))

	records, err := repo.GetByUser(ctx, 123456, 10)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestPullHistoryRepository_GetStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPullHistoryRepository(testDB.DB)
	ctx := context.Background()
	at := time.Now().UTC()

	t.Run("no history", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, 999999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalPulls)
	})

	t.Run("mixed history", func(t *testing.T) {
		require.NoError(t, repo.RecordBatch(ctx, []*entities.PullRecord{
			testPullRecord(123456, "c5a", entities.RarityFiveStar, at),
			testPullRecord(123456, "c4a", entities.RarityFourStar, at),
			testPullRecord(123456, "c4b", entities.RarityFourStar, at),
			testPullRecord(123456, "w3a", entities.RarityThreeStar, at),
		}))

		stats, err := repo.GetStats(ctx, 123456)
		require.NoError(t, err)

		assert.Equal(t, int64(4), stats.TotalPulls)
		assert.Equal(t, int64(1), stats.FiveStarPulls)
		assert.Equal(t, int64(2), stats.FourStarPulls)
		assert.Equal(t, int64(1), stats.ThreeStarPulls)
	})
}

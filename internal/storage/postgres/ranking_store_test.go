package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

func TestRankingStore_InsertBulkAndGetByPlayer(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRankingStore(pool)
	ctx := context.Background()

	d1 := time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(1999, 1, 11, 0, 0, 0, 0, time.UTC)
	err := store.InsertBulk(ctx, []*domain.RankingEntry{
		{Date: d2, PlayerCode: "p1", Rank: 3},
		{Date: d1, PlayerCode: "p1", Rank: 5},
		{Date: d1, PlayerCode: "p2", Rank: 10},
	})
	require.NoError(t, err)

	result, err := store.GetByPlayer(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.True(t, result[0].Date.Equal(d1))
	assert.Equal(t, 5, result[0].Rank)
	assert.Equal(t, 3, result[1].Rank)
}

func TestRankingStore_DuplicateEntry(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRankingStore(pool)
	ctx := context.Background()

	d := time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertBulk(ctx, []*domain.RankingEntry{{Date: d, PlayerCode: "p1", Rank: 5}}))

	err := store.InsertBulk(ctx, []*domain.RankingEntry{{Date: d, PlayerCode: "p1", Rank: 7}})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

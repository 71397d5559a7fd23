package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atp-panel-lab/internal/domain"
)

func TestArchiveMatchStore_InsertBulkAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewArchiveMatchStore(pool)
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.ArchiveMatch{
		{
			Date: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), TournamentID: "a2",
			TournamentName: "Roland Garros", Surface: domain.SurfaceClay,
			Country: "FRA", RoundCode: "F", WinnerCode: "p1", LoserCode: "p2",
		},
		{
			Date: time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC), TournamentID: "a1",
			TournamentName: "Wimbledon", Surface: domain.SurfaceGrass,
			Country: "GBR", RoundCode: "SF", WinnerCode: "p3", LoserCode: "p1",
		},
	})
	require.NoError(t, err)

	result, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Ordered by date ASC
	assert.Equal(t, "a1", result[0].TournamentID)
	assert.Equal(t, domain.SurfaceGrass, result[0].Surface)
	assert.Equal(t, "SF", result[0].RoundCode)
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

func TestRankingStore_InsertBulkAndGetByPlayer(t *testing.T) {
	store := NewRankingStore()
	ctx := context.Background()

	d1 := time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(1999, 1, 11, 0, 0, 0, 0, time.UTC)
	entries := []*domain.RankingEntry{
		{Date: d2, PlayerCode: "p1", Rank: 3},
		{Date: d1, PlayerCode: "p1", Rank: 5},
		{Date: d1, PlayerCode: "p2", Rank: 10},
	}

	if err := store.InsertBulk(ctx, entries); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByPlayer(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByPlayer failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(result))
	}
	if !result[0].Date.Equal(d1) || result[0].Rank != 5 {
		t.Errorf("Entries not ordered by date: first = %+v", result[0])
	}
}

func TestRankingStore_DuplicateSnapshotEntry(t *testing.T) {
	store := NewRankingStore()
	ctx := context.Background()

	d := time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC)
	if err := store.InsertBulk(ctx, []*domain.RankingEntry{{Date: d, PlayerCode: "p1", Rank: 5}}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.RankingEntry{{Date: d, PlayerCode: "p1", Rank: 7}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRankingStore_RejectsInvalidRank(t *testing.T) {
	store := NewRankingStore()

	err := store.InsertBulk(context.Background(), []*domain.RankingEntry{
		{Date: time.Now(), PlayerCode: "p1", Rank: 0},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

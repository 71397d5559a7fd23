package memory

import (
	"context"
	"errors"
	"testing"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

func TestPlayerStore_InsertAndGet(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	player := &domain.Player{Code: "federer-r", Hand: "R", Backhand: "1", TurnedPro: 1998, HeightCm: 185, Country: "SUI"}
	if err := store.Insert(ctx, player); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByCode(ctx, "federer-r")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if got.TurnedPro != 1998 || got.Hand != "R" {
		t.Errorf("Player mismatch: got %+v", got)
	}
}

func TestPlayerStore_NotFound(t *testing.T) {
	store := NewPlayerStore()

	_, err := store.GetByCode(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPlayerStore_DuplicateKey(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.Player{Code: "p1"}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	err := store.Insert(ctx, &domain.Player{Code: "p1"})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestPlayerStore_GetAllOrdered(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	players := []*domain.Player{{Code: "c"}, {Code: "a"}, {Code: "b"}}
	if err := store.InsertBulk(ctx, players); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, _ := store.GetAll(ctx)
	for i, want := range []string{"a", "b", "c"} {
		if result[i].Code != want {
			t.Errorf("Position %d: got %s, want %s", i, result[i].Code, want)
		}
	}
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "staging.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTournamentStore_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewTournamentStore(db)
	ctx := context.Background()

	tournament := &domain.Tournament{
		ID:        "1999-339",
		Name:      "Doha",
		StartDate: time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC),
		Surface:   domain.SurfaceHard,
		Country:   "QAT",
		Category:  "ATP",
		PrizeUSD:  975000,
	}

	if err := store.Insert(ctx, tournament); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "1999-339")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Doha" || !got.StartDate.Equal(tournament.StartDate) || got.Surface != domain.SurfaceHard {
		t.Errorf("Tournament mismatch: got %+v", got)
	}

	err = store.Insert(ctx, tournament)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	_, err = store.GetByID(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRawMatchStore_StatsJSONRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := NewTournamentStore(db).Insert(ctx, &domain.Tournament{
		ID: "t1", Name: "Doha", StartDate: time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC), Surface: domain.SurfaceHard,
	})
	if err != nil {
		t.Fatalf("seed tournament: %v", err)
	}

	store := NewRawMatchStore(db)
	matches := []*domain.RawMatch{{
		TournamentID: "t1", RoundLabel: "F", MatchOrder: 1,
		WinnerCode: "p1", LoserCode: "p2", Score: "6-4 6-4",
		WinnerStats: domain.MatchStats{Aces: 12, FirstServesIn: 40, FirstServesTotal: 60},
		HasStats:    true,
	}}

	if err := store.InsertBulk(ctx, matches); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTournamentID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByTournamentID failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(result))
	}
	if result[0].WinnerStats.Aces != 12 || result[0].WinnerStats.FirstServesTotal != 60 {
		t.Errorf("Stat block mismatch: %+v", result[0].WinnerStats)
	}

	err = store.InsertBulk(ctx, matches)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRankingStore_DuplicateAndOrder(t *testing.T) {
	db := openTestDB(t)
	store := NewRankingStore(db)
	ctx := context.Background()

	d1 := time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(1999, 1, 11, 0, 0, 0, 0, time.UTC)
	err := store.InsertBulk(ctx, []*domain.RankingEntry{
		{Date: d2, PlayerCode: "p1", Rank: 3},
		{Date: d1, PlayerCode: "p1", Rank: 5},
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByPlayer(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByPlayer failed: %v", err)
	}
	if len(result) != 2 || result[0].Rank != 5 {
		t.Fatalf("Entries not ordered by date: %+v", result)
	}

	err = store.InsertBulk(ctx, []*domain.RankingEntry{{Date: d1, PlayerCode: "p1", Rank: 9}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestArchiveAndPlayerStores(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	archive := NewArchiveMatchStore(db)
	err := archive.InsertBulk(ctx, []*domain.ArchiveMatch{
		{Date: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), TournamentID: "a2", Surface: domain.SurfaceClay, RoundCode: "F", WinnerCode: "p1", LoserCode: "p2"},
		{Date: time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC), TournamentID: "a1", Surface: domain.SurfaceGrass, RoundCode: "SF", WinnerCode: "p3", LoserCode: "p1"},
	})
	if err != nil {
		t.Fatalf("InsertBulk archive failed: %v", err)
	}

	matches, err := archive.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll archive failed: %v", err)
	}
	if len(matches) != 2 || matches[0].TournamentID != "a1" {
		t.Errorf("Archive not ordered by date: %+v", matches)
	}

	players := NewPlayerStore(db)
	if err := players.Insert(ctx, &domain.Player{Code: "p1", Hand: "L", TurnedPro: 1985, Country: "USA"}); err != nil {
		t.Fatalf("Insert player failed: %v", err)
	}
	p, err := players.GetByCode(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if p.Hand != "L" || p.TurnedPro != 1985 {
		t.Errorf("Player mismatch: %+v", p)
	}
}

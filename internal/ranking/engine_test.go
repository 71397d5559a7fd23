package ranking

import (
	"math"
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/ordering"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func row(id, tid string, start time.Time, player string) *domain.MatchRow {
	return &domain.MatchRow{
		MatchID: id, TournamentID: tid, TournamentName: tid, TournamentStart: start,
		Round: domain.RoundR32, MatchOrder: 1,
		PlayerCode: player, OpponentCode: "opp", Result: domain.ResultWin,
	}
}

func snap(d time.Time, player string, rank int) *domain.RankingEntry {
	return &domain.RankingEntry{Date: d, PlayerCode: player, Rank: rank}
}

func TestCompute_RollBackwardNeverForward(t *testing.T) {
	entries := []*domain.RankingEntry{
		snap(date(2024, 1, 1), "p", 50),
		snap(date(2024, 2, 5), "p", 40), // after the reference date, must not apply
	}
	rows := []*domain.MatchRow{row("m1", "t1", date(2024, 2, 5), "p")}
	ordering.SortRows(rows)

	feats := NewEngine(DefaultConfig()).Compute(rows, entries, nil)
	f := feats[rows[0].Key()]

	// Reference date is Feb 4; the Feb 5 snapshot is in the future
	if f.Rank == nil || *f.Rank != 50 {
		t.Fatalf("rank = %v, want 50 (last value strictly before the start)", f.Rank)
	}
}

func TestCompute_NoSnapshotBeforeStart(t *testing.T) {
	entries := []*domain.RankingEntry{snap(date(2024, 3, 1), "p", 50)}
	rows := []*domain.MatchRow{row("m1", "t1", date(2024, 2, 1), "p")}
	ordering.SortRows(rows)

	feats := NewEngine(DefaultConfig()).Compute(rows, entries, nil)
	f := feats[rows[0].Key()]
	if f.Rank != nil || f.CareerBest != nil {
		t.Errorf("no prior snapshot: all rank features must be missing, got %+v", f)
	}
}

func TestCompute_TrendAndAdaptiveCategory(t *testing.T) {
	// Rank 100 five weeks ago, 90 now: trend4w = +10,
	// threshold = max(1, ceil(0.02 * 100)) = 2 -> improving.
	entries := []*domain.RankingEntry{
		snap(date(2024, 1, 1), "p", 100),
		snap(date(2024, 2, 1), "p", 90),
	}
	rows := []*domain.MatchRow{row("m1", "t1", date(2024, 2, 5), "p")}
	ordering.SortRows(rows)

	feats := NewEngine(DefaultConfig()).Compute(rows, entries, nil)
	f := feats[rows[0].Key()]

	if f.Rank4w == nil || *f.Rank4w != 100 {
		t.Fatalf("rank 4w back = %v, want 100", f.Rank4w)
	}
	if f.Trend4w == nil || *f.Trend4w != 10 {
		t.Fatalf("trend = %v, want +10", f.Trend4w)
	}
	if f.Category4w != domain.TrendImproving {
		t.Errorf("category = %q, want improving", f.Category4w)
	}
}

func TestCompute_SmallMoveAtHighRankIsStable(t *testing.T) {
	// Rank 500 -> 495: trend +5, threshold ceil(0.02*500) = 10 -> stable.
	entries := []*domain.RankingEntry{
		snap(date(2024, 1, 1), "p", 500),
		snap(date(2024, 2, 1), "p", 495),
	}
	rows := []*domain.MatchRow{row("m1", "t1", date(2024, 2, 5), "p")}
	ordering.SortRows(rows)

	f := NewEngine(DefaultConfig()).Compute(rows, entries, nil)[rows[0].Key()]
	if f.Category4w != domain.TrendStable {
		t.Errorf("category = %q, want stable (trend below adaptive threshold)", f.Category4w)
	}
}

func TestCompute_DecliningCategory(t *testing.T) {
	entries := []*domain.RankingEntry{
		snap(date(2024, 1, 1), "p", 50),
		snap(date(2024, 2, 1), "p", 80),
	}
	rows := []*domain.MatchRow{row("m1", "t1", date(2024, 2, 5), "p")}
	ordering.SortRows(rows)

	f := NewEngine(DefaultConfig()).Compute(rows, entries, nil)[rows[0].Key()]
	// trend = 50 - 80 = -30, threshold = ceil(0.02*80) = 2
	if f.Category4w != domain.TrendDeclining {
		t.Errorf("category = %q, want declining", f.Category4w)
	}
}

func TestCompute_CareerBestMonotone(t *testing.T) {
	entries := []*domain.RankingEntry{
		snap(date(2024, 1, 1), "p", 30),
		snap(date(2024, 3, 1), "p", 20),
		snap(date(2024, 5, 1), "p", 60),
	}
	rows := []*domain.MatchRow{
		row("m1", "t1", date(2024, 2, 1), "p"),
		row("m2", "t2", date(2024, 4, 1), "p"),
		row("m3", "t3", date(2024, 6, 1), "p"),
	}
	ordering.SortRows(rows)

	feats := NewEngine(DefaultConfig()).Compute(rows, entries, nil)

	prev := math.MaxInt
	for _, r := range rows {
		cb := feats[r.Key()].CareerBest
		if cb == nil {
			t.Fatalf("%s: career best missing", r.MatchID)
		}
		if *cb > prev {
			t.Fatalf("career best increased: %d after %d", *cb, prev)
		}
		prev = *cb
	}

	last := feats[domain.RowKey{MatchID: "m3", PlayerCode: "p"}]
	if *last.CareerBest != 20 {
		t.Errorf("career best = %d, want 20", *last.CareerBest)
	}
	// rank 60, best 20 -> log1p(40)
	want := math.Log1p(40)
	if last.PeakDistanceLog == nil || math.Abs(*last.PeakDistanceLog-want) > 1e-12 {
		t.Errorf("peak distance = %v, want %f", last.PeakDistanceLog, want)
	}
}

func TestCompute_ArchiveSeedsCareerBest(t *testing.T) {
	entries := []*domain.RankingEntry{
		snap(date(1995, 6, 1), "vet", 5), // inside [turned_pro, 1998]
		snap(date(1999, 1, 4), "vet", 40),
	}
	rows := []*domain.MatchRow{row("m1", "t1", date(1999, 2, 1), "vet")}
	ordering.SortRows(rows)

	players := map[string]*domain.Player{"vet": {Code: "vet", TurnedPro: 1990}}
	f := NewEngine(DefaultConfig()).Compute(rows, entries, players)[rows[0].Key()]

	if f.CareerBest == nil || *f.CareerBest != 5 {
		t.Fatalf("career best = %v, want 5 (archive seed)", f.CareerBest)
	}
	want := math.Log1p(35)
	if f.PeakDistanceLog == nil || math.Abs(*f.PeakDistanceLog-want) > 1e-12 {
		t.Errorf("peak distance = %v, want %f", f.PeakDistanceLog, want)
	}
}

func TestCompute_SeedIgnoredOutsideProWindow(t *testing.T) {
	entries := []*domain.RankingEntry{
		snap(date(1995, 6, 1), "kid", 5), // before the player turned pro
		snap(date(1999, 1, 4), "kid", 40),
	}
	rows := []*domain.MatchRow{row("m1", "t1", date(1999, 2, 1), "kid")}
	ordering.SortRows(rows)

	players := map[string]*domain.Player{"kid": {Code: "kid", TurnedPro: 1997}}
	f := NewEngine(DefaultConfig()).Compute(rows, entries, players)[rows[0].Key()]

	// 1995 predates turned-pro 1997 but 1995 >= turnedPro is false, so the
	// only valid seed is the first modern rank.
	if f.CareerBest == nil || *f.CareerBest != 40 {
		t.Errorf("career best = %v, want 40", f.CareerBest)
	}
}

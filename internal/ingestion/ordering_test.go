package ingestion

import (
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSortTournaments_CanonicalKeys(t *testing.T) {
	tournaments := []*domain.Tournament{
		{ID: "b", Name: "Sydney", StartDate: day(1999, 1, 11)},
		{ID: "c", Name: "Auckland", StartDate: day(1999, 1, 11)},
		{ID: "a", Name: "Doha", StartDate: day(1999, 1, 4)},
	}

	SortTournaments(tournaments)

	if tournaments[0].ID != "a" || tournaments[1].Name != "Auckland" || tournaments[2].Name != "Sydney" {
		t.Errorf("Wrong order: %v %v %v", tournaments[0].ID, tournaments[1].Name, tournaments[2].Name)
	}
}

func TestSortRawMatches_SlotOrder(t *testing.T) {
	matches := []*domain.RawMatch{
		{TournamentID: "t1", RoundLabel: "SF", MatchOrder: 2},
		{TournamentID: "t1", RoundLabel: "F", MatchOrder: 1},
		{TournamentID: "t1", RoundLabel: "SF", MatchOrder: 1},
	}

	SortRawMatches(matches)

	if matches[0].RoundLabel != "F" || matches[1].MatchOrder != 1 || matches[2].MatchOrder != 2 {
		t.Errorf("Wrong order: %+v", matches)
	}
	if err := ValidateRawMatchOrdering(matches); err != nil {
		t.Errorf("Sorted matches should validate: %v", err)
	}
}

func TestValidateRawMatchOrdering_RejectsDuplicateSlot(t *testing.T) {
	matches := []*domain.RawMatch{
		{TournamentID: "t1", RoundLabel: "F", MatchOrder: 1},
		{TournamentID: "t1", RoundLabel: "F", MatchOrder: 1},
	}

	if err := ValidateRawMatchOrdering(matches); err != ErrInvalidOrdering {
		t.Errorf("Expected ErrInvalidOrdering, got %v", err)
	}
}

func TestSortRankingEntries(t *testing.T) {
	entries := []*domain.RankingEntry{
		{Date: day(1999, 1, 11), PlayerCode: "p1", Rank: 1},
		{Date: day(1999, 1, 4), PlayerCode: "p2", Rank: 2},
		{Date: day(1999, 1, 4), PlayerCode: "p1", Rank: 3},
	}

	SortRankingEntries(entries)

	if entries[0].Rank != 3 || entries[1].Rank != 2 || entries[2].Rank != 1 {
		t.Errorf("Wrong order: %+v", entries)
	}
}

func TestSortArchiveMatches(t *testing.T) {
	matches := []*domain.ArchiveMatch{
		{Date: day(1991, 7, 1), TournamentID: "a2", WinnerCode: "p1", LoserCode: "p2"},
		{Date: day(1990, 6, 11), TournamentID: "a1", WinnerCode: "p3", LoserCode: "p4"},
	}

	SortArchiveMatches(matches)

	if matches[0].TournamentID != "a1" {
		t.Errorf("Wrong order: %+v", matches)
	}
}

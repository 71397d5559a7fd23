package ingestion

import (
	"errors"
	"sort"

	"atp-panel-lab/internal/domain"
)

// ErrInvalidOrdering is returned when records are not properly ordered.
var ErrInvalidOrdering = errors.New("records are not in deterministic order")

// SortTournaments orders tournaments by (start_date ASC, name ASC, id ASC),
// the first three keys of the canonical panel order.
func SortTournaments(tournaments []*domain.Tournament) {
	sort.Slice(tournaments, func(i, j int) bool {
		return compareTournaments(tournaments[i], tournaments[j]) < 0
	})
}

// SortRawMatches orders matches by (tournament_id ASC, round_label ASC,
// match_order ASC), matching the staging table's uniqueness key.
func SortRawMatches(matches []*domain.RawMatch) {
	sort.Slice(matches, func(i, j int) bool {
		return compareRawMatches(matches[i], matches[j]) < 0
	})
}

// SortArchiveMatches orders archive results by
// (date ASC, tournament_id ASC, winner_code ASC, loser_code ASC).
func SortArchiveMatches(matches []*domain.ArchiveMatch) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.TournamentID != b.TournamentID {
			return a.TournamentID < b.TournamentID
		}
		if a.WinnerCode != b.WinnerCode {
			return a.WinnerCode < b.WinnerCode
		}
		return a.LoserCode < b.LoserCode
	})
}

// SortRankingEntries orders snapshot entries by (date ASC, player_code ASC).
func SortRankingEntries(entries []*domain.RankingEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.PlayerCode < b.PlayerCode
	})
}

// SortPlayers orders players by code ASC.
func SortPlayers(players []*domain.Player) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].Code < players[j].Code
	})
}

// ValidateRawMatchOrdering checks that matches are strictly ordered by
// (tournament_id, round_label, match_order). Returns ErrInvalidOrdering
// if not; equal keys are also invalid since the slot must be unique.
func ValidateRawMatchOrdering(matches []*domain.RawMatch) error {
	for i := 1; i < len(matches); i++ {
		if compareRawMatches(matches[i-1], matches[i]) >= 0 {
			return ErrInvalidOrdering
		}
	}
	return nil
}

// compareTournaments returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
//
// Order: (start_date ASC, name ASC, id ASC)
func compareTournaments(a, b *domain.Tournament) int {
	if !a.StartDate.Equal(b.StartDate) {
		if a.StartDate.Before(b.StartDate) {
			return -1
		}
		return 1
	}
	if a.Name != b.Name {
		if a.Name < b.Name {
			return -1
		}
		return 1
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	return 0
}

// compareRawMatches returns comparison result for raw matches.
// Order: (tournament_id ASC, round_label ASC, match_order ASC)
func compareRawMatches(a, b *domain.RawMatch) int {
	if a.TournamentID != b.TournamentID {
		if a.TournamentID < b.TournamentID {
			return -1
		}
		return 1
	}
	if a.RoundLabel != b.RoundLabel {
		if a.RoundLabel < b.RoundLabel {
			return -1
		}
		return 1
	}
	if a.MatchOrder != b.MatchOrder {
		if a.MatchOrder < b.MatchOrder {
			return -1
		}
		return 1
	}
	return 0
}

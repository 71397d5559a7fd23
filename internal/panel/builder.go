// Package panel builds the player-centric match panel: every physical
// match explodes into two perspective rows joined to tournament metadata.
// After this stage no rows are added or removed; the enrichment engines
// only attach columns.
package panel

import (
	"fmt"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/idhash"
	"atp-panel-lab/internal/ordering"
)

// ByePlayerCode marks BYE entries in draws; matches against a BYE are
// placeholders, not played matches, and never enter the panel.
const ByePlayerCode = "Bye"

// BuildStats counts data-quality events observed while building.
type BuildStats struct {
	MatchesIn         int
	RowsBuilt         int
	MissingTournament int // raw matches dropped: tournament id resolved nothing
	ByeMatches        int // placeholder draw entries dropped
	DuplicateMatches  int // de-duplicated malformed placeholder ids
	UnknownSurfaces   int
	UnknownRounds     int
	UnknownEndings    int // non-empty annotation outside the configured token set
}

// Builder explodes raw matches into the two-row-per-match panel.
type Builder struct {
	tokens EndingTokens
}

// NewBuilder creates a Builder with the given ending-token set.
func NewBuilder(tokens EndingTokens) *Builder {
	return &Builder{tokens: tokens}
}

// Build joins raw matches to tournaments and emits the panel in canonical
// order. It fails only structurally: when every raw match misses its
// tournament, the join key is broken and the run must abort.
func (b *Builder) Build(raws []*domain.RawMatch, tournaments []*domain.Tournament) ([]*domain.MatchRow, *BuildStats, error) {
	stats := &BuildStats{MatchesIn: len(raws)}

	byID := make(map[string]*domain.Tournament, len(tournaments))
	for _, t := range tournaments {
		byID[t.ID] = t
	}

	seen := make(map[string]struct{}, len(raws))
	rows := make([]*domain.MatchRow, 0, 2*len(raws))

	for _, raw := range raws {
		if raw.WinnerCode == ByePlayerCode || raw.LoserCode == ByePlayerCode {
			stats.ByeMatches++
			continue
		}

		tour, ok := byID[raw.TournamentID]
		if !ok {
			stats.MissingTournament++
			continue
		}

		round := domain.ParseRoundStage(raw.RoundLabel)
		if !round.Known() {
			stats.UnknownRounds++
		}
		if !tour.Surface.Known() {
			stats.UnknownSurfaces++
		}

		matchID := idhash.ComputeMatchID(raw.TournamentID, string(round), raw.MatchOrder, raw.WinnerCode, raw.LoserCode)
		if _, dup := seen[matchID]; dup {
			stats.DuplicateMatches++
			continue
		}
		seen[matchID] = struct{}{}

		annotation := raw.Annotation
		if annotation == "" {
			_, annotation = b.tokens.ExtractAnnotation(raw.Score)
		}

		retirement, walkover, recognized := b.tokens.Detect(annotation)
		if !recognized {
			stats.UnknownEndings++
		}

		winner, loser := b.explode(matchID, raw, tour, round, retirement, walkover)
		rows = append(rows, winner, loser)
	}

	if len(raws) > 0 && stats.MissingTournament == len(raws) {
		return nil, stats, fmt.Errorf("panel build: no raw match resolved a tournament (%d rows)", len(raws))
	}

	ordering.SortRows(rows)
	stats.RowsBuilt = len(rows)
	return rows, stats, nil
}

// explode produces the winner- and loser-perspective rows of one match.
func (b *Builder) explode(
	matchID string,
	raw *domain.RawMatch,
	tour *domain.Tournament,
	round domain.RoundStage,
	retirement, walkover bool,
) (*domain.MatchRow, *domain.MatchRow) {
	base := domain.MatchRow{
		MatchID:         matchID,
		TournamentID:    tour.ID,
		TournamentName:  tour.Name,
		TournamentStart: tour.StartDate,
		Surface:         tour.Surface,
		Indoor:          tour.Indoor,
		Country:         tour.Country,
		Category:        tour.Category,
		PrizeUSD:        tour.PrizeUSD,
		Round:           round,
		MatchOrder:      raw.MatchOrder,
		Retirement:      retirement,
		Walkover:        walkover,
		HasStats:        raw.HasStats,
	}

	winner := base
	winner.PlayerCode = raw.WinnerCode
	winner.OpponentCode = raw.LoserCode
	winner.Result = domain.ResultWin
	winner.PlayerStats = raw.WinnerStats
	winner.OpponentStats = raw.LoserStats

	loser := base
	loser.PlayerCode = raw.LoserCode
	loser.OpponentCode = raw.WinnerCode
	loser.Result = domain.ResultLoss
	loser.PlayerStats = raw.LoserStats
	loser.OpponentStats = raw.WinnerStats

	return &winner, &loser
}

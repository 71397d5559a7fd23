// Package form computes lagged rolling win ratios and their derived
// momentum/trend/consistency features. Every value attached to a row is
// computed from the window *before* that row's own outcome, so no result
// sees itself.
package form

import (
	"math"
	"sort"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/ordering"
)

// Config holds the window parameters.
type Config struct {
	ShortWindow       int     // trailing outcomes in the short window
	LongWindow        int     // trailing outcomes in the long window
	GoodFormThreshold float64 // short-window ratio above which form is "good"
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		ShortWindow:       5,
		LongWindow:        10,
		GoodFormThreshold: 0.70,
	}
}

// Engine computes form features over the merged archive + modern stream.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// event is one appearance of one player on their personal timeline.
type event struct {
	key          ordering.EventKey
	sortName     string
	tournamentID string
	round        domain.RoundStage
	win          bool
	rowKey       domain.RowKey // zero for archive events
	modern       bool
}

// Compute walks each player's personal event sequence in canonical order.
// Archive results extend the window but emit no features.
func (e *Engine) Compute(rows []*domain.MatchRow, archive []*domain.ArchiveMatch) map[domain.RowKey]*domain.FormFeatures {
	streams := make(map[string][]event)

	for _, m := range archive {
		round := ordering.CollapseArchiveRound(m.RoundCode)
		key := ordering.KeyOfArchive(m)
		streams[m.WinnerCode] = append(streams[m.WinnerCode], event{
			key: key, sortName: m.TournamentName, tournamentID: m.TournamentID, round: round, win: true,
		})
		streams[m.LoserCode] = append(streams[m.LoserCode], event{
			key: key, sortName: m.TournamentName, tournamentID: m.TournamentID, round: round, win: false,
		})
	}

	for _, r := range rows {
		streams[r.PlayerCode] = append(streams[r.PlayerCode], event{
			key: ordering.KeyOfRow(r), sortName: r.TournamentName, tournamentID: r.TournamentID,
			round: r.Round, win: r.Win(), rowKey: r.Key(), modern: true,
		})
	}

	out := make(map[domain.RowKey]*domain.FormFeatures, len(rows))
	for player, events := range streams {
		sortEvents(events)
		e.walk(player, events, out)
	}

	// Momentum needs the opponent's short window at the same event, so it
	// fills in a second pass once every player's windows exist.
	for _, r := range rows {
		f := out[r.Key()]
		opp := out[domain.RowKey{MatchID: r.MatchID, PlayerCode: r.OpponentCode}]
		if f == nil || f.WinRatio5 == nil || opp == nil || opp.WinRatio5 == nil {
			continue
		}
		m := *f.WinRatio5 - *opp.WinRatio5
		f.Momentum = &m
	}

	return out
}

// walk folds one player's events, maintaining the trailing-outcome window
// and the previous-tournament final-win flag.
func (e *Engine) walk(player string, events []event, out map[domain.RowKey]*domain.FormFeatures) {
	var window []bool
	curTournament := ""
	curWonFinal := false
	prevWonFinal := false

	for _, ev := range events {
		if ev.tournamentID != curTournament {
			prevWonFinal = curWonFinal
			curWonFinal = false
			curTournament = ev.tournamentID
		}

		if ev.modern {
			f := &domain.FormFeatures{
				MatchID:           ev.rowKey.MatchID,
				PlayerCode:        player,
				WonPrevTournament: prevWonFinal,
			}
			if len(window) > 0 {
				w5 := tailMean(window, e.cfg.ShortWindow)
				w10 := tailMean(window, e.cfg.LongWindow)
				trend := w5 - w10
				consistency := math.Abs(trend)
				f.WinRatio5 = &w5
				f.WinRatio10 = &w10
				f.Trend = &trend
				f.Consistency = &consistency
				f.GoodForm = w5 > e.cfg.GoodFormThreshold
			}
			out[ev.rowKey] = f
		}

		if ev.round == domain.RoundF && ev.win {
			curWonFinal = true
		}

		window = append(window, ev.win)
		if len(window) > e.cfg.LongWindow {
			window = window[1:]
		}
	}
}

// tailMean averages the trailing n entries; partial windows average over
// whatever exists.
func tailMean(window []bool, n int) float64 {
	if n > len(window) {
		n = len(window)
	}
	wins := 0
	for _, w := range window[len(window)-n:] {
		if w {
			wins++
		}
	}
	return float64(wins) / float64(n)
}

// sortEvents orders one player's events by the same key precedence as
// the canonical panel comparator: date, tournament name, tournament id,
// round ordinal, match order.
func sortEvents(events []event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.key.Day != b.key.Day {
			return a.key.Day < b.key.Day
		}
		if a.sortName != b.sortName {
			return a.sortName < b.sortName
		}
		if a.tournamentID != b.tournamentID {
			return a.tournamentID < b.tournamentID
		}
		if a.key.RoundOrdinal != b.key.RoundOrdinal {
			return a.key.RoundOrdinal < b.key.RoundOrdinal
		}
		return a.key.MatchOrder < b.key.MatchOrder
	})
}

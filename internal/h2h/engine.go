package h2h

import (
	"sort"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/ordering"
)

// Config holds the shrinkage parameters.
type Config struct {
	Alpha        float64 // pseudo-count for the overall ledger
	SurfaceAlpha float64 // pseudo-count for the per-surface ledger
	Prior        float64 // neutral prior win probability
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		Alpha:        8,
		SurfaceAlpha: 6,
		Prior:        0.5,
	}
}

// Engine computes pre-match head-to-head features over the merged
// archive + modern stream.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// meeting is one encounter between a fixed unordered pair of players.
type meeting struct {
	key          ordering.EventKey
	sortName     string
	tournamentID string
	surface      domain.Surface
	winner       string
	loser        string
	matchID      string // empty for archive meetings
	walkover     bool
}

// tally accumulates one pair's history as the walk advances.
type tally struct {
	total    int
	wins     map[string]int
	surfaces map[domain.Surface]*struct {
		total int
		wins  map[string]int
	}
}

func newTally() *tally {
	return &tally{
		wins: make(map[string]int),
		surfaces: make(map[domain.Surface]*struct {
			total int
			wins  map[string]int
		}),
	}
}

// Compute walks each pair's meetings in canonical order; every emitted
// value reflects meetings strictly before the row's own match. Archive
// meetings extend the ledger but emit nothing. Walkovers emit features
// like any row but never enter the ledger.
func (e *Engine) Compute(rows []*domain.MatchRow, archive []*domain.ArchiveMatch) map[domain.RowKey]*domain.H2HFeatures {
	streams := make(map[string][]meeting)

	for _, m := range archive {
		streams[pairKey(m.WinnerCode, m.LoserCode)] = append(streams[pairKey(m.WinnerCode, m.LoserCode)], meeting{
			key: ordering.KeyOfArchive(m), sortName: m.TournamentName, tournamentID: m.TournamentID,
			surface: m.Surface, winner: m.WinnerCode, loser: m.LoserCode,
		})
	}

	seen := make(map[string]bool, len(rows)/2)
	for _, r := range rows {
		if seen[r.MatchID] {
			continue
		}
		seen[r.MatchID] = true
		winner, loser := r.PlayerCode, r.OpponentCode
		if !r.Win() {
			winner, loser = loser, winner
		}
		streams[pairKey(winner, loser)] = append(streams[pairKey(winner, loser)], meeting{
			key: ordering.KeyOfRow(r), sortName: r.TournamentName, tournamentID: r.TournamentID,
			surface: r.Surface, winner: winner, loser: loser, matchID: r.MatchID, walkover: r.Walkover,
		})
	}

	out := make(map[domain.RowKey]*domain.H2HFeatures, len(rows))
	for _, meetings := range streams {
		sortMeetings(meetings)
		e.walkPair(meetings, out)
	}
	return out
}

// walkPair folds one pair's meetings, emitting pre-meeting features for
// both perspectives before the meeting enters the tally.
func (e *Engine) walkPair(meetings []meeting, out map[domain.RowKey]*domain.H2HFeatures) {
	t := newTally()

	for _, m := range meetings {
		if m.matchID != "" {
			out[domain.RowKey{MatchID: m.matchID, PlayerCode: m.winner}] = e.features(m.matchID, m.winner, m.surface, t)
			out[domain.RowKey{MatchID: m.matchID, PlayerCode: m.loser}] = e.features(m.matchID, m.loser, m.surface, t)
		}

		if m.walkover {
			continue
		}
		t.total++
		t.wins[m.winner]++
		if m.surface.Known() {
			s := t.surfaces[m.surface]
			if s == nil {
				s = &struct {
					total int
					wins  map[string]int
				}{wins: make(map[string]int)}
				t.surfaces[m.surface] = s
			}
			s.total++
			s.wins[m.winner]++
		}
	}
}

// features emits one perspective's values from the current tally.
func (e *Engine) features(matchID, player string, surface domain.Surface, t *tally) *domain.H2HFeatures {
	f := &domain.H2HFeatures{
		MatchID:       matchID,
		PlayerCode:    player,
		Meetings:      t.total,
		Wins:          t.wins[player],
		SmoothedRatio: Shrink(t.wins[player], t.total, e.cfg.Alpha, e.cfg.Prior),
		Credibility:   Credibility(t.total, e.cfg.Alpha),
		HasH2H:        t.total > 0,
	}

	var sTotal, sWins int
	if surface.Known() {
		if s := t.surfaces[surface]; s != nil {
			sTotal, sWins = s.total, s.wins[player]
		}
	}
	f.SurfaceMeetings = sTotal
	f.SurfaceWins = sWins
	f.SurfaceSmoothedRatio = Shrink(sWins, sTotal, e.cfg.SurfaceAlpha, e.cfg.Prior)
	f.SurfaceCredibility = Credibility(sTotal, e.cfg.SurfaceAlpha)
	f.HasSurfaceH2H = sTotal > 0

	return f
}

// pairKey is the unordered pair identifier.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// sortMeetings orders one pair's meetings by the canonical comparator
// precedence: date, tournament name, tournament id, round ordinal,
// match order.
func sortMeetings(meetings []meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		a, b := meetings[i], meetings[j]
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

// Package travel derives rest, travel and workload proxies from each
// player's personal tournament timeline. Gap and change features are
// computed once per (player, tournament) stint and attached to every
// row of that stint; the within-tournament sets-played count is lagged
// per row.
package travel

import (
	"time"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/ordering"
)

// Config holds the gap thresholds in days between tournament starts.
type Config struct {
	BackToBackMaxDays int
	TwoWeekMinDays    int
	TwoWeekMaxDays    int
	LongRestMinDays   int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		BackToBackMaxDays: 9,
		TwoWeekMinDays:    10,
		TwoWeekMaxDays:    16,
		LongRestMinDays:   21,
	}
}

// Engine computes travel features over the canonically ordered panel.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// stint is one player's appearance at one tournament.
type stint struct {
	tournamentID string
	start        time.Time
	country      string
	surface      domain.Surface
	indoor       bool
	hasIndoor    bool // archive stints carry no venue information
	matchCount   int
	bestRound    *domain.RoundStage
	rows         []*domain.MatchRow
	fromArchive  bool
}

// Compute walks each player's tournament timeline. Rows must already be
// in canonical order. The archive contributes only the pre-1999
// fallback for a player's first modern tournament, gated on a turned-pro
// year before 1999 and a seeded date strictly before the current start.
func (e *Engine) Compute(rows []*domain.MatchRow, archive []*domain.ArchiveMatch, players map[string]*domain.Player) map[domain.RowKey]*domain.TravelFeatures {
	stints := modernStints(rows)
	lastArchive := lastArchiveStints(archive)

	out := make(map[domain.RowKey]*domain.TravelFeatures, len(rows))
	for player, timeline := range stints {
		for i, cur := range timeline {
			var prev *stint
			switch {
			case i > 0:
				prev = timeline[i-1]
			case eligibleForArchiveSeed(players[player], lastArchive[player], cur):
				prev = lastArchive[player]
			}
			e.emit(cur, prev, out)
		}
	}
	return out
}

// emit fills one stint's features and attaches them to each of its rows.
func (e *Engine) emit(cur, prev *stint, out map[domain.RowKey]*domain.TravelFeatures) {
	f := domain.TravelFeatures{}

	if prev != nil {
		days := int(cur.start.Sub(prev.start).Hours() / 24)
		weeks := float64(days) / 7
		f.DaysSincePrev = &days
		f.WeeksSincePrev = &weeks
		f.BackToBack = days <= e.cfg.BackToBackMaxDays
		f.TwoWeekGap = days >= e.cfg.TwoWeekMinDays && days <= e.cfg.TwoWeekMaxDays
		f.LongRest = days >= e.cfg.LongRestMinDays

		if prev.country != "" && cur.country != "" {
			changed := prev.country != cur.country
			f.CountryChange = &changed
		}
		if prev.surface.Known() && cur.surface.Known() {
			changed := prev.surface != cur.surface
			f.SurfaceChange = &changed
		}
		if prev.hasIndoor {
			changed := prev.indoor != cur.indoor
			f.IndoorChange = &changed
		}
		if pc, pok := ContinentOf(prev.country); pok {
			if cc, cok := ContinentOf(cur.country); cok {
				changed := pc != cc
				f.ContinentChange = &changed
			}
		}

		f.RedEye = f.BackToBack && f.ContinentChange != nil && *f.ContinentChange
		score := fatigue(&f)
		f.FatigueScore = &score

		matches := prev.matchCount
		f.PrevMatches = &matches
		f.PrevBestRound = prev.bestRound
		f.SeededFromArchive = prev.fromArchive
	}

	// Within-tournament workload is the one per-row feature: each row
	// sees the sets played in strictly earlier rounds of this stint.
	sets := 0
	for _, r := range cur.rows {
		rf := f
		rf.MatchID = r.MatchID
		rf.PlayerCode = r.PlayerCode
		rf.SetsPlayedTournament = sets
		out[r.Key()] = &rf
		sets += setsPlayed(r)
	}
}

// setsPlayed counts one match's sets from the raw stat blocks. A match
// without stats (walkovers included) contributes nothing.
func setsPlayed(r *domain.MatchRow) int {
	if !r.HasStats {
		return 0
	}
	return r.PlayerStats.SetsWon + r.OpponentStats.SetsWon
}

// fatigue weights the change flags: continent counts double, indoor
// half, missing flags contribute nothing.
func fatigue(f *domain.TravelFeatures) float64 {
	score := 0.0
	if f.ContinentChange != nil && *f.ContinentChange {
		score += 2
	}
	if f.CountryChange != nil && *f.CountryChange {
		score += 1
	}
	if f.SurfaceChange != nil && *f.SurfaceChange {
		score += 1
	}
	if f.IndoorChange != nil && *f.IndoorChange {
		score += 0.5
	}
	return score
}

// modernStints groups each player's canonical row subsequence into
// consecutive same-tournament runs.
func modernStints(rows []*domain.MatchRow) map[string][]*stint {
	stints := make(map[string][]*stint)
	for _, r := range rows {
		timeline := stints[r.PlayerCode]
		if n := len(timeline); n > 0 && timeline[n-1].tournamentID == r.TournamentID {
			cur := timeline[n-1]
			cur.rows = append(cur.rows, r)
			cur.matchCount++
			cur.bestRound = betterRound(cur.bestRound, r.Round)
			continue
		}
		s := &stint{
			tournamentID: r.TournamentID,
			start:        r.TournamentStart,
			country:      r.Country,
			surface:      r.Surface,
			indoor:       r.Indoor,
			hasIndoor:    true,
			matchCount:   1,
			bestRound:    betterRound(nil, r.Round),
			rows:         []*domain.MatchRow{r},
		}
		stints[r.PlayerCode] = append(timeline, s)
	}
	return stints
}

// lastArchiveStints returns each player's latest pre-1999 tournament.
func lastArchiveStints(archive []*domain.ArchiveMatch) map[string]*stint {
	perPlayer := make(map[string]map[string]*stint)

	add := func(player string, m *domain.ArchiveMatch) {
		byTournament := perPlayer[player]
		if byTournament == nil {
			byTournament = make(map[string]*stint)
			perPlayer[player] = byTournament
		}
		s := byTournament[m.TournamentID]
		if s == nil {
			s = &stint{
				tournamentID: m.TournamentID,
				start:        m.Date,
				country:      m.Country,
				surface:      m.Surface,
				fromArchive:  true,
			}
			byTournament[m.TournamentID] = s
		}
		if m.Date.Before(s.start) {
			s.start = m.Date
		}
		s.matchCount++
		s.bestRound = betterRound(s.bestRound, ordering.CollapseArchiveRound(m.RoundCode))
	}

	for _, m := range archive {
		add(m.WinnerCode, m)
		add(m.LoserCode, m)
	}

	last := make(map[string]*stint, len(perPlayer))
	for player, byTournament := range perPlayer {
		for _, s := range byTournament {
			if cur := last[player]; cur == nil || s.start.After(cur.start) {
				last[player] = s
			}
		}
	}
	return last
}

// eligibleForArchiveSeed gates the pre-1999 fallback: documented
// turned-pro year before 1999 and a seeded start strictly before the
// current one.
func eligibleForArchiveSeed(p *domain.Player, seed, cur *stint) bool {
	return p != nil && p.TurnedPro > 0 && p.TurnedPro < 1999 &&
		seed != nil && seed.start.Before(cur.start)
}

// betterRound keeps the higher known stage; unknown stages never win.
func betterRound(best *domain.RoundStage, round domain.RoundStage) *domain.RoundStage {
	if !round.Known() {
		return best
	}
	if best == nil || ordering.StageOrdinal(round) > ordering.StageOrdinal(*best) {
		r := round
		return &r
	}
	return best
}

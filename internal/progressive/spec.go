// Package progressive implements the generic cumulative-then-lag
// averager: per player, in canonical order, accumulate a rate's
// non-missing values and expose the running mean lagged by one row.
package progressive

import "atp-panel-lab/internal/domain"

// Role selects whose raw counts a family reads from the row.
type Role int

const (
	RolePlayer Role = iota
	RoleOpponent
)

// Spec defines one statistic family: a named numerator/denominator
// rate, the perspective it reads, and the prior-sample gate below
// which the average stays missing.
type Spec struct {
	Name       string
	Role       Role
	MinSamples int
	Rate       func(s domain.MatchStats) (num, den int)
}

// Extract returns the family's rate for one row. A missing stat block
// or a zero denominator makes this single match missing; it never
// poisons the cumulative state.
func (sp Spec) Extract(r *domain.MatchRow) (float64, bool) {
	if !r.HasStats {
		return 0, false
	}
	stats := r.PlayerStats
	if sp.Role == RoleOpponent {
		stats = r.OpponentStats
	}
	num, den := sp.Rate(stats)
	if den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// Registry returns the production stat families, all gated at
// minSamples prior observations.
func Registry(minSamples int) []Spec {
	type family struct {
		name string
		rate func(s domain.MatchStats) (int, int)
	}
	base := []family{
		{"first_serve_pct", func(s domain.MatchStats) (int, int) { return s.FirstServesIn, s.FirstServesTotal }},
		{"first_serve_win_pct", func(s domain.MatchStats) (int, int) { return s.FirstServePointsWon, s.FirstServePointsTotal }},
		{"second_serve_win_pct", func(s domain.MatchStats) (int, int) { return s.SecondServePointsWon, s.SecondServePointsTotal }},
		{"ace_rate", func(s domain.MatchStats) (int, int) { return s.Aces, s.FirstServePointsTotal + s.SecondServePointsTotal }},
		{"double_fault_rate", func(s domain.MatchStats) (int, int) { return s.DoubleFaults, s.FirstServePointsTotal + s.SecondServePointsTotal }},
		{"bp_saved_pct", func(s domain.MatchStats) (int, int) { return s.BreakPointsSaved, s.BreakPointsFaced }},
		{"bp_converted_pct", func(s domain.MatchStats) (int, int) { return s.BreakPointsConverted, s.BreakPointOpportunities }},
		{"return_pts_win_pct", func(s domain.MatchStats) (int, int) { return s.ReturnPointsWon, s.ReturnPointsTotal }},
		{"service_games_win_pct", func(s domain.MatchStats) (int, int) { return s.ServiceGamesWon, s.ServiceGamesTotal }},
		{"return_games_win_pct", func(s domain.MatchStats) (int, int) { return s.ReturnGamesWon, s.ReturnGamesTotal }},
		{"total_pts_win_pct", func(s domain.MatchStats) (int, int) { return s.TotalPointsWon, s.TotalPointsTotal }},
		{"tiebreak_win_pct", func(s domain.MatchStats) (int, int) { return s.TiebreaksWon, s.TiebreaksTotal }},
	}

	specs := make([]Spec, 0, len(base)+3)
	for _, f := range base {
		specs = append(specs, Spec{Name: f.name + "_avg", Role: RolePlayer, MinSamples: minSamples, Rate: f.rate})
	}
	// Opponent mirrors for the families the log-ratio and matchup
	// columns need.
	for _, name := range []string{"return_pts_win_pct", "service_games_win_pct", "total_pts_win_pct"} {
		for _, f := range base {
			if f.name == name {
				specs = append(specs, Spec{Name: "opp_" + f.name + "_avg", Role: RoleOpponent, MinSamples: minSamples, Rate: f.rate})
			}
		}
	}
	return specs
}

// Package qa validates the finished feature panel. The verifier only
// diagnoses; it never repairs rows.
package qa

import (
	"fmt"
	"math"
	"sort"

	"atp-panel-lab/internal/domain"
)

// FloatTolerance is the tolerance for mirrored-value comparisons.
const FloatTolerance = 1e-9

// Issue is one invariant violation on one row.
type Issue struct {
	Check      string
	MatchID    string
	PlayerCode string
	Detail     string
}

// Report is the outcome of a verification pass.
type Report struct {
	RowsChecked int
	Issues      []Issue
	Pass        bool
}

// Verifier checks the panel invariants: exactly two rows per match,
// mirrored pair values, probability sums, career-best monotonicity,
// bounded ratios and was-NA flag coverage.
type Verifier struct {
	tolerance float64
	columns   []string // smoothed columns that must carry a was-NA flag
}

// NewVerifier creates a Verifier for the given smoothed column names.
func NewVerifier(columns []string) *Verifier {
	return &Verifier{tolerance: FloatTolerance, columns: columns}
}

// Verify runs every check over the panel and returns the diagnostic report.
func (v *Verifier) Verify(rows []*domain.FeatureRow) *Report {
	report := &Report{RowsChecked: len(rows)}

	byMatch := make(map[string][]*domain.FeatureRow)
	for _, r := range rows {
		byMatch[r.MatchID] = append(byMatch[r.MatchID], r)
	}

	v.checkPairs(byMatch, report)
	v.checkCareerBest(rows, report)
	v.checkBoundsAndFlags(rows, report)

	report.Pass = len(report.Issues) == 0
	return report
}

func (v *Verifier) checkPairs(byMatch map[string][]*domain.FeatureRow, report *Report) {
	ids := make([]string, 0, len(byMatch))
	for id := range byMatch {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		pair := byMatch[id]
		if len(pair) != 2 {
			report.add("two_rows_per_match", id, "", fmt.Sprintf("match has %d rows", len(pair)))
			continue
		}
		a, b := pair[0], pair[1]

		if a.OpponentCode != b.PlayerCode || b.OpponentCode != a.PlayerCode {
			report.add("pair_symmetry", id, a.PlayerCode, "player/opponent codes do not mirror")
			continue
		}

		v.checkMirror(report, id, a, "elo", a.Elo.Elo, b.Elo.OpponentElo)
		v.checkMirror(report, id, b, "elo", b.Elo.Elo, a.Elo.OpponentElo)
		v.checkMirror(report, id, a, "surface_elo", a.Elo.SurfaceElo, b.Elo.OpponentSurfaceElo)
		v.checkMirror(report, id, b, "surface_elo", b.Elo.SurfaceElo, a.Elo.OpponentSurfaceElo)
		v.checkMirror(report, id, a, "elo_diff", a.Elo.EloDiff, -b.Elo.EloDiff)

		if math.Abs(a.Elo.WinProb+b.Elo.WinProb-1) > v.tolerance {
			report.add("prob_sum", id, a.PlayerCode,
				fmt.Sprintf("win probabilities sum to %.12f", a.Elo.WinProb+b.Elo.WinProb))
		}
		if math.Abs(a.Elo.SurfaceWinProb+b.Elo.SurfaceWinProb-1) > v.tolerance {
			report.add("prob_sum", id, a.PlayerCode,
				fmt.Sprintf("surface win probabilities sum to %.12f", a.Elo.SurfaceWinProb+b.Elo.SurfaceWinProb))
		}

		if (a.Result == domain.ResultWin) == (b.Result == domain.ResultWin) {
			report.add("pair_symmetry", id, a.PlayerCode, "both rows carry the same result")
		}
	}
}

func (v *Verifier) checkMirror(report *Report, matchID string, r *domain.FeatureRow, field string, got, want float64) {
	if math.Abs(got-want) > v.tolerance {
		report.add("pair_symmetry", matchID, r.PlayerCode,
			fmt.Sprintf("%s %.9f does not mirror opponent value %.9f", field, got, want))
	}
}

// checkCareerBest walks each player's rows in panel order and requires
// the career-best rank to never worsen.
func (v *Verifier) checkCareerBest(rows []*domain.FeatureRow, report *Report) {
	byPlayer := make(map[string][]*domain.FeatureRow)
	for _, r := range rows {
		byPlayer[r.PlayerCode] = append(byPlayer[r.PlayerCode], r)
	}

	players := make([]string, 0, len(byPlayer))
	for p := range byPlayer {
		players = append(players, p)
	}
	sort.Strings(players)

	for _, p := range players {
		seq := byPlayer[p]
		sort.SliceStable(seq, func(i, j int) bool {
			if seq[i].TournamentStart != seq[j].TournamentStart {
				return seq[i].TournamentStart < seq[j].TournamentStart
			}
			if seq[i].TournamentName != seq[j].TournamentName {
				return seq[i].TournamentName < seq[j].TournamentName
			}
			return seq[i].MatchID < seq[j].MatchID
		})

		best := math.MaxInt
		for _, r := range seq {
			cb := r.Ranking.CareerBest
			if cb == nil {
				continue
			}
			if *cb > best {
				report.add("career_best_monotone", r.MatchID, p,
					fmt.Sprintf("career best worsened from %d to %d", best, *cb))
			}
			best = *cb
		}
	}
}

func (v *Verifier) checkBoundsAndFlags(rows []*domain.FeatureRow, report *Report) {
	for _, r := range rows {
		v.checkUnit(report, r, "h2h_smoothed_ratio", r.H2H.SmoothedRatio)
		v.checkUnit(report, r, "h2h_credibility", r.H2H.Credibility)
		v.checkUnit(report, r, "h2h_surface_smoothed_ratio", r.H2H.SurfaceSmoothedRatio)
		v.checkUnit(report, r, "elo_win_prob", r.Elo.WinProb)
		v.checkUnit(report, r, "surface_elo_win_prob", r.Elo.SurfaceWinProb)

		for _, col := range v.columns {
			if _, flagged := r.WasNA[col]; !flagged {
				report.add("was_na_coverage", r.MatchID, r.PlayerCode,
					fmt.Sprintf("smoothed column %s has no was-NA flag", col))
			}
		}
	}
}

func (v *Verifier) checkUnit(report *Report, r *domain.FeatureRow, field string, value float64) {
	if value < 0 || value > 1 {
		report.add("unit_bounds", r.MatchID, r.PlayerCode,
			fmt.Sprintf("%s = %.9f outside [0,1]", field, value))
	}
}

func (r *Report) add(check, matchID, playerCode, detail string) {
	r.Issues = append(r.Issues, Issue{Check: check, MatchID: matchID, PlayerCode: playerCode, Detail: detail})
}

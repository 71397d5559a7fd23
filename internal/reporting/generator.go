package reporting

import (
	"sort"
	"time"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/qa"
)

// topPlayerCount caps the player summary table.
const topPlayerCount = 20

// Generator produces diagnostics reports from the enriched panel.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a complete report from the panel rows and the QA
// results of the run. sufficiency and verification may be nil when the
// corresponding gate was skipped.
func (g *Generator) Generate(
	rows []*domain.FeatureRow,
	archiveCount int,
	sufficiency *qa.SufficiencyResult,
	verification *qa.Report,
) *Report {
	return &Report{
		GeneratedAt:      g.now(),
		PanelSummary:     g.generatePanelSummary(rows, archiveCount),
		DataQuality:      g.generateDataQuality(sufficiency, verification),
		SurfaceBreakdown: g.generateSurfaceBreakdown(rows),
		PlayerSummaries:  g.generatePlayerSummaries(rows),
	}
}

func (g *Generator) generatePanelSummary(rows []*domain.FeatureRow, archiveCount int) PanelSummary {
	summary := PanelSummary{
		TotalRows:      len(rows),
		ArchiveMatches: archiveCount,
	}

	matches := make(map[string]struct{})
	players := make(map[string]struct{})
	tournaments := make(map[string]struct{})

	for _, r := range rows {
		players[r.PlayerCode] = struct{}{}
		tournaments[r.TournamentID] = struct{}{}

		if _, seen := matches[r.MatchID]; !seen {
			matches[r.MatchID] = struct{}{}
			if r.Retirement {
				summary.Retirements++
			}
			if r.Walkover {
				summary.Walkovers++
			}
		}

		start := time.Unix(r.TournamentStart, 0).UTC()
		if summary.DateRangeStart.IsZero() || start.Before(summary.DateRangeStart) {
			summary.DateRangeStart = start
		}
		if start.After(summary.DateRangeEnd) {
			summary.DateRangeEnd = start
		}
	}

	summary.TotalMatches = len(matches)
	summary.Players = len(players)
	summary.Tournaments = len(tournaments)
	return summary
}

func (g *Generator) generateDataQuality(sufficiency *qa.SufficiencyResult, verification *qa.Report) DataQualitySection {
	section := DataQualitySection{AllChecksPassed: true}

	if sufficiency != nil {
		for _, check := range sufficiency.Checks {
			section.SufficiencyChecks = append(section.SufficiencyChecks, SufficiencyCheckRow{
				Name:      check.Name,
				Threshold: check.Threshold,
				Actual:    check.Actual,
				Pass:      check.Pass,
			})
		}
		section.IntegrityErrors = append(section.IntegrityErrors, sufficiency.Errors...)
		if !sufficiency.AllPass {
			section.AllChecksPassed = false
		}
	}

	if verification != nil {
		counts := make(map[string]int)
		for _, issue := range verification.Issues {
			counts[issue.Check]++
		}
		checks := make([]string, 0, len(counts))
		for check := range counts {
			checks = append(checks, check)
		}
		sort.Strings(checks)
		for _, check := range checks {
			section.InvariantIssues = append(section.InvariantIssues, InvariantIssueRow{
				Check: check,
				Count: counts[check],
			})
		}
		if !verification.Pass {
			section.AllChecksPassed = false
		}
	}

	return section
}

func (g *Generator) generateSurfaceBreakdown(rows []*domain.FeatureRow) []SurfaceBreakdownRow {
	type acc struct {
		matches     map[string]struct{}
		rowCount    int
		eloSum      float64
		winProbSum  float64
	}
	bySurface := make(map[domain.Surface]*acc)

	for _, r := range rows {
		a := bySurface[r.Surface]
		if a == nil {
			a = &acc{matches: make(map[string]struct{})}
			bySurface[r.Surface] = a
		}
		a.matches[r.MatchID] = struct{}{}
		a.rowCount++
		a.eloSum += r.Elo.Elo
		a.winProbSum += r.Elo.WinProb
	}

	surfaces := make([]domain.Surface, 0, len(bySurface))
	for s := range bySurface {
		surfaces = append(surfaces, s)
	}
	sort.Slice(surfaces, func(i, j int) bool { return surfaces[i] < surfaces[j] })

	var result []SurfaceBreakdownRow
	for _, s := range surfaces {
		a := bySurface[s]
		result = append(result, SurfaceBreakdownRow{
			Surface:     s,
			Matches:     len(a.matches),
			MeanElo:     a.eloSum / float64(a.rowCount),
			MeanWinProb: a.winProbSum / float64(a.rowCount),
		})
	}
	return result
}

func (g *Generator) generatePlayerSummaries(rows []*domain.FeatureRow) []PlayerSummaryRow {
	type acc struct {
		matches   int
		wins      int
		lastStart int64
		lastMatch string
		finalElo  float64
		bestRank  int
	}
	byPlayer := make(map[string]*acc)

	for _, r := range rows {
		a := byPlayer[r.PlayerCode]
		if a == nil {
			a = &acc{}
			byPlayer[r.PlayerCode] = a
		}
		a.matches++
		if r.Result == domain.ResultWin {
			a.wins++
		}
		if cb := r.Ranking.CareerBest; cb != nil && (a.bestRank == 0 || *cb < a.bestRank) {
			a.bestRank = *cb
		}
		// Latest row in canonical order carries the final pre-match Elo.
		if r.TournamentStart > a.lastStart ||
			(r.TournamentStart == a.lastStart && r.MatchID > a.lastMatch) {
			a.lastStart = r.TournamentStart
			a.lastMatch = r.MatchID
			a.finalElo = r.Elo.Elo
		}
	}

	summaries := make([]PlayerSummaryRow, 0, len(byPlayer))
	for code, a := range byPlayer {
		summaries = append(summaries, PlayerSummaryRow{
			PlayerCode: code,
			Matches:    a.matches,
			Wins:       a.wins,
			WinRate:    float64(a.wins) / float64(a.matches),
			FinalElo:   a.finalElo,
			BestRank:   a.bestRank,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].FinalElo != summaries[j].FinalElo {
			return summaries[i].FinalElo > summaries[j].FinalElo
		}
		return summaries[i].PlayerCode < summaries[j].PlayerCode
	})

	if len(summaries) > topPlayerCount {
		summaries = summaries[:topPlayerCount]
	}
	return summaries
}

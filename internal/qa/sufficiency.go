package qa

import (
	"fmt"

	"atp-panel-lab/internal/domain"
)

// SufficiencyCheck represents one data sufficiency criterion.
type SufficiencyCheck struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// SufficiencyResult contains all checks.
type SufficiencyResult struct {
	Checks  []SufficiencyCheck
	AllPass bool
	Errors  []string // data integrity errors
}

// SufficiencyConfig holds the gate thresholds.
type SufficiencyConfig struct {
	MinPanelRows       int
	MinRankingCoverage float64 // share of rows carrying an as-of rank
}

// DefaultSufficiencyConfig returns the production thresholds.
func DefaultSufficiencyConfig() SufficiencyConfig {
	return SufficiencyConfig{
		MinPanelRows:       1000,
		MinRankingCoverage: 0.80,
	}
}

// SufficiencyChecker validates data sufficiency after an enrichment run.
type SufficiencyChecker struct {
	cfg SufficiencyConfig
}

// NewSufficiencyChecker creates a new sufficiency checker.
func NewSufficiencyChecker(cfg SufficiencyConfig) *SufficiencyChecker {
	return &SufficiencyChecker{cfg: cfg}
}

// Check runs the gates over the finished panel. archiveCount is the
// number of pre-1999 seed matches that were available to the engines.
func (c *SufficiencyChecker) Check(rows []*domain.FeatureRow, archiveCount int) *SufficiencyResult {
	result := &SufficiencyResult{
		Checks:  make([]SufficiencyCheck, 0, 4),
		AllPass: true,
		Errors:  []string{},
	}

	panelRows := SufficiencyCheck{
		Name:      "Panel rows",
		Threshold: fmt.Sprintf(">= %d", c.cfg.MinPanelRows),
		Actual:    fmt.Sprintf("%d", len(rows)),
		Pass:      len(rows) >= c.cfg.MinPanelRows,
	}
	result.Checks = append(result.Checks, panelRows)

	withRank := 0
	for _, r := range rows {
		if r.Ranking.Rank != nil {
			withRank++
		}
	}
	coverage := 0.0
	if len(rows) > 0 {
		coverage = float64(withRank) / float64(len(rows))
	}
	rankingCoverage := SufficiencyCheck{
		Name:      "Ranking coverage",
		Threshold: fmt.Sprintf(">= %.0f%%", c.cfg.MinRankingCoverage*100),
		Actual:    fmt.Sprintf("%.1f%% (%d/%d)", coverage*100, withRank, len(rows)),
		Pass:      coverage >= c.cfg.MinRankingCoverage,
	}
	result.Checks = append(result.Checks, rankingCoverage)

	// Informational only: engines run without a seed, features are just
	// cold-started. Never fails the gate.
	result.Checks = append(result.Checks, SufficiencyCheck{
		Name:      "Archive seed matches",
		Threshold: "> 0 (informational)",
		Actual:    fmt.Sprintf("%d", archiveCount),
		Pass:      true,
	})

	pairErrors := checkRowPairs(rows)
	result.Checks = append(result.Checks, SufficiencyCheck{
		Name:      "Row pair integrity errors",
		Threshold: "= 0",
		Actual:    fmt.Sprintf("%d", len(pairErrors)),
		Pass:      len(pairErrors) == 0,
	})
	result.Errors = append(result.Errors, pairErrors...)

	for _, check := range result.Checks {
		if !check.Pass {
			result.AllPass = false
		}
	}
	return result
}

// checkRowPairs requires every match id to appear exactly twice and
// every (match, player) key to be unique.
func checkRowPairs(rows []*domain.FeatureRow) []string {
	var errors []string

	perMatch := make(map[string]int)
	seen := make(map[domain.RowKey]bool)
	for _, r := range rows {
		perMatch[r.MatchID]++
		key := domain.RowKey{MatchID: r.MatchID, PlayerCode: r.PlayerCode}
		if seen[key] {
			errors = append(errors, fmt.Sprintf("duplicate row key: %s/%s", r.MatchID, r.PlayerCode))
		}
		seen[key] = true
	}
	for id, count := range perMatch {
		if count != 2 {
			errors = append(errors, fmt.Sprintf("match %s has %d rows, want 2", id, count))
		}
	}
	return errors
}

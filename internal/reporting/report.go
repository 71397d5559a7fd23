package reporting

import (
	"time"

	"atp-panel-lab/internal/domain"
)

// Report is the diagnostics report for one enrichment run.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Panel Summary
	PanelSummary PanelSummary

	// Data Quality (sufficiency gates + invariant verification)
	DataQuality DataQualitySection

	// Per-surface breakdown (sorted by surface name)
	SurfaceBreakdown []SurfaceBreakdownRow

	// Player summaries (sorted by final Elo DESC, capped)
	PlayerSummaries []PlayerSummaryRow
}

// PanelSummary describes the enriched panel.
type PanelSummary struct {
	TotalRows      int
	TotalMatches   int
	Players        int
	Tournaments    int
	DateRangeStart time.Time
	DateRangeEnd   time.Time
	Retirements    int
	Walkovers      int
	ArchiveMatches int // pre-1999 seed results available to the engines
}

// DataQualitySection contains sufficiency checks, aggregated invariant
// issues and integrity errors.
type DataQualitySection struct {
	SufficiencyChecks []SufficiencyCheckRow
	InvariantIssues   []InvariantIssueRow
	IntegrityErrors   []string
	AllChecksPassed   bool
}

// SufficiencyCheckRow represents one sufficiency criterion.
type SufficiencyCheckRow struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// InvariantIssueRow aggregates verifier findings per check.
type InvariantIssueRow struct {
	Check string
	Count int
}

// SurfaceBreakdownRow summarizes one surface.
type SurfaceBreakdownRow struct {
	Surface     domain.Surface
	Matches     int
	MeanElo     float64 // mean pre-match general Elo across rows
	MeanWinProb float64 // should hover at 0.5 by construction
}

// PlayerSummaryRow represents one row in the player summary table.
type PlayerSummaryRow struct {
	PlayerCode string
	Matches    int
	Wins       int
	WinRate    float64
	FinalElo   float64 // pre-match Elo at the player's last panel row
	BestRank   int     // career-best rank observed, 0 when never ranked
}

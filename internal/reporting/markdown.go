package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Enrichment Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Panel Summary
	sb.WriteString("## Panel Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Panel Rows | %d |\n", r.PanelSummary.TotalRows))
	sb.WriteString(fmt.Sprintf("| Matches | %d |\n", r.PanelSummary.TotalMatches))
	sb.WriteString(fmt.Sprintf("| Players | %d |\n", r.PanelSummary.Players))
	sb.WriteString(fmt.Sprintf("| Tournaments | %d |\n", r.PanelSummary.Tournaments))
	if !r.PanelSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n",
			r.PanelSummary.DateRangeStart.Format("2006-01-02"),
			r.PanelSummary.DateRangeEnd.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("| Retirements | %d |\n", r.PanelSummary.Retirements))
	sb.WriteString(fmt.Sprintf("| Walkovers | %d |\n", r.PanelSummary.Walkovers))
	sb.WriteString(fmt.Sprintf("| Archive Seed Matches | %d |\n", r.PanelSummary.ArchiveMatches))
	sb.WriteString("\n")

	// Data Quality
	sb.WriteString("## Data Quality\n\n")
	if len(r.DataQuality.SufficiencyChecks) > 0 {
		sb.WriteString("### Sufficiency Checks\n\n")
		sb.WriteString("| Check | Threshold | Actual | Status |\n")
		sb.WriteString("|-------|-----------|--------|--------|\n")
		for _, check := range r.DataQuality.SufficiencyChecks {
			status := "FAIL"
			if check.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				check.Name, check.Threshold, check.Actual, status))
		}
		sb.WriteString("\n")
	}

	if len(r.DataQuality.InvariantIssues) > 0 {
		sb.WriteString("### Invariant Issues\n\n")
		sb.WriteString("| Check | Count |\n")
		sb.WriteString("|-------|-------|\n")
		for _, issue := range r.DataQuality.InvariantIssues {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", issue.Check, issue.Count))
		}
		sb.WriteString("\n")
	}

	if len(r.DataQuality.IntegrityErrors) > 0 {
		sb.WriteString("### Integrity Errors\n\n")
		for _, err := range r.DataQuality.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
		sb.WriteString("\n")
	}

	if r.DataQuality.AllChecksPassed {
		sb.WriteString("**All checks passed.**\n\n")
	} else {
		sb.WriteString("**Some checks failed.** The panel needs review before modeling.\n\n")
	}

	// Surface Breakdown
	sb.WriteString("## Surface Breakdown\n\n")
	if len(r.SurfaceBreakdown) > 0 {
		sb.WriteString("| Surface | Matches | Mean Elo | Mean WinProb |\n")
		sb.WriteString("|---------|---------|----------|-------------|\n")
		for _, row := range r.SurfaceBreakdown {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.1f | %.4f |\n",
				row.Surface, row.Matches, row.MeanElo, row.MeanWinProb))
		}
	} else {
		sb.WriteString("No surface data available.\n")
	}
	sb.WriteString("\n")

	// Player Summaries
	sb.WriteString("## Top Players by Final Elo\n\n")
	if len(r.PlayerSummaries) > 0 {
		sb.WriteString("| Player | Matches | Wins | WinRate | Final Elo | Best Rank |\n")
		sb.WriteString("|--------|---------|------|---------|-----------|----------|\n")
		for _, p := range r.PlayerSummaries {
			best := "-"
			if p.BestRank > 0 {
				best = fmt.Sprintf("%d", p.BestRank)
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %.1f | %s |\n",
				p.PlayerCode, p.Matches, p.Wins, p.WinRate, p.FinalElo, best))
		}
	} else {
		sb.WriteString("No player summaries available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

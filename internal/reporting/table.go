package reporting

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderTables writes the report as console tables.
func RenderTables(w io.Writer, r *Report) {
	fmt.Fprintf(w, "\nEnrichment Run Report  |  Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	renderSummaryTable(w, r)
	renderQualityTable(w, r)
	renderSurfaceTable(w, r)
	renderPlayerTable(w, r)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func renderSummaryTable(w io.Writer, r *Report) {
	fmt.Fprintln(w, "Panel Summary")
	table := newTable(w)
	table.Header("ROWS", "MATCHES", "PLAYERS", "TOURNAMENTS", "FROM", "TO", "RET", "W/O", "ARCHIVE")

	from, to := "-", "-"
	if !r.PanelSummary.DateRangeStart.IsZero() {
		from = r.PanelSummary.DateRangeStart.Format("2006-01-02")
		to = r.PanelSummary.DateRangeEnd.Format("2006-01-02")
	}
	table.Append(
		strconv.Itoa(r.PanelSummary.TotalRows),
		strconv.Itoa(r.PanelSummary.TotalMatches),
		strconv.Itoa(r.PanelSummary.Players),
		strconv.Itoa(r.PanelSummary.Tournaments),
		from, to,
		strconv.Itoa(r.PanelSummary.Retirements),
		strconv.Itoa(r.PanelSummary.Walkovers),
		strconv.Itoa(r.PanelSummary.ArchiveMatches),
	)
	table.Render()
	fmt.Fprintln(w)
}

func renderQualityTable(w io.Writer, r *Report) {
	if len(r.DataQuality.SufficiencyChecks) == 0 && len(r.DataQuality.InvariantIssues) == 0 {
		return
	}

	fmt.Fprintln(w, "Data Quality")
	table := newTable(w)
	table.Header("CHECK", "THRESHOLD", "ACTUAL", "STATUS")
	for _, check := range r.DataQuality.SufficiencyChecks {
		status := "FAIL"
		if check.Pass {
			status = "PASS"
		}
		table.Append(check.Name, check.Threshold, check.Actual, status)
	}
	for _, issue := range r.DataQuality.InvariantIssues {
		table.Append(issue.Check, "= 0", strconv.Itoa(issue.Count), "FAIL")
	}
	table.Render()

	for _, err := range r.DataQuality.IntegrityErrors {
		fmt.Fprintf(w, "  ! %s\n", err)
	}
	fmt.Fprintln(w)
}

func renderSurfaceTable(w io.Writer, r *Report) {
	if len(r.SurfaceBreakdown) == 0 {
		return
	}

	fmt.Fprintln(w, "Surface Breakdown")
	table := newTable(w)
	table.Header("SURFACE", "MATCHES", "MEAN ELO", "MEAN WINPROB")
	for _, row := range r.SurfaceBreakdown {
		table.Append(
			string(row.Surface),
			strconv.Itoa(row.Matches),
			fmt.Sprintf("%.1f", row.MeanElo),
			fmt.Sprintf("%.4f", row.MeanWinProb),
		)
	}
	table.Render()
	fmt.Fprintln(w)
}

func renderPlayerTable(w io.Writer, r *Report) {
	if len(r.PlayerSummaries) == 0 {
		return
	}

	fmt.Fprintln(w, "Top Players by Final Elo")
	table := newTable(w)
	table.Header("PLAYER", "MATCHES", "WINS", "WINRATE", "FINAL ELO", "BEST RANK")
	for _, p := range r.PlayerSummaries {
		best := "-"
		if p.BestRank > 0 {
			best = strconv.Itoa(p.BestRank)
		}
		table.Append(
			p.PlayerCode,
			strconv.Itoa(p.Matches),
			strconv.Itoa(p.Wins),
			fmt.Sprintf("%.4f", p.WinRate),
			fmt.Sprintf("%.1f", p.FinalElo),
			best,
		)
	}
	table.Render()
	fmt.Fprintln(w)
}

package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the player summary table as a CSV string.
func RenderCSV(summaries []PlayerSummaryRow) string {
	var sb strings.Builder

	sb.WriteString("player_code,matches,wins,win_rate,final_elo,best_rank\n")

	for _, p := range summaries {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.6f,%.2f,%d\n",
			p.PlayerCode,
			p.Matches,
			p.Wins,
			p.WinRate,
			p.FinalElo,
			p.BestRank,
		))
	}

	return sb.String()
}

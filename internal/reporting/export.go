package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"atp-panel-lab/internal/domain"
)

// featureHeader lists the fixed export columns in order.
var featureHeader = []string{
	"match_id", "player_code", "opponent_code",
	"tournament_id", "tournament_name", "tournament_start",
	"surface", "round", "match_order", "result", "retirement", "walkover",
	"form_win_ratio_5", "form_win_ratio_10", "form_momentum", "form_trend",
	"form_consistency", "form_good_form", "form_won_prev_tournament",
	"elo", "opponent_elo", "elo_win_prob", "elo_diff",
	"surface_elo", "opponent_surface_elo", "surface_elo_win_prob", "surface_elo_diff",
	"elo_specialization", "elo_specialization_log_ratio", "elo_match_count", "elo_provisional",
	"h2h_meetings", "h2h_wins", "h2h_smoothed_ratio", "h2h_credibility", "h2h_has",
	"h2h_surface_meetings", "h2h_surface_wins", "h2h_surface_smoothed_ratio",
	"h2h_surface_credibility", "h2h_surface_has",
	"travel_days_since_prev", "travel_weeks_since_prev", "travel_back_to_back",
	"travel_two_week_gap", "travel_long_rest", "travel_country_change",
	"travel_surface_change", "travel_indoor_change", "travel_continent_change",
	"travel_red_eye", "travel_fatigue_score", "travel_prev_matches",
	"travel_prev_best_round", "travel_seeded_from_archive",
	"travel_sets_played_tournament",
	"rank", "rank_4w", "rank_12w", "rank_trend_4w", "rank_trend_12w",
	"rank_category_4w", "rank_category_12w", "rank_career_best", "rank_peak_distance_log",
}

// WriteFeatureCSV writes the enriched panel as CSV. Stat average and
// was-na columns are appended after the fixed columns, named from the
// sorted union of keys across all rows; nil values render empty.
func WriteFeatureCSV(w io.Writer, rows []*domain.FeatureRow) error {
	statCols, naCols := dynamicColumns(rows)

	header := make([]string, 0, len(featureHeader)+len(statCols)+len(naCols))
	header = append(header, featureHeader...)
	for _, col := range statCols {
		header = append(header, "stat_"+col)
	}
	for _, col := range naCols {
		header = append(header, col+"_was_na")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, 0, len(header))
	for _, r := range rows {
		record = record[:0]
		record = append(record, fixedFields(r)...)
		for _, col := range statCols {
			record = append(record, f64Ptr(r.Stats.Values[col]))
		}
		for _, col := range naCols {
			record = append(record, strconv.FormatBool(r.WasNA[col]))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s/%s: %w", r.MatchID, r.PlayerCode, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func dynamicColumns(rows []*domain.FeatureRow) (statCols, naCols []string) {
	statSet := make(map[string]struct{})
	naSet := make(map[string]struct{})
	for _, r := range rows {
		for k := range r.Stats.Values {
			statSet[k] = struct{}{}
		}
		for k := range r.WasNA {
			naSet[k] = struct{}{}
		}
	}
	for k := range statSet {
		statCols = append(statCols, k)
	}
	for k := range naSet {
		naCols = append(naCols, k)
	}
	sort.Strings(statCols)
	sort.Strings(naCols)
	return statCols, naCols
}

func fixedFields(r *domain.FeatureRow) []string {
	return []string{
		r.MatchID, r.PlayerCode, r.OpponentCode,
		r.TournamentID, r.TournamentName,
		time.Unix(r.TournamentStart, 0).UTC().Format("2006-01-02"),
		string(r.Surface), string(r.Round), strconv.Itoa(r.MatchOrder),
		string(r.Result), strconv.FormatBool(r.Retirement), strconv.FormatBool(r.Walkover),

		f64Ptr(r.Form.WinRatio5), f64Ptr(r.Form.WinRatio10), f64Ptr(r.Form.Momentum),
		f64Ptr(r.Form.Trend), f64Ptr(r.Form.Consistency),
		strconv.FormatBool(r.Form.GoodForm), strconv.FormatBool(r.Form.WonPrevTournament),

		f64(r.Elo.Elo), f64(r.Elo.OpponentElo), f64(r.Elo.WinProb), f64(r.Elo.EloDiff),
		f64(r.Elo.SurfaceElo), f64(r.Elo.OpponentSurfaceElo),
		f64(r.Elo.SurfaceWinProb), f64(r.Elo.SurfaceEloDiff),
		f64(r.Elo.Specialization), f64(r.Elo.SpecializationLogRatio),
		strconv.Itoa(r.Elo.MatchCount), strconv.FormatBool(r.Elo.Provisional),

		strconv.Itoa(r.H2H.Meetings), strconv.Itoa(r.H2H.Wins),
		f64(r.H2H.SmoothedRatio), f64(r.H2H.Credibility), strconv.FormatBool(r.H2H.HasH2H),
		strconv.Itoa(r.H2H.SurfaceMeetings), strconv.Itoa(r.H2H.SurfaceWins),
		f64(r.H2H.SurfaceSmoothedRatio), f64(r.H2H.SurfaceCredibility),
		strconv.FormatBool(r.H2H.HasSurfaceH2H),

		intPtr(r.Travel.DaysSincePrev), f64Ptr(r.Travel.WeeksSincePrev),
		strconv.FormatBool(r.Travel.BackToBack), strconv.FormatBool(r.Travel.TwoWeekGap),
		strconv.FormatBool(r.Travel.LongRest),
		boolPtr(r.Travel.CountryChange), boolPtr(r.Travel.SurfaceChange),
		boolPtr(r.Travel.IndoorChange), boolPtr(r.Travel.ContinentChange),
		strconv.FormatBool(r.Travel.RedEye), f64Ptr(r.Travel.FatigueScore),
		intPtr(r.Travel.PrevMatches), roundPtr(r.Travel.PrevBestRound),
		strconv.FormatBool(r.Travel.SeededFromArchive),
		strconv.Itoa(r.Travel.SetsPlayedTournament),

		intPtr(r.Ranking.Rank), intPtr(r.Ranking.Rank4w), intPtr(r.Ranking.Rank12w),
		intPtr(r.Ranking.Trend4w), intPtr(r.Ranking.Trend12w),
		string(r.Ranking.Category4w), string(r.Ranking.Category12w),
		intPtr(r.Ranking.CareerBest), f64Ptr(r.Ranking.PeakDistanceLog),
	}
}

func f64(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func f64Ptr(v *float64) string {
	if v == nil {
		return ""
	}
	return f64(*v)
}

func intPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func roundPtr(v *domain.RoundStage) string {
	if v == nil {
		return ""
	}
	return string(*v)
}

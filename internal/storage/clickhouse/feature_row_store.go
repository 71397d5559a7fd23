package clickhouse

import (
	"context"
	"fmt"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// FeatureRowStore implements storage.FeatureRowStore using ClickHouse.
// The enriched panel is an analytical table: wide, append-only, queried
// by player or by match.
type FeatureRowStore struct {
	conn *Conn
}

// NewFeatureRowStore creates a new FeatureRowStore.
func NewFeatureRowStore(conn *Conn) *FeatureRowStore {
	return &FeatureRowStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureRowStore = (*FeatureRowStore)(nil)

const featureRowColumns = `
	match_id, player_code, opponent_code,
	tournament_id, tournament_name, tournament_start,
	surface, round, match_order, result, retirement, walkover,
	form_win_ratio_5, form_win_ratio_10, form_momentum, form_trend, form_consistency,
	good_form, won_prev_tournament,
	elo, opponent_elo, elo_win_prob, elo_diff,
	surface_elo, opponent_surface_elo, surface_elo_win_prob, surface_elo_diff,
	elo_specialization, elo_specialization_log_ratio, elo_match_count, elo_provisional,
	h2h_meetings, h2h_wins, h2h_smoothed_ratio, h2h_credibility, has_h2h,
	h2h_surface_meetings, h2h_surface_wins, h2h_surface_smoothed_ratio, h2h_surface_credibility, has_surface_h2h,
	stat_values, was_na,
	travel_days_since_prev, travel_weeks_since_prev, back_to_back, two_week_gap, long_rest,
	country_change, surface_change, indoor_change, continent_change, red_eye,
	fatigue_score, prev_matches, prev_best_round, seeded_from_archive, sets_played_tournament,
	rank, rank_4w, rank_12w, trend_4w, trend_12w,
	category_4w, category_12w, career_best, peak_distance_log
`

// InsertBulk adds multiple rows. Fails entire batch on duplicate (match_id, player_code).
func (s *FeatureRowStore) InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[domain.RowKey]struct{}, len(rows))
	for _, r := range rows {
		k := domain.RowKey{MatchID: r.MatchID, PlayerCode: r.PlayerCode}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check against existing rows
	for _, r := range rows {
		exists, err := s.exists(ctx, r.MatchID, r.PlayerCode)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO feature_rows ("+featureRowColumns+")")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.MatchID, r.PlayerCode, r.OpponentCode,
			r.TournamentID, r.TournamentName, r.TournamentStart,
			string(r.Surface), string(r.Round), int32(r.MatchOrder), string(r.Result), r.Retirement, r.Walkover,
			r.Form.WinRatio5, r.Form.WinRatio10, r.Form.Momentum, r.Form.Trend, r.Form.Consistency,
			r.Form.GoodForm, r.Form.WonPrevTournament,
			r.Elo.Elo, r.Elo.OpponentElo, r.Elo.WinProb, r.Elo.EloDiff,
			r.Elo.SurfaceElo, r.Elo.OpponentSurfaceElo, r.Elo.SurfaceWinProb, r.Elo.SurfaceEloDiff,
			r.Elo.Specialization, r.Elo.SpecializationLogRatio, int32(r.Elo.MatchCount), r.Elo.Provisional,
			int32(r.H2H.Meetings), int32(r.H2H.Wins), r.H2H.SmoothedRatio, r.H2H.Credibility, r.H2H.HasH2H,
			int32(r.H2H.SurfaceMeetings), int32(r.H2H.SurfaceWins), r.H2H.SurfaceSmoothedRatio, r.H2H.SurfaceCredibility, r.H2H.HasSurfaceH2H,
			statValuesMap(r.Stats.Values), wasNAMap(r.WasNA),
			toNullableInt32(r.Travel.DaysSincePrev), r.Travel.WeeksSincePrev, r.Travel.BackToBack, r.Travel.TwoWeekGap, r.Travel.LongRest,
			r.Travel.CountryChange, r.Travel.SurfaceChange, r.Travel.IndoorChange, r.Travel.ContinentChange, r.Travel.RedEye,
			r.Travel.FatigueScore, toNullableInt32(r.Travel.PrevMatches), roundToNullableString(r.Travel.PrevBestRound), r.Travel.SeededFromArchive, int32(r.Travel.SetsPlayedTournament),
			toNullableInt32(r.Ranking.Rank), toNullableInt32(r.Ranking.Rank4w), toNullableInt32(r.Ranking.Rank12w),
			toNullableInt32(r.Ranking.Trend4w), toNullableInt32(r.Ranking.Trend12w),
			string(r.Ranking.Category4w), string(r.Ranking.Category12w),
			toNullableInt32(r.Ranking.CareerBest), r.Ranking.PeakDistanceLog,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByPlayer retrieves one player's rows, ordered by tournament start ASC.
func (s *FeatureRowStore) GetByPlayer(ctx context.Context, playerCode string) ([]*domain.FeatureRow, error) {
	query := "SELECT " + featureRowColumns + `
		FROM feature_rows
		WHERE player_code = ?
		ORDER BY tournament_start ASC, tournament_name ASC, match_id ASC
	`

	rows, err := s.conn.Query(ctx, query, playerCode)
	if err != nil {
		return nil, fmt.Errorf("query by player: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// GetByMatchID retrieves the (at most two) rows of one match.
func (s *FeatureRowStore) GetByMatchID(ctx context.Context, matchID string) ([]*domain.FeatureRow, error) {
	query := "SELECT " + featureRowColumns + `
		FROM feature_rows
		WHERE match_id = ?
		ORDER BY player_code ASC
	`

	rows, err := s.conn.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("query by match id: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// GetAll retrieves every row, ordered by (player_code, tournament start, match_id).
func (s *FeatureRowStore) GetAll(ctx context.Context) ([]*domain.FeatureRow, error) {
	query := "SELECT " + featureRowColumns + `
		FROM feature_rows
		ORDER BY player_code ASC, tournament_start ASC, match_id ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all feature rows: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// Count returns the number of stored rows.
func (s *FeatureRowStore) Count(ctx context.Context) (int, error) {
	var count uint64
	if err := s.conn.QueryRow(ctx, "SELECT count(*) FROM feature_rows").Scan(&count); err != nil {
		return 0, fmt.Errorf("count feature rows: %w", err)
	}
	return int(count), nil
}

// exists checks if a row with the given key exists.
func (s *FeatureRowStore) exists(ctx context.Context, matchID, playerCode string) (bool, error) {
	query := `SELECT count(*) FROM feature_rows WHERE match_id = ? AND player_code = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, matchID, playerCode).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// statValuesMap flattens the nullable stat map for a Map(String, Float64)
// column; nil entries are simply absent.
func statValuesMap(values map[string]*float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	for name, v := range values {
		if v != nil {
			out[name] = *v
		}
	}
	return out
}

func wasNAMap(wasNA map[string]bool) map[string]bool {
	if wasNA == nil {
		return map[string]bool{}
	}
	return wasNA
}

// toNullableInt32 converts *int to *int32 for ClickHouse Nullable(Int32).
func toNullableInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func roundToNullableString(r *domain.RoundStage) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanFeatureRows scans multiple rows into a slice.
func scanFeatureRows(rows chRows) ([]*domain.FeatureRow, error) {
	var result []*domain.FeatureRow

	for rows.Next() {
		var (
			r domain.FeatureRow

			surface, round, matchResult      string
			matchOrder                       int32
			eloMatchCount                    int32
			h2hMeetings, h2hWins             int32
			h2hSurfMeetings, h2hSurfWins     int32
			statValues                       map[string]float64
			wasNA                            map[string]bool
			daysSincePrev, prevMatches       *int32
			prevBestRound                    *string
			setsPlayedTournament             int32
			rank, rank4w, rank12w            *int32
			trend4w, trend12w, careerBest    *int32
			category4w, category12w          string
		)

		err := rows.Scan(
			&r.MatchID, &r.PlayerCode, &r.OpponentCode,
			&r.TournamentID, &r.TournamentName, &r.TournamentStart,
			&surface, &round, &matchOrder, &matchResult, &r.Retirement, &r.Walkover,
			&r.Form.WinRatio5, &r.Form.WinRatio10, &r.Form.Momentum, &r.Form.Trend, &r.Form.Consistency,
			&r.Form.GoodForm, &r.Form.WonPrevTournament,
			&r.Elo.Elo, &r.Elo.OpponentElo, &r.Elo.WinProb, &r.Elo.EloDiff,
			&r.Elo.SurfaceElo, &r.Elo.OpponentSurfaceElo, &r.Elo.SurfaceWinProb, &r.Elo.SurfaceEloDiff,
			&r.Elo.Specialization, &r.Elo.SpecializationLogRatio, &eloMatchCount, &r.Elo.Provisional,
			&h2hMeetings, &h2hWins, &r.H2H.SmoothedRatio, &r.H2H.Credibility, &r.H2H.HasH2H,
			&h2hSurfMeetings, &h2hSurfWins, &r.H2H.SurfaceSmoothedRatio, &r.H2H.SurfaceCredibility, &r.H2H.HasSurfaceH2H,
			&statValues, &wasNA,
			&daysSincePrev, &r.Travel.WeeksSincePrev, &r.Travel.BackToBack, &r.Travel.TwoWeekGap, &r.Travel.LongRest,
			&r.Travel.CountryChange, &r.Travel.SurfaceChange, &r.Travel.IndoorChange, &r.Travel.ContinentChange, &r.Travel.RedEye,
			&r.Travel.FatigueScore, &prevMatches, &prevBestRound, &r.Travel.SeededFromArchive, &setsPlayedTournament,
			&rank, &rank4w, &rank12w, &trend4w, &trend12w,
			&category4w, &category12w, &careerBest, &r.Ranking.PeakDistanceLog,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}

		r.Surface = domain.Surface(surface)
		r.Round = domain.RoundStage(round)
		r.MatchOrder = int(matchOrder)
		r.Result = domain.MatchResult(matchResult)
		r.Elo.MatchCount = int(eloMatchCount)
		r.H2H.Meetings = int(h2hMeetings)
		r.H2H.Wins = int(h2hWins)
		r.H2H.SurfaceMeetings = int(h2hSurfMeetings)
		r.H2H.SurfaceWins = int(h2hSurfWins)
		r.Ranking.Category4w = domain.TrendCategory(category4w)
		r.Ranking.Category12w = domain.TrendCategory(category12w)

		r.Stats.Values = make(map[string]*float64, len(statValues))
		for name, v := range statValues {
			value := v
			r.Stats.Values[name] = &value
		}
		r.WasNA = wasNA

		r.Travel.DaysSincePrev = fromNullableInt32(daysSincePrev)
		r.Travel.PrevMatches = fromNullableInt32(prevMatches)
		r.Travel.SetsPlayedTournament = int(setsPlayedTournament)
		if prevBestRound != nil {
			stage := domain.RoundStage(*prevBestRound)
			r.Travel.PrevBestRound = &stage
		}
		r.Ranking.Rank = fromNullableInt32(rank)
		r.Ranking.Rank4w = fromNullableInt32(rank4w)
		r.Ranking.Rank12w = fromNullableInt32(rank12w)
		r.Ranking.Trend4w = fromNullableInt32(trend4w)
		r.Ranking.Trend12w = fromNullableInt32(trend12w)
		r.Ranking.CareerBest = fromNullableInt32(careerBest)

		// Stage join keys are implicit in the row identity
		r.Form.MatchID, r.Form.PlayerCode = r.MatchID, r.PlayerCode
		r.Elo.MatchID, r.Elo.PlayerCode = r.MatchID, r.PlayerCode
		r.H2H.MatchID, r.H2H.PlayerCode = r.MatchID, r.PlayerCode
		r.Stats.MatchID, r.Stats.PlayerCode = r.MatchID, r.PlayerCode
		r.Travel.MatchID, r.Travel.PlayerCode = r.MatchID, r.PlayerCode
		r.Ranking.MatchID, r.Ranking.PlayerCode = r.MatchID, r.PlayerCode

		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}

	return result, nil
}

func fromNullableInt32(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

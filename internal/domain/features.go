package domain

// Per-stage feature points. Each enrichment engine emits one point per
// panel row, keyed by (MatchID, PlayerCode); every value reflects state
// strictly before the row's own match in canonical order. Nil pointers
// mean "not computable yet" (true first appearance, below sample gate),
// never zero.

// FormFeatures is the output of the rolling form engine.
type FormFeatures struct {
	MatchID    string
	PlayerCode string

	WinRatio5  *float64 // lagged mean over the trailing 5 outcomes
	WinRatio10 *float64 // lagged mean over the trailing 10 outcomes

	Momentum    *float64 // own 5-window minus opponent's 5-window
	Trend       *float64 // own 5-window minus own 10-window
	Consistency *float64 // |Trend|
	GoodForm    bool     // WinRatio5 > 0.70

	WonPrevTournament bool // won the final of the immediately preceding tournament
}

// EloFeatures is the output of the Elo rating engines.
// Ratings and probabilities are pre-match values; the two rows of one
// match carry mirrored player/opponent values.
type EloFeatures struct {
	MatchID    string
	PlayerCode string

	Elo         float64 // general pre-match rating
	OpponentElo float64
	WinProb     float64 // logistic expected score vs opponent
	EloDiff     float64 // Elo - OpponentElo

	SurfaceElo         float64 // surface-specific pre-match rating (1500 when surface unknown)
	OpponentSurfaceElo float64
	SurfaceWinProb     float64 // 0.5 when surface unknown
	SurfaceEloDiff     float64

	Specialization         float64 // SurfaceElo - Elo
	SpecializationLogRatio float64 // log(SurfaceElo / Elo)

	MatchCount  int  // prior completed matches (exposure for smoothing)
	Provisional bool // MatchCount below the provisional-K threshold
}

// H2HFeatures is the output of the head-to-head engine.
type H2HFeatures struct {
	MatchID    string
	PlayerCode string

	Meetings      int     // prior meetings vs this opponent (raw)
	Wins          int     // prior wins from this perspective (raw)
	SmoothedRatio float64 // Beta-Binomial shrunk win ratio
	Credibility   float64 // meetings / (meetings + alpha)
	HasH2H        bool    // raw meetings > 0

	SurfaceMeetings      int
	SurfaceWins          int
	SurfaceSmoothedRatio float64
	SurfaceCredibility   float64
	HasSurfaceH2H        bool
}

// StatAverages is the output of the progressive statistic averager.
// Values are keyed by stat family name in registry order; nil entries
// mean the family was below its minimum prior sample gate or had no
// non-missing history yet.
type StatAverages struct {
	MatchID    string
	PlayerCode string

	Values map[string]*float64
}

// TravelFeatures is the output of the rest/travel/load proxy engine.
// Change flags are nil when the player has no prior tournament at all.
type TravelFeatures struct {
	MatchID    string
	PlayerCode string

	DaysSincePrev  *int
	WeeksSincePrev *float64
	BackToBack     bool // gap <= 9 days
	TwoWeekGap     bool // gap in [10, 16] days
	LongRest       bool // gap >= 21 days

	CountryChange   *bool
	SurfaceChange   *bool
	IndoorChange    *bool
	ContinentChange *bool
	RedEye          bool     // BackToBack && ContinentChange
	FatigueScore    *float64 // 2*continent + 1*country + 1*surface + 0.5*indoor

	PrevMatches       *int        // matches played in the previous tournament
	PrevBestRound     *RoundStage // highest round reached there, modern ladder
	SeededFromArchive bool        // previous tournament came from the pre-1999 archive

	SetsPlayedTournament int // sets played in strictly earlier rounds of this tournament
}

// RankFeatures is the output of the ranking trajectory engine.
type RankFeatures struct {
	MatchID    string
	PlayerCode string

	Rank     *int // as of the day before the tournament start
	Rank4w   *int // as of 28 days before
	Rank12w  *int // as of 84 days before
	Trend4w  *int // Rank4w - Rank, positive = improvement
	Trend12w *int

	Category4w  TrendCategory // adaptive-threshold category, empty when trend missing
	Category12w TrendCategory

	CareerBest      *int     // running best-so-far rank (non-increasing per player)
	PeakDistanceLog *float64 // log1p(Rank - CareerBest)
}

// FeatureRow is the finalized enriched panel row: the join of every
// stage's output for one (match, player) pair, post-smoothing.
// WasNA records pre-smoothing missingness per smoothed column.
type FeatureRow struct {
	MatchID         string
	PlayerCode      string
	OpponentCode    string
	TournamentID    string
	TournamentName  string
	TournamentStart int64 // unix days are too coarse for export; unix seconds UTC
	Surface         Surface
	Round           RoundStage
	MatchOrder      int
	Result          MatchResult
	Retirement      bool
	Walkover        bool

	Form    FormFeatures
	Elo     EloFeatures
	H2H     H2HFeatures
	Stats   StatAverages
	Travel  TravelFeatures
	Ranking RankFeatures

	WasNA map[string]bool
}

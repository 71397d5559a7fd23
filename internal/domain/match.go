package domain

import "time"

// RawMatch is one physical match as delivered by the extraction layer:
// winner/loser perspective, not yet exploded into panel rows.
// Corresponds to the raw_matches staging table.
type RawMatch struct {
	TournamentID string     // FK to tournaments
	RoundLabel   string     // raw round token, normalized by the panel builder
	MatchOrder   int        // listing order within the round
	WinnerCode   string     // opaque player identifier
	LoserCode    string     // opaque player identifier
	Score        string     // raw score string, may carry an ending annotation
	Annotation   string     // ending annotation if pre-split ("(RET)", "W/O", ...)
	WinnerStats  MatchStats // raw per-match counts for the winner
	LoserStats   MatchStats // raw per-match counts for the loser
	HasStats     bool       // false when the source carried no stat block
}

// MatchStats holds the raw per-match statistic counts for one player.
// All values are counts; rates are derived downstream.
type MatchStats struct {
	Aces                    int
	DoubleFaults            int
	FirstServesIn           int
	FirstServesTotal        int
	FirstServePointsWon     int
	FirstServePointsTotal   int
	SecondServePointsWon    int
	SecondServePointsTotal  int
	BreakPointsSaved        int
	BreakPointsFaced        int
	BreakPointsConverted    int
	BreakPointOpportunities int
	ReturnPointsWon         int
	ReturnPointsTotal       int
	ServiceGamesWon         int
	ServiceGamesTotal       int
	ReturnGamesWon          int
	ReturnGamesTotal        int
	TotalPointsWon          int
	TotalPointsTotal        int
	SetsWon                 int
	GamesWon                int
	TiebreaksWon            int
	TiebreaksTotal          int
}

// MatchRow is the unit of the player-centric panel.
// Every physical match contributes exactly two rows, one per perspective;
// the opponent's row carries player/opponent swapped.
type MatchRow struct {
	MatchID         string      // shared by exactly two rows
	TournamentID    string      // FK to tournaments
	TournamentName  string      // denormalized for canonical ordering
	TournamentStart time.Time   // denormalized for canonical ordering
	Surface         Surface     // normalized surface
	Indoor          bool        // indoor venue flag
	Country         string      // tournament country (IOC code)
	Category        string      // series category
	PrizeUSD        float64     // tournament prize money
	Round           RoundStage  // normalized round stage
	MatchOrder      int         // tie-break within round
	PlayerCode      string      // this row's perspective
	OpponentCode    string      // the other perspective
	Result          MatchResult // outcome from this row's perspective
	Retirement      bool        // match ended by retirement
	Walkover        bool        // match decided by walkover
	PlayerStats     MatchStats  // raw counts for this row's player
	OpponentStats   MatchStats  // raw counts for the opponent
	HasStats        bool        // false when the source carried no stat block
}

// Win reports whether this row's player won the match.
func (r *MatchRow) Win() bool {
	return r.Result == ResultWin
}

// Key returns the panel join key for this row.
func (r *MatchRow) Key() RowKey {
	return RowKey{MatchID: r.MatchID, PlayerCode: r.PlayerCode}
}

// RowKey identifies one panel row: every enrichment stage joins its
// outputs back onto the panel by this key.
type RowKey struct {
	MatchID    string
	PlayerCode string
}

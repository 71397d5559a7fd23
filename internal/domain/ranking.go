package domain

import "time"

// RankingEntry is one (snapshot date, player, rank) observation.
// Snapshots arrive as one dated file per ranking release; the
// trajectory engine only ever rolls backward to the last known entry.
type RankingEntry struct {
	Date       time.Time // snapshot date, UTC
	PlayerCode string
	Rank       int // ATP rank, >= 1
}

// Package ordering defines the single canonical temporal order used by
// every leakage-sensitive engine. Divergent orderings between engines are
// a correctness bug class: no other package may sort the panel by its own
// key.
package ordering

import (
	"sort"
	"time"

	"atp-panel-lab/internal/domain"
)

// UnknownStageOrdinal sorts unrecognized round stages after every known
// stage. Rows carrying it stay in the panel but are flagged upstream as
// data-quality warnings.
const UnknownStageOrdinal = 99

// stageOrdinals fixes the round-stage ladder. The order follows the draw
// progression; the third-place match sorts after the final.
var stageOrdinals = map[domain.RoundStage]int{
	domain.RoundQ1:         0,
	domain.RoundQ2:         1,
	domain.RoundQ3:         2,
	domain.RoundBR:         3,
	domain.RoundRR:         4,
	domain.RoundR128:       5,
	domain.RoundR64:        6,
	domain.RoundR32:        7,
	domain.RoundR16:        8,
	domain.RoundQF:         9,
	domain.RoundSF:         10,
	domain.RoundF:          11,
	domain.RoundThirdPlace: 12,
}

// StageOrdinal maps a round stage onto the fixed ordinal ladder.
// Unknown stages return UnknownStageOrdinal.
func StageOrdinal(stage domain.RoundStage) int {
	if ord, ok := stageOrdinals[stage]; ok {
		return ord
	}
	return UnknownStageOrdinal
}

// CompareRows is the canonical comparator:
// (tournament start date, tournament name, tournament id, round ordinal,
// match order). Player code breaks the remaining tie between the two
// rows of one match so that sorting is total and deterministic.
//
// Returns negative if a < b, zero if equal, positive if a > b.
func CompareRows(a, b *domain.MatchRow) int {
	if c := compareTime(a.TournamentStart, b.TournamentStart); c != 0 {
		return c
	}
	if c := compareString(a.TournamentName, b.TournamentName); c != 0 {
		return c
	}
	if c := compareString(a.TournamentID, b.TournamentID); c != 0 {
		return c
	}
	if c := compareInt(StageOrdinal(a.Round), StageOrdinal(b.Round)); c != 0 {
		return c
	}
	if c := compareInt(a.MatchOrder, b.MatchOrder); c != 0 {
		return c
	}
	return compareString(a.PlayerCode, b.PlayerCode)
}

// SortRows orders the panel in place by the canonical comparator.
func SortRows(rows []*domain.MatchRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return CompareRows(rows[i], rows[j]) < 0
	})
}

// EventKey positions one event on the global timeline for strictly-before
// queries: date first, then round ordinal to disambiguate same-day
// multi-round meetings, then in-round match order.
type EventKey struct {
	Day          int64 // days since Unix epoch, UTC
	RoundOrdinal int
	MatchOrder   int
}

// KeyOfRow derives the event key of a panel row.
func KeyOfRow(r *domain.MatchRow) EventKey {
	return EventKey{
		Day:          unixDay(r.TournamentStart),
		RoundOrdinal: StageOrdinal(r.Round),
		MatchOrder:   r.MatchOrder,
	}
}

// KeyOfArchive derives the event key of an archive match. Archive rows
// carry no in-round listing order.
func KeyOfArchive(m *domain.ArchiveMatch) EventKey {
	return EventKey{
		Day:          unixDay(m.Date),
		RoundOrdinal: StageOrdinal(CollapseArchiveRound(m.RoundCode)),
	}
}

// Less reports whether k is strictly before other.
func (k EventKey) Less(other EventKey) bool {
	return k.Compare(other) < 0
}

// Compare returns negative, zero or positive as k orders against other.
func (k EventKey) Compare(other EventKey) int {
	if c := compareInt64(k.Day, other.Day); c != 0 {
		return c
	}
	if c := compareInt(k.RoundOrdinal, other.RoundOrdinal); c != 0 {
		return c
	}
	return compareInt(k.MatchOrder, other.MatchOrder)
}

func unixDay(t time.Time) int64 {
	return t.UTC().Unix() / 86400
}

func compareTime(a, b time.Time) int {
	if a.Before(b) {
		return -1
	}
	if a.After(b) {
		return 1
	}
	return 0
}

func compareString(a, b string) int {
	if a != b {
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	if a != b {
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	if a != b {
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

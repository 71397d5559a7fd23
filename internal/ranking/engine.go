// Package ranking attaches ranking-trajectory features from dated
// ranking snapshots. All joins roll backward to the last known value;
// a snapshot dated after the reference date never contributes.
package ranking

import (
	"math"
	"sort"
	"time"

	"atp-panel-lab/internal/domain"
)

// Config holds the trend windows and their adaptive-threshold
// coefficients.
type Config struct {
	ShortDays int
	LongDays  int
	ShortCoef float64
	LongCoef  float64
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		ShortDays: 28,
		LongDays:  84,
		ShortCoef: 0.02,
		LongCoef:  0.05,
	}
}

// Engine computes ranking features over the canonically ordered panel.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// book is one player's ranking history, sorted by snapshot date.
type book struct {
	dates []time.Time
	ranks []int
}

// asOf returns the last rank at or before the reference date.
func (b *book) asOf(ref time.Time) (int, bool) {
	if b == nil {
		return 0, false
	}
	i := sort.Search(len(b.dates), func(i int) bool { return b.dates[i].After(ref) })
	if i == 0 {
		return 0, false
	}
	return b.ranks[i-1], true
}

// Compute walks each player's canonical row subsequence, joining ranks
// as of the day before the tournament start and maintaining the
// career-best running minimum.
func (e *Engine) Compute(rows []*domain.MatchRow, entries []*domain.RankingEntry, players map[string]*domain.Player) map[domain.RowKey]*domain.RankFeatures {
	books := buildBooks(entries)

	byPlayer := make(map[string][]*domain.MatchRow)
	for _, r := range rows {
		byPlayer[r.PlayerCode] = append(byPlayer[r.PlayerCode], r)
	}

	out := make(map[domain.RowKey]*domain.RankFeatures, len(rows))
	for player, seq := range byPlayer {
		e.walkPlayer(player, seq, books[player], players[player], out)
	}
	return out
}

func (e *Engine) walkPlayer(player string, seq []*domain.MatchRow, b *book, p *domain.Player, out map[domain.RowKey]*domain.RankFeatures) {
	best, haveBest := archiveSeed(b, p)

	for _, r := range seq {
		f := &domain.RankFeatures{MatchID: r.MatchID, PlayerCode: player}

		rank, ok := b.asOf(r.TournamentStart.AddDate(0, 0, -1))
		if ok {
			v := rank
			f.Rank = &v
		}
		f.Rank4w, f.Trend4w, f.Category4w = e.window(b, r.TournamentStart, e.cfg.ShortDays, e.cfg.ShortCoef, f.Rank)
		f.Rank12w, f.Trend12w, f.Category12w = e.window(b, r.TournamentStart, e.cfg.LongDays, e.cfg.LongCoef, f.Rank)

		if ok && (!haveBest || rank < best) {
			best, haveBest = rank, true
		}
		if haveBest {
			cb := best
			f.CareerBest = &cb
			if ok {
				pd := math.Log1p(float64(rank - best))
				f.PeakDistanceLog = &pd
			}
		}

		out[r.Key()] = f
	}
}

// window joins the rank N days back and categorizes the trend against
// the adaptive threshold max(1, ceil(coef * max(now, then))).
func (e *Engine) window(b *book, start time.Time, days int, coef float64, now *int) (*int, *int, domain.TrendCategory) {
	past, ok := b.asOf(start.AddDate(0, 0, -days))
	if !ok {
		return nil, nil, ""
	}
	pv := past
	if now == nil {
		return &pv, nil, ""
	}

	trend := past - *now // positive = improvement, lower rank numbers are better
	worst := *now
	if past > worst {
		worst = past
	}
	threshold := int(math.Max(1, math.Ceil(coef*float64(worst))))

	category := domain.TrendStable
	switch {
	case trend >= threshold:
		category = domain.TrendImproving
	case trend <= -threshold:
		category = domain.TrendDeclining
	}
	tv := trend
	return &pv, &tv, category
}

// archiveSeed returns the best pre-1999 rank within the player's
// documented professional window, when one exists.
func archiveSeed(b *book, p *domain.Player) (int, bool) {
	if b == nil || p == nil || p.TurnedPro <= 0 || p.TurnedPro >= 1999 {
		return 0, false
	}
	best, found := 0, false
	for i, d := range b.dates {
		if y := d.Year(); y >= p.TurnedPro && y <= 1998 {
			if !found || b.ranks[i] < best {
				best, found = b.ranks[i], true
			}
		}
	}
	return best, found
}

// buildBooks groups and sorts the snapshots per player.
func buildBooks(entries []*domain.RankingEntry) map[string]*book {
	books := make(map[string]*book)
	for _, e := range entries {
		b := books[e.PlayerCode]
		if b == nil {
			b = &book{}
			books[e.PlayerCode] = b
		}
		b.dates = append(b.dates, e.Date)
		b.ranks = append(b.ranks, e.Rank)
	}
	for _, b := range books {
		idx := make([]int, len(b.dates))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return b.dates[idx[i]].Before(b.dates[idx[j]]) })
		dates := make([]time.Time, len(idx))
		ranks := make([]int, len(idx))
		for i, j := range idx {
			dates[i], ranks[i] = b.dates[j], b.ranks[j]
		}
		b.dates, b.ranks = dates, ranks
	}
	return books
}

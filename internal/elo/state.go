// Package elo maintains per-player rating state over the canonically
// ordered match timeline. Updates are round-safe: every match in one
// tournament round reads the same pre-round snapshot, and deltas commit
// only after the whole round is processed.
package elo

import "math"

// Config holds the rating update parameters.
type Config struct {
	InitialRating      float64 // starting rating for unseen players
	KBase              float64 // K factor after graduation
	KProvisional       float64 // K factor below ProvisionalMatches
	ProvisionalMatches int     // match count threshold for provisional K
	RetirementFactor   float64 // delta multiplier for retirement endings

	// Walkovers contribute zero delta and do not increment match counts:
	// no tennis was played, so the match carries no evidence toward
	// provisional-K graduation.
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		InitialRating:      1500,
		KBase:              20,
		KProvisional:       40,
		ProvisionalMatches: 20,
		RetirementFactor:   0.5,
	}
}

// Outcome is one completed match feeding a state update.
type Outcome struct {
	Winner     string
	Loser      string
	Retirement bool
	Walkover   bool
}

// Delta is a pending rating change: Amount is added to the winner and
// subtracted from the loser once committed.
type Delta struct {
	Winner     string
	Loser      string
	Amount     float64
	CountMatch bool // false for walkovers
}

// State is one rating map plus per-player match counts. One instance
// exists for the general rating and one per canonical surface; a State
// is owned by a single sequential pass and is not safe for concurrent use.
type State struct {
	cfg     Config
	ratings map[string]float64
	counts  map[string]int
}

// NewState creates an empty rating state.
func NewState(cfg Config) *State {
	return &State{
		cfg:     cfg,
		ratings: make(map[string]float64),
		counts:  make(map[string]int),
	}
}

// Rating returns the player's current rating, InitialRating if unseen.
func (s *State) Rating(code string) float64 {
	if r, ok := s.ratings[code]; ok {
		return r
	}
	return s.cfg.InitialRating
}

// MatchCount returns the player's completed-match count.
func (s *State) MatchCount(code string) int {
	return s.counts[code]
}

// Provisional reports whether the player is still on the provisional K.
func (s *State) Provisional(code string) bool {
	return s.counts[code] < s.cfg.ProvisionalMatches
}

// Expected returns the logistic expected score of the first rating
// against the second: 1 / (1 + 10^(-(a-b)/400)).
func Expected(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, -(a-b)/400))
}

// kFor returns the K factor for one player at their current match count.
func (s *State) kFor(code string) float64 {
	if s.Provisional(code) {
		return s.cfg.KProvisional
	}
	return s.cfg.KBase
}

// RoundDeltas computes the pending deltas for a batch of outcomes against
// the current snapshot without mutating it. All outcomes of one tournament
// round must pass through a single call so that no result leaks into a
// simultaneous match's pre-rating.
func (s *State) RoundDeltas(outcomes []Outcome) []Delta {
	deltas := make([]Delta, 0, len(outcomes))
	for _, o := range outcomes {
		k := math.Max(s.kFor(o.Winner), s.kFor(o.Loser))

		var amount float64
		switch {
		case o.Walkover:
			amount = 0
		case o.Retirement:
			amount = k * s.cfg.RetirementFactor * (1 - Expected(s.Rating(o.Winner), s.Rating(o.Loser)))
		default:
			amount = k * (1 - Expected(s.Rating(o.Winner), s.Rating(o.Loser)))
		}

		deltas = append(deltas, Delta{
			Winner:     o.Winner,
			Loser:      o.Loser,
			Amount:     amount,
			CountMatch: !o.Walkover,
		})
	}
	return deltas
}

// Commit applies previously computed deltas and count increments.
func (s *State) Commit(deltas []Delta) {
	for _, d := range deltas {
		s.ratings[d.Winner] = s.Rating(d.Winner) + d.Amount
		s.ratings[d.Loser] = s.Rating(d.Loser) - d.Amount
		if d.CountMatch {
			s.counts[d.Winner]++
			s.counts[d.Loser]++
		}
	}
}

// ApplySequential computes and commits one outcome immediately. Used only
// for the pre-1999 bulk seed, where round-resolution ordering ambiguity
// is accepted.
func (s *State) ApplySequential(o Outcome) {
	s.Commit(s.RoundDeltas([]Outcome{o}))
}

package progressive

import (
	"math"

	"atp-panel-lab/internal/domain"
)

const logEpsilon = 1e-6

// Config holds the averager parameters.
type Config struct {
	MinSamples int // prior non-missing observations required before exposing an average
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{MinSamples: 5}
}

// Engine applies every registered family independently per grouping key.
type Engine struct {
	specs []Spec
}

// NewEngine creates an Engine over the given families.
func NewEngine(specs []Spec) *Engine {
	return &Engine{specs: specs}
}

// Compute walks each family's per-code stream over the canonically
// ordered panel. The value attached to a row is the running mean over
// strictly earlier rows; the row's own match contributes only after
// its value is emitted.
func (e *Engine) Compute(rows []*domain.MatchRow) map[domain.RowKey]*domain.StatAverages {
	out := make(map[domain.RowKey]*domain.StatAverages, len(rows))
	for _, r := range rows {
		out[r.Key()] = &domain.StatAverages{
			MatchID:    r.MatchID,
			PlayerCode: r.PlayerCode,
			Values:     make(map[string]*float64, len(e.specs)+4),
		}
	}

	for _, sp := range e.specs {
		e.computeFamily(sp, rows, out)
	}

	for _, v := range out {
		derive(v.Values)
	}
	return out
}

type acc struct {
	sum   float64
	count int
}

// computeFamily folds one family over its grouping-key streams.
// RolePlayer groups by the row's player code, RoleOpponent by the
// opponent code, so both sides of a match advance the same personal
// stream.
func (e *Engine) computeFamily(sp Spec, rows []*domain.MatchRow, out map[domain.RowKey]*domain.StatAverages) {
	states := make(map[string]*acc)

	for _, r := range rows {
		code := r.PlayerCode
		if sp.Role == RoleOpponent {
			code = r.OpponentCode
		}
		st := states[code]
		if st == nil {
			st = &acc{}
			states[code] = st
		}

		if st.count > 0 && st.count >= sp.MinSamples {
			v := st.sum / float64(st.count)
			out[r.Key()].Values[sp.Name] = &v
		}

		if rate, ok := sp.Extract(r); ok {
			st.sum += rate
			st.count++
		}
	}
}

// derive fills the columns computed from other averages: serve
// efficiency and the player-vs-opponent log ratios.
func derive(v map[string]*float64) {
	if a, b := v["first_serve_win_pct_avg"], v["service_games_win_pct_avg"]; a != nil && b != nil && *b != 0 {
		r := *a / *b
		v["serve_efficiency"] = &r
	}
	for _, name := range []string{"return_pts_win_pct", "service_games_win_pct", "total_pts_win_pct"} {
		a, b := v[name+"_avg"], v["opp_"+name+"_avg"]
		if a == nil || b == nil {
			continue
		}
		r := math.Log(*a+logEpsilon) - math.Log(*b+logEpsilon)
		v[name+"_log_ratio"] = &r
	}
}

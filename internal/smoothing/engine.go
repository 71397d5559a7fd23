// Package smoothing shrinks volatile derived columns toward class
// priors, weighted by each player's prior-match exposure. It is the
// final enrichment stage; missing observations collapse to the prior
// and are recorded in the row's was-NA map.
package smoothing

import "atp-panel-lab/internal/domain"

// Class selects a column's prior and shrinkage strength.
type Class int

const (
	ClassProportion Class = iota // bounded [0,1], prior pulled toward the 0.5 midpoint
	ClassLogRatio                // centered at 0
	ClassMean                    // unbounded, centered at the empirical global mean
)

// Column is one smoothed column. Shared columns mix both players'
// histories, so their exposure is the lesser of the two match counts.
type Column struct {
	Name   string
	Class  Class
	Shared bool
}

// DefaultColumns returns the production column list over the
// progressive-averager outputs.
func DefaultColumns() []Column {
	proportions := []string{
		"first_serve_pct_avg", "first_serve_win_pct_avg", "second_serve_win_pct_avg",
		"ace_rate_avg", "double_fault_rate_avg",
		"bp_saved_pct_avg", "bp_converted_pct_avg",
		"return_pts_win_pct_avg", "service_games_win_pct_avg",
		"return_games_win_pct_avg", "total_pts_win_pct_avg", "tiebreak_win_pct_avg",
	}
	logRatios := []string{
		"return_pts_win_pct_log_ratio", "service_games_win_pct_log_ratio", "total_pts_win_pct_log_ratio",
	}

	cols := make([]Column, 0, len(proportions)+len(logRatios)+1)
	for _, name := range proportions {
		cols = append(cols, Column{Name: name, Class: ClassProportion})
	}
	for _, name := range logRatios {
		cols = append(cols, Column{Name: name, Class: ClassLogRatio, Shared: true})
	}
	cols = append(cols, Column{Name: "serve_efficiency", Class: ClassMean})
	return cols
}

// Config holds the per-class pseudo-counts.
type Config struct {
	ProportionAlpha float64
	LogRatioAlpha   float64
	MeanAlpha       float64
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		ProportionAlpha: 20,
		LogRatioAlpha:   30,
		MeanAlpha:       10,
	}
}

// Engine smooths a fixed column list in place.
type Engine struct {
	cfg     Config
	columns []Column
}

// NewEngine creates an Engine over the given columns.
func NewEngine(cfg Config, columns []Column) *Engine {
	return &Engine{cfg: cfg, columns: columns}
}

// Smooth rewrites every registered column on every row:
// value = beta*observed + (1-beta)*prior with beta = n/(n+alpha),
// where n is the exposure and a missing observation stands in as the
// prior itself. Pre-smoothing missingness lands in row.WasNA.
func (e *Engine) Smooth(rows []*domain.FeatureRow) {
	priors := e.priors(rows)
	pair := pairIndex(rows)

	for _, r := range rows {
		if r.WasNA == nil {
			r.WasNA = make(map[string]bool, len(e.columns))
		}
		for _, col := range e.columns {
			prior := priors[col.Name]
			n := e.exposure(r, col, pair)
			beta := n / (n + e.alpha(col.Class))

			observed, present := value(r, col.Name)
			r.WasNA[col.Name] = !present
			if !present {
				observed = prior
			}
			shrunk := beta*observed + (1-beta)*prior
			r.Stats.Values[col.Name] = &shrunk
		}
	}
}

// priors computes each column's prior from the observed global mean.
func (e *Engine) priors(rows []*domain.FeatureRow) map[string]float64 {
	priors := make(map[string]float64, len(e.columns))
	for _, col := range e.columns {
		sum, count := 0.0, 0
		for _, r := range rows {
			if v, ok := value(r, col.Name); ok {
				sum += v
				count++
			}
		}
		switch col.Class {
		case ClassProportion:
			// Pull the empirical mean halfway toward the 0.5 midpoint
			mean := 0.5
			if count > 0 {
				mean = sum / float64(count)
			}
			priors[col.Name] = (mean + 0.5) / 2
		case ClassLogRatio:
			priors[col.Name] = 0
		case ClassMean:
			if count > 0 {
				priors[col.Name] = sum / float64(count)
			}
		}
	}
	return priors
}

// exposure is the prior-match count backing the observation; shared
// columns take the lesser of the two players' counts.
func (e *Engine) exposure(r *domain.FeatureRow, col Column, pair map[domain.RowKey]*domain.FeatureRow) float64 {
	n := r.Elo.MatchCount
	if col.Shared {
		if opp := pair[domain.RowKey{MatchID: r.MatchID, PlayerCode: r.OpponentCode}]; opp != nil && opp.Elo.MatchCount < n {
			n = opp.Elo.MatchCount
		}
	}
	return float64(n)
}

func (e *Engine) alpha(c Class) float64 {
	switch c {
	case ClassProportion:
		return e.cfg.ProportionAlpha
	case ClassLogRatio:
		return e.cfg.LogRatioAlpha
	default:
		return e.cfg.MeanAlpha
	}
}

func value(r *domain.FeatureRow, name string) (float64, bool) {
	if r.Stats.Values == nil {
		return 0, false
	}
	if v := r.Stats.Values[name]; v != nil {
		return *v, true
	}
	return 0, false
}

func pairIndex(rows []*domain.FeatureRow) map[domain.RowKey]*domain.FeatureRow {
	idx := make(map[domain.RowKey]*domain.FeatureRow, len(rows))
	for _, r := range rows {
		idx[domain.RowKey{MatchID: r.MatchID, PlayerCode: r.PlayerCode}] = r
	}
	return idx
}

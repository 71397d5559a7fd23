package elo

import (
	"math"
	"sort"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/ordering"
)

// Stats counts data-quality events observed during a pass.
type Stats struct {
	RoundsCommitted  int
	MatchesUpdated   int
	MalformedMatches int // match ids without exactly two rows; skipped for updates
	UnknownSurfaces  int // rows emitting neutral surface outputs
}

// Engine computes pre-match Elo features over a canonically ordered panel.
// It owns one general state and one state per canonical surface.
type Engine struct {
	cfg     Config
	general *State
	surface map[domain.Surface]*State
}

// NewEngine creates an Engine with fresh states.
func NewEngine(cfg Config) *Engine {
	surface := make(map[domain.Surface]*State, len(domain.Surfaces))
	for _, s := range domain.Surfaces {
		surface[s] = NewState(cfg)
	}
	return &Engine{
		cfg:     cfg,
		general: NewState(cfg),
		surface: surface,
	}
}

// SeedFromArchive runs the single forward pass over pre-1999 results.
// The archive is ordered by (date, round ordinal) before folding; this
// pass is not round-batched by design.
func (e *Engine) SeedFromArchive(archive []*domain.ArchiveMatch) {
	sorted := make([]*domain.ArchiveMatch, len(archive))
	copy(sorted, archive)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := ordering.KeyOfArchive(sorted[i]), ordering.KeyOfArchive(sorted[j])
		if c := ki.Compare(kj); c != 0 {
			return c < 0
		}
		return sorted[i].TournamentID < sorted[j].TournamentID
	})

	for _, m := range sorted {
		o := Outcome{Winner: m.WinnerCode, Loser: m.LoserCode}
		e.general.ApplySequential(o)
		if m.Surface.Known() {
			e.surface[m.Surface].ApplySequential(o)
		}
	}
}

// Compute walks the panel in canonical order and emits pre-match features
// for every row. Rows must already be sorted by ordering.SortRows; state
// updates commit once per (tournament, round) batch.
func (e *Engine) Compute(rows []*domain.MatchRow) (map[domain.RowKey]*domain.EloFeatures, *Stats) {
	features := make(map[domain.RowKey]*domain.EloFeatures, len(rows))
	stats := &Stats{}

	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && sameRound(rows[start], rows[end]) {
			end++
		}
		e.processRound(rows[start:end], features, stats)
		start = end
	}

	return features, stats
}

// processRound is the two-pass protocol: pass 1 emits every row's
// features from the round-start snapshot and collects outcomes; pass 2
// commits the accumulated deltas.
func (e *Engine) processRound(batch []*domain.MatchRow, features map[domain.RowKey]*domain.EloFeatures, stats *Stats) {
	rowsPerMatch := make(map[string]int, len(batch))
	for _, r := range batch {
		rowsPerMatch[r.MatchID]++
	}

	general := make([]Outcome, 0, len(batch)/2)
	bySurface := make(map[domain.Surface][]Outcome)

	for _, r := range batch {
		features[r.Key()] = e.rowFeatures(r, stats)

		if rowsPerMatch[r.MatchID] != 2 {
			continue
		}
		if !r.Win() {
			continue // one outcome per match, taken from the winner row
		}

		o := Outcome{Winner: r.PlayerCode, Loser: r.OpponentCode, Retirement: r.Retirement, Walkover: r.Walkover}
		general = append(general, o)
		if r.Surface.Known() {
			bySurface[r.Surface] = append(bySurface[r.Surface], o)
		}
	}

	for _, n := range rowsPerMatch {
		if n != 2 {
			stats.MalformedMatches++
		}
	}

	e.general.Commit(e.general.RoundDeltas(general))
	for s, outcomes := range bySurface {
		e.surface[s].Commit(e.surface[s].RoundDeltas(outcomes))
	}

	stats.RoundsCommitted++
	stats.MatchesUpdated += len(general)
}

// rowFeatures emits one row's pre-match values from the current snapshot.
func (e *Engine) rowFeatures(r *domain.MatchRow, stats *Stats) *domain.EloFeatures {
	f := &domain.EloFeatures{
		MatchID:    r.MatchID,
		PlayerCode: r.PlayerCode,
	}

	f.Elo = e.general.Rating(r.PlayerCode)
	f.OpponentElo = e.general.Rating(r.OpponentCode)
	f.WinProb = Expected(f.Elo, f.OpponentElo)
	f.EloDiff = f.Elo - f.OpponentElo
	f.MatchCount = e.general.MatchCount(r.PlayerCode)
	f.Provisional = e.general.Provisional(r.PlayerCode)

	if r.Surface.Known() {
		st := e.surface[r.Surface]
		f.SurfaceElo = st.Rating(r.PlayerCode)
		f.OpponentSurfaceElo = st.Rating(r.OpponentCode)
		f.SurfaceWinProb = Expected(f.SurfaceElo, f.OpponentSurfaceElo)
		f.SurfaceEloDiff = f.SurfaceElo - f.OpponentSurfaceElo
		f.Specialization = f.SurfaceElo - f.Elo
		f.SpecializationLogRatio = math.Log(f.SurfaceElo / f.Elo)
	} else {
		// Unknown surface: neutral outputs, no surface state involved
		f.SurfaceElo = e.cfg.InitialRating
		f.OpponentSurfaceElo = e.cfg.InitialRating
		f.SurfaceWinProb = 0.5
		f.SurfaceEloDiff = 0
		f.Specialization = 0
		f.SpecializationLogRatio = 0
		stats.UnknownSurfaces++
	}

	return f
}

// sameRound reports whether two canonical-order neighbors belong to the
// same (tournament, round) batch.
func sameRound(a, b *domain.MatchRow) bool {
	return a.TournamentID == b.TournamentID &&
		ordering.StageOrdinal(a.Round) == ordering.StageOrdinal(b.Round)
}

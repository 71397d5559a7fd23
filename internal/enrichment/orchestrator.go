// Package enrichment coordinates the full feature pipeline over staged
// inputs: panel build → form → elo → h2h → progressive averages →
// travel → ranking → join → smoothing → QA → export.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/elo"
	"atp-panel-lab/internal/form"
	"atp-panel-lab/internal/h2h"
	"atp-panel-lab/internal/observability"
	"atp-panel-lab/internal/panel"
	"atp-panel-lab/internal/progressive"
	"atp-panel-lab/internal/qa"
	"atp-panel-lab/internal/ranking"
	"atp-panel-lab/internal/smoothing"
	"atp-panel-lab/internal/storage"
	"atp-panel-lab/internal/travel"
)

// Config bundles every stage's parameters.
type Config struct {
	Endings     panel.EndingTokens
	Form        form.Config
	Elo         elo.Config
	H2H         h2h.Config
	Progressive progressive.Config
	Travel      travel.Config
	Ranking     ranking.Config
	Smoothing   smoothing.Config
	Columns     []smoothing.Column
	Sufficiency qa.SufficiencyConfig
}

// DefaultConfig returns the production parameters for every stage.
func DefaultConfig() Config {
	return Config{
		Endings:     panel.DefaultEndingTokens(),
		Form:        form.DefaultConfig(),
		Elo:         elo.DefaultConfig(),
		H2H:         h2h.DefaultConfig(),
		Progressive: progressive.DefaultConfig(),
		Travel:      travel.DefaultConfig(),
		Ranking:     ranking.DefaultConfig(),
		Smoothing:   smoothing.DefaultConfig(),
		Columns:     smoothing.DefaultColumns(),
		Sufficiency: qa.DefaultSufficiencyConfig(),
	}
}

// Orchestrator runs the enrichment chain end to end.
// The staging stores are required; the feature-row sink and metrics are
// optional, a nil sink skips the export phase.
type Orchestrator struct {
	tournamentStore storage.TournamentStore
	matchStore      storage.RawMatchStore
	archiveStore    storage.ArchiveMatchStore
	rankingStore    storage.RankingStore
	playerStore     storage.PlayerStore
	featureRowStore storage.FeatureRowStore

	cfg     Config
	log     *logrus.Logger
	metrics *observability.Metrics
}

// Options contains configuration for creating an Orchestrator.
type Options struct {
	TournamentStore storage.TournamentStore
	MatchStore      storage.RawMatchStore
	ArchiveStore    storage.ArchiveMatchStore
	RankingStore    storage.RankingStore
	PlayerStore     storage.PlayerStore
	FeatureRowStore storage.FeatureRowStore

	Config  Config
	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

// New creates a new Orchestrator. A zero Config is replaced by
// DefaultConfig; a nil logger falls back to the logrus standard logger.
func New(opts Options) *Orchestrator {
	cfg := opts.Config
	if len(cfg.Columns) == 0 {
		cfg = DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orchestrator{
		tournamentStore: opts.TournamentStore,
		matchStore:      opts.MatchStore,
		archiveStore:    opts.ArchiveStore,
		rankingStore:    opts.RankingStore,
		playerStore:     opts.PlayerStore,
		featureRowStore: opts.FeatureRowStore,
		cfg:             cfg,
		log:             log,
		metrics:         opts.Metrics,
	}
}

// RunResult contains results from one pipeline execution.
type RunResult struct {
	MatchesIn      int
	RowsBuilt      int
	RowsEnriched   int
	RowsExported   int
	ArchiveMatches int

	Build        *panel.BuildStats
	EloStats     *elo.Stats
	Verification *qa.Report
	Sufficiency  *qa.SufficiencyResult

	Rows   []*domain.FeatureRow
	Errors []string
}

// stagingData is the full staged input set for one run.
type stagingData struct {
	tournaments []*domain.Tournament
	raws        []*domain.RawMatch
	archive     []*domain.ArchiveMatch
	rankings    []*domain.RankingEntry
	players     map[string]*domain.Player
}

// Run executes the full pipeline. It fails only structurally (store
// errors, broken panel join); data-quality findings land in the result
// instead of aborting the run.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	in, err := o.loadStaging(ctx)
	if err != nil {
		o.recordStage("load", "error", 0)
		return nil, fmt.Errorf("load staging: %w", err)
	}
	result.ArchiveMatches = len(in.archive)
	o.log.WithFields(logrus.Fields{
		"tournaments": len(in.tournaments),
		"matches":     len(in.raws),
		"archive":     len(in.archive),
		"rankings":    len(in.rankings),
		"players":     len(in.players),
	}).Info("staging loaded")

	rows, buildStats, err := o.buildPanel(in)
	if err != nil {
		return nil, fmt.Errorf("build panel: %w", err)
	}
	result.MatchesIn = buildStats.MatchesIn
	result.RowsBuilt = buildStats.RowsBuilt
	result.Build = buildStats
	if len(rows) == 0 {
		o.log.Warn("panel is empty, nothing to enrich")
		return result, nil
	}

	joined, eloStats := o.enrich(rows, in)
	result.EloStats = eloStats
	result.RowsEnriched = len(joined)
	result.Rows = joined
	if o.metrics != nil {
		o.metrics.RowsEnriched.Add(float64(len(joined)))
		o.metrics.RecordDataQuality(observability.IssueMalformedPair, eloStats.MalformedMatches)
	}

	verification, sufficiency := o.verify(joined, len(in.archive))
	result.Verification = verification
	result.Sufficiency = sufficiency
	result.Errors = append(result.Errors, sufficiency.Errors...)

	exported, err := o.export(ctx, joined)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.RowsExported = exported

	if o.metrics != nil {
		o.metrics.LastSuccessfulRun.SetToCurrentTime()
	}
	o.log.WithFields(logrus.Fields{
		"matches_in":    result.MatchesIn,
		"rows_built":    result.RowsBuilt,
		"rows_enriched": result.RowsEnriched,
		"rows_exported": result.RowsExported,
		"checks_passed": verification.Pass && sufficiency.AllPass,
	}).Info("pipeline completed")

	return result, nil
}

// loadStaging reads the full staged input set in canonical store order.
func (o *Orchestrator) loadStaging(ctx context.Context) (*stagingData, error) {
	in := &stagingData{players: make(map[string]*domain.Player)}

	var err error
	if in.tournaments, err = o.tournamentStore.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("tournaments: %w", err)
	}
	if in.raws, err = o.matchStore.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("raw matches: %w", err)
	}
	if o.archiveStore != nil {
		if in.archive, err = o.archiveStore.GetAll(ctx); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
	}
	if o.rankingStore != nil {
		if in.rankings, err = o.rankingStore.GetAll(ctx); err != nil {
			return nil, fmt.Errorf("rankings: %w", err)
		}
	}
	if o.playerStore != nil {
		players, err := o.playerStore.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("players: %w", err)
		}
		for _, p := range players {
			in.players[p.Code] = p
		}
	}
	return in, nil
}

// buildPanel explodes raw matches into the two-row panel and records
// the builder's data-quality counts.
func (o *Orchestrator) buildPanel(in *stagingData) ([]*domain.MatchRow, *panel.BuildStats, error) {
	start := time.Now()
	rows, stats, err := panel.NewBuilder(o.cfg.Endings).Build(in.raws, in.tournaments)
	if err != nil {
		o.recordStage("panel", "error", time.Since(start).Seconds())
		return nil, nil, err
	}
	o.recordStage("panel", "ok", time.Since(start).Seconds())

	if o.metrics != nil {
		o.metrics.RowsBuilt.Add(float64(stats.RowsBuilt))
		o.metrics.RecordDataQuality(observability.IssueUnknownSurface, stats.UnknownSurfaces)
		o.metrics.RecordDataQuality(observability.IssueUnknownRound, stats.UnknownRounds)
	}
	o.log.WithFields(logrus.Fields{
		"matches_in":         stats.MatchesIn,
		"rows_built":         stats.RowsBuilt,
		"missing_tournament": stats.MissingTournament,
		"byes":               stats.ByeMatches,
		"duplicates":         stats.DuplicateMatches,
	}).Info("panel built")

	return rows, stats, nil
}

// enrich runs every engine over the canonical panel and joins the
// per-stage outputs into smoothed feature rows.
func (o *Orchestrator) enrich(rows []*domain.MatchRow, in *stagingData) ([]*domain.FeatureRow, *elo.Stats) {
	var formFeats map[domain.RowKey]*domain.FormFeatures
	o.timed("form", func() {
		formFeats = form.NewEngine(o.cfg.Form).Compute(rows, in.archive)
	})

	var eloFeats map[domain.RowKey]*domain.EloFeatures
	var eloStats *elo.Stats
	o.timed("elo", func() {
		engine := elo.NewEngine(o.cfg.Elo)
		engine.SeedFromArchive(in.archive)
		eloFeats, eloStats = engine.Compute(rows)
	})

	var h2hFeats map[domain.RowKey]*domain.H2HFeatures
	o.timed("h2h", func() {
		h2hFeats = h2h.NewEngine(o.cfg.H2H).Compute(rows, in.archive)
	})

	var statFeats map[domain.RowKey]*domain.StatAverages
	o.timed("progressive", func() {
		specs := progressive.Registry(o.cfg.Progressive.MinSamples)
		statFeats = progressive.NewEngine(specs).Compute(rows)
	})

	var travelFeats map[domain.RowKey]*domain.TravelFeatures
	o.timed("travel", func() {
		travelFeats = travel.NewEngine(o.cfg.Travel).Compute(rows, in.archive, in.players)
	})

	var rankFeats map[domain.RowKey]*domain.RankFeatures
	o.timed("ranking", func() {
		rankFeats = ranking.NewEngine(o.cfg.Ranking).Compute(rows, in.rankings, in.players)
	})

	joined := make([]*domain.FeatureRow, 0, len(rows))
	for _, r := range rows {
		key := r.Key()
		fr := &domain.FeatureRow{
			MatchID:         r.MatchID,
			PlayerCode:      r.PlayerCode,
			OpponentCode:    r.OpponentCode,
			TournamentID:    r.TournamentID,
			TournamentName:  r.TournamentName,
			TournamentStart: r.TournamentStart.Unix(),
			Surface:         r.Surface,
			Round:           r.Round,
			MatchOrder:      r.MatchOrder,
			Result:          r.Result,
			Retirement:      r.Retirement,
			Walkover:        r.Walkover,
			Stats: domain.StatAverages{
				MatchID:    r.MatchID,
				PlayerCode: r.PlayerCode,
				Values:     make(map[string]*float64),
			},
		}
		if f := formFeats[key]; f != nil {
			fr.Form = *f
		}
		if f := eloFeats[key]; f != nil {
			fr.Elo = *f
		}
		if f := h2hFeats[key]; f != nil {
			fr.H2H = *f
		}
		if f := statFeats[key]; f != nil {
			for name, v := range f.Values {
				fr.Stats.Values[name] = v
			}
		}
		if f := travelFeats[key]; f != nil {
			fr.Travel = *f
		}
		if f := rankFeats[key]; f != nil {
			fr.Ranking = *f
		}
		joined = append(joined, fr)
	}

	o.timed("smoothing", func() {
		smoothing.NewEngine(o.cfg.Smoothing, o.cfg.Columns).Smooth(joined)
	})

	return joined, eloStats
}

// verify runs the invariant verifier and the sufficiency gate.
func (o *Orchestrator) verify(rows []*domain.FeatureRow, archiveCount int) (*qa.Report, *qa.SufficiencyResult) {
	var report *qa.Report
	var sufficiency *qa.SufficiencyResult
	o.timed("qa", func() {
		report = qa.NewVerifier(columnNames(o.cfg.Columns)).Verify(rows)
		sufficiency = qa.NewSufficiencyChecker(o.cfg.Sufficiency).Check(rows, archiveCount)
	})

	if !report.Pass {
		o.log.WithField("issues", len(report.Issues)).Warn("invariant verification failed")
	}
	if !sufficiency.AllPass {
		o.log.Warn("sufficiency gate failed")
	}
	return report, sufficiency
}

// export writes the enriched panel to the feature-row sink. A duplicate
// key means the panel was already exported by an identical earlier run;
// the run stays successful with zero rows exported.
func (o *Orchestrator) export(ctx context.Context, rows []*domain.FeatureRow) (int, error) {
	if o.featureRowStore == nil {
		return 0, nil
	}

	start := time.Now()
	if err := o.featureRowStore.InsertBulk(ctx, rows); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			o.recordStage("export", "ok", time.Since(start).Seconds())
			o.log.Warn("feature rows already exported, skipping")
			return 0, nil
		}
		o.recordStage("export", "error", time.Since(start).Seconds())
		return 0, err
	}
	o.recordStage("export", "ok", time.Since(start).Seconds())

	if o.metrics != nil {
		o.metrics.FeatureRowsExported.Add(float64(len(rows)))
	}
	return len(rows), nil
}

// timed runs one non-failing stage and records its duration.
func (o *Orchestrator) timed(stage string, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	o.recordStage(stage, "ok", elapsed.Seconds())
	o.log.WithFields(logrus.Fields{"stage": stage, "elapsed": elapsed.String()}).Debug("stage complete")
}

func (o *Orchestrator) recordStage(stage, status string, seconds float64) {
	if o.metrics != nil {
		o.metrics.RecordStage(stage, status, seconds)
	}
}

func columnNames(columns []smoothing.Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

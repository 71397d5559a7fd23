// Package main runs the enrichment pipeline once: it reads staged
// inputs, builds the player-centric panel, runs every feature engine,
// smooths, verifies, and exports the result to ClickHouse and/or a
// flat CSV.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"atp-panel-lab/internal/enrichment"
	"atp-panel-lab/internal/ingestion"
	"atp-panel-lab/internal/observability"
	"atp-panel-lab/internal/qa"
	"atp-panel-lab/internal/reporting"
	"atp-panel-lab/internal/storage"
	chstore "atp-panel-lab/internal/storage/clickhouse"
	"atp-panel-lab/internal/storage/memory"
	"atp-panel-lab/internal/storage/migrations"
	pgstore "atp-panel-lab/internal/storage/postgres"
	sqlitestore "atp-panel-lab/internal/storage/sqlite"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for staging")
	sqlitePath := flag.String("sqlite-path", "", "SQLite file path for staging")
	useMemory := flag.Bool("use-memory", false, "Use in-memory staging (pair with the CSV flags)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the feature-row sink")
	exportCSV := flag.String("export-csv", "", "Write the enriched panel to this CSV path")

	tournamentsPath := flag.String("tournaments", "", "Ingest this tournaments CSV before the run")
	matchesPath := flag.String("matches", "", "Ingest this raw matches CSV before the run")
	archivePath := flag.String("archive", "", "Ingest this pre-1999 archive CSV before the run")
	rankingsDir := flag.String("rankings-dir", "", "Ingest this ranking snapshot directory before the run")
	playersPath := flag.String("players", "", "Ingest this players CSV before the run")

	minRows := flag.Int("min-rows", 1000, "Sufficiency gate: minimum panel rows")
	minRankCoverage := flag.Float64("min-rank-coverage", 0.80, "Sufficiency gate: minimum ranked-row share")
	strict := flag.Bool("strict", false, "Exit non-zero when a QA gate fails")

	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("shutting down")
		cancel()
	}()

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		server := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.WithField("addr", *metricsAddr).Info("metrics server listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("metrics server failed")
			}
		}()
		defer server.Close()
	}

	staging, cleanupStaging, err := openStaging(ctx, *postgresDSN, *sqlitePath, *useMemory, log)
	if err != nil {
		log.WithError(err).Fatal("open staging storage")
	}
	defer cleanupStaging()

	if err := ingestCSVs(ctx, staging, csvPaths{
		tournaments: *tournamentsPath,
		matches:     *matchesPath,
		archive:     *archivePath,
		rankingsDir: *rankingsDir,
		players:     *playersPath,
	}, log); err != nil {
		log.WithError(err).Fatal("ingest csv sources")
	}

	var sink storage.FeatureRowStore
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			log.WithError(err).Fatal("open clickhouse sink")
		}
		defer conn.Close()
		sink = chstore.NewFeatureRowStore(conn)
	}

	cfg := enrichment.DefaultConfig()
	cfg.Sufficiency = qa.SufficiencyConfig{
		MinPanelRows:       *minRows,
		MinRankingCoverage: *minRankCoverage,
	}

	orchestrator := enrichment.New(enrichment.Options{
		TournamentStore: staging.tournaments,
		MatchStore:      staging.matches,
		ArchiveStore:    staging.archive,
		RankingStore:    staging.rankings,
		PlayerStore:     staging.players,
		FeatureRowStore: sink,
		Config:          cfg,
		Logger:          log,
		Metrics:         metrics,
	})

	result, err := orchestrator.Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("pipeline failed")
	}

	if *exportCSV != "" && len(result.Rows) > 0 {
		if err := writeCSV(*exportCSV, result); err != nil {
			log.WithError(err).Fatal("write export csv")
		}
		log.WithFields(logrus.Fields{"path": *exportCSV, "rows": len(result.Rows)}).Info("panel exported to csv")
	}

	for _, msg := range result.Errors {
		log.Warn(msg)
	}

	checksPassed := result.Verification != nil && result.Verification.Pass &&
		result.Sufficiency != nil && result.Sufficiency.AllPass
	log.WithFields(logrus.Fields{
		"matches_in":    result.MatchesIn,
		"rows_enriched": result.RowsEnriched,
		"rows_exported": result.RowsExported,
		"checks_passed": checksPassed,
	}).Info("pipeline run finished")

	if *strict && !checksPassed {
		os.Exit(1)
	}
}

func writeCSV(path string, result *enrichment.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := reporting.WriteFeatureCSV(f, result.Rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// stagingStores groups the five staging stores behind their interfaces.
type stagingStores struct {
	tournaments storage.TournamentStore
	matches     storage.RawMatchStore
	archive     storage.ArchiveMatchStore
	rankings    storage.RankingStore
	players     storage.PlayerStore
}

// ingestCSVs loads any configured CSV sources into staging before the
// run; flags left empty are skipped.
func ingestCSVs(ctx context.Context, s *stagingStores, paths csvPaths, log *logrus.Logger) error {
	opts := ingestion.ManagerOptions{
		TournamentStore: s.tournaments,
		MatchStore:      s.matches,
		ArchiveStore:    s.archive,
		RankingStore:    s.rankings,
		PlayerStore:     s.players,
	}
	if paths.tournaments != "" {
		opts.TournamentSource = ingestion.NewCSVTournamentSource(paths.tournaments, log)
	}
	if paths.matches != "" {
		opts.MatchSource = ingestion.NewCSVMatchSource(paths.matches, log)
	}
	if paths.archive != "" {
		opts.ArchiveSource = ingestion.NewCSVArchiveSource(paths.archive, log)
	}
	if paths.rankingsDir != "" {
		opts.RankingSource = ingestion.NewCSVRankingSource(paths.rankingsDir, log)
	}
	if paths.players != "" {
		opts.PlayerSource = ingestion.NewCSVPlayerSource(paths.players, log)
	}

	manager := ingestion.NewManager(opts)
	for _, run := range []func(context.Context) (int, error){
		manager.IngestTournaments,
		manager.IngestMatches,
		manager.IngestArchive,
		manager.IngestRankings,
		manager.IngestPlayers,
	} {
		if _, err := run(ctx); err != nil {
			return err
		}
	}
	return nil
}

type csvPaths struct {
	tournaments string
	matches     string
	archive     string
	rankingsDir string
	players     string
}

func openStaging(ctx context.Context, postgresDSN, sqlitePath string, useMemory bool, log *logrus.Logger) (*stagingStores, func(), error) {
	switch {
	case useMemory:
		return &stagingStores{
			tournaments: memory.NewTournamentStore(),
			matches:     memory.NewRawMatchStore(),
			archive:     memory.NewArchiveMatchStore(),
			rankings:    memory.NewRankingStore(),
			players:     memory.NewPlayerStore(),
		}, func() {}, nil

	case postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return &stagingStores{
			tournaments: pgstore.NewTournamentStore(pool),
			matches:     pgstore.NewRawMatchStore(pool),
			archive:     pgstore.NewArchiveMatchStore(pool),
			rankings:    pgstore.NewRankingStore(pool),
			players:     pgstore.NewPlayerStore(pool),
		}, pool.Close, nil

	case sqlitePath != "":
		db, err := sqlitestore.Open(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return &stagingStores{
			tournaments: sqlitestore.NewTournamentStore(db),
			matches:     sqlitestore.NewRawMatchStore(db),
			archive:     sqlitestore.NewArchiveMatchStore(db),
			rankings:    sqlitestore.NewRankingStore(db),
			players:     sqlitestore.NewPlayerStore(db),
		}, func() {
			if err := db.Close(); err != nil {
				log.WithError(err).Warn("close sqlite")
			}
		}, nil

	default:
		log.Fatal("one of --postgres-dsn, --sqlite-path, or --use-memory is required")
		return nil, nil, nil
	}
}
